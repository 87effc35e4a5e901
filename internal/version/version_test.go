package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringIsSet(t *testing.T) {
	assert.NotEmpty(t, String())
}

func TestStringWithCommit(t *testing.T) {
	oldVersion, oldCommit := version, commit
	t.Cleanup(func() { version, commit = oldVersion, oldCommit })

	version, commit = "v0.3.1", "0123456789abcdef"
	assert.Equal(t, "v0.3.1 (0123456)", String())

	commit = "abc"
	assert.Equal(t, "v0.3.1 (abc)", String())

	commit = ""
	assert.Equal(t, "v0.3.1", String())
}
