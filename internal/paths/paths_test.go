package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"AUGUSTINUS_HOME", "AUGUSTINUS_CONFIG", "AUGUSTINUS_LOG_FILE",
		"AUGUSTINUS_DB_PATH", "XDG_CONFIG_HOME", "XDG_STATE_HOME",
	} {
		t.Setenv(k, "")
	}
}

func TestResolve_Defaults(t *testing.T) {
	clearEnv(t)
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := Resolve()
	require.NoError(t, err)

	configDir := filepath.Join(home, ".config", AppDir)
	stateDir := filepath.Join(home, ".local", "state", AppDir)
	assert.Equal(t, configDir, p.ConfigDir)
	assert.Equal(t, filepath.Join(configDir, "config.toml"), p.ConfigFile)
	assert.Equal(t, stateDir, p.StateDir)
	assert.Equal(t, filepath.Join(stateDir, "augustinus.log"), p.LogFile)
	assert.Equal(t, filepath.Join(stateDir, "journal.db"), p.JournalDB)
}

func TestResolve_XDG(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "cfg"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))

	p, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "cfg", AppDir, "config.toml"), p.ConfigFile)
	assert.Equal(t, filepath.Join(tmp, "state", AppDir, "journal.db"), p.JournalDB)
}

func TestResolve_EnvOverrides(t *testing.T) {
	clearEnv(t)
	tmp := t.TempDir()
	t.Setenv("AUGUSTINUS_HOME", filepath.Join(tmp, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "ignored"))
	t.Setenv("AUGUSTINUS_CONFIG", filepath.Join(tmp, "custom.yaml"))
	t.Setenv("AUGUSTINUS_DB_PATH", filepath.Join(tmp, "events.db"))

	p, err := Resolve()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "home"), p.ConfigDir)
	assert.Equal(t, filepath.Join(tmp, "home"), p.StateDir)
	assert.Equal(t, filepath.Join(tmp, "custom.yaml"), p.ConfigFile)
	assert.Equal(t, filepath.Join(tmp, "home", "augustinus.log"), p.LogFile)
	assert.Equal(t, filepath.Join(tmp, "events.db"), p.JournalDB)
}

func TestEnsureStateDir(t *testing.T) {
	clearEnv(t)
	dir := filepath.Join(t.TempDir(), "a", "b")
	t.Setenv("AUGUSTINUS_HOME", dir)

	p, err := Resolve()
	require.NoError(t, err)
	require.NoError(t, p.EnsureStateDir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
