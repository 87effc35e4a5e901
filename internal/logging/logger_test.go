package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "augustinus.log")
	l, err := New(DefaultConfig(path))
	require.NoError(t, err)

	l.Info("session started", zap.String("pane", "general"))
	l.Debug("hidden at info")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "session started", entry["message"])
	assert.Equal(t, "general", entry["pane"])
	assert.Contains(t, entry, "timestamp")
}

func TestSetLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "augustinus.log")
	l, err := New(DefaultConfig(path))
	require.NoError(t, err)
	child := l.With(zap.String("component", "test"))

	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, zapcore.DebugLevel, l.Level())
	child.Debug("now visible")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "now visible")

	assert.Error(t, l.SetLevel("loud"))
	assert.Equal(t, zapcore.DebugLevel, l.Level())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"verbose", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(Config{Level: "nope", OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")}})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info("dropped")
	assert.NoError(t, l.SetLevel("warn"))
}

func TestDevelopmentWritesConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dev.log")
	l, err := New(Config{Level: "debug", Development: true, OutputPaths: []string{path}})
	require.NoError(t, err)

	l.Debug("pane resized", zap.Int("cols", 80))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, "DEBUG")
	assert.Contains(t, line, "pane resized")
	assert.False(t, json.Valid([]byte(line)), "development output is not JSON")
}
