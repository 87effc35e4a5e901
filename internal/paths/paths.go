// Package paths resolves where augustinus keeps its config and state files.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// AppDir is the directory name used under the XDG base directories.
const AppDir = "augustinus"

// Paths holds all resolved augustinus file paths.
// Use Resolve() to populate this struct with defaults + env overrides.
type Paths struct {
	ConfigDir  string // $XDG_CONFIG_HOME/augustinus, or $AUGUSTINUS_HOME
	ConfigFile string // config.toml or AUGUSTINUS_CONFIG
	StateDir   string // $XDG_STATE_HOME/augustinus, or $AUGUSTINUS_HOME
	LogFile    string // augustinus.log or AUGUSTINUS_LOG_FILE
	JournalDB  string // journal.db or AUGUSTINUS_DB_PATH
}

// Resolve returns all augustinus paths, respecting env var overrides.
// Environment variables:
//   - AUGUSTINUS_HOME: one directory for config and state (default: XDG dirs)
//   - XDG_CONFIG_HOME: config base (default: ~/.config)
//   - XDG_STATE_HOME: state base (default: ~/.local/state)
//   - AUGUSTINUS_CONFIG: config file (default: $CONFIG_DIR/config.toml)
//   - AUGUSTINUS_LOG_FILE: log file (default: $STATE_DIR/augustinus.log)
//   - AUGUSTINUS_DB_PATH: event journal (default: $STATE_DIR/journal.db)
func Resolve() (*Paths, error) {
	configDir, stateDir, err := resolveDirs()
	if err != nil {
		return nil, err
	}

	return &Paths{
		ConfigDir:  configDir,
		ConfigFile: resolvePathWithEnv("AUGUSTINUS_CONFIG", configDir, "config.toml"),
		StateDir:   stateDir,
		LogFile:    resolvePathWithEnv("AUGUSTINUS_LOG_FILE", stateDir, "augustinus.log"),
		JournalDB:  resolvePathWithEnv("AUGUSTINUS_DB_PATH", stateDir, "journal.db"),
	}, nil
}

// EnsureStateDir creates the state directory if it does not exist.
func (p *Paths) EnsureStateDir() error {
	if err := os.MkdirAll(p.StateDir, 0o750); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	return nil
}

func resolveDirs() (configDir, stateDir string, err error) {
	if v := os.Getenv("AUGUSTINUS_HOME"); v != "" {
		return v, v, nil
	}

	configBase := os.Getenv("XDG_CONFIG_HOME")
	stateBase := os.Getenv("XDG_STATE_HOME")
	if configBase == "" || stateBase == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", fmt.Errorf("get home dir: %w", err)
		}
		if configBase == "" {
			configBase = filepath.Join(home, ".config")
		}
		if stateBase == "" {
			stateBase = filepath.Join(home, ".local", "state")
		}
	}
	return filepath.Join(configBase, AppDir), filepath.Join(stateBase, AppDir), nil
}

// resolvePathWithEnv returns the path from envKey if set, otherwise joins base + suffix.
func resolvePathWithEnv(envKey, base, suffix string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return filepath.Join(base, suffix)
}
