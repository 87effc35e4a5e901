// Package config loads and saves the augustinus configuration file.
//
// The file is TOML by default; a path ending in .yaml or .yml is read and
// written as YAML. Values are layered: defaults, then the file, then
// AUGUSTINUS_* environment variables, then command-line flags (applied by the
// caller).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"augustinus/pkg/router"
	"augustinus/pkg/sessions"
)

// FallbackShell is used when neither the config nor $SHELL names a shell.
const FallbackShell = "/bin/bash"

// Languages lists the accepted values of Config.Language.
var Languages = []string{"en", "fr", "ja"} //nolint:gochecknoglobals // fixed set

// Config is the on-disk configuration.
type Config struct {
	Language     string   `toml:"language" yaml:"language"`
	Shell        string   `toml:"shell" yaml:"shell"`
	ShellArgs    []string `toml:"shell_args,omitempty" yaml:"shell_args,omitempty"`
	WorkDir      string   `toml:"work_dir,omitempty" yaml:"work_dir,omitempty"`
	GitRepo      string   `toml:"git_repo,omitempty" yaml:"git_repo,omitempty"`
	AgentsCmd    []string `toml:"agents_cmd,omitempty" yaml:"agents_cmd,omitempty"`
	InterruptKey string   `toml:"interrupt_key,omitempty" yaml:"interrupt_key,omitempty"`
	StickyLock   bool     `toml:"sticky_lock" yaml:"sticky_lock"`
	LogLevel     string   `toml:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Language:     "en",
		Shell:        defaultShell(),
		InterruptKey: router.DefaultInterrupt,
		LogLevel:     "info",
	}
}

func defaultShell() string {
	if v := os.Getenv("SHELL"); v != "" {
		return v
	}
	return FallbackShell
}

// Load reads path on top of the defaults. A missing file is not an error:
// the defaults are returned and exists is false.
func Load(path string) (cfg Config, exists bool, err error) {
	cfg = Default()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config file
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, fmt.Errorf("read config %s: %w", path, err)
	}

	var file Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &file)
	} else {
		err = toml.Unmarshal(data, &file)
	}
	if err != nil {
		return cfg, true, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg = cfg.merge(file)
	if err := cfg.Validate(); err != nil {
		return cfg, true, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, true, nil
}

// merge overlays the non-empty fields of o onto c.
func (c Config) merge(o Config) Config {
	if o.Language != "" {
		c.Language = o.Language
	}
	if o.Shell != "" {
		c.Shell = o.Shell
	}
	if len(o.ShellArgs) > 0 {
		c.ShellArgs = o.ShellArgs
	}
	if o.WorkDir != "" {
		c.WorkDir = o.WorkDir
	}
	if o.GitRepo != "" {
		c.GitRepo = o.GitRepo
	}
	if len(o.AgentsCmd) > 0 {
		c.AgentsCmd = o.AgentsCmd
	}
	if o.InterruptKey != "" {
		c.InterruptKey = o.InterruptKey
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	c.StickyLock = o.StickyLock
	return c
}

// ApplyEnv returns c with AUGUSTINUS_SHELL, AUGUSTINUS_AGENTS_CMD and
// AUGUSTINUS_LOG_LEVEL applied. The agent command is split on whitespace.
func (c Config) ApplyEnv() Config {
	if v := os.Getenv("AUGUSTINUS_SHELL"); v != "" {
		c.Shell = v
	}
	if v := strings.Fields(os.Getenv("AUGUSTINUS_AGENTS_CMD")); len(v) > 0 {
		c.AgentsCmd = v
	}
	if v := os.Getenv("AUGUSTINUS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if !slices.Contains(Languages, c.Language) {
		return fmt.Errorf("language %q: want one of %s", c.Language, strings.Join(Languages, ", "))
	}
	if c.Shell == "" {
		return errors.New("shell must not be empty")
	}
	if c.WorkDir != "" {
		if info, err := os.Stat(c.WorkDir); err != nil || !info.IsDir() {
			return fmt.Errorf("work_dir %q is not a directory", c.WorkDir)
		}
	}
	if len(c.AgentsCmd) > 0 && c.AgentsCmd[0] == "" {
		return errors.New("agents_cmd: program must not be empty")
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log_level: %w", err)
		}
	}
	return nil
}

// Save writes c to path, creating the parent directory.
func Save(path string, c Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = toml.Marshal(c)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// LockPolicy is the router lock policy selected by StickyLock.
func (c Config) LockPolicy() router.LockPolicy {
	if c.StickyLock {
		return router.Sticky
	}
	return router.ResetOnBlur
}

// Sessions returns the programs the session manager should run.
func (c Config) Sessions() sessions.Config {
	return sessions.Config{
		Shell:     c.Shell,
		ShellArgs: slices.Clone(c.ShellArgs),
		Agent:     slices.Clone(c.AgentsCmd),
	}
}
