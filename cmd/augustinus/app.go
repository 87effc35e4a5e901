package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"augustinus/internal/config"
	"augustinus/internal/journal"
	"augustinus/internal/logging"
	"augustinus/internal/paths"
	"augustinus/internal/version"
	"augustinus/pkg/ptysession"
	"augustinus/pkg/sessions"
)

// errNotTerminal is returned when the dashboard is started without a TTY.
var errNotTerminal = errors.New("augustinus needs an interactive terminal on stdin and stdout")

// insideEnv is set for every program the dashboard starts.
const insideEnv = "AUGUSTINUS=1"

// ptyOptions are the spawn options for the terminal panes. work_dir is only
// read here, so changing it takes a restart.
func ptyOptions(cfg config.Config, log *zap.Logger) []ptysession.Option {
	opts := []ptysession.Option{
		ptysession.WithLogger(log),
		ptysession.WithEnv(insideEnv),
	}
	if cfg.WorkDir != "" {
		opts = append(opts, ptysession.WithDir(cfg.WorkDir))
	}
	return opts
}

// runDashboard loads configuration, starts logging and the event journal and
// runs the Bubble Tea program until the user quits.
func runDashboard(cmd *cobra.Command, flags *rootFlags) error {
	if !isatty.IsTerminal(os.Stdin.Fd()) || !isatty.IsTerminal(os.Stdout.Fd()) {
		return errNotTerminal
	}

	p, err := paths.Resolve()
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	configPath := flags.resolveConfigPath(p)
	overrides := flags.overrides(cmd)

	cfg, _, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = overrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config %s: %w", configPath, err)
	}

	if err := p.EnsureStateDir(); err != nil {
		return err
	}
	logCfg := logging.DefaultConfig(p.LogFile)
	logCfg.Level = cfg.LogLevel
	logCfg.Development = flags.devLog
	logger, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting",
		zap.String("version", version.String()),
		zap.String("config", configPath),
		zap.String("shell", cfg.Shell),
		zap.Strings("agent", cfg.AgentsCmd))

	opts := []sessions.Option{
		sessions.WithLogger(logger.Logger),
		sessions.WithSpawner(sessions.PTYSpawner(ptyOptions(cfg, logger.Logger)...)),
	}
	if j, err := journal.Open(cmd.Context(), p.JournalDB); err != nil {
		logger.Warn("event journal unavailable", zap.String("path", p.JournalDB), zap.Error(err))
	} else {
		defer j.Close()
		opts = append(opts, sessions.WithRecorder(j.Recorder()))
	}

	mgr := sessions.New(cfg.Sessions(), opts...)
	defer func() {
		if err := mgr.Close(); err != nil {
			logger.Warn("close sessions", zap.Error(err))
		}
	}()

	watcher := newConfigWatcher(configPath, logger.Logger)
	defer watcher.Close()

	m := newModel(modelDeps{
		cfg:        cfg,
		configPath: configPath,
		overrides:  overrides,
		sessions:   mgr,
		logger:     logger,
		watcher:    watcher,
	})

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run dashboard: %w", err)
	}
	logger.Info("stopped")
	return nil
}
