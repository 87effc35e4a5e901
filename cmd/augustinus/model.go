package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"augustinus/internal/config"
	"augustinus/internal/gitstat"
	"augustinus/internal/logging"
	"augustinus/pkg/keys"
	"augustinus/pkg/router"
	"augustinus/pkg/sessions"
)

const (
	// tickInterval paces output polling and resize checks.
	tickInterval = 33 * time.Millisecond
	// locInterval paces the git diff refresh for the stats pane.
	locInterval = 30 * time.Second
	// footerRows are reserved below the pane grid.
	footerRows = 1
)

// tickMsg is sent by Bubble Tea on every tick interval.
type tickMsg time.Time

// locMsg carries a git diff result for the stats pane.
type locMsg struct {
	repo  string
	delta gitstat.LocDelta
	err   error
}

// tickCmd returns a command that sends a tickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// locCmd runs git diff in repo after delay.
func locCmd(repo string, delay time.Duration) tea.Cmd {
	if repo == "" {
		return nil
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		d, err := gitstat.Diff(context.Background(), repo)
		return locMsg{repo: repo, delta: d, err: err}
	})
}

// modelDeps are the collaborators the dashboard model drives.
type modelDeps struct {
	cfg        config.Config
	configPath string
	// overrides re-applies environment and flag overrides after a reload.
	overrides func(config.Config) config.Config
	sessions  *sessions.Manager
	logger    *logging.Logger
	watcher   *configWatcher
}

// Model is the Bubble Tea model for the dashboard.
type Model struct {
	router   *router.Router
	state    router.State
	sessions *sessions.Manager

	cfg        config.Config
	configPath string
	overrides  func(config.Config) config.Config
	watcher    *configWatcher
	logger     *logging.Logger

	theme Theme
	help  help.Model

	width   int
	height  int
	started bool

	status    string
	statusErr bool

	loc        *gitstat.LocDelta
	locRunning bool
}

func newModel(d modelDeps) Model {
	if d.logger == nil {
		d.logger = logging.Nop()
	}
	if d.overrides == nil {
		d.overrides = func(c config.Config) config.Config { return c }
	}
	return Model{
		router:     router.New(router.DefaultKeymap(d.cfg.InterruptKey)),
		state:      router.NewState(d.cfg.LockPolicy()),
		sessions:   d.sessions,
		cfg:        d.cfg,
		configPath: d.configPath,
		overrides:  d.overrides,
		watcher:    d.watcher,
		logger:     d.logger,
		theme:      DefaultTheme(),
		help:       help.New(),
		locRunning: d.cfg.GitRepo != "",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.watcher.Next(), locCmd(m.cfg.GitRepo, 0))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if !m.started {
			m.sessions.Start(m.width, m.gridHeight(), m.state.Fullscreen)
			m.started = true
		} else {
			m.sessions.Sync(m.width, m.gridHeight(), m.state.Fullscreen)
		}

	case tickMsg:
		m = m.poll()
		return m, tickCmd()

	case configChangedMsg:
		m = m.reloadConfig()
		cmd := tea.Batch(m.watcher.Next(), m.startLoc())
		return m, cmd

	case locMsg:
		if msg.repo != m.cfg.GitRepo {
			// The repo changed while git was running.
			m.locRunning = false
			cmd := m.startLoc()
			return m, cmd
		}
		if msg.err != nil {
			m.logger.Debug("git diff failed", zap.Error(msg.err))
			m.loc = nil
		} else {
			d := msg.delta
			m.loc = &d
		}
		return m, locCmd(m.cfg.GitRepo, locInterval)
	}

	return m, nil
}

// gridHeight is the height left for panes once the footer is drawn.
func (m Model) gridHeight() int {
	return max(m.height-footerRows, 2)
}

// startLoc begins the git diff loop if a repo is configured and no loop is
// running.
func (m *Model) startLoc() tea.Cmd {
	if m.locRunning || m.cfg.GitRepo == "" {
		if m.cfg.GitRepo == "" {
			m.loc = nil
		}
		return nil
	}
	m.locRunning = true
	return locCmd(m.cfg.GitRepo, 0)
}

// poll drains session output and keeps terminal sizes in step with the
// layout.
func (m Model) poll() Model {
	if !m.started {
		return m
	}
	for _, id := range m.sessions.Poll() {
		m.setStatus(fmt.Sprintf("%s exited; :respawn %s to restart", id, id), false)
	}
	m.sessions.Sync(m.width, m.gridHeight(), m.state.Fullscreen)
	return m
}

// handleKeyPress routes every logical key in msg through the router.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fullscreen := m.state.Fullscreen

	for _, k := range keys.FromTea(msg) {
		var res router.Result
		m.state, res = m.router.HandleKey(m.state, k, m.sessions)

		switch res.Outcome {
		case router.Quit:
			return m, tea.Quit

		case router.Forwarded:
			if res.Err != nil {
				m.logger.Debug("forward key", zap.String("pane", res.Pane.String()), zap.Error(res.Err))
			}

		case router.Submitted:
			var cmd tea.Cmd
			if m, cmd = m.runCommand(res.Command); cmd != nil {
				return m, cmd
			}

		case router.Handled:
			if m.state.CommandActive {
				m.status = ""
			}
		}
	}

	if m.started && m.state.Fullscreen != fullscreen {
		m.sessions.Sync(m.width, m.gridHeight(), m.state.Fullscreen)
	}
	return m, nil
}

// runCommand executes a submitted command line.
func (m Model) runCommand(line string) (Model, tea.Cmd) {
	c, err := parseCommand(line)
	if err != nil {
		m.setStatus(err.Error(), true)
		return m, nil
	}

	switch c.kind {
	case cmdQuit:
		return m, tea.Quit

	case cmdRespawn:
		pane := c.pane
		if pane == router.NoPane {
			pane = m.state.Focused
		}
		if !m.started {
			m.setStatus("terminals are not running yet", true)
			return m, nil
		}
		if err := m.sessions.Respawn(pane); err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("respawned %s", pane), false)

	case cmdReload:
		m = m.reloadConfig()
		cmd := m.startLoc()
		return m, cmd
	}
	return m, nil
}

// reloadConfig re-reads the config file and applies what can change while
// running: lock policy, interrupt key, log level, git repo, and the programs
// used by the next respawn.
func (m Model) reloadConfig() Model {
	cfg, _, err := config.Load(m.configPath)
	if err != nil {
		m.logger.Warn("reload config", zap.Error(err))
		m.setStatus(err.Error(), true)
		return m
	}
	cfg = m.overrides(cfg)
	if err := cfg.Validate(); err != nil {
		m.setStatus(err.Error(), true)
		return m
	}

	m.cfg = cfg
	m.state = m.state.WithPolicy(cfg.LockPolicy())
	m.router.SetKeymap(router.DefaultKeymap(cfg.InterruptKey))
	if err := m.logger.SetLevel(cfg.LogLevel); err != nil {
		m.logger.Warn("set log level", zap.Error(err))
	}
	m.sessions.SetConfig(cfg.Sessions())

	m.logger.Info("config reloaded", zap.String("path", m.configPath))
	m.setStatus("config reloaded", false)
	return m
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}
