// Package sessions owns the terminal session behind each interactive pane:
// which program runs there, what size its terminal is, and what happens when
// the program cannot be started.
package sessions

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"augustinus/pkg/keys"
	"augustinus/pkg/ptysession"
	"augustinus/pkg/router"
)

// DefaultAgent is run in the Agents pane when no agent command is configured.
const DefaultAgent = "codex"

// borderInset is the number of cells a pane border takes from each dimension.
const borderInset = 2

// Config selects the programs the Manager runs.
type Config struct {
	Shell     string
	ShellArgs []string
	// Agent is the agent program followed by its arguments.
	Agent []string
}

func (c Config) shell() string {
	if c.Shell == "" {
		return "/bin/sh"
	}
	return c.Shell
}

func (c Config) agent() (string, []string) {
	if len(c.Agent) == 0 || c.Agent[0] == "" {
		return DefaultAgent, nil
	}
	return c.Agent[0], c.Agent[1:]
}

// TargetSize returns the terminal size for pane: the whole screen when pane is
// fullscreen, a quarter of it otherwise, less the border. Both dimensions are
// at least 1.
func TargetSize(fullscreen, pane router.PaneID, width, height int) ptysession.Size {
	cols, rows := width/2, height/2
	if fullscreen != router.NoPane && fullscreen == pane {
		cols, rows = width, height
	}
	return ptysession.Size{
		Cols: max(cols-borderInset, 1),
		Rows: max(rows-borderInset, 1),
	}
}

// PaneStatus describes the session behind a pane.
type PaneStatus struct {
	Program   string
	SessionID string
	Size      ptysession.Size
	Running   bool
	Fallback  bool // the agent could not start and a shell runs instead
	Failed    bool // no program could be started; Running is false
}

type pane struct {
	session      Session
	applied      ptysession.Size
	fallback     bool
	exitReported bool
}

// Manager runs one session per interactive pane. It is not safe for
// concurrent use; call it from the UI goroutine.
type Manager struct {
	cfg      Config
	spawner  Spawner
	logger   *zap.Logger
	recorder Recorder

	panes map[router.PaneID]*pane

	width      int
	height     int
	fullscreen router.PaneID
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the Manager's logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithSpawner replaces the pseudo-terminal spawner.
func WithSpawner(s Spawner) Option {
	return func(m *Manager) { m.spawner = s }
}

// WithRecorder sets where lifecycle events are written.
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// New returns a Manager with no sessions. Call Start to spawn them.
func New(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		logger: zap.NewNop(),
		panes:  make(map[router.PaneID]*pane, len(router.InteractivePanes)),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.spawner == nil {
		m.spawner = PTYSpawner(ptysession.WithLogger(m.logger))
	}
	if m.recorder == nil {
		m.recorder = nopRecorder{}
	}
	return m
}

// SetConfig replaces the programs used by later Start and Respawn calls.
// Running sessions are left alone.
func (m *Manager) SetConfig(cfg Config) { m.cfg = cfg }

// Start spawns a session for every interactive pane that does not have one,
// sized for a width x height screen. Failures never abort: the agent falls
// back to a shell, and a pane whose shell fails shows the error instead.
func (m *Manager) Start(width, height int, fullscreen router.PaneID) {
	m.width, m.height, m.fullscreen = width, height, fullscreen
	for _, id := range router.InteractivePanes {
		if _, ok := m.panes[id]; ok {
			continue
		}
		m.panes[id] = m.spawnPane(id)
	}
}

func (m *Manager) spawnPane(id router.PaneID) *pane {
	size := TargetSize(m.fullscreen, id, m.width, m.height)
	p := &pane{applied: size}

	if id == router.Agents {
		program, args := m.cfg.agent()
		s, err := m.spawn(id, program, args, size)
		if err == nil {
			p.session = s
			return p
		}
		m.logger.Warn("agent unavailable, starting shell instead",
			zap.String("agent", program), zap.Error(err))
		p.fallback = true
		p.session = m.spawnShell(id, size)
		if !isPlaceholder(p.session) {
			m.record(Event{Kind: EventFallback, Pane: id, SessionID: p.session.ID(), Program: p.session.Program(), Detail: program})
			if err := p.session.SendPaste(fallbackNotice(program)); err != nil {
				m.logger.Debug("write fallback notice", zap.Error(err))
			}
		}
	} else {
		p.session = m.spawnShell(id, size)
	}

	if isPlaceholder(p.session) {
		p.exitReported = true
	}
	return p
}

func (m *Manager) spawnShell(id router.PaneID, size ptysession.Size) Session {
	shell := m.cfg.shell()
	s, err := m.spawn(id, shell, m.cfg.ShellArgs, size)
	if err != nil {
		m.logger.Error("shell unavailable", zap.String("pane", id.String()), zap.Error(err))
		return newPlaceholder(shell, err)
	}
	return s
}

func (m *Manager) spawn(id router.PaneID, program string, args []string, size ptysession.Size) (Session, error) {
	s, err := m.spawner.Spawn(program, args, size)
	if err != nil {
		m.record(Event{Kind: EventSpawnFailed, Pane: id, Program: program, Detail: err.Error()})
		return nil, err
	}
	m.logger.Info("session started",
		zap.String("pane", id.String()),
		zap.String("session", s.ID()),
		zap.String("program", program))
	m.record(Event{Kind: EventSpawn, Pane: id, SessionID: s.ID(), Program: program})
	return s, nil
}

// fallbackNotice is typed into the fallback shell so the pane explains itself.
// Single quotes in agent are closed, escaped and reopened.
func fallbackNotice(agent string) string {
	agent = strings.ReplaceAll(agent, "'", `'\''`)
	return fmt.Sprintf("echo '%s not found; install it, then restart'\n", agent)
}

// Sync resizes every session whose target size changed since the last call.
// The new size is remembered even when the resize fails, so a failing size is
// not retried every frame.
func (m *Manager) Sync(width, height int, fullscreen router.PaneID) {
	m.width, m.height, m.fullscreen = width, height, fullscreen
	for _, id := range router.InteractivePanes {
		p, ok := m.panes[id]
		if !ok {
			continue
		}
		size := TargetSize(fullscreen, id, width, height)
		if size == p.applied {
			continue
		}
		if err := p.session.Resize(size.Cols, size.Rows); err != nil {
			m.logger.Debug("resize failed", zap.String("pane", id.String()), zap.Error(err))
		}
		p.applied = size
	}
}

// Poll feeds pending output into every session's screen and returns the panes
// whose program exited since the previous call. Each exit is reported once.
func (m *Manager) Poll() []router.PaneID {
	var exited []router.PaneID
	for _, id := range router.InteractivePanes {
		p, ok := m.panes[id]
		if !ok {
			continue
		}
		p.session.Poll()
		if p.exitReported {
			continue
		}
		select {
		case <-p.session.Done():
		default:
			continue
		}
		// Drain whatever the program wrote on its way out.
		p.session.Poll()
		p.exitReported = true
		exited = append(exited, id)

		detail := ""
		if err := p.session.ExitErr(); err != nil {
			detail = err.Error()
		}
		m.logger.Info("session exited",
			zap.String("pane", id.String()),
			zap.String("session", p.session.ID()),
			zap.String("status", detail))
		m.record(Event{Kind: EventExit, Pane: id, SessionID: p.session.ID(), Program: p.session.Program(), Detail: detail})
	}
	return exited
}

// Snapshot returns the screen of pane's session. Panes without a session
// return an empty snapshot.
func (m *Manager) Snapshot(id router.PaneID) ptysession.Snapshot {
	p, ok := m.panes[id]
	if !ok {
		return ptysession.Snapshot{}
	}
	return p.session.Snapshot()
}

// Status reports on pane's session.
func (m *Manager) Status(id router.PaneID) (PaneStatus, bool) {
	p, ok := m.panes[id]
	if !ok {
		return PaneStatus{}, false
	}
	return PaneStatus{
		Program:   p.session.Program(),
		SessionID: p.session.ID(),
		Size:      p.applied,
		Running:   !p.exitReported,
		Fallback:  p.fallback,
		Failed:    isPlaceholder(p.session),
	}, true
}

// SendKey writes k to pane's session. It implements router.KeySink.
func (m *Manager) SendKey(id router.PaneID, k keys.Key) error {
	p, ok := m.panes[id]
	if !ok {
		return &ptysession.WriteError{Op: "key", Err: fmt.Errorf("pane %s: %w", id, errNoSession)}
	}
	return p.session.SendKey(k)
}

// Respawn replaces pane's session with a freshly started one, closing the
// old session first. Only interactive panes can be respawned.
func (m *Manager) Respawn(id router.PaneID) error {
	if !id.Interactive() {
		return fmt.Errorf("respawn %s: pane has no terminal", id)
	}
	if old, ok := m.panes[id]; ok {
		if err := old.session.Close(); err != nil {
			m.logger.Debug("close replaced session", zap.String("pane", id.String()), zap.Error(err))
		}
	}
	m.panes[id] = m.spawnPane(id)
	m.logger.Info("pane respawned", zap.String("pane", id.String()))
	return nil
}

// Close ends every session.
func (m *Manager) Close() error {
	var errs []error
	for _, id := range router.InteractivePanes {
		p, ok := m.panes[id]
		if !ok {
			continue
		}
		if err := p.session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s session: %w", id, err))
		}
		delete(m.panes, id)
	}
	return errors.Join(errs...)
}

var _ router.KeySink = (*Manager)(nil)
