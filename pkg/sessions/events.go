package sessions

import (
	"go.uber.org/zap"

	"augustinus/pkg/router"
)

// EventKind names a session lifecycle event.
type EventKind string

const (
	EventSpawn       EventKind = "session_spawn"
	EventSpawnFailed EventKind = "session_spawn_failed"
	EventFallback    EventKind = "session_fallback"
	EventExit        EventKind = "session_exit"
)

// Event is one lifecycle transition of a pane's session.
type Event struct {
	Kind      EventKind
	Pane      router.PaneID
	SessionID string
	Program   string
	Detail    string // error text, exit status or the missing agent
}

// Recorder persists events. Errors are logged by the Manager and otherwise
// ignored.
type Recorder interface {
	Record(e Event) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(e Event) error

// Record implements Recorder.
func (f RecorderFunc) Record(e Event) error { return f(e) }

type nopRecorder struct{}

func (nopRecorder) Record(Event) error { return nil }

func (m *Manager) record(e Event) {
	if err := m.recorder.Record(e); err != nil {
		m.logger.Warn("record session event",
			zap.String("kind", string(e.Kind)),
			zap.String("pane", e.Pane.String()),
			zap.Error(err))
	}
}
