package sessions

import (
	"augustinus/pkg/keys"
	"augustinus/pkg/ptysession"
)

// Session is the part of a ptysession.Session the Manager uses.
type Session interface {
	ID() string
	Program() string
	Resize(cols, rows int) error
	Poll()
	Snapshot() ptysession.Snapshot
	SendKey(k keys.Key) error
	SendPaste(text string) error
	Done() <-chan struct{}
	ExitErr() error
	Close() error
}

// Spawner starts sessions.
type Spawner interface {
	Spawn(program string, args []string, size ptysession.Size) (Session, error)
}

// SpawnFunc adapts a function to Spawner.
type SpawnFunc func(program string, args []string, size ptysession.Size) (Session, error)

// Spawn implements Spawner.
func (f SpawnFunc) Spawn(program string, args []string, size ptysession.Size) (Session, error) {
	return f(program, args, size)
}

// PTYSpawner returns a Spawner that runs programs on real pseudo-terminals.
func PTYSpawner(opts ...ptysession.Option) Spawner {
	return SpawnFunc(func(program string, args []string, size ptysession.Size) (Session, error) {
		s, err := ptysession.Spawn(program, args, size.Cols, size.Rows, opts...)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
}
