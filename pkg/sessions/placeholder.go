package sessions

import (
	"errors"
	"fmt"

	"augustinus/pkg/keys"
	"augustinus/pkg/ptysession"
)

// errNoSession is returned by writes to a pane that has no running program.
var errNoSession = errors.New("no session")

// placeholder stands in for a pane whose program could not be started. It
// never produces output and its screen shows why.
type placeholder struct {
	program string
	message string
	done    chan struct{}
}

func newPlaceholder(program string, err error) *placeholder {
	done := make(chan struct{})
	close(done)
	return &placeholder{
		program: program,
		message: fmt.Sprintf("failed to start %s: %v", program, err),
		done:    done,
	}
}

func isPlaceholder(s Session) bool {
	_, ok := s.(*placeholder)
	return ok
}

func (p *placeholder) ID() string { return "" }

func (p *placeholder) Program() string { return p.program }

func (p *placeholder) Resize(int, int) error { return nil }

func (p *placeholder) Poll() {}

func (p *placeholder) Done() <-chan struct{} { return p.done }

func (p *placeholder) ExitErr() error { return nil }

func (p *placeholder) Close() error { return nil }

func (p *placeholder) SendKey(keys.Key) error {
	return &ptysession.WriteError{Op: "key", Err: errNoSession}
}

func (p *placeholder) SendPaste(string) error {
	return &ptysession.WriteError{Op: "bytes", Err: errNoSession}
}

func (p *placeholder) Snapshot() ptysession.Snapshot {
	return ptysession.Snapshot{Contents: p.message}
}
