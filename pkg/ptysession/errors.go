package ptysession

import "fmt"

// SpawnError is returned when a pseudo-terminal cannot be allocated or the
// program cannot be started on it. A failed spawn leaves nothing to clean up;
// construct a new session to retry.
type SpawnError struct {
	Program string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Program, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// WriteError is returned when input cannot be written to the child, usually
// because it exited and closed its side of the terminal. The session stays
// readable.
type WriteError struct {
	Op  string // "key", "bytes"
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s to pty: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ResizeError is returned when the OS refuses a window-size change. The
// emulator keeps its previous size so both sides still agree.
type ResizeError struct {
	Cols int
	Rows int
	Err  error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("resize pty to %dx%d: %v", e.Cols, e.Rows, e.Err)
}

func (e *ResizeError) Unwrap() error { return e.Err }
