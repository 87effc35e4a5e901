// Package ptysession runs a child program on a pseudo-terminal and bridges
// its output into a queryable virtual screen.
//
// A Session has one reader goroutine that performs the only blocking read on
// the terminal and hands chunks over a bounded channel. Everything that
// touches the emulator (Poll, Snapshot, Resize) is meant to run on the
// caller's single UI goroutine; the reader never touches it.
package ptysession

import (
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"augustinus/pkg/keys"
)

// TermType is exported to the child as TERM.
const TermType = "xterm-256color"

const (
	readChunkSize = 4096
	chunkBacklog  = 64
	maxDimension  = 1<<16 - 1
)

// Size is a terminal size in character cells.
type Size struct {
	Cols int
	Rows int
}

// Snapshot is the current screen of a session.
type Snapshot struct {
	Contents  string // visible rows joined by "\n"
	CursorRow int
	CursorCol int
}

// Session owns one child process and its pseudo-terminal.
type Session struct {
	id      string
	program string
	cmd     *exec.Cmd
	ptmx    *os.File
	emu     Emulator
	logger  *zap.Logger

	chunks chan []byte   // reader -> Poll
	done   chan struct{} // closed when the reader exits
	quit   chan struct{} // closed by Close

	closeOnce sync.Once

	exitMu  sync.Mutex
	exitErr error

	size    Size
	setsize func(*os.File, *pty.Winsize) error
}

// Option configures Spawn.
type Option func(*options)

type options struct {
	logger   *zap.Logger
	env      []string
	dir      string
	emulator EmulatorFactory
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEnv adds KEY=VALUE entries to the child's environment, on top of the
// parent environment.
func WithEnv(env ...string) Option {
	return func(o *options) { o.env = append(o.env, env...) }
}

// WithDir sets the child's working directory.
func WithDir(dir string) Option {
	return func(o *options) { o.dir = dir }
}

// WithEmulator replaces the default vt10x emulator.
func WithEmulator(f EmulatorFactory) Option {
	return func(o *options) {
		if f != nil {
			o.emulator = f
		}
	}
}

// Spawn starts program with args on a new pseudo-terminal of cols x rows and
// starts the reader. Sizes below 1 are raised to 1.
func Spawn(program string, args []string, cols, rows int, opts ...Option) (*Session, error) {
	o := options{logger: zap.NewNop(), emulator: NewVT10x}
	for _, opt := range opts {
		opt(&o)
	}
	size := Size{Cols: clampDim(cols), Rows: clampDim(rows)}

	//nolint:gosec // program comes from the user's own configuration
	cmd := exec.Command(program, args...)
	cmd.Env = append(os.Environ(), o.env...)
	cmd.Env = append(cmd.Env, "TERM="+TermType)
	cmd.Dir = o.dir

	ptmx, err := pty.StartWithSize(cmd, winsize(size))
	if err != nil {
		return nil, &SpawnError{Program: program, Err: err}
	}

	s := &Session{
		id:      uuid.New().String(),
		program: program,
		cmd:     cmd,
		ptmx:    ptmx,
		chunks:  make(chan []byte, chunkBacklog),
		done:    make(chan struct{}),
		quit:    make(chan struct{}),
		size:    size,
		setsize: pty.Setsize,
	}
	s.logger = o.logger.With(zap.String("session", s.id), zap.String("program", program))
	s.emu = o.emulator(size.Cols, size.Rows, ptmx)

	go s.readLoop()

	s.logger.Debug("pty session started",
		zap.Int("pid", cmd.Process.Pid),
		zap.Int("cols", size.Cols),
		zap.Int("rows", size.Rows))
	return s, nil
}

// readLoop is the session's only reader. It stops on EOF or a read error,
// reaps the child and closes the chunk channel.
func (s *Session) readLoop() {
	defer close(s.done)
	defer close(s.chunks)

	buf := make([]byte, readChunkSize)
	for {
		n, err := s.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.quit:
				s.reap()
				return
			}
		}
		if err != nil {
			break
		}
	}
	s.reap()
}

func (s *Session) reap() {
	err := s.cmd.Wait()
	s.exitMu.Lock()
	s.exitErr = err
	s.exitMu.Unlock()
	s.logger.Info("pty session exited", zap.Error(err))
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Program returns the program the session was spawned with.
func (s *Session) Program() string { return s.program }

// Size returns the size most recently applied to both the terminal and the
// emulator.
func (s *Session) Size() Size { return s.size }

// Done is closed once the child's output stream has ended.
func (s *Session) Done() <-chan struct{} { return s.done }

// ExitErr returns the child's wait error once Done is closed. A clean exit
// returns nil, as does a session that is still running.
func (s *Session) ExitErr() error {
	s.exitMu.Lock()
	defer s.exitMu.Unlock()
	return s.exitErr
}

func (s *Session) defunct() bool {
	select {
	case <-s.done:
		return true
	case <-s.quit:
		return true
	default:
		return false
	}
}

// Resize changes the terminal and emulator size together. It does nothing on
// a defunct session or when the size is unchanged. On failure the emulator
// keeps its old size.
func (s *Session) Resize(cols, rows int) error {
	size := Size{Cols: clampDim(cols), Rows: clampDim(rows)}
	if s.defunct() || size == s.size {
		return nil
	}
	if err := s.setsize(s.ptmx, winsize(size)); err != nil {
		return &ResizeError{Cols: size.Cols, Rows: size.Rows, Err: err}
	}
	s.emu.Resize(size.Cols, size.Rows)
	s.size = size
	return nil
}

// Poll feeds every chunk that has already arrived to the emulator, in
// order, without blocking.
func (s *Session) Poll() {
	for {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				return
			}
			_, _ = s.emu.Write(chunk)
		default:
			return
		}
	}
}

// Snapshot returns the current screen. It has no side effects.
func (s *Session) Snapshot() Snapshot {
	contents, row, col := s.emu.Screen()
	return Snapshot{Contents: contents, CursorRow: row, CursorCol: col}
}

// SendKey writes the encoding of k to the child. Keys without an encoding
// are ignored.
func (s *Session) SendKey(k keys.Key) error {
	b := keys.Encode(k)
	if b == nil {
		return nil
	}
	return s.write("key", b)
}

// SendBytes writes b to the child verbatim.
func (s *Session) SendBytes(b []byte) error {
	return s.write("bytes", b)
}

// SendPaste writes text to the child verbatim.
func (s *Session) SendPaste(text string) error {
	return s.write("bytes", []byte(text))
}

// The master is an unbuffered *os.File, so a completed Write is already
// flushed to the child.
func (s *Session) write(op string, b []byte) error {
	if _, err := s.ptmx.Write(b); err != nil {
		return &WriteError{Op: op, Err: err}
	}
	return nil
}

// Close kills the child and releases the terminal. Output still queued is
// discarded. Close is safe to call more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.quit)
		if s.cmd.Process != nil {
			_ = s.cmd.Process.Kill()
		}
		err = s.ptmx.Close()
	})
	return err
}

func clampDim(n int) int {
	switch {
	case n < 1:
		return 1
	case n > maxDimension:
		return maxDimension
	default:
		return n
	}
}

func winsize(size Size) *pty.Winsize {
	return &pty.Winsize{
		Cols: uint16(size.Cols), //nolint:gosec // clamped by clampDim
		Rows: uint16(size.Rows), //nolint:gosec // clamped by clampDim
	}
}
