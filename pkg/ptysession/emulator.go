package ptysession

import (
	"io"
	"strings"

	"github.com/hinshun/vt10x"
)

// Emulator interprets a terminal byte stream into a screen grid.
type Emulator interface {
	Write(p []byte) (int, error)
	Resize(cols, rows int)
	// Screen returns the visible text and the 0-based cursor position.
	Screen() (contents string, row, col int)
}

// EmulatorFactory builds an Emulator of the given size. replies receives
// bytes the emulator sends back to the program (device status reports).
type EmulatorFactory func(cols, rows int, replies io.Writer) Emulator

// NewVT10x returns an Emulator backed by vt10x.
func NewVT10x(cols, rows int, replies io.Writer) Emulator {
	opts := []vt10x.TerminalOption{vt10x.WithSize(cols, rows)}
	if replies != nil {
		opts = append(opts, vt10x.WithWriter(replies))
	}
	return &vtEmulator{term: vt10x.New(opts...)}
}

type vtEmulator struct {
	term vt10x.Terminal
}

func (e *vtEmulator) Write(p []byte) (int, error) {
	return e.term.Write(p)
}

func (e *vtEmulator) Resize(cols, rows int) {
	e.term.Resize(cols, rows)
}

// Screen renders rows top to bottom. Trailing blanks on a row and trailing
// empty rows are dropped so short output reads as plain text.
func (e *vtEmulator) Screen() (string, int, int) {
	cols, rows := e.term.Size()
	lines := make([]string, rows)
	var line strings.Builder
	for y := 0; y < rows; y++ {
		line.Reset()
		for x := 0; x < cols; x++ {
			ch := e.term.Cell(x, y).Char
			if ch == 0 {
				ch = ' '
			}
			line.WriteRune(ch)
		}
		lines[y] = strings.TrimRight(line.String(), " ")
	}

	end := len(lines)
	for end > 0 && lines[end-1] == "" {
		end--
	}

	cur := e.term.Cursor()
	return strings.Join(lines[:end], "\n"), cur.Y, cur.X
}
