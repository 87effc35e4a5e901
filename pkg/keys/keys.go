// Package keys defines the logical key events routed between the dashboard
// and embedded terminals, and the byte encoding sent to a child program.
package keys

import (
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Code identifies a non-printable key, or CodeRune for a character key.
type Code int

const (
	// CodeNone is a key with no defined meaning (bare modifiers, F-keys, ...).
	CodeNone Code = iota
	// CodeRune is a character key; the character is in Key.Rune.
	CodeRune
	CodeEnter
	CodeTab
	CodeBackspace
	CodeEsc
	CodeUp
	CodeDown
	CodeRight
	CodeLeft
)

// Key is a single logical key press.
type Key struct {
	Code Code
	Rune rune
	Ctrl bool
	Alt  bool
}

// Rune returns a character key without modifiers.
func Rune(r rune) Key {
	return Key{Code: CodeRune, Rune: r}
}

// Ctrl returns a character key with the Control modifier.
func Ctrl(r rune) Key {
	return Key{Code: CodeRune, Rune: r, Ctrl: true}
}

// Named returns a non-character key.
func Named(c Code) Key {
	return Key{Code: c}
}

var codeNames = map[Code]string{
	CodeEnter:     "enter",
	CodeTab:       "tab",
	CodeBackspace: "backspace",
	CodeEsc:       "esc",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeRight:     "right",
	CodeLeft:      "left",
}

// String returns the key name in the same form bubbletea uses ("enter",
// "ctrl+c", "h", "alt+x"), so bubbles/key bindings can match a Key directly.
func (k Key) String() string {
	var name string
	switch k.Code {
	case CodeRune:
		switch {
		case k.Ctrl:
			name = "ctrl+" + string(lower(k.Rune))
		case k.Rune == ' ':
			name = " "
		default:
			name = string(k.Rune)
		}
	case CodeNone:
		return ""
	default:
		name = codeNames[k.Code]
	}
	if k.Alt {
		return "alt+" + name
	}
	return name
}

// IsPrintable reports whether k is a character key without Control.
func (k Key) IsPrintable() bool {
	return k.Code == CodeRune && !k.Ctrl && k.Rune >= ' ' && k.Rune != 0x7f
}

// Encode returns the bytes an embedded terminal program expects for k, or
// nil when k has no encoding. Alt is ignored.
func Encode(k Key) []byte {
	switch k.Code {
	case CodeEnter:
		return []byte{'\r'}
	case CodeTab:
		return []byte{'\t'}
	case CodeBackspace:
		return []byte{0x7f}
	case CodeEsc:
		return []byte{0x1b}
	case CodeUp:
		return []byte("\x1b[A")
	case CodeDown:
		return []byte("\x1b[B")
	case CodeRight:
		return []byte("\x1b[C")
	case CodeLeft:
		return []byte("\x1b[D")
	case CodeRune:
		if k.Ctrl {
			return []byte{ctrlCode(k.Rune)}
		}
		if !utf8.ValidRune(k.Rune) {
			return nil
		}
		return utf8.AppendRune(nil, k.Rune)
	default:
		return nil
	}
}

// ctrlCode maps a character to its control code: uppercase, then keep the
// low five bits. Non-ASCII runes are truncated to a byte first.
func ctrlCode(r rune) byte {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return byte(r) & 0x1f //nolint:gosec // truncation is the mapping
}

func lower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// FromTea converts a bubbletea key message into logical keys. Messages
// carrying several runes (fast typing, bracketed paste) become one key per
// rune; unknown keys yield a single CodeNone key.
func FromTea(msg tea.KeyMsg) []Key {
	alt := msg.Alt
	switch msg.Type {
	case tea.KeyEnter:
		return []Key{{Code: CodeEnter, Alt: alt}}
	case tea.KeyTab:
		return []Key{{Code: CodeTab, Alt: alt}}
	case tea.KeyBackspace:
		return []Key{{Code: CodeBackspace, Alt: alt}}
	case tea.KeyEsc:
		return []Key{{Code: CodeEsc, Alt: alt}}
	case tea.KeyUp:
		return []Key{{Code: CodeUp, Alt: alt}}
	case tea.KeyDown:
		return []Key{{Code: CodeDown, Alt: alt}}
	case tea.KeyRight:
		return []Key{{Code: CodeRight, Alt: alt}}
	case tea.KeyLeft:
		return []Key{{Code: CodeLeft, Alt: alt}}
	case tea.KeySpace:
		return []Key{{Code: CodeRune, Rune: ' ', Alt: alt}}
	case tea.KeyRunes:
		out := make([]Key, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			out = append(out, Key{Code: CodeRune, Rune: r, Alt: alt})
		}
		return out
	}

	if r, ok := ctrlRune(msg.Type); ok {
		return []Key{{Code: CodeRune, Rune: r, Ctrl: true, Alt: alt}}
	}
	return []Key{{Code: CodeNone}}
}

// ctrlRune recovers the character of a bubbletea control key type. Tab and
// Enter share their control codes and are handled before this is reached.
func ctrlRune(t tea.KeyType) (rune, bool) {
	switch {
	case t == tea.KeyCtrlAt:
		return '@', true
	case t >= tea.KeyCtrlA && t <= tea.KeyCtrlZ:
		return 'a' + rune(t-tea.KeyCtrlA), true
	case t == tea.KeyCtrlBackslash:
		return '\\', true
	case t == tea.KeyCtrlCloseBracket:
		return ']', true
	case t == tea.KeyCtrlCaret:
		return '^', true
	case t == tea.KeyCtrlUnderscore:
		return '_', true
	default:
		return 0, false
	}
}
