package router

import (
	"github.com/charmbracelet/bubbles/key"

	"augustinus/pkg/keys"
)

// KeySink receives keys forwarded to a locked pane's terminal.
type KeySink interface {
	SendKey(pane PaneID, k keys.Key) error
}

// Outcome says what HandleKey did with a key.
type Outcome int

const (
	// Ignored: the key matched nothing; state is unchanged.
	Ignored Outcome = iota
	// Handled: the key changed dashboard state.
	Handled
	// Forwarded: the key was sent to Result.Pane's terminal.
	Forwarded
	// Submitted: a command line was submitted; see Result.Command.
	Submitted
	// Quit: the interrupt key was pressed.
	Quit
)

// Result describes the effect of one key.
type Result struct {
	Outcome Outcome
	Pane    PaneID
	Command string
	Err     error // write error from the sink, for Forwarded
}

// Router maps keys to transitions using a Keymap.
type Router struct {
	keymap Keymap
}

// New returns a Router using km.
func New(km Keymap) *Router {
	return &Router{keymap: km}
}

// Keymap returns the active bindings.
func (r *Router) Keymap() Keymap { return r.keymap }

// SetKeymap replaces the active bindings.
func (r *Router) SetKeymap(km Keymap) { r.keymap = km }

// HandleKey routes k. Priority, highest first:
//
//  1. the interrupt binding quits from any state;
//  2. an open command line consumes every key;
//  3. a locked focused pane gets every key but Esc, which unlocks it;
//  4. otherwise keys map to dashboard actions.
//
// A key is never both forwarded and acted on.
func (r *Router) HandleKey(s State, k keys.Key, sink KeySink) (State, Result) {
	if key.Matches(k, r.keymap.Interrupt) {
		return s, Result{Outcome: Quit}
	}

	if s.CommandActive {
		return r.handleCommandKey(s, k)
	}

	if s.Locked() {
		if k.Code == keys.CodeEsc {
			return Apply(s, Act(ExitTerminal)), Result{Outcome: Handled}
		}
		res := Result{Outcome: Forwarded, Pane: s.Focused}
		if sink != nil {
			res.Err = sink.SendKey(s.Focused, k)
		}
		return s, res
	}

	return r.handleAppKey(s, k)
}

func (r *Router) handleCommandKey(s State, k keys.Key) (State, Result) {
	switch {
	case k.Code == keys.CodeEsc:
		return Apply(s, Act(ExitCommandMode)), Result{Outcome: Handled}
	case k.Code == keys.CodeEnter:
		next := Apply(s, Act(SubmitCommand))
		return next, Result{Outcome: Submitted, Command: next.LastCommand}
	case k.Code == keys.CodeBackspace:
		return Apply(s, Act(CommandBackspace)), Result{Outcome: Handled}
	case k.IsPrintable():
		return Apply(s, Append(k.Rune)), Result{Outcome: Handled}
	default:
		return s, Result{Outcome: Ignored}
	}
}

func (r *Router) handleAppKey(s State, k keys.Key) (State, Result) {
	km := r.keymap
	var a ActionKind
	switch {
	case key.Matches(k, km.Left):
		a = FocusLeft
	case key.Matches(k, km.Right):
		a = FocusRight
	case key.Matches(k, km.Up):
		a = FocusUp
	case key.Matches(k, km.Down):
		a = FocusDown
	case key.Matches(k, km.Rotate):
		a = RotateFocus
	case key.Matches(k, km.Enter):
		if s.Focused.Interactive() {
			a = EnterTerminal
		} else {
			a = EnterFullscreen
		}
	case key.Matches(k, km.Fullscreen):
		a = ToggleFullscreen
	case key.Matches(k, km.Back):
		if s.Fullscreen == NoPane {
			return s, Result{Outcome: Ignored}
		}
		a = ExitFullscreen
	case key.Matches(k, km.Command):
		a = EnterCommandMode
	default:
		return s, Result{Outcome: Ignored}
	}
	return Apply(s, Act(a)), Result{Outcome: Handled}
}
