package router

// InputMode is how an interactive pane treats key presses.
type InputMode int

const (
	// AppControls lets the dashboard interpret keys. It is the default.
	AppControls InputMode = iota
	// TerminalLocked forwards every key except Esc to the pane's terminal.
	TerminalLocked
)

func (m InputMode) String() string {
	if m == TerminalLocked {
		return "terminal-locked"
	}
	return "app-controls"
}

// LockPolicy decides what happens to a locked pane when focus leaves it.
type LockPolicy string

const (
	// ResetOnBlur unlocks a pane as soon as it loses focus.
	ResetOnBlur LockPolicy = "reset"
	// Sticky keeps the pane locked; it is locked again when focus returns.
	Sticky LockPolicy = "sticky"
)

// State is everything the router reads and writes. It is a value: copy it,
// compare it, serialize it.
type State struct {
	Focused       PaneID               `json:"focused"`
	Fullscreen    PaneID               `json:"fullscreen"`
	Modes         [paneSlots]InputMode `json:"modes"`
	CommandActive bool                 `json:"command_active"`
	Command       string               `json:"command"`
	LastCommand   string               `json:"last_command"`
	LockPolicy    LockPolicy           `json:"lock_policy"`
}

// NewState returns the start-up state: Motivation focused, nothing
// fullscreen, every pane in AppControls.
func NewState(policy LockPolicy) State {
	if policy != Sticky {
		policy = ResetOnBlur
	}
	return State{Focused: Motivation, LockPolicy: policy}
}

// Mode returns the input mode of p. Non-interactive panes are always
// AppControls.
func (s State) Mode(p PaneID) InputMode {
	if !p.Interactive() {
		return AppControls
	}
	return s.Modes[p]
}

// Locked reports whether the focused pane is forwarding keys.
func (s State) Locked() bool {
	return s.Mode(s.Focused) == TerminalLocked
}

// ActionKind enumerates the state transitions.
type ActionKind int

const (
	FocusLeft ActionKind = iota + 1
	FocusRight
	FocusUp
	FocusDown
	RotateFocus
	EnterFullscreen
	ExitFullscreen
	ToggleFullscreen
	EnterCommandMode
	ExitCommandMode
	CommandAppend
	CommandBackspace
	SubmitCommand
	EnterTerminal
	ExitTerminal
)

// Action is one transition. Rune is only read by CommandAppend.
type Action struct {
	Kind ActionKind
	Rune rune
}

// Act builds an action without a payload.
func Act(kind ActionKind) Action {
	return Action{Kind: kind}
}

// Append builds a CommandAppend action.
func Append(r rune) Action {
	return Action{Kind: CommandAppend, Rune: r}
}

// Apply returns the state after a. It never performs I/O.
func Apply(s State, a Action) State {
	switch a.Kind {
	case FocusLeft:
		return s.moveFocus(s.Focused.left())
	case FocusRight:
		return s.moveFocus(s.Focused.right())
	case FocusUp:
		return s.moveFocus(s.Focused.up())
	case FocusDown:
		return s.moveFocus(s.Focused.down())
	case RotateFocus:
		return s.moveFocus(s.Focused.next())

	case EnterFullscreen:
		s.Fullscreen = s.Focused
	case ExitFullscreen:
		s.Fullscreen = NoPane
	case ToggleFullscreen:
		if s.Fullscreen == NoPane {
			s.Fullscreen = s.Focused
		} else {
			s.Fullscreen = NoPane
		}

	case EnterCommandMode:
		s.CommandActive = true
		s.Command = ""
	case ExitCommandMode:
		s.CommandActive = false
		s.Command = ""
	case CommandAppend:
		if s.CommandActive {
			s.Command += string(a.Rune)
		}
	case CommandBackspace:
		if s.CommandActive && s.Command != "" {
			runes := []rune(s.Command)
			s.Command = string(runes[:len(runes)-1])
		}
	case SubmitCommand:
		if s.CommandActive {
			s.LastCommand = s.Command
			s.CommandActive = false
			s.Command = ""
		}

	case EnterTerminal:
		if s.Focused.Interactive() {
			s.Modes[s.Focused] = TerminalLocked
		}
	case ExitTerminal:
		if s.Focused.Interactive() {
			s.Modes[s.Focused] = AppControls
		}
	}
	return s
}

// moveFocus focuses to. Under ResetOnBlur the pane losing focus is unlocked;
// no other pane's mode changes.
func (s State) moveFocus(to PaneID) State {
	from := s.Focused
	if to == from {
		return s
	}
	if s.LockPolicy != Sticky && from.Interactive() {
		s.Modes[from] = AppControls
	}
	s.Focused = to
	return s
}

// WithPolicy returns s under policy. Switching to ResetOnBlur unlocks every
// pane except the focused one, as if each had lost focus under that policy.
func (s State) WithPolicy(policy LockPolicy) State {
	if policy != Sticky {
		policy = ResetOnBlur
	}
	s.LockPolicy = policy
	if policy == ResetOnBlur {
		for _, p := range InteractivePanes {
			if p != s.Focused {
				s.Modes[p] = AppControls
			}
		}
	}
	return s
}
