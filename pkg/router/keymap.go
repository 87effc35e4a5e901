package router

import "github.com/charmbracelet/bubbles/key"

// DefaultInterrupt quits the dashboard from any state.
const DefaultInterrupt = "ctrl+c"

// Keymap holds the application bindings used while the focused pane is not
// locked. It satisfies bubbles/help.KeyMap.
type Keymap struct {
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	Rotate     key.Binding
	Enter      key.Binding
	Fullscreen key.Binding
	Back       key.Binding
	Command    key.Binding
	Interrupt  key.Binding
}

// DefaultKeymap returns the stock bindings with interrupt as the quit key.
// An empty interrupt falls back to DefaultInterrupt.
func DefaultKeymap(interrupt string) Keymap {
	if interrupt == "" {
		interrupt = DefaultInterrupt
	}
	return Keymap{
		Left:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "focus left")),
		Right:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "focus right")),
		Up:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "focus up")),
		Down:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "focus down")),
		Rotate:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next pane")),
		Enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "lock terminal / fullscreen")),
		Fullscreen: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "toggle fullscreen")),
		Back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "exit fullscreen / unlock")),
		Command:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Interrupt:  key.NewBinding(key.WithKeys(interrupt), key.WithHelp(interrupt, "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k Keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Rotate, k.Enter, k.Back, k.Command, k.Interrupt}
}

// FullHelp implements help.KeyMap.
func (k Keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down, k.Rotate},
		{k.Enter, k.Fullscreen, k.Back, k.Command, k.Interrupt},
	}
}
