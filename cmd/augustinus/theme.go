package main

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual styling for the dashboard.
type Theme struct {
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Focused    lipgloss.Color
	Unfocused  lipgloss.Color
	Locked     lipgloss.Color
	Error      lipgloss.Color
	Muted      lipgloss.Color
}

// DefaultTheme returns the arctic palette.
func DefaultTheme() Theme {
	return Theme{
		Foreground: lipgloss.Color("#EBF5FF"),
		Accent:     lipgloss.Color("#78DCFF"),
		Focused:    lipgloss.Color("#EBF5FF"),
		Unfocused:  lipgloss.Color("#3C6E8C"),
		Locked:     lipgloss.Color("11"), // Yellow
		Error:      lipgloss.Color("9"),  // Red
		Muted:      lipgloss.Color("240"),
	}
}

// PaneFrame returns the border glyphs and color for a pane.
func (t Theme) PaneFrame(focused, locked bool) (lipgloss.Border, lipgloss.Color) {
	color := t.Unfocused
	switch {
	case locked:
		color = t.Locked
	case focused:
		color = t.Focused
	}
	if focused {
		return lipgloss.ThickBorder(), color
	}
	return lipgloss.RoundedBorder(), color
}

// PaneBorder returns the style for a pane's side and bottom borders. The top
// edge is drawn separately so it can carry the title.
func (t Theme) PaneBorder(focused, locked bool) lipgloss.Style {
	border, color := t.PaneFrame(focused, locked)
	return lipgloss.NewStyle().
		Border(border).
		BorderTop(false).
		BorderForeground(color).
		Foreground(t.Foreground)
}

// Title styles a pane title.
func (t Theme) Title(focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().Foreground(t.Accent)
	if focused {
		s = s.Bold(true)
	}
	return s
}

// Hint styles the one-line hint at the top of a pane.
func (t Theme) Hint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent)
}

// Cursor styles the cell under a locked terminal's cursor.
func (t Theme) Cursor() lipgloss.Style {
	return lipgloss.NewStyle().Reverse(true)
}

// Status styles the footer message.
func (t Theme) Status(isErr bool) lipgloss.Style {
	if isErr {
		return lipgloss.NewStyle().Foreground(t.Error)
	}
	return lipgloss.NewStyle().Foreground(t.Muted)
}
