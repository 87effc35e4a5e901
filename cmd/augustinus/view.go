package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"augustinus/pkg/ptysession"
	"augustinus/pkg/router"
)

// paneTitles are the headings drawn at the top of each pane.
var paneTitles = map[router.PaneID]string{ //nolint:gochecknoglobals // fixed table
	router.Motivation: "MOTIVATION",
	router.General:    "GENERAL",
	router.Agents:     "AI AGENTS",
	router.Stats:      "STATS",
}

// mottos is the motivation pane text per configured language.
var mottos = map[string]string{ //nolint:gochecknoglobals // fixed table
	"en": "Stay with the work in front of you.",
	"fr": "Reste avec le travail devant toi.",
	"ja": "目の前の仕事に集中しよう。",
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "starting augustinus..."
	}

	footer := m.renderFooter()
	gridHeight := m.gridHeight()

	var body string
	if fs := m.state.Fullscreen; fs != router.NoPane {
		body = m.renderPane(fs, m.width, gridHeight)
	} else {
		leftW := m.width / 2
		rightW := m.width - leftW
		topH := gridHeight / 2
		bottomH := gridHeight - topH

		top := lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderPane(router.Motivation, leftW, topH),
			m.renderPane(router.General, rightW, topH))
		bottom := lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderPane(router.Agents, leftW, bottomH),
			m.renderPane(router.Stats, rightW, bottomH))
		body = lipgloss.JoinVertical(lipgloss.Left, top, bottom)
	}

	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// renderPane draws pane id as a bordered box of exactly width x height cells.
// The title sits in the top border, so a terminal pane's body has the same
// rows as its terminal.
func (m Model) renderPane(id router.PaneID, width, height int) string {
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)
	focused := m.state.Focused == id
	locked := m.state.Mode(id) == router.TerminalLocked

	var lines []string
	if id.Interactive() {
		lines = m.terminalLines(id, innerW, innerH, focused && locked)
	} else {
		body := m.motivationLines()
		if id == router.Stats {
			body = m.statsLines()
		}
		if focused {
			lines = append(lines, m.theme.Hint().Render(truncate("enter: fullscreen", innerW)))
		}
		lines = append(lines, clip(body, innerW, innerH-len(lines))...)
	}

	top := m.topBorder(m.paneTitle(id, locked), innerW, focused, locked)
	box := m.theme.PaneBorder(focused, locked).
		Width(innerW).
		Height(innerH).
		Render(strings.Join(lines, "\n"))
	return lipgloss.JoinVertical(lipgloss.Left, top, box)
}

// topBorder draws the top edge of a pane, innerW+2 cells wide, with title
// inset after the corner.
func (m Model) topBorder(title string, innerW int, focused, locked bool) string {
	border, color := m.theme.PaneFrame(focused, locked)
	edge := lipgloss.NewStyle().Foreground(color)

	if innerW < 4 {
		return edge.Render(border.TopLeft + strings.Repeat(border.Top, innerW) + border.TopRight)
	}
	title = truncate(title, innerW-3)
	fill := innerW - 3 - runewidth.StringWidth(title)
	return edge.Render(border.TopLeft+border.Top+" ") +
		m.theme.Title(focused).Render(title) +
		edge.Render(" "+strings.Repeat(border.Top, fill)+border.TopRight)
}

func (m Model) paneTitle(id router.PaneID, locked bool) string {
	title := paneTitles[id]
	if !id.Interactive() {
		return title
	}
	if locked {
		title += " · LOCKED"
	}
	st, ok := m.sessions.Status(id)
	switch {
	case !ok:
		return title
	case st.Failed:
		return fmt.Sprintf("%s · %s (failed)", title, st.Program)
	case st.Fallback:
		return fmt.Sprintf("%s · %s (fallback)", title, st.Program)
	case !st.Running:
		return fmt.Sprintf("%s · %s (exited)", title, st.Program)
	default:
		return fmt.Sprintf("%s · %s", title, st.Program)
	}
}

// terminalLines returns the last height rows of the pane's screen, keeping
// the cursor row visible, each at most width cells wide.
func (m Model) terminalLines(id router.PaneID, width, height int, showCursor bool) []string {
	snap := m.sessions.Snapshot(id)
	if snap.Contents == "" && !showCursor {
		program := "terminal"
		if st, ok := m.sessions.Status(id); ok {
			program = st.Program
		}
		return []string{m.theme.Status(false).Render(truncate("starting "+program+"...", width))}
	}
	return screenLines(snap, width, height, showCursor, m.theme.Cursor())
}

func screenLines(snap ptysession.Snapshot, width, height int, showCursor bool, cursor lipgloss.Style) []string {
	rows := strings.Split(snap.Contents, "\n")
	if showCursor {
		for len(rows) <= snap.CursorRow {
			rows = append(rows, "")
		}
	}

	start := max(len(rows)-height, 0)
	if showCursor && snap.CursorRow < start {
		start = snap.CursorRow
	}
	end := min(start+height, len(rows))

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		line := truncate(rows[i], width)
		if showCursor && i == snap.CursorRow {
			line = withCursor(line, min(snap.CursorCol, width-1), cursor)
		}
		out = append(out, line)
	}
	return out
}

// withCursor renders the rune at col with style, padding the line if the
// cursor is past its end.
func withCursor(line string, col int, style lipgloss.Style) string {
	r := []rune(line)
	for len(r) <= col {
		r = append(r, ' ')
	}
	return string(r[:col]) + style.Render(string(r[col])) + string(r[col+1:])
}

func (m Model) motivationLines() []string {
	motto, ok := mottos[m.cfg.Language]
	if !ok {
		motto = mottos["en"]
	}
	return []string{"", "AUGUSTINUS", "", motto}
}

func (m Model) statsLines() []string {
	var lines []string
	for _, id := range router.InteractivePanes {
		st, ok := m.sessions.Status(id)
		if !ok {
			continue
		}
		state := "running"
		switch {
		case !st.Running:
			state = "exited"
		case st.Fallback:
			state = "fallback"
		}
		lines = append(lines, fmt.Sprintf("%-8s %dx%d %s", id, st.Size.Cols, st.Size.Rows, state))
	}

	if m.loc != nil {
		lines = append(lines, fmt.Sprintf("%-8s %s", "lines", m.loc))
	}
	lines = append(lines,
		fmt.Sprintf("%-8s %s", "lock", m.state.LockPolicy),
		fmt.Sprintf("%-8s %s", "mode", m.state.Mode(m.state.Focused)))
	return lines
}

func (m Model) renderFooter() string {
	switch {
	case m.state.CommandActive:
		return truncate(":"+m.state.Command+"█", m.width)
	case m.status != "":
		return m.theme.Status(m.statusErr).Render(truncate(m.status, m.width))
	case m.state.Locked():
		return m.theme.Hint().Render(truncate("TERMINAL LOCKED · esc returns to pane controls", m.width))
	case m.state.Focused.Interactive():
		return m.theme.Hint().Render(truncate("enter: control terminal · h/j/k/l tab: move focus · : commands", m.width))
	default:
		return m.help.View(m.router.Keymap())
	}
}

// clip truncates lines to width cells and keeps at most height of them.
func clip(lines []string, width, height int) []string {
	if len(lines) > height {
		lines = lines[:height]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = truncate(l, width)
	}
	return out
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}
