// Package router decides, for every key press, whether the dashboard acts on
// it or the focused embedded terminal receives it.
//
// Focus, fullscreen, command entry and the per-pane input modes live in a
// plain State value. Apply is a pure reducer over that value; HandleKey adds
// the single side effect of forwarding a key to a terminal through a KeySink.
package router

import "fmt"

// PaneID identifies one of the fixed dashboard panes.
type PaneID int

const (
	// NoPane is the zero value, used when no pane is fullscreen.
	NoPane PaneID = iota
	Motivation
	General
	Agents
	Stats
)

// Panes lists every pane in rotation order.
var Panes = []PaneID{Motivation, General, Agents, Stats}

// InteractivePanes lists the panes backed by a terminal session.
var InteractivePanes = []PaneID{General, Agents}

const paneSlots = int(Stats) + 1

func (p PaneID) String() string {
	switch p {
	case NoPane:
		return "none"
	case Motivation:
		return "motivation"
	case General:
		return "general"
	case Agents:
		return "agents"
	case Stats:
		return "stats"
	default:
		return fmt.Sprintf("pane(%d)", int(p))
	}
}

// ParsePane resolves a pane name as printed by String.
func ParsePane(name string) (PaneID, error) {
	for _, p := range Panes {
		if p.String() == name {
			return p, nil
		}
	}
	return NoPane, fmt.Errorf("unknown pane %q", name)
}

// Interactive reports whether p embeds a terminal session.
func (p PaneID) Interactive() bool {
	return p == General || p == Agents
}

// The panes form a 2x2 grid:
//
//	Motivation | General
//	Agents     | Stats
//
// Moves off the edge stay put.

func (p PaneID) left() PaneID {
	switch p {
	case General:
		return Motivation
	case Stats:
		return Agents
	default:
		return p
	}
}

func (p PaneID) right() PaneID {
	switch p {
	case Motivation:
		return General
	case Agents:
		return Stats
	default:
		return p
	}
}

func (p PaneID) up() PaneID {
	switch p {
	case Agents:
		return Motivation
	case Stats:
		return General
	default:
		return p
	}
}

func (p PaneID) down() PaneID {
	switch p {
	case Motivation:
		return Agents
	case General:
		return Stats
	default:
		return p
	}
}

func (p PaneID) next() PaneID {
	switch p {
	case Motivation:
		return General
	case General:
		return Agents
	case Agents:
		return Stats
	default:
		return Motivation
	}
}
