package main

import (
	"fmt"
	"strings"

	"augustinus/pkg/router"
)

// commandKind identifies a command-line command.
type commandKind int

const (
	cmdNone commandKind = iota
	cmdQuit
	cmdRespawn
	cmdReload
)

// command is a parsed command line. For cmdRespawn, NoPane means the focused
// pane.
type command struct {
	kind commandKind
	pane router.PaneID
}

// parseCommand parses a submitted command line:
//
//	quit | q
//	respawn [general|agents]
//	reload
func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{kind: cmdNone}, nil
	}

	switch name, args := fields[0], fields[1:]; name {
	case "q", "quit":
		if len(args) > 0 {
			return command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return command{kind: cmdQuit}, nil

	case "respawn":
		switch len(args) {
		case 0:
			return command{kind: cmdRespawn}, nil
		case 1:
			pane, err := router.ParsePane(args[0])
			if err != nil {
				return command{}, err
			}
			if !pane.Interactive() {
				return command{}, fmt.Errorf("%s pane has no terminal", pane)
			}
			return command{kind: cmdRespawn, pane: pane}, nil
		default:
			return command{}, fmt.Errorf("usage: respawn [general|agents]")
		}

	case "reload":
		return command{kind: cmdReload}, nil

	default:
		return command{}, fmt.Errorf("unknown command %q", name)
	}
}
