package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"augustinus/internal/journal"
	"augustinus/internal/paths"
)

// eventsConfig holds configuration for the events command.
type eventsConfig struct {
	limit  int
	asJSON bool
}

// newEventsCmd creates the "augustinus events" subcommand.
func newEventsCmd() *cobra.Command {
	var cfg eventsConfig

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recent terminal session events",
		Long:  "Lists session starts, fallbacks, failures and exits recorded by the dashboard, oldest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			p, err := paths.Resolve()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}

			j, err := journal.Open(cmd.Context(), p.JournalDB)
			if err != nil {
				return fmt.Errorf("open journal: %w", err)
			}
			defer j.Close()

			entries, err := j.Recent(cmd.Context(), cfg.limit)
			if err != nil {
				return err
			}
			slices.Reverse(entries)

			if cfg.asJSON {
				return writeEventsJSON(cmd.OutOrStdout(), entries)
			}
			printEvents(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.limit, "limit", 20, "number of recent events to show")
	cmd.Flags().BoolVar(&cfg.asJSON, "json", false, "print events as JSON lines")

	return cmd
}

func printEvents(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no events found")
		return
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-20s %-8s %s",
			e.CreatedAt.Local().Format(time.DateTime), e.Kind, e.Pane, e.Program)
		if e.Detail != "" {
			line += "  " + e.Detail
		}
		fmt.Fprintln(w, line)
	}
}

type eventJSON struct {
	Time      time.Time `json:"time"`
	Kind      string    `json:"kind"`
	Pane      string    `json:"pane"`
	SessionID string    `json:"session_id,omitempty"`
	Program   string    `json:"program,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}

func writeEventsJSON(w io.Writer, entries []journal.Entry) error {
	enc := json.NewEncoder(w)
	for _, e := range entries {
		if err := enc.Encode(eventJSON{
			Time:      e.CreatedAt,
			Kind:      e.Kind,
			Pane:      e.Pane,
			SessionID: e.SessionID,
			Program:   e.Program,
			Detail:    e.Detail,
		}); err != nil {
			return fmt.Errorf("encode event: %w", err)
		}
	}
	return nil
}
