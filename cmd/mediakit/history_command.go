package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediakit/internal/journal"
	"mediakit/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the file operations recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Journal.Enabled {
				fmt.Fprintln(out, "Journal is disabled (set [journal] enabled = true to record operations)")
				return nil
			}
			if limit <= 0 {
				return services.Wrap(services.ErrValidation, "history", "limit", "must be positive", nil)
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return services.Wrap(services.ErrConfiguration, "history", "open journal", cfg.JournalPath(), err)
			}
			defer store.Close()

			var entries []journal.Entry
			if id := strings.TrimSpace(runID); id != "" {
				entries, err = store.ForRun(cmd.Context(), id)
			} else {
				entries, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No operations recorded")
				return nil
			}
			t := newReportTable(
				textCol("Time"), textCol("Run"), textCol("Command"), textCol("Action"),
				pathCol("Source"), pathCol("Target"),
			)
			for _, e := range entries {
				t.add(
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					shortRunID(e.RunID),
					e.Command,
					string(e.Action),
					e.Source,
					e.Target,
				)
			}
			t.caption = fmt.Sprintf("Operations: %d", len(entries))
			fmt.Fprintln(out, t.render())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of operations to list")
	cmd.Flags().StringVar(&runID, "run", "", "Show every operation of one run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
