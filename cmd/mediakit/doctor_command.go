package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediakit/internal/preflight"
	"mediakit/internal/services"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools and configured directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			results := preflight.RunAll(cmd.Context(), cfg)
			lines := renderSectionHeader("mediakit doctor", colorize)
			lines = append(lines, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			lines = append(lines, resultLines(results, colorize)...)
			journalState := "Disabled"
			if cfg.Journal.Enabled {
				journalState = cfg.JournalPath()
			}
			lines = append(lines, renderStatusLine("Journal", statusInfo, journalState, colorize))
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if preflight.Failed(results) {
				return services.Wrap(services.ErrConfiguration, "doctor", "checks", "required checks failed", nil)
			}
			return nil
		},
	}
}

// resultLines renders one status line per check, with a summary line first.
func resultLines(results []preflight.Result, colorize bool) []string {
	var missing []string
	lines := make([]string, 0, len(results)+1)
	for _, r := range results {
		switch {
		case r.Passed:
			lines = append(lines, renderStatusLine(r.Name, statusOK, r.Detail, colorize))
		case r.Optional:
			lines = append(lines, renderStatusLine(r.Name, statusWarn, r.Detail, colorize))
		default:
			missing = append(missing, r.Name)
			lines = append(lines, renderStatusLine(r.Name, statusError, r.Detail, colorize))
		}
	}
	summary := renderStatusLine("Summary", statusOK, "All required checks passed", colorize)
	if len(missing) > 0 {
		summary = renderStatusLine("Summary", statusError, "Failing: "+strings.Join(missing, ", "), colorize)
	}
	return append([]string{summary}, lines...)
}
