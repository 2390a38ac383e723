package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediakit/internal/scan"
	"mediakit/internal/speakertest"
)

func newSpeakerTestCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "speaker-test <source> <destination>",
		Short: "Copy the best FLAC version of each reference song into a speaker test folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			if err := scan.RequireDir(args[0]); err != nil {
				return err
			}
			if !dryRun {
				if err := s.lock(args[1]); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Searching for best FLAC matches...")
			organizer := speakertest.New(s.cfg, s.logger, s.run)
			organizer.DryRun = dryRun
			result, err := organizer.Organize(s.ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if len(result.Groups) == 0 {
				fmt.Fprintln(out, "No suitable FLAC matches found!")
				return nil
			}

			t := newReportTable(textCol("Category"), pathCol("Song"), numberCol("Similarity"), textCol("Quality"))
			for _, g := range result.Groups {
				for _, sel := range g.Selected {
					quality := "unknown"
					if sel.QualityKnown {
						quality = sel.Quality.Summary()
					}
					t.add(g.Name, sel.Target, fmt.Sprintf("%d%%", sel.Similarity), quality)
				}
			}
			fmt.Fprintln(out, t.render())
			if dryRun {
				fmt.Fprintf(out, "Dry run: files would be copied to %s\n", result.OutputDir)
				return nil
			}
			fmt.Fprintln(out, "\nOrganization complete!")
			fmt.Fprintf(out, "Results saved to: %s\n", result.OutputDir)
			fmt.Fprintf(out, "Quality reference file created: %s\n", speakertest.ReferenceFile)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the selection without copying")
	return cmd
}
