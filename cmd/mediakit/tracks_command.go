package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"mediakit/internal/trackfinder"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracks",
		Short: "Tracklist utilities",
	}
	cmd.AddCommand(newTracksFindCommand(ctx))
	return cmd
}

func newTracksFindCommand(ctx *commandContext) *cobra.Command {
	var minSimilarity float64
	var autoCopy bool
	var output string
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "find <tracklist> <music-directory>",
		Short: "Match an \"Artist - Title\" tracklist against a music tree and copy the matches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			if !cmd.Flags().Changed("min-similarity") {
				minSimilarity = s.cfg.Matching.MinSimilarity
			}
			if !dryRun {
				if err := s.lock(filepath.Dir(args[0])); err != nil {
					return err
				}
			}

			finder := trackfinder.New(cmd.InOrStdin(), cmd.OutOrStdout(), s.logger, s.run)
			_, err = finder.Run(s.ctx, trackfinder.Options{
				Tracklist:     args[0],
				Root:          args[1],
				MinSimilarity: minSimilarity,
				AutoCopy:      autoCopy,
				Output:        output,
				DryRun:        dryRun,
			})
			return err
		},
	}

	cmd.Flags().Float64Var(&minSimilarity, "min-similarity", 0.7, "Minimum similarity (0-1) for a file to match a track")
	cmd.Flags().BoolVar(&autoCopy, "auto-copy", false, "Copy matches without asking")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Also write the result lines to this file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report copies without writing files")
	return cmd
}
