package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediakit/internal/organizer"
	"mediakit/internal/scan"
)

func newPlexCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plex",
		Short: "Lay out music the way Plex expects it",
	}
	cmd.AddCommand(newPlexMusicCommand(ctx))
	cmd.AddCommand(newPlexMultiDiscCommand(ctx))
	return cmd
}

func newPlexMusicCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "music <source> <destination>",
		Short: "Copy tagged audio into Artist/Album/NN - Title files",
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

			o := organizer.New(s.logger, s.run)
			o.DryRun = dryRun
			summary, err := o.MusicLibrary(s.ctx, args[0], args[1])
			if err != nil {
				return err
			}
			printSummary(cmd, "Music organization complete", summary.Processed, summary.Skipped, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report copies without writing files")
	return cmd
}

func newPlexMultiDiscCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "multidisc <directory>",
		Short: "Flatten CD/Disc folders of multi-disc albums into a processed copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			if !dryRun {
				if err := s.lock(args[0]); err != nil {
					return err
				}
			}

			o := organizer.New(s.logger, s.run)
			o.DryRun = dryRun
			summary, err := o.MultiDisc(s.ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Albums processed: %d\n", summary.Albums)
			printSummary(cmd, "All processing complete", summary.Processed, summary.Skipped, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report moves without touching files")
	return cmd
}
