package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediakit/internal/organizer"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var example bool
	cmd := &cobra.Command{
		Use:   "rename <manifest.toml>",
		Short: "Copy a tracklist described by a TOML manifest into disc-prefixed names",
		Args: func(cmd *cobra.Command, args []string) error {
			if example {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if example {
				_, err := fmt.Fprint(cmd.OutOrStdout(), organizer.SampleManifest())
				return err
			}
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			manifest, err := organizer.LoadManifest(args[0])
			if err != nil {
				return err
			}
			if !dryRun {
				if err := s.lock(manifest.Destination); err != nil {
					return err
				}
			}
			o := organizer.New(s.logger, s.run)
			o.DryRun = dryRun
			result, err := o.Rename(s.ctx, manifest)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, missing := range result.Missing {
				fmt.Fprintf(out, "File not found: %s\n", missing)
			}
			printSummary(cmd, "Rename complete", result.Copied, len(result.Missing), dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report copies without writing files")
	cmd.Flags().BoolVar(&example, "example", false, "Print an example manifest and exit")
	return cmd
}
