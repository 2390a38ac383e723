package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediakit/internal/geo"
	"mediakit/internal/geotag"
	"mediakit/internal/preflight"
)

func newGPSCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gps",
		Short: "Inspect and write GPS metadata in photos and videos",
	}
	cmd.AddCommand(newGPSMissingCommand(ctx))
	cmd.AddCommand(newGPSExtractCommand(ctx))
	cmd.AddCommand(newGPSUpdateCommand(ctx))
	cmd.AddCommand(newGPSPlaceCommand(ctx))
	return cmd
}

func newGPSMissingCommand(ctx *commandContext) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "missing <directory>",
		Short: "List JPEG files without GPS metadata as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()

			out, err := openOutput(cmd, "gps missing", output)
			if err != nil {
				return err
			}
			defer out.discard()

			svc := geotag.New(s.cfg, s.logger, s.run)
			defer svc.Close()
			summary, err := svc.MissingReport(s.ctx, args[0], out)
			if err != nil {
				return err
			}
			if err := out.finish(); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Scanned %d JPEG files, %d without GPS\n", summary.Scanned, summary.Missing)
				fmt.Fprintf(cmd.OutOrStdout(), "Results saved to %s\n", output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file to write (default stdout)")
	return cmd
}

func newGPSExtractCommand(ctx *commandContext) *cobra.Command {
	var output string
	var all bool
	cmd := &cobra.Command{
		Use:   "extract <directory>",
		Short: "Infer GPS for untagged media from nearby timestamped files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			if err := preflight.Require(s.ctx, s.cfg, "FFprobe"); err != nil {
				return err
			}

			svc := geotag.New(s.cfg, s.logger, s.run)
			defer svc.Close()
			result, err := svc.Extract(s.ctx, args[0], geotag.ExtractOptions{IncludeVideos: all})
			if err != nil {
				return err
			}

			out, err := openOutput(cmd, "gps extract", output)
			if err != nil {
				return err
			}
			defer out.discard()
			rows, err := svc.WriteProxyCSV(out, result)
			if err != nil {
				return err
			}
			if err := out.finish(); err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "\nProcessed %d media files:\n", result.Total)
			fmt.Fprintf(stdout, "- %d files with GPS coordinates (%d with proxy GPS)\n", result.WithGPS, result.Proxy)
			fmt.Fprintf(stdout, "- %d files without GPS coordinates\n", result.WithoutGPS)
			fmt.Fprintf(stdout, "\n%d proxy rows saved to %s\n", rows, output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "CSV file for the proxy coordinates")
	cmd.Flags().BoolVar(&all, "all", false, "Include videos")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newGPSUpdateCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "update <directory> <csv>",
		Short: "Write coordinates listed in a CSV into photos and videos",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			if !dryRun {
				if err := requireWriters(s, all); err != nil {
					return err
				}
				if err := s.lock(args[0]); err != nil {
					return err
				}
			}

			svc := geotag.New(s.cfg, s.logger, s.run)
			svc.DryRun = dryRun
			defer svc.Close()

			stdout := cmd.OutOrStdout()
			fmt.Fprintf(stdout, "Directory: %s\nCSV File: %s\nProcessing videos: %s\n\n", args[0], args[1], yesNo(all))
			summary, err := svc.UpdateFromCSV(s.ctx, args[0], args[1], geotag.UpdateOptions{IncludeVideos: all})
			if err != nil {
				return err
			}
			printSummary(cmd, "GPS update complete", summary.Processed, summary.Skipped, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Also write videos")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without touching files")
	return cmd
}

func newGPSPlaceCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "place <directory> <place>",
		Short: "Geocode a place name and write it into every photo and video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			if !dryRun {
				if err := requireWriters(s, true); err != nil {
					return err
				}
				if err := s.lock(args[0]); err != nil {
					return err
				}
			}

			svc := geotag.New(s.cfg, s.logger, s.run)
			svc.DryRun = dryRun
			defer svc.Close()

			coord, summary, err := svc.ApplyPlace(s.ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Found coordinates for '%s': %s (%s)\n", args[1], geo.FormatLocation(coord), coord.HumanString())
			printSummary(cmd, "Processing complete for "+args[0], summary.Processed, summary.Skipped, dryRun)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be written without touching files")
	return cmd
}

// requireWriters checks the binaries a GPS write pass needs.
func requireWriters(s *session, videos bool) error {
	names := []string{"ExifTool"}
	if videos {
		names = append(names, "FFmpeg")
	}
	return preflight.Require(s.ctx, s.cfg, names...)
}

func printSummary(cmd *cobra.Command, title string, processed, skipped int, dryRun bool) {
	out := cmd.OutOrStdout()
	if dryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(out, "\n%s!\n", title)
	fmt.Fprintf(out, "Successfully processed: %d files\n", processed)
	fmt.Fprintf(out, "Skipped: %d files\n", skipped)
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}
