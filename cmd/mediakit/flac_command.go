package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"mediakit/internal/flacquality"
	"mediakit/internal/preflight"
	"mediakit/internal/services"
)

func newFlacCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flac",
		Short: "FLAC library utilities",
	}
	cmd.AddCommand(newFlacClassifyCommand(ctx))
	return cmd
}

func newFlacClassifyCommand(ctx *commandContext) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "classify <directory>",
		Short: "Report bit depth, sample rate, and lossy-source hints per album",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if !slices.Contains(flacquality.Formats, format) {
				return services.Wrap(services.ErrValidation, "flac classify", "format",
					fmt.Sprintf("unsupported format %q (want one of %s)", format, strings.Join(flacquality.Formats, ", ")), nil)
			}
			s, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			if err := preflight.Require(s.ctx, s.cfg, "FFprobe"); err != nil {
				return err
			}

			classifier := flacquality.NewClassifier(s.cfg.FFprobeBinary(), s.logger)
			report, err := classifier.Classify(s.ctx, args[0])
			if err != nil {
				return err
			}

			out, err := openOutput(cmd, "flac classify", output)
			if err != nil {
				return err
			}
			defer out.discard()
			if format == flacquality.FormatTable {
				_, err = fmt.Fprintln(out, flacTable(report).render())
			} else {
				err = flacquality.Write(out, report, format)
			}
			if err != nil {
				return err
			}
			if err := out.finish(); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", flacquality.FormatList, "Output format: "+strings.Join(flacquality.Formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

// flacTable lays out classify rows under flacquality.Header.
func flacTable(report flacquality.Report) *reportTable {
	t := newReportTable(
		pathCol(flacquality.Header[0]),
		textCol(flacquality.Header[1]),
		numberCol(flacquality.Header[2]),
		numberCol(flacquality.Header[3]),
		textCol(flacquality.Header[4]),
		numberCol(flacquality.Header[5]),
	)
	t.addAll(report.Rows())
	t.caption = fmt.Sprintf("Albums: %d", len(report.Albums))
	return t
}
