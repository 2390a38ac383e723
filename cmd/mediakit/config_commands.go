package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mediakit/internal/config"
	"mediakit/internal/services"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := sampleTarget(targetPath)
			if err != nil {
				return err
			}
			if err := writeSampleConfig(target, overwrite); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Point [tools] at ffprobe, ffmpeg, and exiftool if they are not on PATH, then run `mediakit doctor`.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// sampleTarget resolves the init destination, defaulting to the XDG location.
func sampleTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return "", services.Wrap(services.ErrConfiguration, "config init", "default path", "", err)
		}
		return path, nil
	}
	path, err := config.ExpandPath(raw)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "config init", "resolve path", raw, err)
	}
	return path, nil
}

func writeSampleConfig(target string, overwrite bool) error {
	if !overwrite {
		_, err := os.Stat(target)
		switch {
		case err == nil:
			return services.Wrap(services.ErrValidation, "config init", "exists", target+" (use --overwrite to replace it)", nil)
		case !errors.Is(err, fs.ErrNotExist):
			return services.Wrap(services.ErrConfiguration, "config init", "stat", target, err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "config init", "create directory", filepath.Dir(target), err)
	}
	if err := config.CreateSample(target); err != nil {
		return services.Wrap(services.ErrConfiguration, "config init", "write sample", target, err)
	}
	return nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and report the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := ctx.configPath
			if _, err := os.Stat(source); err != nil {
				source += " (not found, defaults in use)"
			}
			t := newReportTable(textCol("Setting"), textCol("Value"))
			t.add("Config", source)
			t.add("Data directory", cfg.Paths.DataDir)
			t.add("Log directory", cfg.Paths.LogDir)
			t.add("ffprobe", cfg.FFprobeBinary())
			t.add("ffmpeg", cfg.FFmpegBinary())
			t.add("exiftool", cfg.ExifToolBinary())
			t.add("Journal", yesNo(cfg.Journal.Enabled))
			t.add("Speaker test categories", fmt.Sprintf("%d", len(cfg.SpeakerTest.Groups)))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, t.render())
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
