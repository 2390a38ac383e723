package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediakit/internal/services"
)

// reportOutput is where a command writes its report: a file when --output is
// set, otherwise the command's stdout.
type reportOutput struct {
	io.Writer
	stage string
	path  string
	file  *os.File
}

// openOutput returns a writer for path, or the command's stdout when path is
// empty. Callers defer discard and call finish after the last write.
func openOutput(cmd *cobra.Command, stage, path string) (*reportOutput, error) {
	if path == "" {
		return &reportOutput{Writer: cmd.OutOrStdout(), stage: stage}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrValidation, stage, "create output directory", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, stage, "create output", path, err)
	}
	return &reportOutput{Writer: file, stage: stage, path: path, file: file}, nil
}

// finish closes the output file and reports a failed flush. Later calls are no-ops.
func (o *reportOutput) finish() error {
	if o.file == nil {
		return nil
	}
	file := o.file
	o.file = nil
	if err := file.Close(); err != nil {
		return services.Wrap(services.ErrValidation, o.stage, "close output", o.path, err)
	}
	return nil
}

// discard closes the file on error paths, where the report is already lost.
func (o *reportOutput) discard() {
	_ = o.finish()
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
