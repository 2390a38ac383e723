package ffmpeg

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"mediakit/internal/geo"
	"mediakit/internal/services"
)

const stderrLimit = 2048

// Writer stamps location metadata into video containers.
type Writer struct {
	binary string
}

// NewWriter returns a writer that runs binary ("ffmpeg" when empty).
func NewWriter(binary string) *Writer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Writer{binary: binary}
}

// TempPath returns the sibling path ffmpeg writes to: "<stem>.temp<ext>".
func TempPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".temp" + ext
}

// Args returns the ffmpeg arguments used to copy in to out with location set.
func Args(in, out string, coord geo.Coordinate) []string {
	location := geo.FormatLocation(coord)
	return ffmpeg.Input(in).
		Output(out, ffmpeg.KwArgs{
			"c":          "copy",
			"metadata":   "location=" + location,
			"metadata:g": "location-eng=" + location,
		}).
		OverWriteOutput().
		GetArgs()
}

// WriteLocation stores coord as the location and location-eng tags of path.
func (w *Writer) WriteLocation(ctx context.Context, path string, coord geo.Coordinate) error {
	if !coord.Valid() {
		return services.Wrap(services.ErrValidation, "ffmpeg", "write location", coord.String(), geo.ErrInvalidLocation)
	}
	tmp := TempPath(path)

	cmd := exec.CommandContext(ctx, w.binary, Args(path, tmp, coord)...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(tmp)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if len(detail) > stderrLimit {
			detail = detail[len(detail)-stderrLimit:]
		}
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "write location", path+": "+detail, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrTransient, "ffmpeg", "replace original", path, err)
	}
	return nil
}
