package exiftool

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/barasher/go-exiftool"

	"mediakit/internal/geo"
	"mediakit/internal/services"
)

// Tool owns one exiftool process. It is started lazily on first use.
type Tool struct {
	binary string

	mu   sync.Mutex
	tool *exiftool.Exiftool
}

// NewTool returns a Tool that runs binary ("exiftool" when empty).
func NewTool(binary string) *Tool {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "exiftool"
	}
	return &Tool{binary: binary}
}

// Available reports whether the exiftool binary can be found.
func (w *Tool) Available() bool {
	_, err := exec.LookPath(w.binary)
	return err == nil
}

func (w *Tool) start() (*exiftool.Exiftool, error) {
	if w.tool != nil {
		return w.tool, nil
	}
	resolved, err := exec.LookPath(w.binary)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "exiftool", "locate binary", w.binary, err)
	}
	tool, err := exiftool.NewExiftool(
		exiftool.SetExiftoolBinaryPath(resolved),
		exiftool.NoPrintConversion(),
	)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "exiftool", "start", resolved, err)
	}
	w.tool = tool
	return tool, nil
}

// WriteGPS stores coord in the GPS IFD of path.
func (w *Tool) WriteGPS(path string, coord geo.Coordinate) error {
	if !coord.Valid() {
		return services.Wrap(services.ErrValidation, "exiftool", "write gps", coord.String(), geo.ErrInvalidLocation)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	tool, err := w.start()
	if err != nil {
		return err
	}

	md := exiftool.EmptyFileMetadata()
	md.File = path
	md.SetFloat("GPSLatitude", abs(coord.Lat))
	md.SetString("GPSLatitudeRef", coord.LatRef())
	md.SetFloat("GPSLongitude", abs(coord.Lon))
	md.SetString("GPSLongitudeRef", coord.LonRef())

	batch := []exiftool.FileMetadata{md}
	tool.WriteMetadata(batch)
	if batch[0].Err != nil {
		return services.Wrap(services.ErrExternalTool, "exiftool", "write gps", path, batch[0].Err)
	}
	removeBackup(path)
	return nil
}

// Close stops the exiftool process if it was started.
func (w *Tool) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.tool == nil {
		return nil
	}
	err := w.tool.Close()
	w.tool = nil
	if err != nil {
		return fmt.Errorf("close exiftool: %w", err)
	}
	return nil
}

// exiftool keeps "<file>_original" unless told otherwise.
func removeBackup(path string) {
	_ = os.Remove(path + "_original")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
