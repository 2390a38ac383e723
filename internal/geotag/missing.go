package geotag

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"mediakit/internal/logging"
	"mediakit/internal/media/photo"
	"mediakit/internal/scan"
)

const isoLayout = "2006-01-02T15:04:05"

// MissingSummary counts the JPEGs examined by MissingReport.
type MissingSummary struct {
	Scanned int
	Missing int
}

// MissingReport writes a "path,datetime" CSV row for every JPEG under root
// without a GPS IFD. Files whose EXIF cannot be read count as missing.
func (s *Service) MissingReport(ctx context.Context, root string, out io.Writer) (MissingSummary, error) {
	logger := s.logger()
	files, err := scan.Walk(root, scan.Options{Extensions: scan.Extensions(".jpg", ".jpeg"), Logger: logger})
	if err != nil {
		return MissingSummary{}, err
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"path", "datetime"}); err != nil {
		return MissingSummary{}, fmt.Errorf("write csv header: %w", err)
	}

	var summary MissingSummary
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Scanned++
		x, err := photo.Read(path)
		if err != nil {
			logger.Debug("exif unreadable", logging.Path(path), logging.Error(err))
		}
		if x != nil && x.HasGPSInfo() {
			continue
		}
		summary.Missing++
		var stamp string
		if x != nil {
			if t, ok := x.DateTime(); ok {
				stamp = formatTime(t)
			}
		}
		if err := w.Write([]string{path, stamp}); err != nil {
			return summary, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return summary, fmt.Errorf("flush csv: %w", err)
	}
	logger.Info("missing gps scan complete",
		logging.Int("scanned", summary.Scanned),
		logging.Int("missing", summary.Missing),
	)
	return summary, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(isoLayout) + "+00:00"
}
