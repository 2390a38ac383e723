package geotag

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"mediakit/internal/geo"
	"mediakit/internal/logging"
	"mediakit/internal/media/photo"
	"mediakit/internal/scan"
	"mediakit/internal/services"
)

// UpdateOptions controls UpdateFromCSV.
type UpdateOptions struct {
	// IncludeVideos allows rows that point at videos to be written.
	IncludeVideos bool
}

type csvColumns struct {
	path, lat, lon int
}

// UpdateFromCSV writes the coordinates listed in csvPath into the files they
// name. Rows that cannot be applied are logged and counted as skipped.
func (s *Service) UpdateFromCSV(ctx context.Context, root, csvPath string, opts UpdateOptions) (Summary, error) {
	if err := scan.RequireDir(root); err != nil {
		return Summary{}, err
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "gps update", "open csv", csvPath, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	header, err := r.Read()
	if err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "gps update", "read csv header", csvPath, err)
	}
	cols, err := locateColumns(header)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrValidation, "gps update", "read csv header", csvPath, err)
	}

	logger := s.logger()
	var summary Summary
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("skipping malformed csv row", logging.Int("line", line), logging.Error(err))
			summary.Skipped++
			continue
		}
		if s.applyRow(ctx, root, record, cols, opts) {
			summary.Processed++
		} else {
			summary.Skipped++
		}
	}
	logger.Info("gps update complete",
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (s *Service) applyRow(ctx context.Context, root string, record []string, cols csvColumns, opts UpdateOptions) bool {
	logger := s.logger()
	csvPath := field(record, cols.path)
	if csvPath == "" {
		logger.Warn("skipping row without path")
		return false
	}
	path, ok := ResolvePath(root, csvPath)
	if !ok {
		logger.Warn("file not found", logging.Path(csvPath))
		return false
	}
	if err := photo.VerifyImage(path); err != nil {
		logger.Warn("skipping invalid media file", logging.Path(path), logging.Error(err))
		return false
	}
	if s.isVideo(path) && !opts.IncludeVideos {
		logger.Info("skipping video (use --all to process)", logging.Path(path))
		return false
	}
	coord, err := parseCoordinate(field(record, cols.lat), field(record, cols.lon))
	if err != nil {
		logger.Warn("invalid coordinates", logging.Path(path), logging.Error(err))
		return false
	}
	if err := s.write(ctx, path, coord); err != nil {
		logger.Warn("gps write failed", logging.Path(path), logging.Error(err))
		return false
	}
	return true
}

func locateColumns(header []string) (csvColumns, error) {
	cols := csvColumns{path: -1, lat: -1, lon: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "path":
			cols.path = i
		case "latitude":
			cols.lat = i
		case "lat":
			if cols.lat < 0 {
				cols.lat = i
			}
		case "longitude":
			cols.lon = i
		case "lon":
			if cols.lon < 0 {
				cols.lon = i
			}
		}
	}
	if cols.path < 0 {
		return cols, errors.New(`missing "path" column`)
	}
	if cols.lat < 0 || cols.lon < 0 {
		return cols, errors.New(`missing "latitude"/"longitude" (or "lat"/"lon") columns`)
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseCoordinate(latRaw, lonRaw string) (geo.Coordinate, error) {
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("latitude %q: %w", latRaw, err)
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("longitude %q: %w", lonRaw, err)
	}
	c := geo.Coordinate{Lat: lat, Lon: lon}
	if !c.Valid() {
		return geo.Coordinate{}, fmt.Errorf("%w: %s", geo.ErrInvalidLocation, c)
	}
	return c, nil
}

// ResolvePath finds the file a CSV row refers to: the path as given
// (relative paths are joined to root), then root/<basename>, then the first
// file with that basename anywhere below root.
func ResolvePath(root, csvPath string) (string, bool) {
	candidate := csvPath
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}
	if isFile(candidate) {
		return candidate, true
	}
	name := filepath.Base(csvPath)
	if candidate = filepath.Join(root, name); isFile(candidate) {
		return candidate, true
	}

	var found string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found, found != ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
