package geotag

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"mediakit/internal/geo"
	"mediakit/internal/logging"
	"mediakit/internal/media/photo"
	"mediakit/internal/scan"
)

// ExtractOptions controls Extract.
type ExtractOptions struct {
	// IncludeVideos adds video files to the scan.
	IncludeVideos bool
}

// ExtractResult holds every scanned file after proxy assignment.
type ExtractResult struct {
	Items      []geo.Item
	Total      int
	WithGPS    int
	Proxy      int
	WithoutGPS int
}

// Extract reads capture time and GPS for every image (and video, when asked)
// under root and assigns proxy coordinates to untagged files.
func (s *Service) Extract(ctx context.Context, root string, opts ExtractOptions) (ExtractResult, error) {
	logger := s.logger()
	exts := s.ImageExts
	if opts.IncludeVideos {
		exts = exts.Union(s.VideoExts)
	}
	files, err := scan.Walk(root, scan.Options{Extensions: exts, Logger: logger})
	if err != nil {
		return ExtractResult{}, err
	}

	items := make([]geo.Item, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return ExtractResult{}, err
		}
		var item geo.Item
		if s.isVideo(path) {
			item = s.readVideo(ctx, path)
		} else {
			item = s.readImage(ctx, path)
		}
		logger.Debug("media scanned",
			logging.Path(path),
			logging.Bool("has_time", item.HasTime()),
			logging.Bool("has_gps", item.Coord != nil),
		)
		items = append(items, item)
	}

	proxies := geo.AssignProxies(items, s.Window)
	result := ExtractResult{Items: items, Total: len(items), Proxy: proxies}
	for _, item := range items {
		if item.Coord != nil {
			result.WithGPS++
		} else {
			result.WithoutGPS++
		}
	}
	logger.Info("gps extraction complete",
		logging.Int("total", result.Total),
		logging.Int("with_gps", result.WithGPS),
		logging.Int("proxy", result.Proxy),
		logging.Int("without_gps", result.WithoutGPS),
	)
	return result, nil
}

func (s *Service) readImage(ctx context.Context, path string) geo.Item {
	item := geo.Item{Path: path}
	info, err := s.readPhoto(path)
	if err != nil {
		s.logger().Debug("image metadata unreadable", logging.Path(path), logging.Error(err))
	}
	item.Time, item.Coord = info.Time, info.Coord
	if !item.HasTime() {
		item.Time = s.probeTime(ctx, path)
	}
	return item
}

// readPhoto decodes EXIF with goexif, falling back to exiftool for
// containers such as HEIC and PNG.
func (s *Service) readPhoto(path string) (photo.Info, error) {
	x, err := photo.Read(path)
	if err == nil {
		return x.Info(), nil
	}
	if s.Fallback == nil {
		return photo.Info{}, err
	}
	return s.Fallback.ReadPhoto(path)
}

func (s *Service) readVideo(ctx context.Context, path string) geo.Item {
	item := geo.Item{Path: path}
	if s.Probe == nil {
		return item
	}
	result, err := s.Probe(ctx, path)
	if err != nil {
		s.logger().Warn("ffprobe failed", logging.Path(path), logging.Error(err))
		return item
	}
	if t, ok := result.CreationTime(); ok {
		item.Time = t
	}
	if c, ok := result.Location(); ok {
		item.Coord = &c
	}
	return item
}

func (s *Service) probeTime(ctx context.Context, path string) time.Time {
	if s.Probe == nil {
		return time.Time{}
	}
	result, err := s.Probe(ctx, path)
	if err != nil {
		s.logger().Debug("ffprobe fallback failed", logging.Path(path), logging.Error(err))
		return time.Time{}
	}
	t, _ := result.CreationTime()
	return t
}

// WriteProxyCSV writes the images that received proxy coordinates as
// "path,datetime,latitude,longitude,gps_source" rows. Videos are left out.
func (s *Service) WriteProxyCSV(out io.Writer, result ExtractResult) (int, error) {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"path", "datetime", "latitude", "longitude", "gps_source"}); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}
	rows := 0
	for _, item := range result.Items {
		if item.Source != geo.SourceProxy || item.Coord == nil || s.isVideo(item.Path) {
			continue
		}
		if err := w.Write([]string{
			item.Path,
			formatTime(item.Time),
			strconv.FormatFloat(item.Coord.Lat, 'f', -1, 64),
			strconv.FormatFloat(item.Coord.Lon, 'f', -1, 64),
			geo.SourceProxy,
		}); err != nil {
			return rows, fmt.Errorf("write csv row: %w", err)
		}
		rows++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return rows, fmt.Errorf("flush csv: %w", err)
	}
	return rows, nil
}
