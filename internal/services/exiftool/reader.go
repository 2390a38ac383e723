package exiftool

import (
	"math"
	"strings"

	"github.com/barasher/go-exiftool"

	"mediakit/internal/geo"
	"mediakit/internal/media/photo"
	"mediakit/internal/services"
)

// ReadPhoto extracts the capture time and GPS position of path.
func (w *Tool) ReadPhoto(path string) (photo.Info, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tool, err := w.start()
	if err != nil {
		return photo.Info{}, err
	}
	results := tool.ExtractMetadata(path)
	if len(results) == 0 {
		return photo.Info{}, services.Wrap(services.ErrExternalTool, "exiftool", "read", path, photo.ErrNoExif)
	}
	if results[0].Err != nil {
		return photo.Info{}, services.Wrap(services.ErrExternalTool, "exiftool", "read", path, results[0].Err)
	}
	return infoFromMetadata(results[0]), nil
}

// infoFromMetadata expects numeric (-n) output: decimal degrees and raw
// single-letter refs.
func infoFromMetadata(fm exiftool.FileMetadata) photo.Info {
	var info photo.Info
	for _, key := range []string{"DateTimeOriginal", "CreateDate"} {
		if value, err := fm.GetString(key); err == nil {
			if ts, ok := photo.ParseDateTime(value); ok {
				info.Time = ts
				break
			}
		}
	}

	lat, latErr := fm.GetFloat("GPSLatitude")
	lon, lonErr := fm.GetFloat("GPSLongitude")
	if latErr != nil || lonErr != nil {
		return info
	}
	coord := geo.Coordinate{
		Lat: applyRef(lat, fm, "GPSLatitudeRef", "S"),
		Lon: applyRef(lon, fm, "GPSLongitudeRef", "W"),
	}
	if coord.Valid() && !coord.IsNullIsland() {
		info.Coord = &coord
	}
	return info
}

// applyRef signs v from its reference tag; without one v keeps its own sign.
func applyRef(v float64, fm exiftool.FileMetadata, key, negative string) float64 {
	ref, err := fm.GetString(key)
	if err != nil || strings.TrimSpace(ref) == "" {
		return v
	}
	if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(ref)), negative) {
		return -math.Abs(v)
	}
	return math.Abs(v)
}
