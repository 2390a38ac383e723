package geotag

import (
	"context"

	"mediakit/internal/geo"
	"mediakit/internal/logging"
	"mediakit/internal/media/photo"
	"mediakit/internal/scan"
	"mediakit/internal/services"
)

// PlaceExtensions are the files ApplyPlace writes.
var PlaceExtensions = scan.Extensions(".jpg", ".jpeg", ".png", ".heic", ".mp4", ".mov")

// ApplyPlace geocodes place once and writes the result into every photo and
// video under root. When the place cannot be resolved nothing is written.
func (s *Service) ApplyPlace(ctx context.Context, root, place string) (geo.Coordinate, Summary, error) {
	if err := scan.RequireDir(root); err != nil {
		return geo.Coordinate{}, Summary{}, err
	}
	if s.Geocoder == nil {
		return geo.Coordinate{}, Summary{}, services.Wrap(services.ErrConfiguration, "gps place", "geocode", "no geocoder configured", nil)
	}
	logger := s.logger()

	coord, err := s.Geocoder.Geocode(ctx, place)
	if err != nil {
		return geo.Coordinate{}, Summary{}, err
	}
	logger.Info("place resolved",
		logging.String("place", place),
		logging.String("location", geo.FormatLocation(coord)),
	)

	files, err := scan.Walk(root, scan.Options{Extensions: PlaceExtensions, Logger: logger})
	if err != nil {
		return coord, Summary{}, err
	}

	var summary Summary
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return coord, summary, err
		}
		if err := photo.VerifyImage(path); err != nil {
			logger.Warn("skipping invalid media file", logging.Path(path), logging.Error(err))
			summary.Skipped++
			continue
		}
		if err := s.write(ctx, path, coord); err != nil {
			logger.Warn("gps write failed", logging.Path(path), logging.Error(err))
			summary.Skipped++
			continue
		}
		summary.Processed++
	}
	logger.Info("place tagging complete",
		logging.Int("processed", summary.Processed),
		logging.Int("skipped", summary.Skipped),
	)
	return coord, summary, nil
}
