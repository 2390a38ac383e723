package geotag

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"mediakit/internal/config"
	"mediakit/internal/geo"
	"mediakit/internal/journal"
	"mediakit/internal/logging"
	"mediakit/internal/media/ffprobe"
	"mediakit/internal/media/photo"
	"mediakit/internal/scan"
	"mediakit/internal/services/exiftool"
	"mediakit/internal/services/ffmpeg"
	"mediakit/internal/services/nominatim"
)

// ImageWriter stores coordinates in an image's EXIF GPS block.
type ImageWriter interface {
	WriteGPS(path string, coord geo.Coordinate) error
}

// ImageReader recovers capture time and GPS from images goexif cannot parse.
type ImageReader interface {
	ReadPhoto(path string) (photo.Info, error)
}

// VideoWriter stores coordinates in a video container's location tags.
type VideoWriter interface {
	WriteLocation(ctx context.Context, path string, coord geo.Coordinate) error
}

// Geocoder resolves a place name.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (geo.Coordinate, error)
}

// Prober inspects a media file with ffprobe.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// Summary counts the outcome of a write pass.
type Summary struct {
	Processed int
	Skipped   int
}

// Service runs the geotag passes.
type Service struct {
	Images   ImageWriter
	Fallback ImageReader
	Videos   VideoWriter
	Geocoder Geocoder
	Probe    Prober
	Journal  journal.Recorder
	Logger   *slog.Logger

	ImageExts scan.ExtensionSet
	VideoExts scan.ExtensionSet
	Window    time.Duration
	DryRun    bool
}

// New wires a Service to the real exiftool, ffmpeg, ffprobe, and Nominatim.
func New(cfg *config.Config, logger *slog.Logger, rec journal.Recorder) *Service {
	ffprobeBinary := cfg.FFprobeBinary()
	tool := exiftool.NewTool(cfg.ExifToolBinary())
	return &Service{
		Images:   tool,
		Fallback: tool,
		Videos:   ffmpeg.NewWriter(cfg.FFmpegBinary()),
		Geocoder: nominatim.NewFromConfig(cfg),
		Probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, ffprobeBinary, path)
		},
		Journal:   rec,
		Logger:    logging.NewComponentLogger(logger, "geotag"),
		ImageExts: scan.Extensions(cfg.GPS.ImageExtensions...),
		VideoExts: scan.Extensions(cfg.GPS.VideoExtensions...),
		Window:    cfg.ProxyWindow(),
	}
}

// Close releases the exiftool helper process, if any.
func (s *Service) Close() error {
	var errs []error
	if closer, ok := s.Images.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if closer, ok := s.Fallback.(io.Closer); ok && any(s.Fallback) != any(s.Images) {
		errs = append(errs, closer.Close())
	}
	return errors.Join(errs...)
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return logging.NewNop()
	}
	return s.Logger
}

func (s *Service) isVideo(path string) bool {
	return s.VideoExts.Match(path)
}

// write stores coord in path, choosing the writer by extension.
func (s *Service) write(ctx context.Context, path string, coord geo.Coordinate) error {
	video := s.isVideo(path)
	if s.DryRun {
		s.logger().Info("dry run: would write gps",
			logging.Path(path),
			logging.String("location", geo.FormatLocation(coord)),
			logging.Bool("video", video),
		)
		return nil
	}

	var err error
	if video {
		if s.Videos == nil {
			return errors.New("no video writer configured")
		}
		err = s.Videos.WriteLocation(ctx, path, coord)
	} else {
		if s.Images == nil {
			return errors.New("no image writer configured")
		}
		err = s.Images.WriteGPS(path, coord)
	}
	if err != nil {
		return err
	}
	s.logger().Info("gps written", logging.Path(path), logging.String("location", geo.FormatLocation(coord)))
	if s.Journal != nil {
		if jerr := s.Journal.Record(ctx, journal.Entry{
			Action: journal.ActionWriteGPS,
			Source: path,
			Detail: geo.FormatLocation(coord),
		}); jerr != nil {
			s.logger().Warn("journal record failed", logging.Path(path), logging.Error(jerr))
		}
	}
	return nil
}
