package flacquality

import (
	"context"
	"log/slog"
	"math"
	"path/filepath"

	"mediakit/internal/logging"
	"mediakit/internal/media/ffprobe"
	"mediakit/internal/scan"
)

const (
	// LossyMaybe marks a track whose shape matches common lossy transcodes.
	LossyMaybe = "Maybe (verify with Spek)"
	// LossyNo marks every other track.
	LossyNo = "False"

	defaultBitDepth = 16
	cdSampleRate    = 44100
)

// Prober inspects one media file.
type Prober func(ctx context.Context, path string) (ffprobe.Result, error)

// Track is the classification of one FLAC file.
type Track struct {
	File       string `json:"file" yaml:"file"`
	BitDepth   int    `json:"bit_depth,omitempty" yaml:"bit_depth,omitempty"`
	SampleRate int    `json:"sample_rate,omitempty" yaml:"sample_rate,omitempty"`
	Lossy      string `json:"lossy,omitempty" yaml:"lossy,omitempty"`
	// Duration is the container length in seconds; 0 when ffprobe omits it.
	Duration float64 `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
	Error    string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// Album holds the tracks found in one directory.
type Album struct {
	Path   string  `json:"album" yaml:"album"`
	Tracks []Track `json:"tracks" yaml:"tracks"`
}

// Summary is the shared quality of a consolidated album.
type Summary struct {
	BitDepth   int    `json:"bit_depth" yaml:"bit_depth"`
	SampleRate int    `json:"sample_rate" yaml:"sample_rate"`
	Lossy      string `json:"lossy" yaml:"lossy"`
	Tracks     int    `json:"tracks" yaml:"tracks"`
	// Duration is the summed track length in seconds.
	Duration float64 `json:"duration_seconds,omitempty" yaml:"duration_seconds,omitempty"`
}

// Report is the result of classifying a tree.
type Report struct {
	Root   string  `json:"root" yaml:"root"`
	Albums []Album `json:"albums" yaml:"albums"`
}

// Classifier probes FLAC files with ffprobe.
type Classifier struct {
	Probe  Prober
	Logger *slog.Logger
}

// NewClassifier returns a classifier running the given ffprobe binary.
func NewClassifier(ffprobeBinary string, logger *slog.Logger) *Classifier {
	return &Classifier{
		Probe: func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, ffprobeBinary, path)
		},
		Logger: logger,
	}
}

// Classify scans root for .flac files and classifies each, grouped by the
// directory relative to root ("." for root itself) in walk order.
func (c *Classifier) Classify(ctx context.Context, root string) (Report, error) {
	logger := c.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	files, err := scan.Walk(root, scan.Options{Extensions: scan.Extensions(".flac"), Logger: logger})
	if err != nil {
		return Report{}, err
	}

	report := Report{Root: root}
	index := make(map[string]int)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			rel = filepath.Dir(path)
		}
		i, ok := index[rel]
		if !ok {
			i = len(report.Albums)
			index[rel] = i
			report.Albums = append(report.Albums, Album{Path: rel})
		}
		track := c.classifyFile(ctx, path)
		if track.Error != "" {
			logger.Warn("flac probe failed", logging.Path(path), logging.String("error", track.Error))
		} else {
			logger.Debug("flac classified",
				logging.Path(path),
				logging.Int("bit_depth", track.BitDepth),
				logging.Int("sample_rate", track.SampleRate),
			)
		}
		report.Albums[i].Tracks = append(report.Albums[i].Tracks, track)
	}
	logger.Info("flac classification complete",
		logging.Int("albums", len(report.Albums)),
		logging.Int("tracks", len(files)),
	)
	return report, nil
}

func (c *Classifier) classifyFile(ctx context.Context, path string) Track {
	track := Track{File: path}
	result, err := c.Probe(ctx, path)
	if err != nil {
		track.Error = err.Error()
		return track
	}
	stream, ok := result.FirstAudioStream()
	if !ok {
		track.Error = "no audio stream"
		return track
	}
	depth, ok := stream.RawBitDepth()
	if !ok {
		depth = defaultBitDepth
	}
	track.BitDepth = depth
	track.SampleRate = stream.SampleRateHz()
	track.Lossy = LossyHint(track.BitDepth, track.SampleRate)
	if d := result.DurationSeconds(); !math.IsNaN(d) && d > 0 {
		track.Duration = d
	}
	return track
}

// LossyHint returns LossyMaybe for 16-bit streams at CD rate or above.
func LossyHint(bitDepth, sampleRate int) string {
	if sampleRate >= cdSampleRate && bitDepth == defaultBitDepth {
		return LossyMaybe
	}
	return LossyNo
}

// Consolidated returns the shared quality when every track agrees and none failed.
func (a Album) Consolidated() (Summary, bool) {
	if len(a.Tracks) == 0 {
		return Summary{}, false
	}
	first := a.Tracks[0]
	var total float64
	for _, t := range a.Tracks {
		if t.Error != "" || t.BitDepth != first.BitDepth || t.SampleRate != first.SampleRate || t.Lossy != first.Lossy {
			return Summary{}, false
		}
		total += t.Duration
	}
	return Summary{
		BitDepth:   first.BitDepth,
		SampleRate: first.SampleRate,
		Lossy:      first.Lossy,
		Tracks:     len(a.Tracks),
		Duration:   total,
	}, true
}
