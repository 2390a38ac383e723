package trackfinder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"mediakit/internal/fileutil"
	"mediakit/internal/journal"
	"mediakit/internal/logging"
	"mediakit/internal/matching"
	"mediakit/internal/scan"
	"mediakit/internal/services"
)

// MusicExtensions are the files considered as match candidates.
var MusicExtensions = scan.Extensions(".m4a", ".mp3", ".flac")

// Options controls a run.
type Options struct {
	Root          string
	Tracklist     string
	MinSimilarity float64
	AutoCopy      bool
	// Output, when set, receives the result lines.
	Output string
	DryRun bool
}

// Result is the outcome for one tracklist entry.
type Result struct {
	Track  matching.Track
	Match  string
	Score  float64
	Copied bool
}

// Line renders the result the way reports list it.
func (r Result) Line() string {
	if r.Match == "" {
		return r.Track.Label() + ": NOT FOUND"
	}
	return r.Track.Label() + ": " + r.Match
}

// Report summarizes a run.
type Report struct {
	Destination string
	Results     []Result
	Copied      int
}

// Finder runs tracklist searches.
type Finder struct {
	Prompt  *Prompter
	Out     io.Writer
	Journal journal.Recorder
	Logger  *slog.Logger
}

// New returns a finder prompting on in/out.
func New(in io.Reader, out io.Writer, logger *slog.Logger, rec journal.Recorder) *Finder {
	return &Finder{
		Prompt:  NewPrompter(in, out),
		Out:     out,
		Journal: rec,
		Logger:  logging.NewComponentLogger(logger, "trackfinder"),
	}
}

// Run matches every track of opts.Tracklist against the music under opts.Root.
func (f *Finder) Run(ctx context.Context, opts Options) (Report, error) {
	logger := f.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	tracklist, err := filepath.Abs(opts.Tracklist)
	if err != nil {
		return Report{}, services.Wrap(services.ErrValidation, "tracks find", "resolve tracklist", opts.Tracklist, err)
	}
	file, err := os.Open(tracklist)
	if err != nil {
		return Report{}, services.Wrap(services.ErrValidation, "tracks find", "open tracklist", tracklist, err)
	}
	tracks, err := matching.ParseTracklist(file)
	file.Close()
	if err != nil {
		return Report{}, services.Wrap(services.ErrValidation, "tracks find", "read tracklist", tracklist, err)
	}
	fmt.Fprintf(f.Out, "Found %d tracks in the tracklist.\n", len(tracks))

	files, err := scan.Walk(opts.Root, scan.Options{Extensions: MusicExtensions, Logger: logger})
	if err != nil {
		return Report{}, err
	}
	fmt.Fprintf(f.Out, "Found %d music files to search through.\n\n", len(files))

	report := Report{Destination: filepath.Dir(tracklist)}
	for _, track := range tracks {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result := Result{Track: track}
		result.Match, result.Score = BestMatch(track, files, opts.MinSimilarity)
		if result.Match != "" {
			logger.Debug("track matched",
				logging.String("track", track.Label()),
				logging.Path(result.Match),
				logging.Float64("score", result.Score),
			)
			if opts.AutoCopy || f.askCopy(result.Match, report.Destination) {
				result.Copied = f.copy(ctx, result.Match, report.Destination, opts.DryRun)
			}
		}
		if result.Copied {
			report.Copied++
		}
		fmt.Fprintln(f.Out, result.Line())
		report.Results = append(report.Results, result)
	}

	if opts.Output != "" {
		lines := make([]string, 0, len(report.Results))
		for _, r := range report.Results {
			lines = append(lines, r.Line())
		}
		if err := os.WriteFile(opts.Output, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
			return report, fmt.Errorf("write results: %w", err)
		}
		fmt.Fprintf(f.Out, "\nResults written to %s\n", opts.Output)
	}
	fmt.Fprintf(f.Out, "\nOperation complete. Copied %d files to %s\n", report.Copied, report.Destination)
	return report, nil
}

// BestMatch returns the file whose stem scores highest against track, or ""
// when no score reaches minSimilarity. Earlier files win ties.
func BestMatch(track matching.Track, files []string, minSimilarity float64) (string, float64) {
	combined := track.Artist + " " + track.Title
	best, bestScore := "", 0.0
	for _, path := range files {
		stem := scan.Stem(path)
		score := max(matching.Ratio(stem, combined), matching.Ratio(stem, track.Title))
		if score > bestScore && score >= minSimilarity {
			best, bestScore = path, score
		}
	}
	return best, bestScore
}

func (f *Finder) askCopy(source, destDir string) bool {
	fmt.Fprintf(f.Out, "\nFound: %s\nWould be copied to: %s\n", source, filepath.Join(destDir, filepath.Base(source)))
	return f.Prompt.Confirm("Copy this file?")
}

func (f *Finder) copy(ctx context.Context, source, destDir string, dryRun bool) bool {
	logger := f.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	dest := filepath.Join(destDir, filepath.Base(source))
	if fileutil.SameFile(source, dest) {
		fmt.Fprintf(f.Out, "Already in destination: %s\n", dest)
		return false
	}
	if fileutil.Exists(dest) {
		fmt.Fprintf(f.Out, "Warning: %s already exists in destination!\n", filepath.Base(source))
		if !f.Prompt.Confirm("Overwrite?") {
			return false
		}
	}
	if dryRun {
		fmt.Fprintf(f.Out, "Dry run: would copy to %s\n", dest)
		return true
	}
	if err := fileutil.CopyFile(source, dest); err != nil {
		logger.Warn("copy failed", logging.Path(source), logging.Error(err))
		fmt.Fprintf(f.Out, "Error copying file: %v\n", err)
		return false
	}
	fmt.Fprintf(f.Out, "Successfully copied to %s\n", dest)
	if f.Journal != nil {
		if err := f.Journal.Record(ctx, journal.Entry{Action: journal.ActionCopy, Source: source, Target: dest}); err != nil {
			logger.Warn("journal record failed", logging.Path(dest), logging.Error(err))
		}
	}
	return true
}
