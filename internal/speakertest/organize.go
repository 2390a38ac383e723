package speakertest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"mediakit/internal/config"
	"mediakit/internal/fileutil"
	"mediakit/internal/journal"
	"mediakit/internal/logging"
	"mediakit/internal/matching"
	"mediakit/internal/media/audio"
	"mediakit/internal/scan"
	"mediakit/internal/services"
	"mediakit/internal/textutil"
)

// ReferenceFile is the name of the quality sheet written into the output folder.
const ReferenceFile = "00_Quality_Reference.txt"

// QualityReader reads stream quality from a FLAC file.
type QualityReader func(path string) (audio.Quality, error)

// Candidate is one library file that resembles a reference song.
type Candidate struct {
	Path       string
	Similarity int
	Quality    audio.Quality
	// QualityKnown is false when the stream info could not be read.
	QualityKnown bool
}

// Selection is the version chosen for a reference song.
type Selection struct {
	Song config.Song
	Candidate
	// Target is the file name inside the category folder.
	Target string
}

// Group lists the selections of one category.
type Group struct {
	Name        string
	Recommended []config.Song
	Selected    []Selection
}

// Result describes an organize run.
type Result struct {
	OutputDir string
	Groups    []Group
}

// Organizer matches reference songs and copies the best versions.
type Organizer struct {
	Groups         []config.SpeakerGroup
	CandidateScore int
	AcceptScore    int
	ReadQuality    QualityReader
	Journal        journal.Recorder
	Logger         *slog.Logger
	Now            func() time.Time
	DryRun         bool
}

// New builds an organizer from configuration.
func New(cfg *config.Config, logger *slog.Logger, rec journal.Recorder) *Organizer {
	return &Organizer{
		Groups:         cfg.SpeakerTest.Groups,
		CandidateScore: cfg.Matching.CandidateScore,
		AcceptScore:    cfg.Matching.AcceptScore,
		ReadQuality:    audio.FLACStreamInfo,
		Journal:        rec,
		Logger:         logging.NewComponentLogger(logger, "speakertest"),
		Now:            time.Now,
	}
}

// Similarity scores a file stem against a song, 0..100.
func Similarity(stem string, song config.Song) int {
	stem = strings.ToLower(stem)
	full := strings.ToLower(song.Artist + " - " + song.Title)
	return max(matching.TokenSetRatio(stem, full), matching.TokenSetRatio(stem, strings.ToLower(song.Title)))
}

// Find returns, per category in configuration order, the best accepted
// version of each reference song found below source. Categories without any
// accepted song are omitted.
func (o *Organizer) Find(ctx context.Context, source string) ([]Group, error) {
	logger := o.logger()
	files, err := scan.Walk(source, scan.Options{Extensions: scan.Extensions(".flac"), Logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Info("scanning flac files", logging.Int("files", len(files)))

	type key struct{ group, song int }
	candidates := make(map[key][]Candidate)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stem := scan.Stem(path)
		for gi, group := range o.Groups {
			for si, song := range group.Songs {
				score := Similarity(stem, song)
				if score > o.CandidateScore {
					k := key{gi, si}
					candidates[k] = append(candidates[k], Candidate{Path: path, Similarity: score})
				}
			}
		}
	}

	var groups []Group
	for gi, group := range o.Groups {
		out := Group{Name: group.Name, Recommended: group.Songs}
		for si, song := range group.Songs {
			best, ok := o.pick(candidates[key{gi, si}])
			if !ok {
				continue
			}
			logger.Debug("song selected",
				logging.String("song", song.Artist+" - "+song.Title),
				logging.Path(best.Path),
				logging.Int("similarity", best.Similarity),
			)
			out.Selected = append(out.Selected, Selection{
				Song:      song,
				Candidate: best,
				Target:    TargetName(song),
			})
		}
		if len(out.Selected) > 0 {
			groups = append(groups, out)
		}
	}
	return groups, nil
}

// pick keeps candidates above the accept score and returns the one with the
// best stream quality. Unreadable files rank last; earlier files win ties.
func (o *Organizer) pick(candidates []Candidate) (Candidate, bool) {
	var accepted []Candidate
	for _, c := range candidates {
		if c.Similarity <= o.AcceptScore {
			continue
		}
		if q, err := o.ReadQuality(c.Path); err == nil {
			c.Quality, c.QualityKnown = q, true
		} else {
			o.logger().Warn("flac stream info unavailable", logging.Path(c.Path), logging.Error(err))
		}
		accepted = append(accepted, c)
	}
	if len(accepted) == 0 {
		return Candidate{}, false
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		a, b := accepted[i], accepted[j]
		if a.QualityKnown != b.QualityKnown {
			return a.QualityKnown
		}
		return a.Quality.Better(b.Quality)
	})
	return accepted[0], true
}

// TargetName is the standardized file name for song.
func TargetName(song config.Song) string {
	return textutil.StripUnsafe(song.Artist) + " - " + textutil.StripUnsafe(song.Title) + ".flac"
}

// CategoryDir is the folder name used for a category.
func CategoryDir(name string) string {
	if dir := slug.Make(name); dir != "" {
		return dir
	}
	return "uncategorized"
}

// Organize copies the selected songs into a timestamped folder below dest.
// When nothing matches it returns an empty result and creates nothing.
func (o *Organizer) Organize(ctx context.Context, source, dest string) (Result, error) {
	groups, err := o.Find(ctx, source)
	if err != nil {
		return Result{}, err
	}
	if len(groups) == 0 {
		return Result{}, nil
	}
	now := o.now()
	result := Result{
		OutputDir: filepath.Join(dest, "FLAC_SpeakerTest_"+now.Format("20060102_150405")),
		Groups:    groups,
	}
	if o.DryRun {
		for _, g := range groups {
			for _, s := range g.Selected {
				o.logger().Info("dry run: would copy",
					logging.Path(s.Path),
					logging.String("target", filepath.Join(result.OutputDir, CategoryDir(g.Name), s.Target)),
				)
			}
		}
		return result, nil
	}

	if err := os.MkdirAll(result.OutputDir, 0o755); err != nil {
		return result, services.Wrap(services.ErrConfiguration, "speaker-test", "create output", result.OutputDir, err)
	}
	for _, g := range groups {
		dir := filepath.Join(result.OutputDir, CategoryDir(g.Name))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return result, services.Wrap(services.ErrConfiguration, "speaker-test", "create category", dir, err)
		}
		for _, s := range g.Selected {
			target := filepath.Join(dir, s.Target)
			if err := fileutil.CopyFile(s.Path, target); err != nil {
				return result, fmt.Errorf("copy %s: %w", s.Path, err)
			}
			if o.Journal != nil {
				if err := o.Journal.Record(ctx, journal.Entry{Action: journal.ActionCopy, Source: s.Path, Target: target}); err != nil {
					o.logger().Warn("journal record failed", logging.Path(target), logging.Error(err))
				}
			}
		}
	}
	sheet := ReferenceSheet(result, now)
	if err := os.WriteFile(filepath.Join(result.OutputDir, ReferenceFile), []byte(sheet), 0o644); err != nil {
		return result, fmt.Errorf("write reference: %w", err)
	}
	return result, nil
}

// ReferenceSheet renders the quality reference listing for result.
func ReferenceSheet(result Result, generated time.Time) string {
	var b strings.Builder
	b.WriteString("FLAC Speaker Test - Best Quality Selection\n")
	fmt.Fprintf(&b, "Generated on: %s\n\n", generated.Format("2006-01-02 15:04:05"))
	for _, g := range result.Groups {
		fmt.Fprintf(&b, "\n=== %s ===\n", g.Name)
		b.WriteString("Recommended Songs:\n")
		for _, song := range g.Recommended {
			fmt.Fprintf(&b, "- %s - %s\n", song.Artist, song.Title)
		}
		b.WriteString("\nSelected Best Versions:\n")
		for _, s := range g.Selected {
			quality := "unknown"
			if s.QualityKnown {
				quality = s.Quality.Summary()
			}
			fmt.Fprintf(&b, "\n* %s - %s\n", s.Song.Artist, s.Song.Title)
			fmt.Fprintf(&b, "  Original: %s\n", filepath.Base(s.Path))
			fmt.Fprintf(&b, "  New Name: %s\n", s.Target)
			fmt.Fprintf(&b, "  Similarity: %d%%\n", s.Similarity)
			fmt.Fprintf(&b, "  Quality: %s\n", quality)
			fmt.Fprintf(&b, "  Duration: %.2fs\n", s.Quality.Duration.Seconds())
			fmt.Fprintf(&b, "  Source: %s\n", s.Path)
			fmt.Fprintf(&b, "  Copied To: %s\n", filepath.Join(result.OutputDir, CategoryDir(g.Name), s.Target))
		}
	}
	return b.String()
}

func (o *Organizer) logger() *slog.Logger {
	if o.Logger == nil {
		return logging.NewNop()
	}
	return o.Logger
}

func (o *Organizer) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}
