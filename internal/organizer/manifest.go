package organizer

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"mediakit/internal/fileutil"
	"mediakit/internal/logging"
	"mediakit/internal/services"
	"mediakit/internal/textutil"
)

// ManifestTrack is one entry of a disc in a rename manifest.
type ManifestTrack struct {
	Number   string `toml:"number"`
	Title    string `toml:"title"`
	Composer string `toml:"composer"`
}

// ManifestDisc is a source subfolder and the tracks it holds.
type ManifestDisc struct {
	// Label is the source subfolder name, e.g. "CD 1".
	Label string `toml:"label"`
	// Number prefixes destination names. Defaults to the digits of Label.
	Number string          `toml:"number"`
	Tracks []ManifestTrack `toml:"tracks"`
}

// Manifest describes a rename job.
type Manifest struct {
	Source      string         `toml:"source"`
	Destination string         `toml:"destination"`
	Extension   string         `toml:"extension"`
	Discs       []ManifestDisc `toml:"discs"`
}

// RenameResult reports a Rename pass.
type RenameResult struct {
	Copied  int
	Missing []string
}

var digitsPattern = regexp.MustCompile(`\d+`)

// LoadManifest reads and validates a TOML rename manifest. Relative source
// and destination paths resolve against the manifest's directory.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "rename", "read manifest", path, err)
	}
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, services.Wrap(services.ErrValidation, "rename", "parse manifest", path, err)
	}
	base := filepath.Dir(path)
	m.Source = resolveAgainst(base, m.Source)
	m.Destination = resolveAgainst(base, m.Destination)
	m.Extension = strings.TrimSpace(m.Extension)
	if m.Extension == "" {
		m.Extension = ".mp3"
	}
	if !strings.HasPrefix(m.Extension, ".") {
		m.Extension = "." + m.Extension
	}
	for i := range m.Discs {
		disc := &m.Discs[i]
		disc.Label = strings.TrimSpace(disc.Label)
		disc.Number = strings.TrimSpace(disc.Number)
		if disc.Number == "" {
			disc.Number = digitsPattern.FindString(disc.Label)
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate reports the first structural problem of the manifest.
func (m *Manifest) Validate() error {
	switch {
	case m.Source == "":
		return services.Wrap(services.ErrValidation, "rename", "validate manifest", "source is required", nil)
	case m.Destination == "":
		return services.Wrap(services.ErrValidation, "rename", "validate manifest", "destination is required", nil)
	case len(m.Discs) == 0:
		return services.Wrap(services.ErrValidation, "rename", "validate manifest", "at least one disc is required", nil)
	}
	for i, disc := range m.Discs {
		if disc.Label == "" {
			return services.Wrap(services.ErrValidation, "rename", "validate manifest", fmt.Sprintf("disc %d has no label", i+1), nil)
		}
		for j, track := range disc.Tracks {
			if strings.TrimSpace(track.Number) == "" || strings.TrimSpace(track.Title) == "" {
				return services.Wrap(services.ErrValidation, "rename", "validate manifest",
					fmt.Sprintf("disc %q track %d needs a number and a title", disc.Label, j+1), nil)
			}
		}
	}
	return nil
}

// SourceName is the file name a track has inside its disc folder.
func (t ManifestTrack) SourceName(ext string) string {
	return fmt.Sprintf("%s. %s%s", t.Number, cleanTitle(t.Title), ext)
}

// TargetName is "<disc><NN> - <title> - <composer><ext>", without the
// composer part when none is known.
func (t ManifestTrack) TargetName(disc, ext string) string {
	title := textutil.StripUnsafe(cleanTitle(t.Title))
	composer := textutil.StripUnsafe(strings.TrimSpace(t.Composer))
	if composer == "" {
		return fmt.Sprintf("%s%s - %s%s", disc, t.Number, title, ext)
	}
	return fmt.Sprintf("%s%s - %s - %s%s", disc, t.Number, title, composer, ext)
}

// Rename copies every manifest track from its disc folder into the
// destination under its new name. Missing sources are reported, not fatal.
func (o *Organizer) Rename(ctx context.Context, m *Manifest) (RenameResult, error) {
	logger := o.logger()
	var result RenameResult
	if !o.DryRun {
		if err := os.MkdirAll(m.Destination, 0o755); err != nil {
			return result, services.Wrap(services.ErrConfiguration, "rename", "create destination", m.Destination, err)
		}
	}
	for _, disc := range m.Discs {
		for _, track := range disc.Tracks {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			src := filepath.Join(m.Source, disc.Label, track.SourceName(m.Extension))
			if !fileutil.Exists(src) {
				logger.Warn("source file not found", logging.Path(src))
				result.Missing = append(result.Missing, src)
				continue
			}
			dst := filepath.Join(m.Destination, track.TargetName(disc.Number, m.Extension))
			if err := o.copy(ctx, src, dst); err != nil {
				if errors.Is(err, fileutil.ErrSameFile) {
					logger.Info("already in destination", logging.Path(src))
					continue
				}
				logger.Warn("copy failed", logging.Path(src), logging.Error(err))
				result.Missing = append(result.Missing, src)
				continue
			}
			result.Copied++
		}
	}
	return result, nil
}

func cleanTitle(title string) string {
	return strings.ReplaceAll(strings.TrimSpace(title), "_", " ")
}

func resolveAgainst(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

//go:embed sample_manifest.toml
var sampleManifest string

// SampleManifest returns an annotated example manifest.
func SampleManifest() string {
	return sampleManifest
}
