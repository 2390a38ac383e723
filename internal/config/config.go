package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directories mediakit owns.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Tools names the external executables used for media inspection and writes.
type Tools struct {
	FFprobe  string `toml:"ffprobe"`
	FFmpeg   string `toml:"ffmpeg"`
	ExifTool string `toml:"exiftool"`
}

// Geocoder contains the Nominatim-compatible search endpoint settings.
type Geocoder struct {
	BaseURL        string `toml:"base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// GPS contains proxy GPS inference settings.
type GPS struct {
	// ProxyWindowMinutes bounds how far apart in time a GPS-tagged file may be
	// from an untagged one and still lend it coordinates.
	ProxyWindowMinutes int `toml:"proxy_window_minutes"`
	// ImageExtensions and VideoExtensions select the files `gps extract` reads.
	ImageExtensions []string `toml:"image_extensions"`
	VideoExtensions []string `toml:"video_extensions"`
}

// Matching contains fuzzy matching thresholds.
type Matching struct {
	// MinSimilarity is the 0..1 ratio a tracklist entry needs to match a file.
	MinSimilarity float64 `toml:"min_similarity"`
	// CandidateScore is the 0..100 token set score that makes a FLAC file a
	// speaker test candidate.
	CandidateScore int `toml:"candidate_score"`
	// AcceptScore is the 0..100 token set score a candidate needs to be selected.
	AcceptScore int `toml:"accept_score"`
}

// Song identifies one reference recording.
type Song struct {
	Artist string `toml:"artist"`
	Title  string `toml:"title"`
}

// SpeakerGroup is a named category of reference songs.
type SpeakerGroup struct {
	Name  string `toml:"name"`
	Songs []Song `toml:"songs"`
}

// SpeakerTest contains the reference list used by the speaker test organizer.
type SpeakerTest struct {
	Groups []SpeakerGroup `toml:"groups"`
}

// Journal controls the file operation journal.
type Journal struct {
	Enabled bool `toml:"enabled"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediakit.
//
// Configuration sections by concern:
//   - Paths: data directory (journal, locks) and log directory
//   - Tools: ffprobe, ffmpeg, and exiftool executables
//   - Geocoder: place name lookups for `gps place`
//   - GPS: proxy GPS time window
//   - Matching: fuzzy matching thresholds
//   - SpeakerTest: reference songs grouped by listening category
//   - Journal: file operation history
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Tools       Tools       `toml:"tools"`
	Geocoder    Geocoder    `toml:"geocoder"`
	GPS         GPS         `toml:"gps"`
	Matching    Matching    `toml:"matching"`
	SpeakerTest SpeakerTest `toml:"speaker_test"`
	Journal     Journal     `toml:"journal"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	xdg.Reload()
	return expandPath(filepath.Join(xdg.ConfigHome, "mediakit", "config.toml"))
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediakit.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.LockDir()} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	return binaryOrDefault(c.Tools.FFprobe, "ffprobe")
}

// FFmpegBinary returns the ffmpeg executable used for video metadata rewrites.
func (c *Config) FFmpegBinary() string {
	return binaryOrDefault(c.Tools.FFmpeg, "ffmpeg")
}

// ExifToolBinary returns the exiftool executable used for image GPS writes.
func (c *Config) ExifToolBinary() string {
	return binaryOrDefault(c.Tools.ExifTool, "exiftool")
}

// ProxyWindow returns the proxy GPS window as a duration.
func (c *Config) ProxyWindow() time.Duration {
	return time.Duration(c.GPS.ProxyWindowMinutes) * time.Minute
}

// GeocoderTimeout returns the geocoder request timeout.
func (c *Config) GeocoderTimeout() time.Duration {
	return time.Duration(c.Geocoder.TimeoutSeconds) * time.Second
}

// JournalPath returns the SQLite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.DataDir, "journal.db")
}

// LockDir returns the directory holding per-tree lock files.
func (c *Config) LockDir() string {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.DataDir, "locks")
}

func binaryOrDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultDataDir() string {
	xdg.Reload()
	return filepath.Join(xdg.DataHome, "mediakit")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
