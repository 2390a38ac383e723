package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mediakit/internal/config"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempHome, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tempHome, ".local", "share"))
	t.Setenv("MEDIAKIT_GEOCODER_URL", "")
	t.Setenv("MEDIAKIT_GEOCODER_USER_AGENT", "")
	return tempHome
}

func TestLoadDefaultConfigUsesXDGDirectories(t *testing.T) {
	tempHome := isolateXDG(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantResolved := filepath.Join(tempHome, ".config", "mediakit", "config.toml")
	if resolved != wantResolved {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantResolved)
	}

	wantData := filepath.Join(tempHome, ".local", "share", "mediakit")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.JournalPath() != filepath.Join(wantData, "journal.db") {
		t.Fatalf("unexpected journal path: %q", cfg.JournalPath())
	}
	if cfg.FFprobeBinary() != "ffprobe" || cfg.FFmpegBinary() != "ffmpeg" || cfg.ExifToolBinary() != "exiftool" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.ProxyWindow().Minutes() != 60 {
		t.Fatalf("unexpected proxy window: %s", cfg.ProxyWindow())
	}
	if cfg.Matching.MinSimilarity != 0.7 || cfg.Matching.CandidateScore != 70 || cfg.Matching.AcceptScore != 80 {
		t.Fatalf("unexpected matching defaults: %+v", cfg.Matching)
	}
	if len(cfg.SpeakerTest.Groups) != 5 {
		t.Fatalf("expected 5 speaker test groups, got %d", len(cfg.SpeakerTest.Groups))
	}
	for _, group := range cfg.SpeakerTest.Groups {
		if len(group.Songs) != 4 {
			t.Fatalf("group %q: expected 4 songs, got %d", group.Name, len(group.Songs))
		}
	}
	if !cfg.Journal.Enabled {
		t.Fatal("expected journal enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.LockDir()} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateXDG(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "mediakit.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		GPS struct {
			ProxyWindowMinutes int      `toml:"proxy_window_minutes"`
			ImageExtensions    []string `toml:"image_extensions"`
			VideoExtensions    []string `toml:"video_extensions"`
		} `toml:"gps"`
		SpeakerTest struct {
			Groups []config.SpeakerGroup `toml:"groups"`
		} `toml:"speaker_test"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.DataDir = "~/media-data"
	custom.GPS.ProxyWindowMinutes = 15
	custom.GPS.ImageExtensions = []string{"JPG", ".jpg", " heic "}
	custom.GPS.VideoExtensions = []string{".MOV"}
	custom.SpeakerTest.Groups = []config.SpeakerGroup{{
		Name:  " Bass ",
		Songs: []config.Song{{Artist: "Stevie Wonder", Title: " Superstition "}},
	}}
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}

	home, _ := os.UserHomeDir()
	if cfg.Paths.DataDir != filepath.Join(home, "media-data") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.LogDir != filepath.Join(home, "media-data", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.GPS.ProxyWindowMinutes != 15 {
		t.Fatalf("unexpected proxy window: %d", cfg.GPS.ProxyWindowMinutes)
	}
	if got := strings.Join(cfg.GPS.ImageExtensions, ","); got != ".jpg,.heic" {
		t.Fatalf("unexpected image extensions: got %q want %q", got, ".jpg,.heic")
	}
	if got := strings.Join(cfg.GPS.VideoExtensions, ","); got != ".mov" {
		t.Fatalf("unexpected video extensions: %q", got)
	}
	if len(cfg.SpeakerTest.Groups) != 1 || cfg.SpeakerTest.Groups[0].Name != "Bass" {
		t.Fatalf("unexpected speaker groups: %+v", cfg.SpeakerTest.Groups)
	}
	if cfg.SpeakerTest.Groups[0].Songs[0].Title != "Superstition" {
		t.Fatalf("expected trimmed title, got %q", cfg.SpeakerTest.Groups[0].Songs[0].Title)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected logging format: %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolateXDG(t)
	configPath := filepath.Join(t.TempDir(), "mediakit.toml")
	if err := os.WriteFile(configPath, []byte("[gps]\nproxy_window = 30\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestGeocoderEnvOverride(t *testing.T) {
	isolateXDG(t)
	t.Setenv("MEDIAKIT_GEOCODER_URL", "http://localhost:8080/")
	t.Setenv("MEDIAKIT_GEOCODER_USER_AGENT", "tests/1.0")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Geocoder.BaseURL != "http://localhost:8080" {
		t.Fatalf("unexpected geocoder url: %q", cfg.Geocoder.BaseURL)
	}
	if cfg.Geocoder.UserAgent != "tests/1.0" {
		t.Fatalf("unexpected user agent: %q", cfg.Geocoder.UserAgent)
	}
}

func TestCreateSample(t *testing.T) {
	isolateXDG(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Geocoder.BaseURL != config.Default().Geocoder.BaseURL {
		t.Fatalf("unexpected geocoder url from sample: %q", cfg.Geocoder.BaseURL)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{
			name:   "similarity out of range",
			mutate: func(c *config.Config) { c.Matching.MinSimilarity = 1.5 },
			want:   "matching.min_similarity",
		},
		{
			name:   "accept below candidate",
			mutate: func(c *config.Config) { c.Matching.AcceptScore = 60 },
			want:   "matching.accept_score",
		},
		{
			name:   "non-positive proxy window",
			mutate: func(c *config.Config) { c.GPS.ProxyWindowMinutes = 0 },
			want:   "gps.proxy_window_minutes",
		},
		{
			name:   "empty image extensions",
			mutate: func(c *config.Config) { c.GPS.ImageExtensions = nil },
			want:   "gps.image_extensions",
		},
		{
			name:   "geocoder timeout",
			mutate: func(c *config.Config) { c.Geocoder.TimeoutSeconds = 0 },
			want:   "geocoder.timeout_seconds",
		},
		{
			name:   "log format",
			mutate: func(c *config.Config) { c.Logging.Format = "xml" },
			want:   "logging.format",
		},
		{
			name: "song without title",
			mutate: func(c *config.Config) {
				c.SpeakerTest.Groups = []config.SpeakerGroup{{Name: "x", Songs: []config.Song{{Artist: "a"}}}}
			},
			want: "needs artist and title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error: got %q want substring %q", err.Error(), tc.want)
			}
		})
	}
}
