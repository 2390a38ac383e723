package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeGeocoder()
	c.normalizeGPS()
	c.normalizeSpeakerTest()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir()
	}
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, defaultLogDirName)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = binaryOrDefault(c.Tools.FFprobe, "ffprobe")
	c.Tools.FFmpeg = binaryOrDefault(c.Tools.FFmpeg, "ffmpeg")
	c.Tools.ExifTool = binaryOrDefault(c.Tools.ExifTool, "exiftool")
}

func (c *Config) normalizeGeocoder() {
	c.Geocoder.BaseURL = strings.TrimSpace(c.Geocoder.BaseURL)
	if value, ok := os.LookupEnv(defaultGeocoderURLEnv); ok && strings.TrimSpace(value) != "" {
		c.Geocoder.BaseURL = strings.TrimSpace(value)
	}
	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = defaultGeocoderBaseURL
	}
	c.Geocoder.BaseURL = strings.TrimRight(c.Geocoder.BaseURL, "/")

	c.Geocoder.UserAgent = strings.TrimSpace(c.Geocoder.UserAgent)
	if c.Geocoder.UserAgent == "" {
		if value, ok := os.LookupEnv(defaultGeocoderUserAgentEnv); ok {
			c.Geocoder.UserAgent = strings.TrimSpace(value)
		}
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = defaultGeocoderUserAgent
	}
}

func (c *Config) normalizeGPS() {
	c.GPS.ImageExtensions = normalizeExtensions(c.GPS.ImageExtensions)
	c.GPS.VideoExtensions = normalizeExtensions(c.GPS.VideoExtensions)
}

// normalizeExtensions lower-cases entries, adds the leading dot, and drops
// duplicates while keeping the configured order.
func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		ext := strings.ToLower(strings.TrimSpace(value))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, exists := seen[ext]; exists {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

func (c *Config) normalizeSpeakerTest() {
	if len(c.SpeakerTest.Groups) == 0 {
		c.SpeakerTest.Groups = DefaultSpeakerGroups()
		return
	}
	for i := range c.SpeakerTest.Groups {
		group := &c.SpeakerTest.Groups[i]
		group.Name = strings.TrimSpace(group.Name)
		for j := range group.Songs {
			group.Songs[j].Artist = strings.TrimSpace(group.Songs[j].Artist)
			group.Songs[j].Title = strings.TrimSpace(group.Songs[j].Title)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
