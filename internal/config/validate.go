package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGeocoder(); err != nil {
		return err
	}
	if err := c.validateGPS(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateSpeakerTest(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGeocoder() error {
	if c.Geocoder.TimeoutSeconds <= 0 {
		return errors.New("geocoder.timeout_seconds must be positive")
	}
	if c.Geocoder.BaseURL == "" {
		return errors.New("geocoder.base_url must be set")
	}
	return nil
}

func (c *Config) validateGPS() error {
	if c.GPS.ProxyWindowMinutes <= 0 {
		return errors.New("gps.proxy_window_minutes must be positive")
	}
	if len(c.GPS.ImageExtensions) == 0 {
		return errors.New("gps.image_extensions must not be empty")
	}
	if len(c.GPS.VideoExtensions) == 0 {
		return errors.New("gps.video_extensions must not be empty")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MinSimilarity < 0 || c.Matching.MinSimilarity > 1 {
		return errors.New("matching.min_similarity must be between 0 and 1")
	}
	if c.Matching.CandidateScore < 0 || c.Matching.CandidateScore > 100 {
		return errors.New("matching.candidate_score must be between 0 and 100")
	}
	if c.Matching.AcceptScore < 0 || c.Matching.AcceptScore > 100 {
		return errors.New("matching.accept_score must be between 0 and 100")
	}
	if c.Matching.AcceptScore < c.Matching.CandidateScore {
		return errors.New("matching.accept_score must be at least matching.candidate_score")
	}
	return nil
}

func (c *Config) validateSpeakerTest() error {
	for i, group := range c.SpeakerTest.Groups {
		if group.Name == "" {
			return fmt.Errorf("speaker_test.groups[%d].name must be set", i)
		}
		if len(group.Songs) == 0 {
			return fmt.Errorf("speaker_test group %q has no songs", group.Name)
		}
		for j, song := range group.Songs {
			if song.Artist == "" || song.Title == "" {
				return fmt.Errorf("speaker_test group %q song %d needs artist and title", group.Name, j)
			}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
