package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mediakit/internal/config"
	"mediakit/internal/geo"
	"mediakit/internal/services"
)

const (
	defaultBaseURL     = "https://nominatim.openstreetmap.org"
	defaultUserAgent   = "mediakit"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)

// Config captures the settings needed to reach a Nominatim instance.
type Config struct {
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
}

// HTTPDoer describes the HTTP client used by the geocoder.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the Nominatim search endpoint.
type Client struct {
	cfg  Config
	http HTTPDoer
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client HTTPDoer) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// NewClient constructs a geocoder from explicit settings.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			UserAgent:      strings.TrimSpace(cfg.UserAgent),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		http: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cfg.BaseURL == "" {
		c.cfg.BaseURL = defaultBaseURL
	}
	if c.cfg.UserAgent == "" {
		c.cfg.UserAgent = defaultUserAgent
	}
	return c
}

// NewFromConfig builds a geocoder from the [geocoder] section.
func NewFromConfig(cfg *config.Config, opts ...Option) *Client {
	if cfg == nil {
		return NewClient(Config{}, opts...)
	}
	return NewClient(Config{
		BaseURL:        cfg.Geocoder.BaseURL,
		UserAgent:      cfg.Geocoder.UserAgent,
		TimeoutSeconds: cfg.Geocoder.TimeoutSeconds,
	}, opts...)
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the coordinates of the best match for place.
func (c *Client) Geocode(ctx context.Context, place string) (geo.Coordinate, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return geo.Coordinate{}, services.Wrap(services.ErrValidation, "geocode", "query", "place name required", nil)
	}

	query := url.Values{}
	query.Set("q", place)
	query.Set("format", "json")
	query.Set("limit", "1")
	endpoint := c.cfg.BaseURL + "/search?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return geo.Coordinate{}, services.Wrap(services.ErrConfiguration, "geocode", "build request", endpoint, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			return geo.Coordinate{}, services.Wrap(services.ErrTimeout, "geocode", "search", place, err)
		}
		return geo.Coordinate{}, services.Wrap(services.ErrTransient, "geocode", "search", place, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		msg := fmt.Sprintf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return geo.Coordinate{}, services.Wrap(services.ErrExternalTool, "geocode", "search", msg, nil)
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		if isTimeout(err) {
			return geo.Coordinate{}, services.Wrap(services.ErrTimeout, "geocode", "read response", place, err)
		}
		return geo.Coordinate{}, services.Wrap(services.ErrExternalTool, "geocode", "decode response", place, err)
	}
	if len(results) == 0 {
		return geo.Coordinate{}, services.Wrap(services.ErrNotFound, "geocode", "search", fmt.Sprintf("no coordinates for %q", place), nil)
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(results[0].Lat), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(results[0].Lon), 64)
	coord := geo.Coordinate{Lat: lat, Lon: lon}
	if latErr != nil || lonErr != nil || !coord.Valid() {
		msg := fmt.Sprintf("invalid coordinates %q,%q", results[0].Lat, results[0].Lon)
		return geo.Coordinate{}, services.Wrap(services.ErrExternalTool, "geocode", "parse response", msg, nil)
	}
	return coord, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
