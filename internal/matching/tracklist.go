package matching

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Track is one "Artist - Title" line of a tracklist.
type Track struct {
	Artist string
	Title  string
}

// Label renders the track the way it appears in reports.
func (t Track) Label() string {
	return t.Artist + " - " + t.Title
}

var (
	spacedDash = regexp.MustCompile(`\s+[–-]\s+`)
	bareDash   = regexp.MustCompile(`\s*[–-]\s*`)
	edgeQuotes = regexp.MustCompile(`^["']|["']$`)
)

// ParseTracklist reads "Artist - Title" lines. A dash with spaces around it
// is preferred so hyphenated artists survive; a bare dash is the fallback.
// Blank lines and lines without a dash are skipped.
func ParseTracklist(r io.Reader) ([]Track, error) {
	var tracks []Track
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := spacedDash.Split(line, 2)
		if len(parts) != 2 {
			parts = bareDash.Split(line, 2)
		}
		if len(parts) != 2 {
			continue
		}
		artist := strings.TrimSpace(parts[0])
		title := strings.TrimSpace(edgeQuotes.ReplaceAllString(strings.TrimSpace(parts[1]), ""))
		if artist == "" || title == "" {
			continue
		}
		tracks = append(tracks, Track{Artist: artist, Title: title})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tracklist: %w", err)
	}
	return tracks, nil
}
