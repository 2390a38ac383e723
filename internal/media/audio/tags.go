package audio

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dhowden/tag"
)

// ErrNoTags reports a file without readable tags.
var ErrNoTags = errors.New("no tags found")

// Tags is the subset of tag fields the organizers use.
type Tags struct {
	Artist      string
	AlbumArtist string
	Album       string
	Title       string
	Composer    string
	Track       int
	TrackTotal  int
	Disc        int
	DiscTotal   int
	Format      string
}

// ReadTags reads the tags of path.
func ReadTags(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return Tags{}, ErrNoTags
		}
		return Tags{}, fmt.Errorf("read tags %s: %w", path, err)
	}

	out := Tags{
		Artist:      strings.TrimSpace(m.Artist()),
		AlbumArtist: strings.TrimSpace(m.AlbumArtist()),
		Album:       strings.TrimSpace(m.Album()),
		Title:       strings.TrimSpace(m.Title()),
		Composer:    strings.TrimSpace(m.Composer()),
		Format:      string(m.Format()),
	}
	out.Track, out.TrackTotal = m.Track()
	out.Disc, out.DiscTotal = m.Disc()
	if out.Track == 0 {
		out.Track, out.TrackTotal = numberFromRaw(m.Raw(), "tracknumber", "TRCK", "trkn")
	}
	if out.Disc == 0 {
		out.Disc, out.DiscTotal = numberFromRaw(m.Raw(), "discnumber", "TPOS", "disk")
	}
	if out.Artist == "" && out.Album == "" && out.Title == "" && out.Track == 0 {
		return out, ErrNoTags
	}
	return out, nil
}

// numberFromRaw parses "N" or "N/M" values some taggers store as free text.
func numberFromRaw(raw map[string]interface{}, keys ...string) (int, int) {
	for _, key := range keys {
		value, ok := raw[key]
		if !ok {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		return ParseNumberPair(text)
	}
	return 0, 0
}

// ParseNumberPair parses "3", "3/12", or " 03 / 12 " into number and total.
func ParseNumberPair(value string) (int, int) {
	head, tail, _ := strings.Cut(strings.TrimSpace(value), "/")
	n, err := strconv.Atoi(strings.TrimSpace(head))
	if err != nil {
		return 0, 0
	}
	total, _ := strconv.Atoi(strings.TrimSpace(tail))
	return n, total
}
