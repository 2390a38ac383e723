package photo

import (
	"strings"
	"time"

	"mediakit/internal/geo"
)

// Info is the capture time and position recovered from an image.
type Info struct {
	Time  time.Time
	Coord *geo.Coordinate
}

// Info returns DateTimeOriginal and the GPS position of e.
func (e *Exif) Info() Info {
	var info Info
	if t, ok := e.OriginalDateTime(); ok {
		info.Time = t
	}
	if c, ok := e.Coordinates(); ok {
		info.Coord = &c
	}
	return info
}

// ParseDateTime parses an EXIF timestamp as UTC. Trailing sub-seconds and
// offsets ("2023:07:14 09:30:00.123+02:00") are ignored.
func ParseDateTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(strings.TrimRight(value, "\x00"))
	if len(value) > len(DateTimeLayout) {
		value = value[:len(DateTimeLayout)]
	}
	ts, err := time.ParseInLocation(DateTimeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
