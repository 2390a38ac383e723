package photo

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"mediakit/internal/geo"
)

// DateTimeLayout is the timestamp layout EXIF uses.
const DateTimeLayout = "2006:01:02 15:04:05"

// ErrNoExif reports a file that carries no EXIF block.
var ErrNoExif = errors.New("no exif data")

// Exif wraps decoded EXIF data.
type Exif struct {
	x *exif.Exif
}

// Read opens path and decodes its EXIF block.
func Read(path string) (*Exif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses EXIF data from r.
func Decode(r io.Reader) (*Exif, error) {
	x, err := exif.Decode(r)
	if x == nil {
		// Partial parses return a usable *Exif alongside a non-critical error.
		return nil, fmt.Errorf("%w: %v", ErrNoExif, err)
	}
	return &Exif{x: x}, nil
}

// HasGPSInfo reports whether the GPS IFD pointer is present, regardless of
// whether the GPS block holds usable coordinates.
func (e *Exif) HasGPSInfo() bool {
	if e == nil || e.x == nil {
		return false
	}
	_, err := e.x.Get(exif.GPSInfoIFDPointer)
	return err == nil
}

// DateTime returns the first parseable of DateTimeOriginal, DateTimeDigitized,
// and DateTime.
func (e *Exif) DateTime() (time.Time, bool) {
	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime} {
		if ts, ok := e.timeField(field); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// OriginalDateTime returns DateTimeOriginal only.
func (e *Exif) OriginalDateTime() (time.Time, bool) {
	return e.timeField(exif.DateTimeOriginal)
}

func (e *Exif) timeField(field exif.FieldName) (time.Time, bool) {
	if e == nil || e.x == nil {
		return time.Time{}, false
	}
	tag, err := e.x.Get(field)
	if err != nil {
		return time.Time{}, false
	}
	value, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false
	}
	return ParseDateTime(value)
}

// Coordinates returns the signed GPS position. Latitude, longitude, and both
// reference tags must be present, and a 0,0 fix is treated as absent.
func (e *Exif) Coordinates() (geo.Coordinate, bool) {
	if e == nil || e.x == nil {
		return geo.Coordinate{}, false
	}
	for _, field := range []exif.FieldName{exif.GPSLatitudeRef, exif.GPSLongitudeRef} {
		if _, err := e.x.Get(field); err != nil {
			return geo.Coordinate{}, false
		}
	}
	lat, lon, err := e.x.LatLong()
	if err != nil {
		return geo.Coordinate{}, false
	}
	coord := geo.Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() || coord.IsNullIsland() {
		return geo.Coordinate{}, false
	}
	return coord, true
}
