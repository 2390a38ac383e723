package geo

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidLocation reports a location string that cannot be parsed or is out of range.
var ErrInvalidLocation = errors.New("invalid location")

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Valid reports whether the coordinate lies inside the latitude and longitude ranges.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// IsNullIsland reports coordinates indistinguishable from 0,0, which cameras
// write when they have no fix.
func (c Coordinate) IsNullIsland() bool {
	return math.Abs(c.Lat) < 0.0001 && math.Abs(c.Lon) < 0.0001
}

// LatRef returns the EXIF latitude reference letter.
func (c Coordinate) LatRef() string {
	if c.Lat < 0 {
		return "S"
	}
	return "N"
}

// LonRef returns the EXIF longitude reference letter.
func (c Coordinate) LonRef() string {
	if c.Lon < 0 {
		return "W"
	}
	return "E"
}

func (c Coordinate) String() string {
	return FormatLocation(c)
}

// Rational is an EXIF unsigned rational.
type Rational struct {
	Num int64
	Den int64
}

// Float returns the rational as a float, or 0 when the denominator is zero.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// DMS is a degree/minute/second triple in EXIF rational form.
type DMS [3]Rational

// ToDMS converts an absolute decimal degree value into EXIF rationals:
// (d,1), (m,1), (s*1000,1000).
func ToDMS(decimal float64) DMS {
	value := math.Abs(decimal)
	degrees := math.Floor(value)
	minutesFloat := (value - degrees) * 60
	minutes := math.Floor(minutesFloat)
	seconds := (minutesFloat - minutes) * 60
	return DMS{
		{Num: int64(degrees), Den: 1},
		{Num: int64(minutes), Den: 1},
		{Num: int64(seconds * 1000), Den: 1000},
	}
}

// Decimal converts the triple back to unsigned decimal degrees.
func (d DMS) Decimal() float64 {
	return d[0].Float() + d[1].Float()/60 + d[2].Float()/3600
}

func (d DMS) String() string {
	return fmt.Sprintf("%d°%d'%.3f\"", d[0].Num, d[1].Num, d[2].Float())
}

// HumanString renders the coordinate as degrees, minutes, and seconds with hemisphere letters.
func (c Coordinate) HumanString() string {
	return fmt.Sprintf("%s %s, %s %s", ToDMS(c.Lat), c.LatRef(), ToDMS(c.Lon), c.LonRef())
}

var iso6709Pattern = regexp.MustCompile(`^([+-]\d+(?:\.\d+)?)([+-]\d+(?:\.\d+)?)(?:[+-]\d+(?:\.\d+)?)?/?$`)

// ParseLocation parses "lat,lon" or an ISO 6709 string such as
// "+38.7223-009.1393+012.000/". Altitude is ignored.
func ParseLocation(value string) (Coordinate, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Coordinate{}, fmt.Errorf("%w: empty", ErrInvalidLocation)
	}

	var latText, lonText string
	if match := iso6709Pattern.FindStringSubmatch(trimmed); match != nil {
		latText, lonText = match[1], match[2]
	} else {
		parts := strings.Split(trimmed, ",")
		if len(parts) != 2 {
			return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidLocation, value)
		}
		latText, lonText = parts[0], parts[1]
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: latitude %q", ErrInvalidLocation, latText)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: longitude %q", ErrInvalidLocation, lonText)
	}
	coord := Coordinate{Lat: lat, Lon: lon}
	if !coord.Valid() {
		return Coordinate{}, fmt.Errorf("%w: %q out of range", ErrInvalidLocation, value)
	}
	return coord, nil
}

// FormatLocation renders the "lat,lon" form written into video metadata.
func FormatLocation(c Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}
