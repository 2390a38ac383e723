package geo

import "time"

// Source values recorded on an Item once AssignProxies has run.
const (
	SourceOriginal = "original"
	SourceProxy    = "proxy"
)

// Item is one media file taking part in proxy assignment.
type Item struct {
	Path string
	// Time is the capture time in UTC; zero when unknown.
	Time time.Time
	// Coord is nil when the file carries no usable GPS.
	Coord  *Coordinate
	Source string
	// ProxyFrom names the file that lent its coordinates.
	ProxyFrom string
}

// HasTime reports whether the capture time is known.
func (i Item) HasTime() bool {
	return !i.Time.IsZero()
}

// AssignProxies marks items that already carry coordinates as original and
// gives every untagged, timestamped item the coordinates of the original item
// closest in time, provided the distance is within window. Ties keep the
// earliest candidate in slice order. Proxied items never serve as candidates.
// It returns the number of proxies assigned.
func AssignProxies(items []Item, window time.Duration) int {
	originals := make([]int, 0, len(items))
	for i := range items {
		if items[i].Coord != nil {
			items[i].Source = SourceOriginal
			if items[i].HasTime() {
				originals = append(originals, i)
			}
		}
	}

	assigned := 0
	for i := range items {
		item := &items[i]
		if item.Coord != nil || !item.HasTime() {
			continue
		}
		best := -1
		var bestDiff time.Duration
		for _, idx := range originals {
			diff := absDuration(item.Time.Sub(items[idx].Time))
			if diff > window {
				continue
			}
			if best == -1 || diff < bestDiff {
				best, bestDiff = idx, diff
			}
		}
		if best == -1 {
			continue
		}
		coord := *items[best].Coord
		item.Coord = &coord
		item.Source = SourceProxy
		item.ProxyFrom = items[best].Path
		assigned++
	}
	return assigned
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
