// Package nominatim resolves place names to coordinates through the
// OpenStreetMap Nominatim search API.
//
// The public instance is rate limited and requires an identifying
// User-Agent, so callers geocode once per run and reuse the result.
package nominatim
