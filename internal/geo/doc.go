// Package geo holds the coordinate model shared by the GPS jobs.
//
// It converts decimal degrees to the degree/minute/second rationals EXIF
// stores, parses and formats the location strings carried by video
// containers ("lat,lon" and ISO 6709), and assigns proxy coordinates to
// untagged media from the GPS-tagged file closest in time.
package geo
