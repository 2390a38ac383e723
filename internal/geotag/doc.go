// Package geotag finds, infers, and writes GPS coordinates for photos and
// videos.
//
// Four passes share one Service:
//   - MissingReport lists JPEGs without a GPS IFD.
//   - Extract borrows coordinates for untagged files from the GPS-tagged file
//     closest in capture time (proxy GPS) and reports them as CSV.
//   - UpdateFromCSV writes coordinates from such a CSV back into the files.
//   - ApplyPlace geocodes one place name and stamps it on a whole tree.
//
// Images are written through exiftool and videos through ffmpeg. Every write
// honours DryRun and is recorded in the journal.
package geotag
