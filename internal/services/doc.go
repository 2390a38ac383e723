// Package services defines shared utilities consumed by the media jobs and
// their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, command names, and job stages for
//     logging and the operation journal.
//   - Structured error markers plus the Wrap helper that keep failures
//     classifiable (bad input vs external tool vs not found).
//
// Subpackages wrap the external collaborators: the Nominatim geocoder, the
// exiftool image writer, and the ffmpeg video writer.
package services
