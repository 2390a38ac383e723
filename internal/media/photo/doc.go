// Package photo reads the EXIF fields the GPS jobs rely on.
//
// Read decodes EXIF from JPEG, TIFF, or raw EXIF blocks through goexif and
// exposes capture timestamps (interpreted as UTC, since cameras record local
// wall time without a zone) and signed GPS coordinates. VerifyImage performs
// the cheap header decode used to reject corrupt files before a write.
package photo
