// Package exiftool reads and writes image metadata through a stay-open
// exiftool process. Writes send only the four GPS position tags, so every
// other tag in the file is left untouched. Reads cover the containers goexif
// cannot parse, such as HEIC and PNG.
package exiftool
