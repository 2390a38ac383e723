// Package audio reads and edits the tags and stream properties of music files.
//
// Tag reading covers every container dhowden/tag understands (ID3, MP4,
// vorbis comments). Stream quality is read straight from FLAC STREAMINFO
// through go-flac, and album rewrites use id3v2 for MP3 and vorbis comments
// for FLAC; other formats report ErrUnsupportedFormat.
package audio
