// Package ffmpeg rewrites container metadata of videos without re-encoding.
//
// The command line is assembled with u2takey/ffmpeg-go and executed with the
// configured binary; output goes to a sibling temp file that replaces the
// original only after ffmpeg succeeds.
package ffmpeg
