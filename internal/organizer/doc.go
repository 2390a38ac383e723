// Package organizer lays audio files out the way Plex expects them.
//
// MusicLibrary copies tagged files into Artist/Album/NN - Title folders,
// MultiDisc flattens CD/Disc subfolders of an album into disc-prefixed track
// numbers, and Rename copies a tracklist described by a TOML manifest into
// disc-prefixed names. Every file operation honours dry-run and is recorded
// in the journal so a run can be reviewed afterwards.
package organizer
