// Package trackfinder matches an "Artist - Title" tracklist against the music
// files of a tree and copies the best match of each track next to the
// tracklist.
//
// Matching compares file stems with both "artist title" and the bare title
// using matching.Ratio and keeps the highest score. Copies are confirmed
// interactively unless AutoCopy is set; overwriting an existing file is
// always confirmed.
package trackfinder
