// Package speakertest assembles a folder of reference songs for evaluating
// speakers. Each configured song is matched against the FLAC files of a
// library by token-set similarity, the highest quality candidate is copied
// under a standardized "Artist - Title.flac" name grouped by listening
// category, and a quality reference sheet is written next to the copies.
package speakertest
