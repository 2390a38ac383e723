// Package flacquality groups FLAC files by album directory and reports their
// bit depth, sample rate, and a lossy-source hint.
//
// The hint is a heuristic only: a 16-bit stream at 44.1 kHz or above is
// flagged "Maybe (verify with Spek)" because that is the shape most lossy
// transcodes take. An album is consolidated when every track agrees on all
// three values and none failed to probe.
package flacquality
