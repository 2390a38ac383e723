// Package textutil provides filename sanitization shared by the organizers.
//
// Two flavours exist because the library layouts differ: folder segments
// replace unsafe characters with underscores so distinct names stay distinct,
// while track file names drop them entirely.
package textutil
