// Package matching scores how closely file names resemble track titles.
//
// Strings are folded to lower-case ASCII-ish text (combining marks removed,
// punctuation dropped, whitespace collapsed) before comparison. Ratio is a
// normalized Levenshtein similarity in [0,1]; TokenSetRatio applies the
// token-set comparison popularized by fuzzywuzzy on top of it and reports a
// 0-100 score.
package matching
