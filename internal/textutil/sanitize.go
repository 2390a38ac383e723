package textutil

import (
	"strings"
	"unicode"
)

// pathReplacer swaps every filesystem-unsafe character for an underscore.
var pathReplacer = strings.NewReplacer(
	"\\", "_",
	"/", "_",
	"*", "_",
	"?", "_",
	":", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizePathSegment trims name and replaces the characters `\/*?:"<>|`
// with underscores. Used for artist and album folder names.
func SanitizePathSegment(name string) string {
	return pathReplacer.Replace(strings.TrimSpace(name))
}

// StripUnsafe removes the characters `<>:"/\|?*` and control characters.
func StripUnsafe(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, name)
}
