package components

import (
	"regexp"
	"strings"
	"unicode"
)

// escapes matches OSC sequences (window titles, hyperlinks) and CSI sequences.
var escapes = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)|\x1b\[[0-9;?]*[A-Za-z]`)

// SanitizeText makes server supplied text safe to draw: escape sequences,
// control characters and bidi overrides are dropped. Newlines and tabs stay.
func SanitizeText(input string) string {
	if input == "" {
		return input
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r), unicode.Is(unicode.Bidi_Control, r):
			return -1
		}
		return r
	}, escapes.ReplaceAllString(input, ""))
}

// SanitizeOneLine is SanitizeText with line breaks and tabs folded to single
// spaces, for pills, rows and titles.
func SanitizeOneLine(input string) string {
	return strings.Join(strings.Fields(SanitizeText(input)), " ")
}
