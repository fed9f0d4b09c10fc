package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns s in Unicode NFC with runs of whitespace collapsed to a
// single space and leading/trailing whitespace removed. Glyph-by-glyph text
// from PDFs often carries decomposed accents and stray control characters;
// both are cleaned here so equal text compares equal.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFC.String(s)

	var sb strings.Builder
	sb.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = sb.Len() > 0
		case unicode.IsControl(r), r == '\ufeff', r == unicode.ReplacementChar:
			// drop
		default:
			if pendingSpace {
				sb.WriteByte(' ')
				pendingSpace = false
			}
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IsBlank reports whether s has no visible characters.
func IsBlank(s string) bool {
	return Normalize(s) == ""
}
