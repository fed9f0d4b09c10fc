package text

import (
	"unicode"
)

// Direction represents the writing direction of a run of text.
type Direction int

const (
	// Neutral for digits, punctuation, whitespace and symbols.
	Neutral Direction = iota
	// LTR (Left-to-Right) for Latin, Cyrillic, CJK, etc.
	LTR
	// RTL (Right-to-Left) for Arabic, Hebrew, etc.
	RTL
)

// String returns "LTR", "RTL" or "Neutral".
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the direction by name so JSON output stays readable.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// rtlScripts are the scripts written right to left.
var rtlScripts = []*unicode.RangeTable{
	unicode.Arabic,
	unicode.Hebrew,
	unicode.Syriac,
	unicode.Thaana,
	unicode.Nko,
}

// DetectDirection returns the dominant direction of s by counting strong
// directional characters. Strings without any strong character are Neutral.
func DetectDirection(s string) Direction {
	ltr, rtl := 0, 0
	for _, r := range s {
		switch CharDirection(r) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}
	return Dominant(ltr, rtl)
}

// Dominant picks a direction from counts of LTR and RTL units. Ties go to LTR.
func Dominant(ltr, rtl int) Direction {
	switch {
	case rtl > ltr:
		return RTL
	case ltr > 0:
		return LTR
	default:
		return Neutral
	}
}

// CharDirection returns the inherent direction of a single character.
// Characters of unknown scripts default to LTR.
func CharDirection(r rune) Direction {
	if unicode.IsDigit(r) || unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r) {
		return Neutral
	}
	if unicode.IsOneOf(rtlScripts, r) {
		return RTL
	}
	return LTR
}
