// Package text holds the character-level helpers used when assembling lines.
//
// # Text Direction
//
// The package supports bidirectional text with the [Direction] type:
//
//   - LTR - left-to-right (Latin, CJK, etc.)
//   - RTL - right-to-left (Arabic, Hebrew, etc.)
//   - Neutral - direction-neutral characters (numbers, punctuation)
//
// [DetectDirection] analyzes a string, [Dominant] combines counts gathered
// from several runs.
//
// # Normalization
//
// [Normalize] converts text to NFC and collapses whitespace so that lines
// assembled from individually positioned glyphs compare equal to the text a
// reader would type.
package text
