package model

import (
	"strings"

	"github.com/tsawler/pdfpipe/text"
)

// TextLine is one line of text in reading order, the unit the pipeline emits.
type TextLine struct {
	// Page is the 1-based page number the line was found on.
	Page int

	// Index is the line's position within its page (0-based).
	Index int

	Text      string
	BBox      BBox
	Baseline  float64
	FontSize  float64
	Direction text.Direction

	// Blocks are the source blocks, left to right.
	Blocks []Block
}

// IsEmpty reports whether the line has no visible text.
func (l TextLine) IsEmpty() bool {
	return strings.TrimSpace(l.Text) == ""
}

// WordCount returns the number of whitespace-separated words.
func (l TextLine) WordCount() int {
	return len(strings.Fields(l.Text))
}
