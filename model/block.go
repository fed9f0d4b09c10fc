package model

import (
	"strings"

	"github.com/tsawler/pdfpipe/text"
)

// Block is a positioned piece of text extracted from one page. What a block
// covers (a glyph run, a word) is up to the extractor that produced it.
type Block struct {
	BBox      BBox
	Text      string
	FontName  string
	FontSize  float64
	Baseline  float64
	Direction text.Direction

	// Seq is the stream sequence of the first event the block came from.
	Seq int
}

// BlockPage is the parse result for one page. Blocks is nil only for an
// invalid result; a page without text has an empty, non-nil slice.
type BlockPage struct {
	Page   PageInfo
	Blocks []Block
}

// NewBlockPage returns a BlockPage with an empty, non-nil block slice.
func NewBlockPage(info PageInfo) *BlockPage {
	return &BlockPage{Page: info, Blocks: make([]Block, 0)}
}

// Len returns the number of blocks.
func (p *BlockPage) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Blocks)
}

// Text returns the block texts joined by single spaces, in block order.
func (p *BlockPage) Text() string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, " ")
}

// BlocksBBox returns the union of the blocks' boxes.
func BlocksBBox(blocks []Block) BBox {
	if len(blocks) == 0 {
		return BBox{}
	}
	box := blocks[0].BBox
	for _, b := range blocks[1:] {
		box = box.Union(b.BBox)
	}
	return box
}
