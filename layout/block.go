package layout

import (
	"github.com/tsawler/pdfpipe/model"
	"github.com/tsawler/pdfpipe/text"
)

// BlockConverter emits one line per block, in the order the extractor
// produced them. It suits extractors whose blocks already are lines.
type BlockConverter struct{}

// NewBlockConverter creates a block converter.
func NewBlockConverter() *BlockConverter {
	return &BlockConverter{}
}

// Convert returns one line per non-blank block. It does not modify page.
func (c *BlockConverter) Convert(page *model.BlockPage) []model.TextLine {
	if page.Len() == 0 {
		return nil
	}

	lines := make([]model.TextLine, 0, len(page.Blocks))
	for _, b := range page.Blocks {
		t := text.Normalize(b.Text)
		if t == "" {
			continue
		}
		dir := b.Direction
		if dir == text.Neutral {
			dir = text.DetectDirection(t)
		}
		lines = append(lines, model.TextLine{
			Text:      t,
			BBox:      b.BBox,
			Baseline:  b.Baseline,
			FontSize:  b.FontSize,
			Direction: dir,
			Blocks:    []model.Block{b},
		})
	}
	return indexLines(lines, page.Page.Number)
}
