package pdfpipe

import "github.com/tsawler/pdfpipe/model"

// BlockExtractor turns one page's content events into blocks. BeginPage is
// called once per parse, followed by Handle for every event in stream order
// and finally Result.
type BlockExtractor interface {
	BeginPage(info model.PageInfo)
	Handle(ev model.Event)

	// Result returns the blocks for the page. A nil result, or one whose
	// Blocks slice is nil, is rejected; an empty slice is a valid page
	// without text.
	Result() *model.BlockPage
}

// LineConverter turns a parsed page into text lines in reading order.
type LineConverter interface {
	Convert(page *model.BlockPage) []model.TextLine
}

// ParseWith returns a page visitor that parses each page with ext.
func ParseWith(ext BlockExtractor) func(*Page) error {
	return func(p *Page) error {
		_, err := p.Parse(ext)
		return err
	}
}
