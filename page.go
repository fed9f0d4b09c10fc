package pdfpipe

import (
	"fmt"
	"image/color"

	"github.com/tsawler/pdfpipe/model"
	"github.com/tsawler/pdfpipe/overlay"
)

// Page is the open page of a Document. It is replaced, and closed, when the
// document opens another page.
type Page struct {
	doc    *Document
	number int
	info   model.PageInfo
	src    enginePage

	result  *model.BlockPage
	surface *overlay.Surface
	closed  bool
}

// Number returns the 1-based page number.
func (p *Page) Number() int {
	return p.number
}

// Info returns the page geometry.
func (p *Page) Info() model.PageInfo {
	return p.info
}

// Closed reports whether the page has been closed.
func (p *Page) Closed() bool {
	return p.closed
}

// Parse streams the page's content events through ext and returns its
// result, which also becomes the page's last result. An invalid result is
// rejected and the previous last result is kept.
func (p *Page) Parse(ext BlockExtractor) (*model.BlockPage, error) {
	if err := p.usable(); err != nil {
		return nil, err
	}

	ext.BeginPage(p.info)
	if err := p.src.Walk(ext.Handle); err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrCorrupt, p.number, err)
	}

	result := ext.Result()
	if result == nil || result.Blocks == nil {
		return nil, fmt.Errorf("%w: page %d", ErrInvalidParseResult, p.number)
	}

	p.result = result
	p.doc.log.Debug().Int("page", p.number).Int("blocks", len(result.Blocks)).Msg("page parsed")
	return result, nil
}

// LastResult returns the result of the most recent successful Parse. It
// remains available after the page is closed.
func (p *Page) LastResult() (*model.BlockPage, error) {
	if p.result == nil {
		return nil, fmt.Errorf("%w: page %d", ErrNotParsed, p.number)
	}
	return p.result, nil
}

// DrawRectangle outlines a rectangle with lower-left corner (x, y) on the
// document's overlay output.
func (p *Page) DrawRectangle(x, y, w, h float64, c color.Color) error {
	s, err := p.surfaceFor()
	if err != nil {
		return err
	}
	return s.StrokeRect(x, y, w, h, c)
}

// DrawLine draws a line from (x1, y1) to (x2, y2) on the document's overlay
// output.
func (p *Page) DrawLine(x1, y1, x2, y2 float64, c color.Color) error {
	s, err := p.surfaceFor()
	if err != nil {
		return err
	}
	return s.StrokeLine(x1, y1, x2, y2, c)
}

// surfaceFor returns the page's overlay surface, opening one on the
// document's current target when there is none or the old one was committed.
func (p *Page) surfaceFor() (*overlay.Surface, error) {
	if err := p.usable(); err != nil {
		return nil, err
	}
	if p.surface != nil && !p.surface.Closed() {
		return p.surface, nil
	}
	if p.doc.target == nil {
		return nil, ErrNoOverlay
	}

	s, err := p.doc.target.Surface(p.number)
	if err != nil {
		return nil, fmt.Errorf("failed to open overlay for page %d: %w", p.number, err)
	}
	p.surface = s
	return s, nil
}

// usable reports why the page cannot be used, if it cannot.
func (p *Page) usable() error {
	if p.doc.closed {
		return ErrClosed
	}
	if p.closed {
		return fmt.Errorf("%w: page %d", ErrPageClosed, p.number)
	}
	return nil
}

// Close commits the page's drawings. It is safe to call more than once.
func (p *Page) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if p.surface == nil {
		return nil
	}
	err := p.surface.Close()
	p.surface = nil
	return err
}
