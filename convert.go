package pdfpipe

import (
	"fmt"
	"iter"

	"github.com/tsawler/pdfpipe/model"
)

// LineIterator yields the text lines of a document page by page. Pages are
// opened, visited and converted only as lines are consumed.
//
//	it := doc.Convert(conv, visit)
//	for it.Next() {
//	    line := it.Line()
//	    // ...
//	}
//	if err := it.Err(); err != nil {
//	    // handle error
//	}
type LineIterator struct {
	doc   *Document
	conv  LineConverter
	visit func(*Page) error

	next  int // next page to open
	page  int // page the buffered lines came from
	lines []model.TextLine
	pos   int

	line model.TextLine
	err  error
	done bool
}

// Convert returns an iterator over the document's lines. For each page it
// calls visit, which is expected to parse the page, and converts the page's
// last result with conv. Pages without lines are skipped. Calling Convert
// again starts over from the first page.
func (d *Document) Convert(conv LineConverter, visit func(*Page) error) *LineIterator {
	return &LineIterator{
		doc:   d,
		conv:  conv,
		visit: visit,
		next:  1,
	}
}

// Next advances to the next line, reporting whether there is one. It returns
// false at the end of the document or on the first error.
func (it *LineIterator) Next() bool {
	if it.done {
		return false
	}
	for it.pos >= len(it.lines) {
		if !it.refill() {
			it.done = true
			return false
		}
	}
	it.line = it.lines[it.pos]
	it.pos++
	return true
}

// refill converts the next page into the line buffer.
func (it *LineIterator) refill() bool {
	if it.doc.closed {
		it.err = ErrClosed
		return false
	}
	if it.next > it.doc.PageCount() {
		return false
	}

	n := it.next
	it.next++

	p, err := it.doc.Page(n)
	if err != nil {
		it.err = err
		return false
	}
	if err := it.visit(p); err != nil {
		it.err = fmt.Errorf("page %d: %w", n, err)
		return false
	}
	result, err := p.LastResult()
	if err != nil {
		it.err = err
		return false
	}

	it.page = n
	it.lines = it.conv.Convert(result)
	it.pos = 0
	return true
}

// Line returns the current line.
func (it *LineIterator) Line() model.TextLine {
	return it.line
}

// Page returns the number of the page the current line came from.
func (it *LineIterator) Page() int {
	return it.page
}

// Err returns the error that stopped the iteration, if any.
func (it *LineIterator) Err() error {
	return it.err
}

// All adapts the iterator for range-over-func. A final pair with the zero
// line and a non-nil error is yielded if the iteration failed.
func (it *LineIterator) All() iter.Seq2[model.TextLine, error] {
	return func(yield func(model.TextLine, error) bool) {
		for it.Next() {
			if !yield(it.Line(), nil) {
				return
			}
		}
		if it.err != nil {
			yield(model.TextLine{}, it.err)
		}
	}
}
