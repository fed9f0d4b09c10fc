package pdfpipe

import (
	"strings"

	"github.com/tsawler/pdfpipe/model"
)

// PipelineText is the ordered text of a converted document.
type PipelineText struct {
	doc   *Document
	lines []model.TextLine
}

// NewPipelineText returns an empty text owned by doc.
func NewPipelineText(doc *Document) *PipelineText {
	return &PipelineText{doc: doc}
}

// Text converts the whole document, as Convert does, and collects the lines.
func (d *Document) Text(conv LineConverter, visit func(*Page) error) (*PipelineText, error) {
	t := NewPipelineText(d)
	it := d.Convert(conv, visit)
	for it.Next() {
		t.Append(it.Line())
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

// Document returns the document the text was produced from.
func (t *PipelineText) Document() *Document {
	return t.doc
}

// Append adds lines to the end of the text.
func (t *PipelineText) Append(lines ...model.TextLine) {
	t.lines = append(t.lines, lines...)
}

// Lines returns the lines in order.
func (t *PipelineText) Lines() []model.TextLine {
	return t.lines
}

// Len returns the number of lines.
func (t *PipelineText) Len() int {
	return len(t.lines)
}

// Page returns the lines of page n, in order.
func (t *PipelineText) Page(n int) []model.TextLine {
	var out []model.TextLine
	for _, l := range t.lines {
		if l.Page == n {
			out = append(out, l)
		}
	}
	return out
}

// String returns the line texts joined by newlines.
func (t *PipelineText) String() string {
	var sb strings.Builder
	for i, l := range t.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.Text)
	}
	return sb.String()
}
