// Package pdftest builds small, valid PDF files for tests.
//
// The generated documents use a classic cross-reference table, uncompressed
// content streams and the standard Helvetica font with WinAnsiEncoding, so
// every page's text can be predicted exactly.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// GlyphWidth is the width, in thousandths of an em, declared for every
// character of the generated font.
const GlyphWidth = 500

// Text is one string shown at a baseline position.
type Text struct {
	X, Y float64
	Size float64
	Text string
}

// Rect is a stroked rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Page describes the content of one generated page.
type Page struct {
	Texts []Text
	Rects []Rect

	// Raw is appended to the content stream verbatim.
	Raw string
}

// TextWidth returns the rendered width of s at size with the generated font.
func TextWidth(s string, size float64) float64 {
	return float64(len(s)) * GlyphWidth / 1000 * size
}

// Numbered returns n pages whose only text is "Page k" at (72, 720).
func Numbered(n int) []Page {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Texts: []Text{{X: 72, Y: 720, Size: 12, Text: fmt.Sprintf("Page %d", i+1)}}}
	}
	return pages
}

// Build serializes the pages into a complete PDF document. The MediaBox is
// set on the page tree root and inherited by every page.
func Build(pages ...Page) []byte {
	var buf bytes.Buffer
	var offsets []int

	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	// 1: catalog, 2: page tree, 3: font, then page/content pairs
	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>",
		strings.Join(kids, " "), len(pages)))
	obj(fontDict())

	for i, p := range pages {
		content := p.content()
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	return buf.Bytes()
}

// Write stores the document under dir/name and returns the full path.
func Write(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func fontDict() string {
	widths := make([]string, 126-32+1)
	for i := range widths {
		widths[i] = fmt.Sprint(GlyphWidth)
	}
	return fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding "+
		"/FirstChar 32 /LastChar 126 /Widths [%s] >>", strings.Join(widths, " "))
}

func (p Page) content() string {
	var sb strings.Builder
	for _, t := range p.Texts {
		size := t.Size
		if size == 0 {
			size = 12
		}
		fmt.Fprintf(&sb, "BT /F1 %g Tf %g %g Td (%s) Tj ET\n", size, t.X, t.Y, escape(t.Text))
	}
	for _, r := range p.Rects {
		fmt.Fprintf(&sb, "%g %g %g %g re S\n", r.X, r.Y, r.W, r.H)
	}
	sb.WriteString(p.Raw)
	return strings.TrimSuffix(sb.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
