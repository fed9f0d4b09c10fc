package reader

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/tsawler/pdfpipe/internal/pdftest"
	"github.com/tsawler/pdfpipe/model"
)

func openBytes(t *testing.T, data []byte) *Reader {
	t.Helper()
	r, err := NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func collect(t *testing.T, p *Page) []model.Event {
	t.Helper()
	var events []model.Event
	if err := p.Walk(func(ev model.Event) { events = append(events, ev) }); err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	return events
}

func TestReader_PageCount(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Numbered(3)...))
	if r.PageCount() != 3 {
		t.Errorf("PageCount() = %d, want 3", r.PageCount())
	}
}

func TestReader_PageOutOfRange(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Numbered(3)...))

	for _, n := range []int{0, -1, 4} {
		if _, err := r.Page(n); !errors.Is(err, ErrPageNotFound) {
			t.Errorf("Page(%d) error = %v, want ErrPageNotFound", n, err)
		}
	}
}

func TestReader_InheritedMediaBox(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Numbered(2)...))

	p, err := r.Page(2)
	if err != nil {
		t.Fatalf("Page(2) error = %v", err)
	}
	info := p.Info()
	if info.Number != 2 || p.Number() != 2 {
		t.Errorf("page number = %d", info.Number)
	}
	if info.Width() != 612 || info.Height() != 792 {
		t.Errorf("MediaBox = %+v, want 612x792", info.MediaBox)
	}
	if info.Rotate != 0 {
		t.Errorf("Rotate = %d, want 0", info.Rotate)
	}
}

func TestReader_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("this is not a pdf at all")},
		{"truncated", pdftest.Build(pdftest.Numbered(1)...)[:60]},
		{"html", []byte("<!DOCTYPE html><html><body>hi</body></html>")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(bytes.NewReader(tt.data), int64(len(tt.data)))
			if !errors.Is(err, ErrCorrupt) {
				t.Errorf("NewReader() error = %v, want ErrCorrupt", err)
			}
		})
	}
}

func TestReader_CloseTwice(t *testing.T) {
	dir := t.TempDir()
	path := pdftest.Write(t, dir, "doc.pdf", pdftest.Build(pdftest.Numbered(1)...))

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("first Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestReader_OpenMissing(t *testing.T) {
	if _, err := Open("/nonexistent/doc.pdf"); err == nil {
		t.Error("Open() on a missing file should fail")
	}
}

func TestPage_WalkText(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Numbered(3)...))

	for n := 1; n <= 3; n++ {
		p, err := r.Page(n)
		if err != nil {
			t.Fatalf("Page(%d) error = %v", n, err)
		}
		events := collect(t, p)
		if len(events) != 1 {
			t.Fatalf("page %d: got %d events, want 1", n, len(events))
		}

		ev := events[0]
		want := "Page " + string(rune('0'+n))
		if ev.Kind != model.EventText || ev.Text != want {
			t.Errorf("page %d: event = %v %q, want text %q", n, ev.Kind, ev.Text, want)
		}
		if ev.Baseline != 720 || ev.FontSize != 12 {
			t.Errorf("page %d: baseline %v size %v", n, ev.Baseline, ev.FontSize)
		}
		if ev.FontName != "Helvetica" {
			t.Errorf("page %d: font = %q", n, ev.FontName)
		}
		if math.Abs(ev.BBox.Width-pdftest.TextWidth(want, 12)) > 1e-9 {
			t.Errorf("page %d: width = %v, want %v", n, ev.BBox.Width, pdftest.TextWidth(want, 12))
		}
	}
}

func TestPage_WalkGlyphPositions(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Page{
		Texts: []pdftest.Text{{X: 100, Y: 500, Size: 10, Text: "abc"}},
	}))
	p, _ := r.Page(1)
	events := collect(t, p)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	glyphs := events[0].Glyphs
	if len(glyphs) != 3 {
		t.Fatalf("got %d glyphs, want 3", len(glyphs))
	}
	for i, g := range glyphs {
		wantX := 100 + float64(i)*5
		if math.Abs(g.X-wantX) > 1e-9 || math.Abs(g.Width-5) > 1e-9 {
			t.Errorf("glyph %d = %+v, want X %v width 5", i, g, wantX)
		}
	}
}

func TestPage_WalkOrderAndPaths(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Page{
		Texts: []pdftest.Text{
			{X: 72, Y: 700, Text: "first"},
			{X: 72, Y: 680, Text: "second"},
		},
		Rects: []pdftest.Rect{{X: 50, Y: 50, W: 100, H: 20}},
		Raw:   "10 10 m 200 10 l S",
	}))
	p, _ := r.Page(1)
	events := collect(t, p)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4", len(events))
	}

	for i, ev := range events {
		if ev.Seq != i {
			t.Errorf("event %d has Seq %d", i, ev.Seq)
		}
	}
	if events[0].Text != "first" || events[1].Text != "second" {
		t.Errorf("text order = %q, %q", events[0].Text, events[1].Text)
	}

	rect := events[2]
	if rect.Kind != model.EventPath || len(rect.Rects) != 1 || !rect.Stroked {
		t.Fatalf("rect event = %+v", rect)
	}
	if rect.Rects[0] != (model.BBox{X: 50, Y: 50, Width: 100, Height: 20}) {
		t.Errorf("rect = %+v", rect.Rects[0])
	}

	line := events[3]
	if line.Kind != model.EventPath || len(line.Segments) != 1 {
		t.Fatalf("line event = %+v", line)
	}
	if line.Segments[0].From != (model.Point{X: 10, Y: 10}) || line.Segments[0].To != (model.Point{X: 200, Y: 10}) {
		t.Errorf("segment = %+v", line.Segments[0])
	}
}

func TestPage_WalkInvisibleText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "mode restored by Q",
			raw:  "q BT /F1 12 Tf 3 Tr 72 700 Td (hidden) Tj ET Q\nBT /F1 12 Tf 72 680 Td (shown) Tj ET",
			want: []string{"shown"},
		},
		{
			name: "mode reset by 0 Tr",
			raw:  "BT /F1 12 Tf 3 Tr 72 700 Td (hidden) Tj ET\nBT /F1 12 Tf 0 Tr 72 680 Td (shown) Tj ET",
			want: []string{"shown"},
		},
		{
			// rendering mode is text state and survives BT
			name: "mode carried into next text object",
			raw:  "BT /F1 12 Tf 3 Tr 72 700 Td (hidden) Tj ET\nBT /F1 12 Tf 72 680 Td (also hidden) Tj ET",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := openBytes(t, pdftest.Build(pdftest.Page{Raw: tt.raw}))
			p, _ := r.Page(1)
			var got []string
			for _, ev := range collect(t, p) {
				got = append(got, ev.Text)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("texts = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPage_WalkTextMatrixAndCTM(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Page{
		Raw: "q 2 0 0 2 10 20 cm BT /F1 10 Tf 1 0 0 1 5 5 Tm (x) Tj ET Q",
	}))
	p, _ := r.Page(1)
	events := collect(t, p)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	// (5,5) scaled by 2 and moved by (10,20)
	if ev.Glyphs[0].X != 20 || ev.Baseline != 30 {
		t.Errorf("origin = (%v, %v), want (20, 30)", ev.Glyphs[0].X, ev.Baseline)
	}
	if ev.FontSize != 20 {
		t.Errorf("FontSize = %v, want 20", ev.FontSize)
	}
}

func TestPage_WalkTJKerning(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Page{
		Raw: "BT /F1 10 Tf 0 0 Td [(a) -1000 (b)] TJ ET",
	}))
	p, _ := r.Page(1)
	events := collect(t, p)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	// a is 5 wide, the -1000 adjustment moves 10 more to the right
	if got := events[1].Glyphs[0].X; math.Abs(got-15) > 1e-9 {
		t.Errorf("second glyph X = %v, want 15", got)
	}
}

func TestPage_WalkUnbalancedRestore(t *testing.T) {
	r := openBytes(t, pdftest.Build(pdftest.Page{
		Raw: "Q Q BT /F1 12 Tf 72 700 Td (ok) Tj ET",
	}))
	p, _ := r.Page(1)
	events := collect(t, p)
	if len(events) != 1 || events[0].Text != "ok" {
		t.Errorf("events = %+v", events)
	}
}

func TestInvert(t *testing.T) {
	m := model.Matrix{2, 0, 0, 4, 10, 20}
	inv, ok := invert(m)
	if !ok {
		t.Fatal("invert() reported a singular matrix")
	}
	got := inv.Multiply(m)
	want := model.Identity()
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("inv*m = %v, want identity", got)
		}
	}

	if _, ok := invert(model.Matrix{}); ok {
		t.Error("invert() of the zero matrix should fail")
	}
}

func TestFont_CodesAndWidths(t *testing.T) {
	f := &font{firstChar: 32, widths: []float64{250, 300}, missing: 500}
	if got := f.codes("ab"); len(got) != 2 {
		t.Errorf("codes() = %v", got)
	}
	if f.width(" ") != 250 || f.width("!") != 300 || f.width("z") != 500 {
		t.Error("width() lookup wrong")
	}

	cid := &font{twoByte: true, cidWidths: map[int]float64{0x0102: 700}, defaultWidth: 1000}
	codes := cid.codes("\x01\x02\x00\x03")
	if len(codes) != 2 {
		t.Fatalf("two-byte codes() = %v", codes)
	}
	if cid.width(codes[0]) != 700 || cid.width(codes[1]) != 1000 {
		t.Error("CID width lookup wrong")
	}
	if cid.decode("ab") != "ab" {
		t.Error("font without encoding should pass codes through")
	}
}
