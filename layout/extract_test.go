package layout

import (
	"testing"

	"github.com/tsawler/pdfpipe/model"
	"github.com/tsawler/pdfpipe/text"
)

var testPage = model.PageInfo{Number: 1, MediaBox: model.NewBBox(0, 0, 612, 792)}

// makeEvent creates a text event whose glyphs are each half an em wide
func makeEvent(seq int, txt string, x, baseline, size float64) model.Event {
	w := size * 0.5
	glyphs := make([]model.Glyph, 0, len(txt))
	for i, r := range []rune(txt) {
		glyphs = append(glyphs, model.Glyph{Text: string(r), X: x + float64(i)*w, Width: w})
	}
	return model.Event{
		Kind:     model.EventText,
		Seq:      seq,
		BBox:     model.NewBBox(x, baseline-size*0.2, float64(len(glyphs))*w, size),
		Text:     txt,
		Glyphs:   glyphs,
		FontName: "Helvetica",
		FontSize: size,
		Baseline: baseline,
	}
}

func runExtract(ext interface {
	BeginPage(model.PageInfo)
	Handle(model.Event)
	Result() *model.BlockPage
}, events ...model.Event) *model.BlockPage {
	ext.BeginPage(testPage)
	for _, ev := range events {
		ext.Handle(ev)
	}
	return ext.Result()
}

func blockTexts(page *model.BlockPage) []string {
	out := make([]string, len(page.Blocks))
	for i, b := range page.Blocks {
		out[i] = b.Text
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunExtractor_ResultWithoutBeginPage(t *testing.T) {
	if NewRunExtractor().Result() != nil {
		t.Error("Result() before BeginPage should be nil")
	}
	if NewWordExtractor().Result() != nil {
		t.Error("Result() before BeginPage should be nil")
	}
}

func TestRunExtractor_EmptyPage(t *testing.T) {
	page := runExtract(NewRunExtractor())
	if page == nil || page.Blocks == nil {
		t.Fatal("empty page should have a non-nil block slice")
	}
	if page.Len() != 0 {
		t.Errorf("got %d blocks, want 0", page.Len())
	}
	if page.Page.Number != 1 {
		t.Errorf("page number = %d", page.Page.Number)
	}
}

func TestRunExtractor_MergesAdjacentRuns(t *testing.T) {
	// "Hel" ends at 118 and "lo" starts there
	page := runExtract(NewRunExtractor(),
		makeEvent(0, "Hel", 100, 700, 12),
		makeEvent(1, "lo", 118, 700, 12),
	)
	if got := blockTexts(page); !equalStrings(got, []string{"Hello"}) {
		t.Errorf("blocks = %q, want [Hello]", got)
	}
	if page.Blocks[0].BBox.Width != 30 {
		t.Errorf("merged width = %v, want 30", page.Blocks[0].BBox.Width)
	}
}

func TestRunExtractor_InsertsSpaceAcrossSmallGap(t *testing.T) {
	// a 3 point gap at size 12 is above the space ratio but below the merge ratio
	page := runExtract(NewRunExtractor(),
		makeEvent(0, "Hello", 100, 700, 12),
		makeEvent(1, "World", 133, 700, 12),
	)
	if got := blockTexts(page); !equalStrings(got, []string{"Hello World"}) {
		t.Errorf("blocks = %q", got)
	}
}

func TestRunExtractor_SplitsRuns(t *testing.T) {
	tests := []struct {
		name   string
		second model.Event
	}{
		{"large gap", makeEvent(1, "b", 200, 700, 12)},
		{"other baseline", makeEvent(1, "b", 106, 680, 12)},
		{"other size", makeEvent(1, "b", 106, 700, 14)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := runExtract(NewRunExtractor(), makeEvent(0, "a", 100, 700, 12), tt.second)
			if page.Len() != 2 {
				t.Errorf("got %d blocks %q, want 2", page.Len(), blockTexts(page))
			}
		})
	}
}

func TestRunExtractor_IgnoresPathsAndBlanks(t *testing.T) {
	page := runExtract(NewRunExtractor(),
		model.Event{Kind: model.EventPath, Seq: 0, Rects: []model.BBox{model.NewBBox(0, 0, 10, 10)}},
		makeEvent(1, "   ", 100, 700, 12),
		makeEvent(2, "text", 100, 680, 12),
	)
	if got := blockTexts(page); !equalStrings(got, []string{"text"}) {
		t.Errorf("blocks = %q", got)
	}
}

func TestRunExtractor_Ordering(t *testing.T) {
	// stream order is bottom-up and right-to-left; baselines 700 and 701
	// fall in the same row
	page := runExtract(NewRunExtractor(),
		makeEvent(0, "bottom", 72, 600, 12),
		makeEvent(1, "right", 300, 701, 12),
		makeEvent(2, "left", 72, 700, 12),
	)
	want := []string{"left", "right", "bottom"}
	if got := blockTexts(page); !equalStrings(got, want) {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestRunExtractor_OrderingTieBreakBySeq(t *testing.T) {
	page := runExtract(NewRunExtractor(),
		makeEvent(0, "first", 72, 700, 12),
		makeEvent(1, "second", 72, 700, 14),
	)
	want := []string{"first", "second"}
	if got := blockTexts(page); !equalStrings(got, want) {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestRunExtractor_BeginPageResets(t *testing.T) {
	ext := NewRunExtractor()
	first := runExtract(ext, makeEvent(0, "one", 72, 700, 12))

	ext.BeginPage(model.PageInfo{Number: 2})
	second := ext.Result()
	if second.Len() != 0 || second.Page.Number != 2 {
		t.Errorf("second page = %+v", second)
	}
	if first.Len() != 1 {
		t.Error("BeginPage should not modify an earlier result")
	}
}

func TestRunExtractor_Direction(t *testing.T) {
	page := runExtract(NewRunExtractor(),
		makeEvent(0, "שלום", 72, 700, 12),
		makeEvent(1, "hello", 72, 680, 12),
	)
	if page.Blocks[0].Direction != text.RTL || page.Blocks[1].Direction != text.LTR {
		t.Errorf("directions = %v, %v", page.Blocks[0].Direction, page.Blocks[1].Direction)
	}
}

func TestWordExtractor_SplitsOnSpaces(t *testing.T) {
	page := runExtract(NewWordExtractor(), makeEvent(0, "the quick  fox", 72, 700, 10))
	want := []string{"the", "quick", "fox"}
	if got := blockTexts(page); !equalStrings(got, want) {
		t.Errorf("words = %q, want %q", got, want)
	}
	// "quick" starts after "the " at 4 glyphs of 5 points
	if page.Blocks[1].BBox.X != 92 || page.Blocks[1].BBox.Width != 25 {
		t.Errorf("quick box = %+v", page.Blocks[1].BBox)
	}
}

func TestWordExtractor_JoinsAcrossEvents(t *testing.T) {
	page := runExtract(NewWordExtractor(),
		makeEvent(0, "wo", 72, 700, 10),
		makeEvent(1, "rd next", 82, 700, 10),
	)
	want := []string{"word", "next"}
	if got := blockTexts(page); !equalStrings(got, want) {
		t.Errorf("words = %q, want %q", got, want)
	}
}

func TestWordExtractor_SplitsOnGlyphGap(t *testing.T) {
	ev := makeEvent(0, "ab", 72, 700, 10)
	ev.Glyphs[1].X += 20
	page := runExtract(NewWordExtractor(), ev)
	if page.Len() != 2 {
		t.Errorf("got %q, want two words", blockTexts(page))
	}
}

func TestSortBlocks_Stable(t *testing.T) {
	blocks := []model.Block{
		{Text: "c", Baseline: 100, BBox: model.NewBBox(10, 98, 5, 10), Seq: 2},
		{Text: "a", Baseline: 100, BBox: model.NewBBox(10, 98, 5, 10), Seq: 0},
		{Text: "b", Baseline: 100, BBox: model.NewBBox(10, 98, 5, 10), Seq: 1},
	}
	sortBlocks(blocks, 2)
	for i, want := range []string{"a", "b", "c"} {
		if blocks[i].Text != want {
			t.Fatalf("order = %v", blocks)
		}
	}
}
