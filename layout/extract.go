package layout

import (
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/tsawler/pdfpipe/model"
	"github.com/tsawler/pdfpipe/text"
)

// sameBaseline is the baseline difference below which two runs sit on the
// same baseline.
const sameBaseline = 0.1

// RunExtractor builds one block per run of text. Consecutive text events that
// share a baseline, font and size and are separated by less than
// MergeGapRatio times the font size are merged into a single run.
//
// Blocks in the result are ordered top to bottom by baseline (baselines within
// BaselineTolerance count as one row), then left to right, then by stream
// sequence.
type RunExtractor struct {
	config Config
	page   *model.BlockPage
	runs   []model.Block
}

// NewRunExtractor creates a run extractor with default configuration.
func NewRunExtractor() *RunExtractor {
	return NewRunExtractorWithConfig(DefaultConfig())
}

// NewRunExtractorWithConfig creates a run extractor with custom configuration.
func NewRunExtractorWithConfig(config Config) *RunExtractor {
	return &RunExtractor{config: config.withDefaults()}
}

// BeginPage discards any previous page and starts collecting for info.
func (e *RunExtractor) BeginPage(info model.PageInfo) {
	e.page = model.NewBlockPage(info)
	e.runs = nil
}

// Handle consumes one content event. Path events and blank strings are ignored.
func (e *RunExtractor) Handle(ev model.Event) {
	if e.page == nil || ev.Kind != model.EventText || text.IsBlank(ev.Text) {
		return
	}

	if n := len(e.runs); n > 0 {
		last := &e.runs[n-1]
		if gap, ok := e.continues(*last, ev); ok {
			if gap > e.config.SpaceGapRatio*ev.FontSize {
				last.Text += " "
			}
			last.Text += ev.Text
			last.BBox = last.BBox.Union(ev.BBox)
			return
		}
	}

	e.runs = append(e.runs, model.Block{
		BBox:     ev.BBox,
		Text:     ev.Text,
		FontName: ev.FontName,
		FontSize: ev.FontSize,
		Baseline: ev.Baseline,
		Seq:      ev.Seq,
	})
}

// continues reports whether ev extends run, and the gap between them.
func (e *RunExtractor) continues(run model.Block, ev model.Event) (float64, bool) {
	if run.FontName != ev.FontName ||
		math.Abs(run.FontSize-ev.FontSize) > sameBaseline ||
		math.Abs(run.Baseline-ev.Baseline) > sameBaseline {
		return 0, false
	}
	gap := ev.BBox.Left() - run.BBox.Right()
	limit := e.config.MergeGapRatio * ev.FontSize
	return gap, gap >= -limit && gap <= limit
}

// Result returns the blocks collected since BeginPage, or nil if no page was
// begun.
func (e *RunExtractor) Result() *model.BlockPage {
	if e.page == nil {
		return nil
	}
	e.page.Blocks = finishBlocks(e.runs, e.config)
	return e.page
}

// WordExtractor builds one block per whitespace-separated word, splitting
// text events on space glyphs and on glyph gaps wider than SpaceGapRatio
// times the font size. A word may continue across text events. Ordering is
// the same as for RunExtractor.
type WordExtractor struct {
	config Config
	page   *model.BlockPage
	words  []model.Block
	open   bool
}

// NewWordExtractor creates a word extractor with default configuration.
func NewWordExtractor() *WordExtractor {
	return NewWordExtractorWithConfig(DefaultConfig())
}

// NewWordExtractorWithConfig creates a word extractor with custom configuration.
func NewWordExtractorWithConfig(config Config) *WordExtractor {
	return &WordExtractor{config: config.withDefaults()}
}

// BeginPage discards any previous page and starts collecting for info.
func (e *WordExtractor) BeginPage(info model.PageInfo) {
	e.page = model.NewBlockPage(info)
	e.words = nil
	e.open = false
}

// Handle consumes one content event. Path events are ignored.
func (e *WordExtractor) Handle(ev model.Event) {
	if e.page == nil || ev.Kind != model.EventText {
		return
	}

	for _, g := range ev.Glyphs {
		if isSpaceGlyph(g.Text) {
			e.open = false
			continue
		}

		if e.open {
			last := &e.words[len(e.words)-1]
			gap := g.X - last.BBox.Right()
			if math.Abs(last.Baseline-ev.Baseline) <= sameBaseline &&
				math.Abs(last.FontSize-ev.FontSize) <= sameBaseline &&
				gap <= e.config.SpaceGapRatio*ev.FontSize &&
				gap >= -ev.FontSize {
				last.Text += g.Text
				last.BBox = last.BBox.Union(model.NewBBox(g.X, ev.BBox.Y, g.Width, ev.BBox.Height))
				continue
			}
		}

		e.words = append(e.words, model.Block{
			BBox:     model.NewBBox(g.X, ev.BBox.Y, g.Width, ev.BBox.Height),
			Text:     g.Text,
			FontName: ev.FontName,
			FontSize: ev.FontSize,
			Baseline: ev.Baseline,
			Seq:      ev.Seq,
		})
		e.open = true
	}
}

// Result returns the words collected since BeginPage, or nil if no page was
// begun.
func (e *WordExtractor) Result() *model.BlockPage {
	if e.page == nil {
		return nil
	}
	e.page.Blocks = finishBlocks(e.words, e.config)
	return e.page
}

func isSpaceGlyph(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// finishBlocks normalizes block text, drops blank blocks, sets direction and
// sorts into row order. The result is never nil.
func finishBlocks(raw []model.Block, config Config) []model.Block {
	blocks := make([]model.Block, 0, len(raw))
	for _, b := range raw {
		b.Text = text.Normalize(b.Text)
		if b.Text == "" {
			continue
		}
		b.Direction = text.DetectDirection(b.Text)
		blocks = append(blocks, b)
	}
	sortBlocks(blocks, config.BaselineTolerance)
	return blocks
}

// sortBlocks orders blocks top to bottom, then left to right, then by stream
// sequence. Rows are formed first so the order is a strict weak ordering even
// though baselines are compared with a tolerance.
func sortBlocks(blocks []model.Block, tolerance float64) {
	if len(blocks) < 2 {
		return
	}

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Baseline != blocks[j].Baseline {
			return blocks[i].Baseline > blocks[j].Baseline
		}
		return blocks[i].Seq < blocks[j].Seq
	})

	rows := make([]int, len(blocks))
	rowBaseline := blocks[0].Baseline
	for i := 1; i < len(blocks); i++ {
		rows[i] = rows[i-1]
		if rowBaseline-blocks[i].Baseline > tolerance {
			rows[i]++
			rowBaseline = blocks[i].Baseline
		}
	}

	idx := make([]int, len(blocks))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ia, ib := idx[a], idx[b]
		if rows[ia] != rows[ib] {
			return rows[ia] < rows[ib]
		}
		if blocks[ia].BBox.X != blocks[ib].BBox.X {
			return blocks[ia].BBox.X < blocks[ib].BBox.X
		}
		return blocks[ia].Seq < blocks[ib].Seq
	})

	sorted := make([]model.Block, len(blocks))
	for i, k := range idx {
		sorted[i] = blocks[k]
	}
	copy(blocks, sorted)
}
