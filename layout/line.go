package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/pdfpipe/model"
	"github.com/tsawler/pdfpipe/text"
)

// LineConverter groups a page's blocks into text lines by baseline and emits
// them top to bottom. Blocks within a line are joined left to right (right to
// left for lines whose dominant direction is RTL), with a space wherever the
// horizontal gap exceeds SpaceGapRatio times the line height.
type LineConverter struct {
	config Config
}

// NewLineConverter creates a line converter with default configuration.
func NewLineConverter() *LineConverter {
	return NewLineConverterWithConfig(DefaultConfig())
}

// NewLineConverterWithConfig creates a line converter with custom configuration.
func NewLineConverterWithConfig(config Config) *LineConverter {
	return &LineConverter{config: config.withDefaults()}
}

// Convert turns the page's blocks into lines. It does not modify page.
func (c *LineConverter) Convert(page *model.BlockPage) []model.TextLine {
	if page.Len() == 0 {
		return nil
	}

	var lines []model.TextLine
	for _, row := range groupIntoRows(page.Blocks, c.config) {
		if line, ok := buildLine(row, c.config); ok {
			lines = append(lines, line)
		}
	}
	return indexLines(lines, page.Page.Number)
}

// groupIntoRows groups blocks into horizontal rows by baseline, top to
// bottom. Each row is sorted left to right.
func groupIntoRows(blocks []model.Block, config Config) [][]model.Block {
	if len(blocks) == 0 {
		return nil
	}

	tolerance := adaptiveTolerance(blocks, config)

	// Sort by baseline only; blocks on the same baseline keep extractor order
	sorted := make([]model.Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Baseline > sorted[j].Baseline
	})

	var rows [][]model.Block
	var current []model.Block
	sum := 0.0

	for _, b := range sorted {
		if len(current) > 0 && math.Abs(b.Baseline-sum/float64(len(current))) > tolerance {
			rows = append(rows, current)
			current, sum = nil, 0
		}
		current = append(current, b)
		sum += b.Baseline
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool {
			if row[i].BBox.X != row[j].BBox.X {
				return row[i].BBox.X < row[j].BBox.X
			}
			return row[i].Seq < row[j].Seq
		})
	}
	return rows
}

// adaptiveTolerance determines the baseline tolerance for row grouping from
// the content itself. Pages whose CTM compresses coordinates have line gaps
// smaller than the font height would suggest; in that case a fraction of the
// smallest typical gap is used instead.
func adaptiveTolerance(blocks []model.Block, config Config) float64 {
	avgHeight := averageHeight(blocks)
	standard := avgHeight * config.LineHeightTolerance

	baselines := make(map[float64]bool)
	for _, b := range blocks {
		baselines[math.Round(b.Baseline*10)/10] = true
	}
	if len(baselines) < 3 {
		return standard
	}

	unique := make([]float64, 0, len(baselines))
	for y := range baselines {
		unique = append(unique, y)
	}
	sort.Float64s(unique)

	gaps := make([]float64, 0, len(unique)-1)
	for i := 1; i < len(unique); i++ {
		if gap := unique[i] - unique[i-1]; gap > 0.1 {
			gaps = append(gaps, gap)
		}
	}
	if len(gaps) == 0 {
		return standard
	}
	sort.Float64s(gaps)

	// 10th percentile: the smallest inter-line gaps, excluding noise
	minGap := gaps[len(gaps)/10]
	if minGap < avgHeight*0.5 {
		return max(minGap*0.2, 0.15)
	}
	return standard
}

func averageHeight(blocks []model.Block) float64 {
	if len(blocks) == 0 {
		return 12.0
	}
	total := 0.0
	for _, b := range blocks {
		total += b.BBox.Height
	}
	return total / float64(len(blocks))
}

// buildLine assembles one line from a row of blocks sorted left to right.
// Lines narrower than MinLineWidth or without visible text are rejected.
func buildLine(row []model.Block, config Config) (model.TextLine, bool) {
	if len(row) == 0 {
		return model.TextLine{}, false
	}

	line := model.TextLine{
		BBox:     model.BlocksBBox(row),
		Baseline: row[0].Baseline,
	}
	if line.BBox.Width < config.MinLineWidth {
		return model.TextLine{}, false
	}

	height, fontSize := 0.0, 0.0
	ltr, rtl := 0, 0
	for _, b := range row {
		line.Baseline = min(line.Baseline, b.Baseline)
		height = max(height, b.BBox.Height)
		fontSize += b.FontSize

		dir := b.Direction
		if dir == text.Neutral {
			dir = text.DetectDirection(b.Text)
		}
		switch dir {
		case text.LTR:
			ltr++
		case text.RTL:
			rtl++
		}
	}
	line.FontSize = fontSize / float64(len(row))
	line.Direction = text.Dominant(ltr, rtl)

	blocks := make([]model.Block, len(row))
	copy(blocks, row)
	line.Text = text.Normalize(assembleText(blocks, height, config.SpaceGapRatio, line.Direction == text.RTL))
	if line.Text == "" {
		return model.TextLine{}, false
	}
	if line.Direction == text.RTL {
		for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
			blocks[i], blocks[j] = blocks[j], blocks[i]
		}
	}
	line.Blocks = blocks
	return line, true
}

// assembleText joins blocks sorted left to right, inserting a space where the
// gap exceeds ratio times height. With rtl set the parts are emitted right to
// left.
func assembleText(blocks []model.Block, height, ratio float64, rtl bool) string {
	parts := make([]string, 0, 2*len(blocks))
	for i, b := range blocks {
		if i > 0 {
			gap := b.BBox.Left() - blocks[i-1].BBox.Right()
			if gap > height*ratio {
				parts = append(parts, " ")
			}
		}
		parts = append(parts, b.Text)
	}

	if rtl {
		for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
			parts[i], parts[j] = parts[j], parts[i]
		}
	}
	return strings.Join(parts, "")
}

// indexLines stamps page number and position onto lines.
func indexLines(lines []model.TextLine, page int) []model.TextLine {
	for i := range lines {
		lines[i].Page = page
		lines[i].Index = i
	}
	return lines
}
