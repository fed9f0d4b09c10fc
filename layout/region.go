package layout

import (
	"sort"

	"github.com/tsawler/pdfpipe/model"
)

// RegionConverter reads pages laid out in regions, such as multi-column
// text. Rows of blocks are split wherever a horizontal gap exceeds
// HorizontalGapThreshold times the line height, the pieces are grouped into
// regions of vertically adjacent, horizontally overlapping lines, and the
// regions are emitted in reading order with their lines top to bottom.
type RegionConverter struct {
	config Config
}

// region is a rectangular group of lines.
type region struct {
	bbox  model.BBox
	lines []model.TextLine
}

// NewRegionConverter creates a region converter with default configuration.
func NewRegionConverter() *RegionConverter {
	return NewRegionConverterWithConfig(DefaultConfig())
}

// NewRegionConverterWithConfig creates a region converter with custom configuration.
func NewRegionConverterWithConfig(config Config) *RegionConverter {
	return &RegionConverter{config: config.withDefaults()}
}

// Convert turns the page's blocks into lines in region reading order. It
// does not modify page.
func (c *RegionConverter) Convert(page *model.BlockPage) []model.TextLine {
	if page.Len() == 0 {
		return nil
	}

	var lines []model.TextLine
	for _, row := range groupIntoRows(page.Blocks, c.config) {
		for _, piece := range c.splitRow(row) {
			if line, ok := buildLine(piece, c.config); ok {
				lines = append(lines, line)
			}
		}
	}

	regions := c.groupLinesIntoRegions(lines)
	regions = mergeOverlappingRegions(regions)
	regions = orderRegions(regions, c.config.MinGapWidth)

	out := make([]model.TextLine, 0, len(lines))
	for _, r := range regions {
		out = append(out, r.lines...)
	}
	return indexLines(out, page.Page.Number)
}

// splitRow cuts a row sorted left to right at every gap wider than
// HorizontalGapThreshold times the row height.
func (c *RegionConverter) splitRow(row []model.Block) [][]model.Block {
	height := 0.0
	for _, b := range row {
		height = max(height, b.BBox.Height)
	}
	limit := height * c.config.HorizontalGapThreshold

	var pieces [][]model.Block
	start := 0
	for i := 1; i < len(row); i++ {
		if row[i].BBox.Left()-row[i-1].BBox.Right() > limit {
			pieces = append(pieces, row[start:i])
			start = i
		}
	}
	return append(pieces, row[start:])
}

// groupLinesIntoRegions attaches each line, taken top to bottom, to the most
// recent region whose last line overlaps it horizontally and sits within
// VerticalGapThreshold times the average line height above it.
func (c *RegionConverter) groupLinesIntoRegions(lines []model.TextLine) []*region {
	var regions []*region

	for _, line := range lines {
		var target *region
		for i := len(regions) - 1; i >= 0; i-- {
			r := regions[i]
			prev := r.lines[len(r.lines)-1]

			gap := prev.BBox.Bottom() - line.BBox.Top()
			threshold := (prev.BBox.Height + line.BBox.Height) / 2 * c.config.VerticalGapThreshold
			overlaps := prev.BBox.Right() > line.BBox.Left() && line.BBox.Right() > prev.BBox.Left()

			if overlaps && gap <= threshold && line.Baseline < prev.Baseline {
				target = r
				break
			}
		}

		if target == nil {
			regions = append(regions, &region{bbox: line.BBox, lines: []model.TextLine{line}})
			continue
		}
		target.lines = append(target.lines, line)
		target.bbox = target.bbox.Union(line.BBox)
	}
	return regions
}

// mergeOverlappingRegions merges regions whose intersection covers more than
// 30% of the smaller one.
func mergeOverlappingRegions(regions []*region) []*region {
	if len(regions) <= 1 {
		return regions
	}

	merged := make([]*region, 0, len(regions))
	used := make([]bool, len(regions))

	for i := range regions {
		if used[i] {
			continue
		}
		current := &region{bbox: regions[i].bbox, lines: append([]model.TextLine(nil), regions[i].lines...)}

		for j := i + 1; j < len(regions); j++ {
			if used[j] || !regionsOverlap(current.bbox, regions[j].bbox) {
				continue
			}
			current.lines = append(current.lines, regions[j].lines...)
			current.bbox = current.bbox.Union(regions[j].bbox)
			used[j] = true
		}

		sort.SliceStable(current.lines, func(a, b int) bool {
			la, lb := current.lines[a], current.lines[b]
			if la.Baseline != lb.Baseline {
				return la.Baseline > lb.Baseline
			}
			return la.BBox.Left() < lb.BBox.Left()
		})
		merged = append(merged, current)
	}
	return merged
}

func regionsOverlap(a, b model.BBox) bool {
	return a.OverlapRatio(b) > 0.3
}
