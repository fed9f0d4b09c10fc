package layout

// Config holds the thresholds shared by the extractors and converters. All
// ratios are relative to the font size or line height of the text involved;
// absolute values are in PDF points.
type Config struct {
	// BaselineTolerance is the distance within which two baselines count as
	// the same row when ordering blocks (default: 2 points).
	BaselineTolerance float64

	// MergeGapRatio is the largest horizontal gap, as a fraction of the font
	// size, across which adjacent runs are merged (default: 0.3).
	MergeGapRatio float64

	// LineHeightTolerance is the baseline distance for grouping blocks into
	// lines, as a fraction of block height (default: 0.5).
	LineHeightTolerance float64

	// SpaceGapRatio is the horizontal gap, as a fraction of line height, above
	// which a space is inserted between blocks (default: 0.1).
	SpaceGapRatio float64

	// MinLineWidth is the minimum width for a line to be emitted (default: 5 points).
	MinLineWidth float64

	// VerticalGapThreshold is the vertical gap between lines, as a fraction of
	// the average line height, that starts a new region (default: 1.5).
	VerticalGapThreshold float64

	// HorizontalGapThreshold is the gap inside a row, as a fraction of line
	// height, that splits it into separate region lines (default: 3.0).
	HorizontalGapThreshold float64

	// MinGapWidth is the minimum width of a whitespace gutter separating
	// columns of regions (default: 20 points).
	MinGapWidth float64
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		BaselineTolerance:      2.0,
		MergeGapRatio:          0.3,
		LineHeightTolerance:    0.5,
		SpaceGapRatio:          0.1,
		MinLineWidth:           5.0,
		VerticalGapThreshold:   1.5,
		HorizontalGapThreshold: 3.0,
		MinGapWidth:            20.0,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.BaselineTolerance <= 0 {
		c.BaselineTolerance = d.BaselineTolerance
	}
	if c.MergeGapRatio <= 0 {
		c.MergeGapRatio = d.MergeGapRatio
	}
	if c.LineHeightTolerance <= 0 {
		c.LineHeightTolerance = d.LineHeightTolerance
	}
	if c.SpaceGapRatio <= 0 {
		c.SpaceGapRatio = d.SpaceGapRatio
	}
	if c.MinLineWidth < 0 {
		c.MinLineWidth = d.MinLineWidth
	}
	if c.VerticalGapThreshold <= 0 {
		c.VerticalGapThreshold = d.VerticalGapThreshold
	}
	if c.HorizontalGapThreshold <= 0 {
		c.HorizontalGapThreshold = d.HorizontalGapThreshold
	}
	if c.MinGapWidth <= 0 {
		c.MinGapWidth = d.MinGapWidth
	}
	return c
}
