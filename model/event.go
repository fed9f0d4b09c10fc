package model

// EventKind identifies the type of a decoded content-stream event.
type EventKind int

const (
	// EventText is a string segment shown by Tj, TJ, ' or ".
	EventText EventKind = iota
	// EventPath is a path painted by a stroke or fill operator.
	EventPath
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case EventText:
		return "text"
	case EventPath:
		return "path"
	default:
		return "unknown"
	}
}

// Glyph is one decoded character of a text event, positioned on the baseline.
type Glyph struct {
	Text  string
	X     float64
	Width float64
}

// Segment is a straight line between two points of a painted path.
type Segment struct {
	From, To Point
}

// Event is one positioned content-stream event for a single page. Coordinates
// are in default user space: the CTM and text matrix have already been applied.
type Event struct {
	Kind EventKind

	// Seq is the zero-based position of the event in the page's stream.
	Seq int

	// BBox encloses the glyphs of a text event or the points of a path.
	BBox BBox

	// Text event fields.
	Text     string
	Glyphs   []Glyph
	FontName string
	FontSize float64
	Baseline float64

	// Path event fields.
	Segments []Segment
	Rects    []BBox
	Stroked  bool
	Filled   bool
}

// PageInfo describes the page an extractor is about to receive events for.
type PageInfo struct {
	Number   int
	MediaBox BBox
	Rotate   int
}

// Width returns the MediaBox width.
func (p PageInfo) Width() float64 { return p.MediaBox.Width }

// Height returns the MediaBox height.
func (p PageInfo) Height() float64 { return p.MediaBox.Height }
