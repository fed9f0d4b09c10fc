package graphicsstate

import (
	"github.com/tsawler/pdfpipe/model"
)

// PathSegmentType defines the type of path segment.
type PathSegmentType int

const (
	// PathMoveTo starts a new subpath.
	PathMoveTo PathSegmentType = iota
	// PathLineTo draws a line to a point.
	PathLineTo
	// PathCurveTo draws a cubic Bézier curve.
	PathCurveTo
	// PathClosePath closes the current subpath.
	PathClosePath
)

// PathSegment is one construction step of a path, in user space. For curves
// Points holds both control points and the end point.
type PathSegment struct {
	Type   PathSegmentType
	Points []model.Point
}

// Path is the path under construction between a construction operator and
// the painting operator that consumes it. Points are transformed by the CTM
// when they are added, which is when the PDF model fixes them.
type Path struct {
	Segments []PathSegment
	Rects    []model.BBox

	current      model.Point
	subpathStart model.Point
	hasCurrent   bool
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a new subpath (m operator).
func (p *Path) MoveTo(ctm model.Matrix, x, y float64) {
	pt := ctm.Transform(model.Point{X: x, Y: y})
	p.Segments = append(p.Segments, PathSegment{Type: PathMoveTo, Points: []model.Point{pt}})
	p.current = pt
	p.subpathStart = pt
	p.hasCurrent = true
}

// LineTo appends a straight segment (l operator). Without a current point
// it behaves like MoveTo.
func (p *Path) LineTo(ctm model.Matrix, x, y float64) {
	if !p.hasCurrent {
		p.MoveTo(ctm, x, y)
		return
	}
	pt := ctm.Transform(model.Point{X: x, Y: y})
	p.Segments = append(p.Segments, PathSegment{Type: PathLineTo, Points: []model.Point{pt}})
	p.current = pt
}

// CurveTo appends a cubic Bézier curve (c, v and y operators after the
// caller has filled in the implicit control points).
func (p *Path) CurveTo(ctm model.Matrix, x1, y1, x2, y2, x3, y3 float64) {
	if !p.hasCurrent {
		p.MoveTo(ctm, x1, y1)
	}
	end := ctm.Transform(model.Point{X: x3, Y: y3})
	p.Segments = append(p.Segments, PathSegment{
		Type: PathCurveTo,
		Points: []model.Point{
			ctm.Transform(model.Point{X: x1, Y: y1}),
			ctm.Transform(model.Point{X: x2, Y: y2}),
			end,
		},
	})
	p.current = end
}

// Current returns the current point in user space and whether one is set.
func (p *Path) Current() (model.Point, bool) {
	return p.current, p.hasCurrent
}

// ClosePath closes the current subpath (h operator).
func (p *Path) ClosePath() {
	if !p.hasCurrent {
		return
	}
	p.Segments = append(p.Segments, PathSegment{Type: PathClosePath})
	p.current = p.subpathStart
}

// Rectangle appends a closed rectangular subpath (re operator) and records
// its box so painters can report it as a rectangle rather than four lines.
func (p *Path) Rectangle(ctm model.Matrix, x, y, width, height float64) {
	corners := []model.Point{
		ctm.Transform(model.Point{X: x, Y: y}),
		ctm.Transform(model.Point{X: x + width, Y: y}),
		ctm.Transform(model.Point{X: x + width, Y: y + height}),
		ctm.Transform(model.Point{X: x, Y: y + height}),
	}
	p.Rects = append(p.Rects, model.BBoxFromPoints(corners...))
	p.Segments = append(p.Segments,
		PathSegment{Type: PathMoveTo, Points: corners[:1]},
		PathSegment{Type: PathLineTo, Points: corners[1:2]},
		PathSegment{Type: PathLineTo, Points: corners[2:3]},
		PathSegment{Type: PathLineTo, Points: corners[3:4]},
		PathSegment{Type: PathClosePath},
	)
	p.current = corners[0]
	p.subpathStart = corners[0]
	p.hasCurrent = true
}

// Clear resets the path after painting (or the n operator).
func (p *Path) Clear() {
	p.Segments = p.Segments[:0]
	p.Rects = p.Rects[:0]
	p.hasCurrent = false
}

// IsEmpty returns true if the path has no segments.
func (p *Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Paint turns the path into a path event and clears it. It returns false
// when there is nothing to report. Curves are flattened to the chord between
// their end points; the chord is only used for the segment list, the bounding
// box includes the control points.
func (p *Path) Paint(stroked, filled bool) (model.Event, bool) {
	if p.IsEmpty() {
		return model.Event{}, false
	}

	ev := model.Event{Kind: model.EventPath, Stroked: stroked, Filled: filled}
	if len(p.Rects) > 0 {
		ev.Rects = append([]model.BBox(nil), p.Rects...)
	}

	var points []model.Point
	var cur, start model.Point
	inRect := false
	for i, seg := range p.Segments {
		points = append(points, seg.Points...)
		switch seg.Type {
		case PathMoveTo:
			cur, start = seg.Points[0], seg.Points[0]
			inRect = p.rectRunAt(i)
		case PathLineTo:
			if !inRect {
				ev.Segments = append(ev.Segments, model.Segment{From: cur, To: seg.Points[0]})
			}
			cur = seg.Points[0]
		case PathCurveTo:
			if !inRect {
				ev.Segments = append(ev.Segments, model.Segment{From: cur, To: seg.Points[2]})
			}
			cur = seg.Points[2]
		case PathClosePath:
			if !inRect && cur != start {
				ev.Segments = append(ev.Segments, model.Segment{From: cur, To: start})
			}
			cur = start
			inRect = false
		}
	}
	ev.BBox = model.BBoxFromPoints(points...)

	p.Clear()
	return ev, true
}

// rectRunAt reports whether the subpath starting at segment i was added by
// Rectangle, in which case its edges are already described by Rects.
func (p *Path) rectRunAt(i int) bool {
	if i+4 >= len(p.Segments) {
		return false
	}
	pattern := []PathSegmentType{PathMoveTo, PathLineTo, PathLineTo, PathLineTo, PathClosePath}
	for k, want := range pattern {
		if p.Segments[i+k].Type != want {
			return false
		}
	}
	corners := model.BBoxFromPoints(
		p.Segments[i].Points[0], p.Segments[i+1].Points[0],
		p.Segments[i+2].Points[0], p.Segments[i+3].Points[0],
	)
	for _, r := range p.Rects {
		if r == corners {
			return true
		}
	}
	return false
}
