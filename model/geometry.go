package model

import "math"

// Point is a position in PDF user space.
type Point struct {
	X, Y float64
}

// Distance returns the Euclidean distance to other.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// BBox is an axis-aligned rectangle in PDF user space. Y is the bottom edge
// because the PDF origin sits at the lower-left corner of the page.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from its origin and extents.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// BBoxFromPoints returns the smallest box enclosing all points. It returns the
// zero box when points is empty.
func BBoxFromPoints(points ...Point) BBox {
	if len(points) == 0 {
		return BBox{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return BBox{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Left returns the left edge.
func (b BBox) Left() float64 { return b.X }

// Right returns the right edge.
func (b BBox) Right() float64 { return b.X + b.Width }

// Bottom returns the bottom edge.
func (b BBox) Bottom() float64 { return b.Y }

// Top returns the top edge.
func (b BBox) Top() float64 { return b.Y + b.Height }

// Center returns the center point.
func (b BBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains reports whether p lies inside or on the edge of the box.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X <= b.Right() &&
		p.Y >= b.Bottom() && p.Y <= b.Top()
}

// Intersects reports whether the two boxes touch or overlap.
func (b BBox) Intersects(other BBox) bool {
	return b.Right() >= other.Left() && b.Left() <= other.Right() &&
		b.Top() >= other.Bottom() && b.Bottom() <= other.Top()
}

// Intersection returns the overlapping region, or the zero box.
func (b BBox) Intersection(other BBox) BBox {
	if !b.Intersects(other) {
		return BBox{}
	}
	x := math.Max(b.Left(), other.Left())
	y := math.Max(b.Bottom(), other.Bottom())
	return BBox{
		X:      x,
		Y:      y,
		Width:  math.Min(b.Right(), other.Right()) - x,
		Height: math.Min(b.Top(), other.Top()) - y,
	}
}

// Union returns the smallest box enclosing both boxes.
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Bottom(), other.Bottom())
	return BBox{
		X:      x,
		Y:      y,
		Width:  math.Max(b.Right(), other.Right()) - x,
		Height: math.Max(b.Top(), other.Top()) - y,
	}
}

// Area returns Width*Height.
func (b BBox) Area() float64 {
	return b.Width * b.Height
}

// Expand grows the box by margin on every side.
func (b BBox) Expand(margin float64) BBox {
	return BBox{
		X:      b.X - margin,
		Y:      b.Y - margin,
		Width:  b.Width + 2*margin,
		Height: b.Height + 2*margin,
	}
}

// OverlapRatio returns the intersection area divided by the smaller of the two
// areas, in [0, 1].
func (b BBox) OverlapRatio(other BBox) float64 {
	minArea := math.Min(b.Area(), other.Area())
	if minArea == 0 || !b.Intersects(other) {
		return 0
	}
	return b.Intersection(other).Area() / minArea
}

// IsEmpty reports whether the box has no area.
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Matrix is a PDF affine transformation [a b c d e f].
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate returns a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Transform maps p through the matrix.
func (m Matrix) Transform(p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Multiply returns m × other, i.e. m applied first.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// VerticalScale returns the length of the transformed unit Y vector, which is
// the factor a font size is scaled by when rendered through m.
func (m Matrix) VerticalScale() float64 {
	return math.Hypot(m[2], m[3])
}

// HorizontalScale returns the length of the transformed unit X vector.
func (m Matrix) HorizontalScale() float64 {
	return math.Hypot(m[0], m[1])
}
