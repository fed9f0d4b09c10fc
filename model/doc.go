// Package model defines the in-memory types that flow through the pdfpipe
// pipeline.
//
// Nothing in this package is persisted; collaborators serialize these values
// if they need to.
//
// # Events
//
// The document engine decodes each page into a sequence of [Event] values.
// Text events carry the shown string, its [Glyph] positions, font and baseline.
// Path events carry straight [Segment] values and rectangles with their paint
// flags. All coordinates are in default user space.
//
// # Blocks and lines
//
// A block extractor turns the events of one page into a [BlockPage] holding
// [Block] values. A line converter turns a BlockPage into [TextLine] values in
// reading order.
//
// # Geometry
//
//   - [BBox] - rectangle with union, intersection and overlap helpers
//   - [Point] - 2D point
//   - [Matrix] - PDF affine transformation
package model
