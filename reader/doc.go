// Package reader opens PDF documents and interprets page content streams.
//
// A [Reader] is created with [Open] for files on disk or [NewReader] for any
// io.ReaderAt. Pages are addressed 1-based through [Reader.Page]; each page
// reports its MediaBox and rotation, inheriting both from the page tree when
// the page itself omits them.
//
// # Content Events
//
// [Page.Walk] runs the content stream through a small interpreter that keeps
// the graphics and text state (see package graphicsstate) and reports what
// the page draws:
//
//   - one [model.EventText] per shown string, with per-glyph positions
//   - one [model.EventPath] per painted path, with straight segments and
//     rectangles in user space
//
// Form XObjects are followed with their own resources and matrix. Text in
// the invisible rendering mode is not reported.
//
// # Errors
//
// Structural problems surface as [ErrCorrupt]. The decoding engine signals
// malformed input by panicking; those panics are recovered at the package
// boundary and converted.
package reader
