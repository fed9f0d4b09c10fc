// Package graphicsstate tracks the PDF graphics state while a page's content
// stream is interpreted.
//
// # Graphics State
//
// The main type is GraphicsState, which tracks:
//   - CTM (Current Transformation Matrix) for coordinate transformations
//   - Line width
//   - Text state (font, size, spacing, scaling, rise, matrices)
//
// Example usage:
//
//	gs := graphicsstate.NewGraphicsState()
//	gs.Save()              // Push state (q operator)
//	gs.Transform(matrix)   // Modify CTM (cm operator)
//	gs.SetFont("F1", 12)   // Set font (Tf operator)
//	gs.Restore()           // Pop state (Q operator)
//
// Glyph positioning follows the text rendering matrix of the PDF model:
// [GraphicsState.RenderingMatrix] maps a glyph to user space and
// [GraphicsState.GlyphAdvance] gives the displacement after it.
//
// # Path Operations
//
// [Path] collects m, l, c, re and h operators in user space until a
// painting operator turns it into a path event with [Path.Paint].
package graphicsstate
