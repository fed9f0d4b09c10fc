package graphicsstate

import (
	"errors"

	"github.com/tsawler/pdfpipe/model"
)

// ErrStackUnderflow is returned by Restore when Q has no matching q.
var ErrStackUnderflow = errors.New("graphicsstate: stack underflow")

// GraphicsState represents the PDF graphics state.
type GraphicsState struct {
	// Current Transformation Matrix.
	CTM model.Matrix

	// Text state.
	Text TextState

	// Graphics state stack (for q/Q operators)
	stack []saved

	// Line attributes.
	LineWidth float64
}

// saved is the part of the state that q/Q save and restore. The text
// matrices are not part of it: they only live between BT and ET.
type saved struct {
	ctm       model.Matrix
	lineWidth float64
	text      TextState
}

// TextState represents text-specific state.
type TextState struct {
	FontName string
	FontSize float64

	// Character and word spacing, unscaled text space units.
	CharSpacing float64
	WordSpacing float64

	// Horizontal scaling in percent.
	HorizontalScaling float64

	Leading       float64
	RenderingMode int
	Rise          float64

	// Text matrices.
	TextMatrix     model.Matrix
	TextLineMatrix model.Matrix
}

// NewGraphicsState creates a graphics state with PDF default values.
func NewGraphicsState() *GraphicsState {
	return &GraphicsState{
		CTM:       model.Identity(),
		LineWidth: 1.0,
		Text: TextState{
			FontSize:          12.0,
			HorizontalScaling: 100.0,
			TextMatrix:        model.Identity(),
			TextLineMatrix:    model.Identity(),
		},
	}
}

// Depth returns the number of saved states.
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Save pushes the current graphics state onto the stack (q operator).
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, saved{ctm: gs.CTM, lineWidth: gs.LineWidth, text: gs.Text})
}

// Restore pops a graphics state from the stack (Q operator).
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return ErrStackUnderflow
	}
	s := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	gs.CTM = s.ctm
	gs.LineWidth = s.lineWidth
	tm, tlm := gs.Text.TextMatrix, gs.Text.TextLineMatrix
	gs.Text = s.text
	gs.Text.TextMatrix, gs.Text.TextLineMatrix = tm, tlm
	return nil
}

// Transform concatenates m onto the CTM (cm operator).
func (gs *GraphicsState) Transform(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetFont sets the current font (Tf operator).
func (gs *GraphicsState) SetFont(name string, size float64) {
	gs.Text.FontName = name
	gs.Text.FontSize = size
}

// BeginText resets the text matrices (BT operator).
func (gs *GraphicsState) BeginText() {
	gs.Text.TextMatrix = model.Identity()
	gs.Text.TextLineMatrix = model.Identity()
}

// SetTextMatrix sets both text matrices (Tm operator).
func (gs *GraphicsState) SetTextMatrix(m model.Matrix) {
	gs.Text.TextMatrix = m
	gs.Text.TextLineMatrix = m
}

// TranslateText starts a new line offset from the start of the current one
// (Td operator): Tlm = T(tx, ty) × Tlm.
func (gs *GraphicsState) TranslateText(tx, ty float64) {
	gs.Text.TextLineMatrix = model.Translate(tx, ty).Multiply(gs.Text.TextLineMatrix)
	gs.Text.TextMatrix = gs.Text.TextLineMatrix
}

// TranslateTextSetLeading is Td that also sets the leading to -ty (TD operator).
func (gs *GraphicsState) TranslateTextSetLeading(tx, ty float64) {
	gs.Text.Leading = -ty
	gs.TranslateText(tx, ty)
}

// NextLine moves to the start of the next line (T* operator).
func (gs *GraphicsState) NextLine() {
	gs.TranslateText(0, -gs.Text.Leading)
}

// GlyphAdvance returns the horizontal displacement in text space after
// showing a glyph whose width is w0 in glyph space (thousandths of an em).
// Word spacing only applies to the single-byte code 32.
func (gs *GraphicsState) GlyphAdvance(w0 float64, isSpace bool) float64 {
	tx := w0/1000*gs.Text.FontSize + gs.Text.CharSpacing
	if isSpace {
		tx += gs.Text.WordSpacing
	}
	return tx * gs.Text.HorizontalScaling / 100
}

// Advance moves the text matrix by tx along the text baseline.
func (gs *GraphicsState) Advance(tx float64) {
	gs.Text.TextMatrix = model.Translate(tx, 0).Multiply(gs.Text.TextMatrix)
}

// Kern applies a TJ array adjustment given in thousandths of an em.
func (gs *GraphicsState) Kern(adjust float64) {
	gs.Advance(-adjust / 1000 * gs.Text.FontSize * gs.Text.HorizontalScaling / 100)
}

// RenderingMatrix returns the text rendering matrix that maps glyph space
// (scaled to 1 unit per em) into user space.
func (gs *GraphicsState) RenderingMatrix() model.Matrix {
	t := gs.Text
	params := model.Matrix{t.FontSize * t.HorizontalScaling / 100, 0, 0, t.FontSize, 0, t.Rise}
	return params.Multiply(t.TextMatrix).Multiply(gs.CTM)
}

// TextPosition returns the current text origin in user space.
func (gs *GraphicsState) TextPosition() model.Point {
	return gs.Text.TextMatrix.Multiply(gs.CTM).Transform(model.Point{X: 0, Y: gs.Text.Rise})
}

// EffectiveFontSize returns the rendered font size after the text matrix and
// CTM have been applied. Producers often use Tf with size 1 and scale the
// text matrix instead.
func (gs *GraphicsState) EffectiveFontSize() float64 {
	return gs.Text.FontSize * gs.Text.TextMatrix.Multiply(gs.CTM).VerticalScale()
}

// Invisible reports whether text is drawn in rendering mode 3 (neither
// filled nor stroked), as used by OCR layers.
func (gs *GraphicsState) Invisible() bool {
	return gs.Text.RenderingMode == 3
}
