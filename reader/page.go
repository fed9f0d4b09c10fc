package reader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdfpipe/graphicsstate"
	"github.com/tsawler/pdfpipe/model"
)

// maxFormDepth bounds nested form XObjects so self-referencing forms cannot
// recurse forever.
const maxFormDepth = 8

// descentRatio is the share of the font size placed below the baseline when
// building text boxes; font descriptors are not consulted.
const descentRatio = 0.2

// Page is one page of an open document.
type Page struct {
	v    pdf.Page
	info model.PageInfo
}

// Number returns the 1-based page number.
func (p *Page) Number() int {
	return p.info.Number
}

// Info returns the page number, MediaBox and rotation.
func (p *Page) Info() model.PageInfo {
	return p.info
}

// Walk interprets the page's content stream and calls fn for every text
// segment shown and every path painted, in stream order. Text drawn in
// invisible rendering mode is skipped. Decoding failures are reported as
// ErrCorrupt; fn is not called again after a failure.
func (p *Page) Walk(fn func(model.Event)) (err error) {
	defer recoverCorrupt(&err)

	contents := p.v.V.Key("Contents")
	if contents.IsNull() {
		return nil
	}

	w := &walker{
		gs:   graphicsstate.NewGraphicsState(),
		path: graphicsstate.NewPath(),
		emit: fn,
	}
	if err := w.run(contents, p.v.Resources(), 0); err != nil {
		return fmt.Errorf("page %d: %w", p.info.Number, err)
	}
	return nil
}

// walker holds the interpreter state for one Walk.
type walker struct {
	gs    *graphicsstate.GraphicsState
	path  *graphicsstate.Path
	font  *font
	fonts map[string]*font
	emit  func(model.Event)
	seq   int
	err   error
}

// run interprets one content stream (or array of streams) against the given
// resources.
func (w *walker) run(strm, resources pdf.Value, depth int) error {
	fonts := make(map[string]*font)
	outer := w.fonts
	w.fonts = fonts
	defer func() { w.fonts = outer }()

	pdf.Interpret(strm, func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)
		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		if w.err != nil {
			return
		}
		w.err = w.apply(op, args, resources, depth)
	})
	return w.err
}

// apply executes a single operator.
func (w *walker) apply(op string, args []pdf.Value, resources pdf.Value, depth int) error {
	gs := w.gs
	switch op {
	// Graphics state
	case "q":
		gs.Save()
	case "Q":
		if gs.Restore() != nil {
			// unbalanced Q is ignored
			return nil
		}
		// the font is part of the restored text state
		if gs.Text.FontName != "" {
			w.font = w.lookupFont(resources, gs.Text.FontName)
		}
	case "cm":
		m, ok := matrixArgs(args)
		if !ok {
			return fmt.Errorf("%w: bad cm operands", ErrCorrupt)
		}
		gs.Transform(m)
	case "w":
		if len(args) == 1 {
			gs.LineWidth = args[0].Float64()
		}

	// Text objects and state
	case "BT":
		gs.BeginText()
	case "ET":
	case "Tf":
		if len(args) != 2 {
			return fmt.Errorf("%w: bad Tf operands", ErrCorrupt)
		}
		name := args[0].Name()
		gs.SetFont(name, args[1].Float64())
		w.font = w.lookupFont(resources, name)
	case "Tc":
		if len(args) == 1 {
			gs.Text.CharSpacing = args[0].Float64()
		}
	case "Tw":
		if len(args) == 1 {
			gs.Text.WordSpacing = args[0].Float64()
		}
	case "Tz":
		if len(args) == 1 {
			gs.Text.HorizontalScaling = args[0].Float64()
		}
	case "TL":
		if len(args) == 1 {
			gs.Text.Leading = args[0].Float64()
		}
	case "Tr":
		if len(args) == 1 {
			gs.Text.RenderingMode = int(args[0].Int64())
		}
	case "Ts":
		if len(args) == 1 {
			gs.Text.Rise = args[0].Float64()
		}

	// Text positioning
	case "Tm":
		m, ok := matrixArgs(args)
		if !ok {
			return fmt.Errorf("%w: bad Tm operands", ErrCorrupt)
		}
		gs.SetTextMatrix(m)
	case "Td":
		if len(args) != 2 {
			return fmt.Errorf("%w: bad Td operands", ErrCorrupt)
		}
		gs.TranslateText(args[0].Float64(), args[1].Float64())
	case "TD":
		if len(args) != 2 {
			return fmt.Errorf("%w: bad TD operands", ErrCorrupt)
		}
		gs.TranslateTextSetLeading(args[0].Float64(), args[1].Float64())
	case "T*":
		gs.NextLine()

	// Text showing
	case "Tj":
		if len(args) != 1 {
			return fmt.Errorf("%w: bad Tj operands", ErrCorrupt)
		}
		w.show(args[0].RawString())
	case "'":
		if len(args) != 1 {
			return fmt.Errorf("%w: bad ' operands", ErrCorrupt)
		}
		gs.NextLine()
		w.show(args[0].RawString())
	case "\"":
		if len(args) != 3 {
			return fmt.Errorf("%w: bad \" operands", ErrCorrupt)
		}
		gs.Text.WordSpacing = args[0].Float64()
		gs.Text.CharSpacing = args[1].Float64()
		gs.NextLine()
		w.show(args[2].RawString())
	case "TJ":
		if len(args) != 1 {
			return fmt.Errorf("%w: bad TJ operands", ErrCorrupt)
		}
		arr := args[0]
		for i := 0; i < arr.Len(); i++ {
			item := arr.Index(i)
			switch item.Kind() {
			case pdf.String:
				w.show(item.RawString())
			case pdf.Integer, pdf.Real:
				gs.Kern(item.Float64())
			}
		}

	// Path construction
	case "m":
		if len(args) == 2 {
			w.path.MoveTo(gs.CTM, args[0].Float64(), args[1].Float64())
		}
	case "l":
		if len(args) == 2 {
			w.path.LineTo(gs.CTM, args[0].Float64(), args[1].Float64())
		}
	case "c":
		if len(args) == 6 {
			w.path.CurveTo(gs.CTM, args[0].Float64(), args[1].Float64(), args[2].Float64(),
				args[3].Float64(), args[4].Float64(), args[5].Float64())
		}
	case "v", "y":
		if len(args) == 4 {
			w.curveShorthand(op, args)
		}
	case "h":
		w.path.ClosePath()
	case "re":
		if len(args) == 4 {
			w.path.Rectangle(gs.CTM, args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64())
		}

	// Path painting
	case "S":
		w.paint(true, false)
	case "s":
		w.path.ClosePath()
		w.paint(true, false)
	case "f", "F", "f*":
		w.paint(false, true)
	case "B", "B*":
		w.paint(true, true)
	case "b", "b*":
		w.path.ClosePath()
		w.paint(true, true)
	case "n":
		w.path.Clear()

	// External objects
	case "Do":
		if len(args) == 1 {
			return w.form(resources, args[0].Name(), depth)
		}
	}
	return nil
}

// show emits one text event for a shown string and advances the text matrix
// glyph by glyph.
func (w *walker) show(raw string) {
	if w.font == nil {
		w.font = loadFont(pdf.Value{})
	}
	f := w.font
	gs := w.gs

	var (
		sb     strings.Builder
		glyphs []model.Glyph
	)
	start := gs.TextPosition()
	size := gs.EffectiveFontSize()

	for _, code := range f.codes(raw) {
		w0 := f.width(code)
		trm := gs.RenderingMatrix()
		origin := trm.Transform(model.Point{})
		width := w0 / 1000 * trm.HorizontalScale()

		decoded := f.decode(code)
		glyphs = append(glyphs, model.Glyph{Text: decoded, X: origin.X, Width: width})
		sb.WriteString(decoded)

		gs.Advance(gs.GlyphAdvance(w0, len(code) == 1 && code[0] == ' '))
	}

	if gs.Invisible() || len(glyphs) == 0 {
		return
	}

	left, right := glyphs[0].X, glyphs[0].X+glyphs[0].Width
	for _, g := range glyphs[1:] {
		left = min(left, g.X)
		right = max(right, g.X+g.Width)
	}

	w.emitEvent(model.Event{
		Kind:     model.EventText,
		BBox:     model.NewBBox(left, start.Y-size*descentRatio, right-left, size),
		Text:     sb.String(),
		Glyphs:   glyphs,
		FontName: f.name,
		FontSize: size,
		Baseline: start.Y,
	})
}

// paint hands the current path to the callback.
func (w *walker) paint(stroked, filled bool) {
	if ev, ok := w.path.Paint(stroked, filled); ok {
		w.emitEvent(ev)
	}
}

func (w *walker) emitEvent(ev model.Event) {
	ev.Seq = w.seq
	w.seq++
	w.emit(ev)
}

// curveShorthand expands v (first control point is the current point) and y
// (second control point is the end point).
func (w *walker) curveShorthand(op string, args []pdf.Value) {
	a, b, c, d := args[0].Float64(), args[1].Float64(), args[2].Float64(), args[3].Float64()
	if op == "y" {
		w.path.CurveTo(w.gs.CTM, a, b, c, d, c, d)
		return
	}
	cur, ok := w.path.Current()
	if !ok {
		return
	}
	// Current is kept in user space while CurveTo takes operands in the
	// coordinate system of the current CTM
	inv, ok := invert(w.gs.CTM)
	if !ok {
		return
	}
	p := inv.Transform(cur)
	w.path.CurveTo(w.gs.CTM, p.X, p.Y, a, b, c, d)
}

// form interprets a form XObject in place.
func (w *walker) form(resources pdf.Value, name string, depth int) error {
	xobj := resources.Key("XObject").Key(name)
	if xobj.Key("Subtype").Name() != "Form" || depth >= maxFormDepth {
		return nil
	}

	level := w.gs.Depth()
	w.gs.Save()
	if m, ok := matrixArgs(arrayValues(xobj.Key("Matrix"))); ok {
		w.gs.Transform(m)
	}
	res := xobj.Key("Resources")
	if res.IsNull() {
		res = resources
	}
	font := w.font
	err := w.run(xobj, res, depth+1)
	w.font = font
	for w.gs.Depth() > level {
		_ = w.gs.Restore()
	}
	return err
}

// lookupFont resolves a font resource name, caching per resource scope.
func (w *walker) lookupFont(resources pdf.Value, name string) *font {
	if f, ok := w.fonts[name]; ok {
		return f
	}
	f := loadFont(resources.Key("Font").Key(name))
	w.fonts[name] = f
	return f
}

// matrixArgs converts six numeric operands into a matrix.
func matrixArgs(args []pdf.Value) (model.Matrix, bool) {
	var m model.Matrix
	if len(args) != 6 {
		return m, false
	}
	for i, a := range args {
		if a.Kind() != pdf.Integer && a.Kind() != pdf.Real {
			return m, false
		}
		m[i] = a.Float64()
	}
	return m, true
}

func arrayValues(v pdf.Value) []pdf.Value {
	out := make([]pdf.Value, v.Len())
	for i := range out {
		out[i] = v.Index(i)
	}
	return out
}

// invert returns the inverse of an affine matrix.
func invert(m model.Matrix) (model.Matrix, bool) {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return model.Matrix{}, false
	}
	return model.Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}, true
}
