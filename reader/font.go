package reader

import (
	"strings"

	"github.com/ledongthuc/pdf"
)

// Fallback glyph widths, in thousandths of an em, for simple fonts that
// omit /Widths (the standard 14 fonts usually do).
const (
	defaultSimpleWidth = 500.0
	defaultMonoWidth   = 600.0
	defaultCIDWidth    = 1000.0
)

// font wraps a font resource with what the interpreter needs per glyph: how
// to split a shown string into codes, how wide each code is and what text it
// decodes to.
type font struct {
	name    string
	v       pdf.Font
	enc     pdf.TextEncoding
	twoByte bool

	// simple fonts
	firstChar int
	widths    []float64
	missing   float64

	// composite fonts
	cidWidths    map[int]float64
	defaultWidth float64
}

// loadFont builds a font from a /Font resource entry. A null value yields a
// font that decodes bytes as-is with fallback widths.
func loadFont(v pdf.Value) *font {
	f := &font{v: pdf.Font{V: v}, missing: defaultSimpleWidth}

	f.name = f.v.BaseFont()
	if i := strings.Index(f.name, "+"); i >= 0 {
		f.name = f.name[i+1:]
	}
	if strings.Contains(strings.ToLower(f.name), "courier") {
		f.missing = defaultMonoWidth
	}

	if v.Key("Subtype").Name() == "Type0" {
		f.twoByte = true
		f.loadCIDWidths(v.Key("DescendantFonts").Index(0))
	} else {
		f.firstChar = f.v.FirstChar()
		f.widths = f.v.Widths()
		if mw := v.Key("FontDescriptor").Key("MissingWidth"); !mw.IsNull() {
			f.missing = mw.Float64()
		}
	}

	if !v.IsNull() {
		f.enc = f.v.Encoder()
	}
	return f
}

// loadCIDWidths reads the /W array of a descendant CIDFont. Entries come in
// two forms: `c [w1 w2 ...]` and `cFirst cLast w`.
func (f *font) loadCIDWidths(desc pdf.Value) {
	f.defaultWidth = defaultCIDWidth
	if dw := desc.Key("DW"); !dw.IsNull() {
		f.defaultWidth = dw.Float64()
	}
	f.cidWidths = make(map[int]float64)

	w := desc.Key("W")
	for i := 0; i < w.Len(); {
		first := int(w.Index(i).Int64())
		if i+1 >= w.Len() {
			break
		}
		next := w.Index(i + 1)
		if next.Kind() == pdf.Array {
			for k := 0; k < next.Len(); k++ {
				f.cidWidths[first+k] = next.Index(k).Float64()
			}
			i += 2
			continue
		}
		if i+2 >= w.Len() {
			break
		}
		last := int(next.Int64())
		width := w.Index(i + 2).Float64()
		for c := first; c <= last && c-first < 65536; c++ {
			f.cidWidths[c] = width
		}
		i += 3
	}
}

// codes splits a raw shown string into character codes.
func (f *font) codes(raw string) []string {
	step := 1
	if f.twoByte {
		step = 2
	}
	out := make([]string, 0, len(raw)/step+1)
	for i := 0; i < len(raw); i += step {
		end := i + step
		if end > len(raw) {
			end = len(raw)
		}
		out = append(out, raw[i:end])
	}
	return out
}

// width returns the glyph width of code in thousandths of an em.
func (f *font) width(code string) float64 {
	c := codeValue(code)
	if f.twoByte {
		if w, ok := f.cidWidths[c]; ok {
			return w
		}
		return f.defaultWidth
	}
	if idx := c - f.firstChar; idx >= 0 && idx < len(f.widths) {
		return f.widths[idx]
	}
	return f.missing
}

// decode returns the Unicode text for one code.
func (f *font) decode(code string) string {
	if f.enc == nil {
		return code
	}
	return f.enc.Decode(code)
}

// codeValue interprets a one or two byte code as a big-endian integer.
func codeValue(code string) int {
	v := 0
	for i := 0; i < len(code); i++ {
		v = v<<8 | int(code[i])
	}
	return v
}
