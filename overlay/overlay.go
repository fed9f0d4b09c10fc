// Package overlay draws debug annotations onto a copy of a PDF and extracts
// page ranges into standalone documents.
//
// A [Target] is a full copy of a source document. Drawing happens through
// per-page [Surface] values; their operations are appended to the page's
// content, wrapped so the page's own graphics state cannot affect them, and
// the copy is written out when the Target is closed.
package overlay

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	// ErrTargetClosed is returned when asking a written target for a surface.
	ErrTargetClosed = errors.New("overlay: target closed")

	// ErrSurfaceClosed is returned when drawing on a closed surface.
	ErrSurfaceClosed = errors.New("overlay: surface closed")

	// ErrPageRange is returned for page numbers the document does not have.
	ErrPageRange = errors.New("overlay: page out of range")
)

// DefaultLineWidth is the stroke width, in points, used for all drawings.
const DefaultLineWidth = 1.0

var disableConfig sync.Once

// configuration returns a pdfcpu configuration that never touches the
// user's config directory.
func configuration() *model.Configuration {
	disableConfig.Do(api.DisableConfigDir)
	return model.NewDefaultConfiguration()
}

// Target is an in-memory copy of a document that collects drawings and is
// written to its destination on Close.
type Target struct {
	ctx      *model.Context
	dst      io.WriteCloser
	ops      map[int]*strings.Builder
	surfaces []*Surface
	closed   bool
}

// NewTarget reads src into a new Target that will be written to dst. On
// failure dst is left open for the caller.
func NewTarget(src io.ReadSeeker, dst io.WriteCloser) (*Target, error) {
	ctx, err := api.ReadValidateAndOptimize(src, configuration())
	if err != nil {
		return nil, fmt.Errorf("overlay: read source: %w", err)
	}
	return &Target{
		ctx: ctx,
		dst: dst,
		ops: make(map[int]*strings.Builder),
	}, nil
}

// PageCount returns the number of pages in the copy.
func (t *Target) PageCount() int {
	return t.ctx.PageCount
}

// Surface returns a new drawing surface for page n (1-based). Several
// surfaces may exist for the same page; their drawings accumulate.
func (t *Target) Surface(n int) (*Surface, error) {
	if t.closed {
		return nil, ErrTargetClosed
	}
	if n < 1 || n > t.ctx.PageCount {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageRange, n, t.ctx.PageCount)
	}
	s := &Surface{target: t, page: n}
	t.surfaces = append(t.surfaces, s)
	return s, nil
}

// Close commits every open surface, adds the drawings to the page contents
// and writes the document to the destination, which is then closed. It is
// safe to call more than once.
func (t *Target) Close() error {
	if t.closed {
		return nil
	}
	for _, s := range t.surfaces {
		s.commit()
	}
	t.surfaces = nil
	t.closed = true

	err := t.apply()
	if err == nil {
		if werr := api.WriteContext(t.ctx, t.dst); werr != nil {
			err = fmt.Errorf("overlay: write: %w", werr)
		}
	}
	if cerr := t.dst.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("overlay: close destination: %w", cerr))
	}
	return err
}

// apply appends the collected operations to each page's content array.
func (t *Target) apply() error {
	pages := make([]int, 0, len(t.ops))
	for n := range t.ops {
		pages = append(pages, n)
	}
	sort.Ints(pages)

	for _, n := range pages {
		if err := t.applyPage(n, t.ops[n].String()); err != nil {
			return fmt.Errorf("overlay: page %d: %w", n, err)
		}
	}
	return nil
}

// applyPage wraps the page's existing content in q/Q and appends ops.
func (t *Target) applyPage(n int, ops string) error {
	d, _, _, err := t.ctx.PageDict(n, false)
	if err != nil {
		return err
	}
	if d == nil {
		return fmt.Errorf("%w: %d", ErrPageRange, n)
	}

	var existing types.Array
	if obj, found := d.Find("Contents"); found {
		switch o := obj.(type) {
		case types.IndirectRef:
			deref, err := t.ctx.Dereference(o)
			if err != nil {
				return err
			}
			if arr, ok := deref.(types.Array); ok {
				existing = append(existing, arr...)
			} else {
				existing = append(existing, o)
			}
		case types.Array:
			existing = append(existing, o...)
		}
	}

	pre, err := t.stream("q\n")
	if err != nil {
		return err
	}
	post, err := t.stream("Q\n" + ops)
	if err != nil {
		return err
	}

	contents := make(types.Array, 0, len(existing)+2)
	contents = append(contents, *pre)
	contents = append(contents, existing...)
	contents = append(contents, *post)
	d.Update("Contents", contents)
	return nil
}

// stream adds a new compressed content stream object.
func (t *Target) stream(content string) (*types.IndirectRef, error) {
	sd, err := t.ctx.NewStreamDictForBuf([]byte(content))
	if err != nil {
		return nil, err
	}
	if err := sd.Encode(); err != nil {
		return nil, err
	}
	return t.ctx.IndRefForNewObject(*sd)
}

// Surface collects drawing operations for one page of a Target.
type Surface struct {
	target *Target
	page   int
	buf    strings.Builder
	closed bool
}

// Page returns the page number the surface draws on.
func (s *Surface) Page() int {
	return s.page
}

// Closed reports whether the surface no longer accepts drawings, either
// because it was closed or because its target was written.
func (s *Surface) Closed() bool {
	return s.closed
}

// StrokeRect outlines the rectangle with lower-left corner (x, y).
func (s *Surface) StrokeRect(x, y, w, h float64, c color.Color) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	fmt.Fprintf(&s.buf, "q %s %g w %g %g %g %g re S Q\n", strokeColor(c), DefaultLineWidth, x, y, w, h)
	return nil
}

// StrokeLine draws a straight line from (x1, y1) to (x2, y2).
func (s *Surface) StrokeLine(x1, y1, x2, y2 float64, c color.Color) error {
	if s.closed {
		return ErrSurfaceClosed
	}
	fmt.Fprintf(&s.buf, "q %s %g w %g %g m %g %g l S Q\n", strokeColor(c), DefaultLineWidth, x1, y1, x2, y2)
	return nil
}

// Close commits the drawings to the target. It is safe to call more than
// once. Closing the target commits its open surfaces.
func (s *Surface) Close() error {
	s.commit()
	return nil
}

// commit moves the surface's operations into the target.
func (s *Surface) commit() {
	if s.closed {
		return
	}
	s.closed = true
	if s.buf.Len() == 0 {
		return
	}
	b, ok := s.target.ops[s.page]
	if !ok {
		b = &strings.Builder{}
		s.target.ops[s.page] = b
	}
	b.WriteString(s.buf.String())
	s.buf.Reset()
}

// strokeColor renders c as an RGB stroke color operator.
func strokeColor(c color.Color) string {
	if c == nil {
		c = color.Black
	}
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("%.3f %.3f %.3f RG", float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff)
}
