package reader

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/tsawler/pdfpipe/format"
	"github.com/tsawler/pdfpipe/model"
)

var (
	// ErrCorrupt is returned when the bytes cannot be read as a paginated PDF.
	ErrCorrupt = errors.New("reader: corrupt or unsupported PDF")

	// ErrPageNotFound is returned for page numbers outside the document.
	ErrPageNotFound = errors.New("reader: page not found")
)

// letterBox is the MediaBox used when a page and all its ancestors omit one.
var letterBox = model.NewBBox(0, 0, 612, 792)

// Reader represents an open PDF document.
type Reader struct {
	pdf       *pdf.Reader
	closer    io.Closer
	ownsFile  bool
	pageCount int
}

// Open opens a PDF file from disk and returns a Reader that owns the file.
func Open(filename string) (*Reader, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	r, err := NewReader(file, info.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	r.closer = file
	r.ownsFile = true
	return r, nil
}

// NewReader reads the document structure from ra. The caller keeps
// ownership of ra and must keep it readable until the Reader is done.
func NewReader(ra io.ReaderAt, size int64) (r *Reader, err error) {
	defer recoverCorrupt(&err)

	kind, err := format.Detect(ra, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if kind != format.PDF {
		return nil, fmt.Errorf("%w: not a PDF (detected %s)", ErrCorrupt, kind)
	}

	pr, err := pdf.NewReader(ra, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	count := pr.NumPage()
	if count <= 0 {
		return nil, fmt.Errorf("%w: document has no pages", ErrCorrupt)
	}

	return &Reader{pdf: pr, pageCount: count}, nil
}

// PageCount returns the number of pages declared by the page tree.
func (r *Reader) PageCount() int {
	return r.pageCount
}

// Page returns page n (1-based).
func (r *Reader) Page(n int) (p *Page, err error) {
	if n < 1 || n > r.pageCount {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageNotFound, n, r.pageCount)
	}
	defer recoverCorrupt(&err)

	pp := r.pdf.Page(n)
	if pp.V.IsNull() {
		return nil, fmt.Errorf("%w: page %d missing from page tree", ErrCorrupt, n)
	}

	return &Page{
		v: pp,
		info: model.PageInfo{
			Number:   n,
			MediaBox: mediaBox(pp),
			Rotate:   int(inherited(pp, "Rotate").Int64()),
		},
	}, nil
}

// Close releases the underlying file if the Reader opened it. It is safe to
// call more than once.
func (r *Reader) Close() error {
	if r.closer == nil || !r.ownsFile {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// inherited looks key up on the page and then up the Parent chain, the way
// the page tree's inheritable attributes work.
func inherited(p pdf.Page, key string) pdf.Value {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		if found := v.Key(key); !found.IsNull() {
			return found
		}
	}
	return pdf.Value{}
}

// mediaBox returns the page's MediaBox normalized to a BBox.
func mediaBox(p pdf.Page) model.BBox {
	v := inherited(p, "MediaBox")
	if v.Kind() != pdf.Array || v.Len() != 4 {
		return letterBox
	}
	box := model.BBoxFromPoints(
		model.Point{X: v.Index(0).Float64(), Y: v.Index(1).Float64()},
		model.Point{X: v.Index(2).Float64(), Y: v.Index(3).Float64()},
	)
	if box.IsEmpty() {
		return letterBox
	}
	return box
}

// recoverCorrupt turns a panic raised while decoding into ErrCorrupt. The
// underlying engine reports malformed input by panicking.
func recoverCorrupt(err *error) {
	if rec := recover(); rec != nil {
		*err = fmt.Errorf("%w: %v", ErrCorrupt, rec)
	}
}
