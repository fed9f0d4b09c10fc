package pdfpipe

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/zeebo/blake3"

	"github.com/tsawler/pdfpipe/format"
	"github.com/tsawler/pdfpipe/overlay"
	"github.com/tsawler/pdfpipe/reader"
	"github.com/tsawler/pdfpipe/storage"
)

// Document is a processing session over one source document. It is not safe
// for concurrent use, except for Track.
type Document struct {
	id   string
	name string
	opts options
	log  zerolog.Logger

	src    storage.File
	engine engine

	page        *Page
	target      *overlay.Target
	tracker     *ResourceTracker
	fingerprint string
	closed      bool
}

// Open resolves name through the configured storage provider (the local
// file system by default) and opens it as a Document.
func Open(ctx context.Context, name string, opts ...Option) (*Document, error) {
	o := buildOptions(opts)

	src, err := o.provider.Open(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return newDocument(src, name, o)
}

// NewDocument opens an already opened source as a Document. The Document
// takes ownership of src, including when an error is returned.
func NewDocument(src storage.File, name string, opts ...Option) (*Document, error) {
	return newDocument(src, name, buildOptions(opts))
}

func newDocument(src storage.File, name string, o options) (*Document, error) {
	eng, err := o.openEngine(src)
	if err != nil {
		src.Close()
		if errors.Is(err, reader.ErrCorrupt) {
			return nil, fmt.Errorf("%w: %s: %w", ErrCorrupt, name, err)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	id := uuid.NewString()
	d := &Document{
		id:      id,
		name:    name,
		opts:    o,
		log:     o.logger.With().Str("document_id", id).Str("filename", name).Logger(),
		src:     src,
		engine:  eng,
		tracker: NewResourceTracker(),
	}
	d.log.Info().Int("pages", eng.PageCount()).Msg("document opened")
	return d, nil
}

// ID returns the session identifier used in log entries.
func (d *Document) ID() string {
	return d.id
}

// Name returns the name the document was opened with.
func (d *Document) Name() string {
	return d.name
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return d.engine.PageCount()
}

// Page closes the currently open page and opens page n (1-based). If n is
// out of range nothing changes and ErrPageOutOfRange is returned.
func (d *Document) Page(n int) (*Page, error) {
	if d.closed {
		return nil, ErrClosed
	}
	if n < 1 || n > d.PageCount() {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, d.PageCount())
	}

	if err := d.closePage(); err != nil {
		d.log.Warn().Err(err).Msg("failed to close page")
	}

	src, err := d.engine.Page(n)
	if err != nil {
		return nil, fmt.Errorf("%w: page %d: %w", ErrCorrupt, n, err)
	}

	d.page = &Page{
		doc:    d,
		number: n,
		info:   src.Info(),
		src:    src,
	}
	d.log.Debug().Int("page", n).Msg("page opened")
	return d.page, nil
}

// closePage closes and forgets the open page, if any.
func (d *Document) closePage() error {
	if d.page == nil {
		return nil
	}
	err := d.page.Close()
	d.page = nil
	return err
}

// Output attaches an overlay target: a copy of the source document written
// to name through the storage provider. An already attached target is closed
// first, which writes it out together with any drawings of the open page.
func (d *Document) Output(ctx context.Context, name string) error {
	if d.closed {
		return ErrClosed
	}

	if d.target != nil {
		err := d.target.Close()
		d.target = nil
		if err != nil {
			return fmt.Errorf("failed to write previous output: %w", err)
		}
	}

	dst, err := d.opts.provider.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to create output %s: %w", name, err)
	}
	target, err := overlay.NewTarget(d.source(), dst)
	if err != nil {
		return errors.Join(fmt.Errorf("%w: %w", ErrCorrupt, err), dst.Close())
	}

	d.target = target
	d.log.Info().Str("output", name).Msg("overlay output attached")
	return nil
}

// AllPages opens every page in order and calls visit with it. Iteration
// stops at the first error.
func (d *Document) AllPages(visit func(*Page) error) error {
	if d.closed {
		return ErrClosed
	}
	for n := 1; n <= d.PageCount(); n++ {
		p, err := d.Page(n)
		if err != nil {
			return err
		}
		if err := visit(p); err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}
	}
	return nil
}

// Extract writes pages start through end (1-based, inclusive) to out through
// the storage provider as a standalone document. It does not affect the open
// page or the overlay output.
func (d *Document) Extract(ctx context.Context, out string, start, end int) (err error) {
	if d.closed {
		return ErrClosed
	}
	if start > end {
		return fmt.Errorf("%w: %d-%d", ErrInvalidRange, start, end)
	}
	if start < 1 || end > d.PageCount() {
		return fmt.Errorf("%w: %d-%d of %d", ErrPageOutOfRange, start, end, d.PageCount())
	}

	dst, err := d.opts.provider.Create(ctx, out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close %s: %w", out, cerr))
		}
	}()

	if err := overlay.ExtractPages(d.source(), dst, start, end); err != nil {
		return err
	}
	d.log.Info().Str("output", out).Int("start", start).Int("end", end).Msg("pages extracted")
	return nil
}

// Track registers an artifact to be closed with the document. It may be
// called from any goroutine, including while Close runs. Once the artifacts
// have been swept the artifact is closed immediately and ErrClosed is
// returned with any close error.
func (d *Document) Track(c io.Closer) error {
	late, err := d.tracker.register(c)
	if late {
		return errors.Join(ErrClosed, err)
	}
	return err
}

// Version returns the PDF version declared in the source header.
func (d *Document) Version() (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	return format.Version(d.src)
}

// Fingerprint returns the hex BLAKE3-256 digest of the source bytes.
func (d *Document) Fingerprint() (string, error) {
	if d.closed {
		return "", ErrClosed
	}
	if d.fingerprint != "" {
		return d.fingerprint, nil
	}

	h := blake3.New()
	if _, err := io.Copy(h, d.source()); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", d.name, err)
	}
	d.fingerprint = hex.EncodeToString(h.Sum(nil))
	return d.fingerprint, nil
}

// Close releases the open page, writes the overlay output, closes the source
// and sweeps tracked artifacts. Every step runs even if an earlier one
// failed; the failures are joined. It is safe to call more than once.
func (d *Document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true

	var errs []error
	step := func(what string, err error) {
		if err == nil {
			return
		}
		d.log.Warn().Err(err).Str("step", what).Msg("teardown failed")
		errs = append(errs, fmt.Errorf("%s: %w", what, err))
	}

	step("close page", d.closePage())
	if d.target != nil {
		step("write output", d.target.Close())
		d.target = nil
	}
	step("close engine", d.engine.Close())
	step("close source", d.src.Close())
	step("sweep artifacts", d.tracker.Sweep())

	d.log.Info().Msg("document closed")
	return errors.Join(errs...)
}

// source returns an independent reader over the whole source.
func (d *Document) source() *io.SectionReader {
	return io.NewSectionReader(d.src, 0, d.src.Size())
}
