package pdfpipe

import "errors"

var (
	// ErrNotFound is returned when the storage provider has no such document.
	ErrNotFound = errors.New("pdfpipe: document not found")

	// ErrCorrupt is returned when the source is not a readable paginated PDF.
	ErrCorrupt = errors.New("pdfpipe: corrupt or unsupported document")

	// ErrPageOutOfRange is returned for page numbers outside 1..PageCount.
	ErrPageOutOfRange = errors.New("pdfpipe: page out of range")

	// ErrInvalidRange is returned for page ranges whose start is after their end.
	ErrInvalidRange = errors.New("pdfpipe: invalid page range")

	// ErrInvalidParseResult is returned when an extractor yields no result or
	// a result without a block list.
	ErrInvalidParseResult = errors.New("pdfpipe: invalid parse result")

	// ErrNotParsed is returned when asking for the result of a page that has
	// not been parsed.
	ErrNotParsed = errors.New("pdfpipe: page not parsed")

	// ErrNoOverlay is returned when drawing without an attached output.
	ErrNoOverlay = errors.New("pdfpipe: no overlay output attached")

	// ErrPageClosed is returned when using a page after it was closed.
	ErrPageClosed = errors.New("pdfpipe: page closed")

	// ErrClosed is returned when using a document after it was closed.
	ErrClosed = errors.New("pdfpipe: document closed")
)
