package pdfpipe

import (
	"github.com/rs/zerolog"

	"github.com/tsawler/pdfpipe/model"
	"github.com/tsawler/pdfpipe/reader"
	"github.com/tsawler/pdfpipe/storage"
)

// Option configures a Document.
type Option func(*options)

// options holds the configuration of a Document.
type options struct {
	provider storage.Provider
	logger   zerolog.Logger

	// openEngine reads the page tree of an open source
	openEngine func(src storage.File) (engine, error)
}

// defaultOptions returns local-disk storage, a silent logger and the PDF reader.
func defaultOptions() options {
	return options{
		provider:   storage.NewLocal(""),
		logger:     zerolog.Nop(),
		openEngine: openReader,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithStorage resolves document and output names through p.
func WithStorage(p storage.Provider) Option {
	return func(o *options) {
		if p != nil {
			o.provider = p
		}
	}
}

// WithLogger sets the logger for session events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// engine is the page source a Document reads from.
type engine interface {
	PageCount() int
	Page(n int) (enginePage, error)
	Close() error
}

// enginePage is one page of an engine.
type enginePage interface {
	Info() model.PageInfo
	Walk(fn func(model.Event)) error
}

// readerEngine adapts reader.Reader to engine.
type readerEngine struct {
	*reader.Reader
}

func (e readerEngine) Page(n int) (enginePage, error) {
	p, err := e.Reader.Page(n)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func openReader(src storage.File) (engine, error) {
	r, err := reader.NewReader(src, src.Size())
	if err != nil {
		return nil, err
	}
	return readerEngine{r}, nil
}
