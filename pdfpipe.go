// Package pdfpipe converts PDF documents into reading-order text lines.
//
// A [Document] is a processing session over one source document. It visits
// pages one at a time; for each page a caller-supplied [BlockExtractor]
// receives the page's positioned content events and produces blocks, and a
// [LineConverter] turns those blocks into lines. Ready-made strategies live in
// the layout package.
//
// Basic usage:
//
//	doc, err := pdfpipe.Open(ctx, "report.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer doc.Close()
//
//	it := doc.Convert(layout.NewLineConverter(), pdfpipe.ParseWith(layout.NewRunExtractor()))
//	for line, err := range it.All() {
//	    if err != nil {
//	        // handle error
//	    }
//	    fmt.Println(line.Text)
//	}
//
// # Lifetime
//
// Only one page is open at a time; opening another closes the previous one.
// Everything the session opens, including overlay targets and artifacts
// registered with [Document.Track], is released by [Document.Close], which
// keeps going past individual failures and reports them together.
//
// # Debug Overlay
//
// [Document.Output] attaches a copy of the source document. Pages can then
// draw rectangles and lines onto it with [Page.DrawRectangle] and
// [Page.DrawLine]; the copy is written when the document is closed or
// another output is attached.
package pdfpipe

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := pdfpipe.Must(pdfpipe.Open(ctx, "document.pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
