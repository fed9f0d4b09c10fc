// Package format identifies document formats from their content.
//
// Documents reach pdfpipe through storage providers under arbitrary names, so
// detection never relies on the file extension. The reader uses it to reject
// non-PDF input with a precise reason before handing bytes to the engine.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
)

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// XLSX indicates a Microsoft Excel (.xlsx) document.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) document.
	PPTX
	// ZIP indicates a ZIP archive of no more specific format.
	ZIP
	// HTML indicates an HTML document.
	HTML
)

// headerWindow is how far into the file a PDF header may start.
const headerWindow = 1024

var pdfMagic = []byte("%PDF-")

// String returns the format name.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case DOCX:
		return "DOCX"
	case ODT:
		return "ODT"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case ZIP:
		return "ZIP"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Detect inspects the content of r to determine its format.
func Detect(r io.ReaderAt, size int64) (Format, error) {
	head, err := header(r)
	if err != nil {
		return Unknown, err
	}

	if bytes.Contains(head, pdfMagic) {
		return PDF, nil
	}
	if bytes.HasPrefix(head, []byte("PK\x03\x04")) {
		return detectZIP(r, size)
	}
	if looksLikeHTML(head) {
		return HTML, nil
	}
	return Unknown, nil
}

// Version returns the version from the PDF header, such as "1.7", or an
// empty string when r has no PDF header.
func Version(r io.ReaderAt) (string, error) {
	head, err := header(r)
	if err != nil {
		return "", err
	}
	i := bytes.Index(head, pdfMagic)
	if i < 0 {
		return "", nil
	}

	rest := head[i+len(pdfMagic):]
	end := 0
	for end < len(rest) && (rest[end] == '.' || (rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}
	return string(rest[:end]), nil
}

// header reads the first headerWindow bytes of r.
func header(r io.ReaderAt) ([]byte, error) {
	buf := make([]byte, headerWindow)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// looksLikeHTML checks for common HTML signatures after leading whitespace.
func looksLikeHTML(data []byte) bool {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return false
	}

	upper := strings.ToUpper(string(data))
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XHTML behind an XML declaration
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}

// detectZIP inspects a ZIP archive to tell the office formats apart.
func detectZIP(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, nil
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data := make([]byte, 256)
		n, _ := io.ReadFull(rc, data)
		rc.Close()
		if strings.Contains(string(data[:n]), "application/vnd.oasis.opendocument.text") {
			return ODT, nil
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		}
	}
	return ZIP, nil
}
