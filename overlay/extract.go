package overlay

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ExtractPages writes pages start through end (1-based, inclusive) of src to
// dst as a standalone document.
func ExtractPages(src io.ReadSeeker, dst io.Writer, start, end int) error {
	if start < 1 || end < start {
		return fmt.Errorf("%w: %d-%d", ErrPageRange, start, end)
	}
	selection := []string{fmt.Sprintf("%d-%d", start, end)}
	if err := api.Trim(src, dst, selection, configuration()); err != nil {
		return fmt.Errorf("overlay: extract pages %d-%d: %w", start, end, err)
	}
	return nil
}
