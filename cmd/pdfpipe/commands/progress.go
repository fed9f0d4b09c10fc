package commands

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// pageProgress reports pages visited on w. A nil *pageProgress does nothing.
type pageProgress struct {
	bar *progressbar.ProgressBar
}

func newPageProgress(w io.Writer, pages int, description string) *pageProgress {
	bar := progressbar.NewOptions(
		pages,
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("pages"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &pageProgress{bar: bar}
}

// Set records that page n has been visited.
func (p *pageProgress) Set(n int) {
	if p == nil {
		return
	}
	_ = p.bar.Set(n)
}

// Finish completes the bar.
func (p *pageProgress) Finish() {
	if p == nil {
		return
	}
	_ = p.bar.Finish()
}
