package commands

import (
	"fmt"

	"github.com/tsawler/pdfpipe"
	"github.com/tsawler/pdfpipe/layout"
)

// newExtractor returns the block extractor with the given name.
func newExtractor(name string, cfg layout.Config) (pdfpipe.BlockExtractor, error) {
	switch name {
	case "run", "runs":
		return layout.NewRunExtractorWithConfig(cfg), nil
	case "word", "words":
		return layout.NewWordExtractorWithConfig(cfg), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want run or word)", name)
	}
}

// newConverter returns the line converter with the given name.
func newConverter(name string, cfg layout.Config) (pdfpipe.LineConverter, error) {
	switch name {
	case "line", "lines":
		return layout.NewLineConverterWithConfig(cfg), nil
	case "region", "regions":
		return layout.NewRegionConverterWithConfig(cfg), nil
	case "block", "blocks":
		return layout.NewBlockConverter(), nil
	default:
		return nil, fmt.Errorf("unknown converter %q (want line, region or block)", name)
	}
}
