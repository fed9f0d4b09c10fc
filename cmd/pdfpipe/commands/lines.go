package commands

import (
	"fmt"
	"image/color"
	"io"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfpipe"
)

type linesOptions struct {
	extractor string
	converter string
	overlay   string
	numbered  bool
	progress  bool
}

func newLinesCommand(a *app) *cobra.Command {
	opts := &linesOptions{}

	cmd := &cobra.Command{
		Use:   "lines <document>",
		Short: "Print the text lines of a document in reading order",
		Long: `Print the text lines of a document in reading order, one per output line.

With --overlay a copy of the document is written to the given name with every
block outlined and every line's baseline drawn.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLines(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.extractor, "extractor", "e", "run", "block extractor: run or word")
	cmd.Flags().StringVarP(&opts.converter, "converter", "l", "line", "line converter: line, region or block")
	cmd.Flags().StringVarP(&opts.overlay, "overlay", "o", "", "write a debug overlay copy to this name")
	cmd.Flags().BoolVarP(&opts.numbered, "numbered", "n", false, "prefix each line with page:index")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "show page progress on stderr")
	return cmd
}

func (a *app) runLines(cmd *cobra.Command, name string, opts *linesOptions) (err error) {
	ctx := cmd.Context()
	layoutCfg := a.cfg.Layout.Layout()

	ext, err := newExtractor(opts.extractor, layoutCfg)
	if err != nil {
		return err
	}
	conv, err := newConverter(opts.converter, layoutCfg)
	if err != nil {
		return err
	}
	blockColor, lineColor, err := a.cfg.Overlay.Colors()
	if err != nil {
		return err
	}

	doc, err := pdfpipe.Open(ctx, name, pdfpipe.WithStorage(a.provider), pdfpipe.WithLogger(a.log))
	if err != nil {
		return err
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if opts.overlay != "" {
		if err := doc.Output(ctx, opts.overlay); err != nil {
			return err
		}
	}

	var bar *pageProgress
	if opts.progress {
		bar = newPageProgress(cmd.ErrOrStderr(), doc.PageCount(), name)
	}

	var current *pdfpipe.Page
	visit := func(p *pdfpipe.Page) error {
		current = p
		result, err := p.Parse(ext)
		if err != nil {
			return err
		}
		bar.Set(p.Number())
		if opts.overlay == "" {
			return nil
		}
		for _, b := range result.Blocks {
			if err := p.DrawRectangle(b.BBox.X, b.BBox.Y, b.BBox.Width, b.BBox.Height, blockColor); err != nil {
				return err
			}
		}
		return nil
	}

	out := cmd.OutOrStdout()
	count := 0
	for line, err := range doc.Convert(conv, visit).All() {
		if err != nil {
			return err
		}
		if opts.overlay != "" {
			if err := drawBaseline(current, line.BBox.Left(), line.BBox.Right(), line.Baseline, lineColor); err != nil {
				return err
			}
		}
		if err := printLine(out, opts.numbered, line.Page, line.Index, line.Text); err != nil {
			return err
		}
		count++
	}
	bar.Finish()

	a.log.Info().Str("filename", name).Int("lines", count).Msg("conversion complete")
	return nil
}

func drawBaseline(p *pdfpipe.Page, x1, x2, y float64, c color.Color) error {
	if p == nil {
		return nil
	}
	return p.DrawLine(x1, y, x2, y, c)
}

func printLine(w io.Writer, numbered bool, page, index int, text string) error {
	var err error
	if numbered {
		_, err = fmt.Fprintf(w, "%d:%d\t%s\n", page, index, text)
	} else {
		_, err = fmt.Fprintln(w, text)
	}
	return err
}
