package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfpipe"
)

func newInfoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <document>",
		Short: "Show page count, page sizes and the content fingerprint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			doc, err := pdfpipe.Open(cmd.Context(), args[0], pdfpipe.WithStorage(a.provider), pdfpipe.WithLogger(a.log))
			if err != nil {
				return err
			}
			defer func() {
				if cerr := doc.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			sum, err := doc.Fingerprint()
			if err != nil {
				return err
			}

			version, err := doc.Version()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "name\t%s\n", doc.Name())
			fmt.Fprintf(w, "session\t%s\n", doc.ID())
			fmt.Fprintf(w, "blake3\t%s\n", sum)
			fmt.Fprintf(w, "version\t%s\n", version)
			fmt.Fprintf(w, "pages\t%d\n", doc.PageCount())

			err = doc.AllPages(func(p *pdfpipe.Page) error {
				box := p.Info().MediaBox
				_, err := fmt.Fprintf(w, "page %d\t%gx%g rotate %d\n", p.Number(), box.Width, box.Height, p.Info().Rotate)
				return err
			})
			if err != nil {
				return err
			}
			return w.Flush()
		},
	}
}
