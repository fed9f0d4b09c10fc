package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/pdfpipe"
)

func newExtractCommand(a *app) *cobra.Command {
	var start, end int

	cmd := &cobra.Command{
		Use:   "extract <document> <output>",
		Short: "Copy a range of pages into a new document",
		Args:  cobra.ExactArgs(2),
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

			last := end
			if last == 0 {
				last = doc.PageCount()
			}
			if err := doc.Extract(cmd.Context(), args[1], start, last); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote pages %d-%d to %s\n", start, last, args[1])
			return nil
		},
	}

	cmd.Flags().IntVarP(&start, "start", "s", 1, "first page to copy")
	cmd.Flags().IntVarP(&end, "end", "e", 0, "last page to copy (default: last page)")
	return cmd
}
