// Command pdfpipe converts PDF documents into reading-order text lines.
package main

import (
	"os"

	"github.com/tsawler/pdfpipe/cmd/pdfpipe/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
