// Command oats is a personal append-only notes log: text, images, files
// and videos stored in one binary stack file, with tail/pop/sort/import
// maintenance and a Markdown export.
package main

import (
	"os"

	"github.com/kalscium/oats/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Stdout, os.Stderr, os.Args[1:]))
}
