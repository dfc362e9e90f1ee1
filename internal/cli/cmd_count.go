package cli

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdCount(w io.Writer, fsys oatsfs.FS, path string, args []string) error {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	invert := fs.Bool("not", false, "count items that do NOT match")

	if err := fs.Parse(args); err != nil {
		return err
	}

	return withStore(fsys, path, func(s *oatslog.Store) error {
		n, err := s.Count(fs.Args(), *invert)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, n)

		return err
	})
}
