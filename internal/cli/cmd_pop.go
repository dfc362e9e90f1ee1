package cli

import (
	"io"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdPop(w io.Writer, fsys oatsfs.FS, path string, args []string) error {
	n, err := parseCount(args, 1)
	if err != nil {
		return err
	}

	return withStore(fsys, path, func(s *oatslog.Store) error {
		items, err := s.Pop(n)
		if err != nil {
			return err
		}

		for _, item := range items {
			if err := printItem(w, item); err != nil {
				return err
			}
		}

		return nil
	})
}
