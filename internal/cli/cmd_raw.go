package cli

import (
	"io"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdRaw(w io.Writer, fsys oatsfs.FS, path string) error {
	return withStore(fsys, path, func(s *oatslog.Store) error {
		var outerErr error

		s.ScanAllMetadata()(func(md oatslog.Metadata, err error) bool {
			if err != nil {
				outerErr = err

				return false
			}

			if err := printNormal(w, s, md); err != nil {
				outerErr = err

				return false
			}

			return true
		})

		return outerErr
	})
}
