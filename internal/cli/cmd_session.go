package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdSession(w io.Writer, fsys oatsfs.FS, path string, args []string) error {
	var (
		filterID  int64
		hasFilter bool
	)

	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", args[0], err)
		}

		filterID = id
		hasFilter = true
	}

	return withStore(fsys, path, func(s *oatslog.Store) error {
		var outerErr error

		s.ScanAllMetadata()(func(md oatslog.Metadata, err error) bool {
			if err != nil {
				outerErr = err

				return false
			}

			if !md.Features.HasSessionID() {
				return true
			}

			if hasFilter && md.Features.SessionID != filterID {
				return true
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
