package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
	"github.com/kalscium/oats/pkg/oatslog/render"
)

func cmdMarkdown(w io.Writer, fsys oatsfs.FS, path string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("markdown: missing tz_minutes: %w", oatslog.ErrInvalidArgument)
	}

	tz, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid tz_minutes %q: %w", args[0], err)
	}

	mediaRoot := ""
	if len(args) > 1 {
		mediaRoot = args[1]
	}

	return withStore(fsys, path, func(s *oatslog.Store) error {
		return render.Markdown(w, s, tz, mediaRoot)
	})
}
