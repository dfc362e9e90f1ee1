package cli

import (
	"fmt"
	"io"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdTrim(w io.Writer, fsys oatsfs.FS, path string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("trim: missing output path: %w", oatslog.ErrInvalidArgument)
	}

	out := args[len(args)-1]
	attrs := args[:len(args)-1]

	result, err := oatslog.Trim(fsys, path, out, attrs)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "stubbed %d, copied %d\n", result.Stubbed, result.Copied)

	return nil
}
