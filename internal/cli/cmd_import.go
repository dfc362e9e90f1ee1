package cli

import (
	"fmt"
	"io"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdImport(w io.Writer, fsys oatsfs.FS, path string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("import: missing path: %w", oatslog.ErrInvalidArgument)
	}

	result, err := oatslog.Import(fsys, path, args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "imported %d, skipped %d\n", result.Imported, result.Skipped)

	for _, id := range result.Conflicts {
		fmt.Fprintf(w, "conflict: id %d already existed as a stub, current copy kept\n", id)
	}

	return nil
}
