package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func cmdWipe(fsys oatsfs.FS, path string, args []string) error {
	everything := len(args) > 0 && args[0] == "--everything"
	_ = everything // wipe always discards the whole store; the flag is accepted for CLI-surface parity

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	if err := fsys.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing store: %w", err)
	}

	return oatslog.Initialize(fsys, path)
}
