package oatsfs

import (
	"fmt"
	"os"
)

// StreamToTemp creates a new file at tmpPath and calls build with the open
// handle. The handle is synced and closed before StreamToTemp returns. On
// any error the temp file is removed.
//
// build is responsible for writing the complete new contents; it may
// stream arbitrarily large payloads without buffering them in memory.
func StreamToTemp(fsys FS, tmpPath string, perm os.FileMode, build func(File) error) error {
	f, err := fsys.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create temp file %q: %w", tmpPath, err)
	}

	buildErr := build(f)
	if buildErr != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)

		return fmt.Errorf("write temp file %q: %w", tmpPath, buildErr)
	}

	if syncErr := f.Sync(); syncErr != nil {
		_ = f.Close()
		_ = fsys.Remove(tmpPath)

		return fmt.Errorf("sync temp file %q: %w", tmpPath, syncErr)
	}

	if closeErr := f.Close(); closeErr != nil {
		_ = fsys.Remove(tmpPath)

		return fmt.Errorf("close temp file %q: %w", tmpPath, closeErr)
	}

	return nil
}

// Replace installs tmpPath as finalPath by renaming it over finalPath, so
// tmpPath no longer exists afterwards. It does not sync the directory.
//
// It goes through FS.Rename rather than os.Rename directly so that the
// same maintenance-operation code path runs against Real (where rename is
// atomic on the same filesystem) and against an in-memory or
// fault-injecting FS in tests.
func Replace(fsys FS, tmpPath, finalPath string) error {
	if err := fsys.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("replace %q with %q: %w", finalPath, tmpPath, err)
	}

	return nil
}
