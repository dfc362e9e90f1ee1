// Package oatsfs provides the filesystem abstraction the log store and its
// maintenance operations are built on.
//
// The core never calls os.Open / os.Create directly: every operation that
// touches the store file goes through an FS, so tests can substitute an
// implementation that truncates writes mid-append to exercise the crash
// safety invariants in spec §5 without touching a real disk.
package oatsfs

import (
	"io"
	"os"
)

// File is an open, seekable file descriptor.
//
// Satisfied by *os.File. Implementations must support concurrent readers
// seeking independently is NOT required — the log store opens one handle
// per operation and does not share it across goroutines.
type File interface {
	io.ReadWriteCloser
	io.Seeker

	// Sync commits the file's contents to disk. See os.File.Sync.
	Sync() error

	// Stat returns file metadata. See os.File.Stat.
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations the log store and maintenance
// operations need.
//
// Paths use OS semantics (os / path/filepath), not slash-separated io/fs
// paths.
type FS interface {
	// Open opens a file for reading and writing. See os.OpenFile with
	// O_RDWR. Returns an error satisfying os.IsNotExist if the file is
	// absent.
	Open(path string) (File, error)

	// OpenFile opens a file with explicit flags and permissions. See
	// os.OpenFile.
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// Stat returns file info for path. See os.Stat.
	Stat(path string) (os.FileInfo, error)

	// Remove deletes a file. See os.Remove.
	Remove(path string) error

	// Rename atomically replaces newpath with oldpath on the same
	// filesystem. See os.Rename.
	Rename(oldpath, newpath string) error
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
