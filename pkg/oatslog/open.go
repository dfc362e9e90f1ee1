package oatslog

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/kalscium/oats/pkg/oatsfs"
)

// Store is an open handle to an oats log file.
//
// Store is not safe for concurrent use by multiple goroutines, and spec §5
// assumes an exclusive external lock around any operation that writes.
type Store struct {
	fsys     oatsfs.FS
	path     string
	file     oatsfs.File
	closed   bool
	stackPtr int64
}

// Initialize creates a brand-new, empty store file at path.
//
// It fails if a file already exists at path; callers that want to
// overwrite an existing store (the CLI's "wipe") should remove it first.
func Initialize(fsys oatsfs.FS, path string) error {
	f, err := fsys.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}

	defer f.Close()

	if err := writeFull(f, encodeHeader(stackStartOff)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync %q: %w: %w", path, err, ErrIOError)
	}

	return nil
}

// Open opens an existing store file, validating its magic and version.
//
// Returns ErrNotFound if path does not exist.
func Open(fsys oatsfs.FS, path string) (*Store, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
		}

		return nil, fmt.Errorf("open %q: %w: %w", path, err, ErrIOError)
	}

	header := make([]byte, headerSize)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("seek to header: %w: %w", err, ErrIOError)
	}

	if err := readFull(f, header); err != nil {
		_ = f.Close()

		return nil, fmt.Errorf("read header of %q: %w", path, err)
	}

	stackPtr, err := decodeHeader(header)
	if err != nil {
		_ = f.Close()

		return nil, err
	}

	return &Store{fsys: fsys, path: path, file: f, stackPtr: stackPtr}, nil
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true

	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close %q: %w: %w", s.path, err, ErrIOError)
	}

	return nil
}

// Path returns the filesystem path this store was opened from.
func (s *Store) Path() string { return s.path }

// StackPointer returns the store's current in-memory view of the stack
// pointer. It reflects the value as of Open or the last write-through
// operation (Push, Pop, or a maintenance rewrite), not necessarily what is
// currently on disk if another process has written concurrently (spec §5
// explicitly puts concurrent writers out of scope).
func (s *Store) StackPointer() int64 { return s.stackPtr }

func (s *Store) checkOpen() error {
	if s.closed {
		return ErrClosed
	}

	return nil
}

// readStackPtr re-reads the persisted stack pointer from disk.
func readStackPtr(f oatsfs.File) (int64, error) {
	if _, err := f.Seek(offStackPtr, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek to stack pointer: %w: %w", err, ErrIOError)
	}

	var buf [8]byte
	if err := readFull(f, buf[:]); err != nil {
		return 0, fmt.Errorf("read stack pointer: %w", err)
	}

	stackPtr := int64(binary.BigEndian.Uint64(buf[:])) //nolint:gosec // file-controlled value, validated by caller

	if stackPtr < stackStartOff {
		return 0, fmt.Errorf("stack pointer %d before stack start %d: %w", stackPtr, stackStartOff, ErrCorruption)
	}

	return stackPtr, nil
}

// writeStackPtr persists p as the file's stack pointer. Per spec I6, this
// write must be the last byte-range touched by any append so that a
// reader observing the file mid-write never sees a torn state.
func writeStackPtr(f oatsfs.File, p int64) error {
	if _, err := f.Seek(offStackPtr, io.SeekStart); err != nil {
		return fmt.Errorf("seek to stack pointer: %w: %w", err, ErrIOError)
	}

	header := encodeHeader(p)
	if err := writeFull(f, header[offStackPtr:]); err != nil {
		return fmt.Errorf("write stack pointer: %w", err)
	}

	return nil
}
