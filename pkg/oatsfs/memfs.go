package oatsfs

import (
	"errors"
	"io"
	"os"
	"sync"
	"time"
)

// MemFS is an in-memory FS used by tests that want to exercise the log
// store and maintenance operations without touching a real disk.
//
// It is not safe for use by more than one Store at a time on the same
// path (matching the single-writer assumption in spec §5).
type MemFS struct {
	mu    sync.Mutex
	files map[string]*memFile
}

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string]*memFile)}
}

type memFile struct {
	name string
	mode os.FileMode
	data []byte
}

type memHandle struct {
	fs   *MemFS
	file *memFile
	pos  int64
}

func (m *MemFS) Open(path string) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}

	return &memHandle{fs: m, file: f}, nil
}

func (m *MemFS) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		if flag&os.O_CREATE == 0 {
			return nil, os.ErrNotExist
		}

		f = &memFile{name: path, mode: perm, data: nil}
		m.files[path] = f
	} else if flag&os.O_EXCL != 0 {
		return nil, os.ErrExist
	}

	if flag&os.O_TRUNC != 0 {
		f.data = nil
	}

	h := &memHandle{fs: m, file: f}
	if flag&os.O_APPEND != 0 {
		h.pos = int64(len(f.data))
	}

	return h, nil
}

func (m *MemFS) Stat(path string) (os.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}

	return memFileInfo{name: path, size: int64(len(f.data)), mode: f.mode}, nil
}

func (m *MemFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[path]; !ok {
		return os.ErrNotExist
	}

	delete(m.files, path)

	return nil
}

func (m *MemFS) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[oldpath]
	if !ok {
		return os.ErrNotExist
	}

	delete(m.files, oldpath)
	f.name = newpath
	m.files[newpath] = f

	return nil
}

// Truncate shortens the file at path to n bytes, simulating a crash
// midway through an append (spec §5, property P7).
func (m *MemFS) Truncate(path string, n int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.files[path]
	if !ok {
		return os.ErrNotExist
	}

	if n < 0 || int(n) > len(f.data) {
		return errors.New("oatsfs: truncate length out of range")
	}

	f.data = f.data[:n]

	return nil
}

func (h *memHandle) Read(p []byte) (int, error) {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	if h.pos >= int64(len(h.file.data)) {
		return 0, io.EOF
	}

	n := copy(p, h.file.data[h.pos:])
	h.pos += int64(n)

	return n, nil
}

func (h *memHandle) Write(p []byte) (int, error) {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	end := h.pos + int64(len(p))
	if end > int64(len(h.file.data)) {
		grown := make([]byte, end)
		copy(grown, h.file.data)
		h.file.data = grown
	}

	n := copy(h.file.data[h.pos:end], p)
	h.pos += int64(n)

	return n, nil
}

func (h *memHandle) Seek(offset int64, whence int) (int64, error) {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	var base int64

	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = h.pos
	case io.SeekEnd:
		base = int64(len(h.file.data))
	default:
		return 0, errors.New("oatsfs: invalid whence")
	}

	newPos := base + offset
	if newPos < 0 {
		return 0, errors.New("oatsfs: negative seek position")
	}

	h.pos = newPos

	return h.pos, nil
}

func (h *memHandle) Close() error {
	return nil
}

func (h *memHandle) Sync() error {
	return nil
}

func (h *memHandle) Stat() (os.FileInfo, error) {
	h.fs.mu.Lock()
	defer h.fs.mu.Unlock()

	return memFileInfo{name: h.file.name, size: int64(len(h.file.data)), mode: h.file.mode}, nil
}

type memFileInfo struct {
	name string
	size int64
	mode os.FileMode
}

func (i memFileInfo) Name() string       { return i.name }
func (i memFileInfo) Size() int64        { return i.size }
func (i memFileInfo) Mode() os.FileMode  { return i.mode }
func (i memFileInfo) ModTime() time.Time { return time.Time{} }
func (i memFileInfo) IsDir() bool        { return false }
func (i memFileInfo) Sys() any           { return nil }

// Compile-time interface checks.
var (
	_ FS   = (*MemFS)(nil)
	_ File = (*memHandle)(nil)
)
