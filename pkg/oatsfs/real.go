package oatsfs

import "os"

// Real implements FS against the real filesystem. Every method is a
// passthrough to the os package.
type Real struct{}

// NewReal returns a Real filesystem.
func NewReal() *Real {
	return &Real{}
}

func (r *Real) Open(path string) (File, error) {
	return os.OpenFile(path, os.O_RDWR, 0)
}

func (r *Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

func (r *Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (r *Real) Remove(path string) error {
	return os.Remove(path)
}

func (r *Real) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Compile-time interface check.
var _ FS = (*Real)(nil)
