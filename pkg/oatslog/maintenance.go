package oatslog

import (
	"fmt"
	"io"
	"os"

	"github.com/kalscium/oats/pkg/oatsfs"
)

// RawItemBytes returns the exact on-disk bytes of one item record (not
// including its frame length fields), suitable for copying byte-for-byte
// into another store via pushFrame. Maintenance operations use this
// instead of re-encoding so untouched items round-trip exactly, including
// any fields a future format version might add that this reader doesn't
// recognize (spec §9, "forward compatibility").
func (s *Store) RawItemBytes(md Metadata) ([]byte, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	if _, err := s.file.Seek(md.StartOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to item record: %w: %w", err, ErrIOError)
	}

	buf := make([]byte, md.Size)
	if err := readFull(s.file, buf); err != nil {
		return nil, fmt.Errorf("read item record: %w", err)
	}

	return buf, nil
}

// stubBytes builds the item record for a trim/filter stub: same id and
// features with is_void set, payload emptied and any filename fields
// stripped (spec §4.5.3).
func stubBytes(md Metadata) ([]byte, error) {
	feat := Features{bits: md.Features.bits}
	feat.bits |= 1 << bitIsVoid
	feat.bits &^= 1 << bitIsImage
	feat.bits &^= 1 << bitIsFile
	feat.ImageFilename = nil
	feat.Filename = nil

	if md.Features.HasTimestamp() {
		feat.Timestamp = md.Features.Timestamp
	}

	if md.Features.HasSessionID() {
		feat.SessionID = md.Features.SessionID
	}

	if md.Features.HasVideoKind() {
		feat.VideoKind = md.Features.VideoKind
	}

	return encodeItem(md.ID, feat, nil)
}

// rewriteBuilder streams a brand-new store body to dst, tracking the
// growing stack pointer, and is handed to rewriteStore by each whole-file
// rewrite (sort, trim, filter). Import does not use it: it appends to the
// current store in place.
type rewriteBuilder func(dst oatsfs.File) (finalStackPtr int64, err error)

// rewriteStore performs the common "write a complete new store to a fixed
// temp path, then atomically replace targetPath" sequence that sort, trim
// and filter follow: the original is untouched
// until a final atomic rename, so a crash leaves either the old file
// intact or the new file complete.
func rewriteStore(fsys oatsfs.FS, targetPath, tmpPath string, build rewriteBuilder) error {
	var finalPtr int64

	err := oatsfs.StreamToTemp(fsys, tmpPath, 0o644, func(f oatsfs.File) error {
		if err := writeFull(f, encodeHeader(stackStartOff)); err != nil {
			return err
		}

		ptr, err := build(f)
		if err != nil {
			return err
		}

		finalPtr = ptr

		return writeStackPtr(f, finalPtr)
	})
	if err != nil {
		return err
	}

	if err := oatsfs.Replace(fsys, tmpPath, targetPath); err != nil {
		return err
	}

	return nil
}

// TempPathFor returns the fixed temporary path used by whole-file rewrites
// of path, so a stranded temporary left behind by a crash is discoverable
// (spec §6).
func TempPathFor(path string) string {
	return path + ".oats-tmp"
}

// removeStaleTemp best-effort removes a leftover temp file from a prior
// interrupted rewrite before starting a new one.
func removeStaleTemp(fsys oatsfs.FS, tmpPath string) {
	if err := fsys.Remove(tmpPath); err != nil && !os.IsNotExist(err) {
		_ = err // best-effort cleanup; StreamToTemp's create-and-truncate will surface real problems
	}
}
