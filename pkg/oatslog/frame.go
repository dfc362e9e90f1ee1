package oatslog

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kalscium/oats/pkg/oatsfs"
)

// frameLengthSize is the size in bytes of one length field (u32 BE).
const frameLengthSize = 4

// frameOverhead is the number of bytes a frame adds around its item
// record: a leading and a trailing u32 length field.
const frameOverhead = 2 * frameLengthSize

// maxFrameBodyLen is the largest item-record length a frame can carry,
// since the length field is u32.
const maxFrameBodyLen = 1<<32 - 1

// pushFrame writes one length-padded entry at stackPtr and returns the new
// stack pointer (stackPtr + len(body) + frameOverhead).
//
// Per spec §4.1: seek to stackPtr, write len(body) as u32 BE, write body,
// write len(body) again, advance the caller's stack pointer.
func pushFrame(f oatsfs.File, stackPtr int64, body []byte) (int64, error) {
	if len(body) > maxFrameBodyLen {
		return 0, fmt.Errorf("frame body %d bytes exceeds u32 length field: %w", len(body), ErrInvalidArgument)
	}

	if _, err := f.Seek(stackPtr, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek to stack pointer: %w: %w", err, ErrIOError)
	}

	var lenBuf [frameLengthSize]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body))) //nolint:gosec // bounds checked above

	if err := writeFull(f, lenBuf[:]); err != nil {
		return 0, fmt.Errorf("write leading length: %w", err)
	}

	if err := writeFull(f, body); err != nil {
		return 0, fmt.Errorf("write item bytes: %w", err)
	}

	if err := writeFull(f, lenBuf[:]); err != nil {
		return 0, fmt.Errorf("write trailing length: %w", err)
	}

	return stackPtr + int64(len(body)) + frameOverhead, nil
}

// popFrame reads the frame immediately below stackPtr (the stack-start
// offset is passed so EmptyStack can be detected), returns its item bytes
// and the new stack pointer.
//
// Per spec §4.1: seek to stackPtr-4, read the trailing length L, seek to
// stackPtr-4-L, read L bytes, set the new stack pointer to stackPtr-8-L.
func popFrame(f oatsfs.File, stackPtr, stackStart int64) ([]byte, int64, error) {
	if stackPtr <= stackStart {
		return nil, 0, ErrEmptyStack
	}

	if stackPtr-stackStart < frameOverhead {
		return nil, 0, fmt.Errorf("stack pointer %d leaves less than a frame above start %d: %w", stackPtr, stackStart, ErrCorruption)
	}

	length, err := readLengthAt(f, stackPtr-frameLengthSize)
	if err != nil {
		return nil, 0, err
	}

	bodyStart := stackPtr - frameLengthSize - int64(length)
	if bodyStart < stackStart {
		return nil, 0, fmt.Errorf("frame body would start at %d, before stack start %d: %w", bodyStart, stackStart, ErrCorruption)
	}

	if _, err := f.Seek(bodyStart, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek to frame body: %w: %w", err, ErrIOError)
	}

	body := make([]byte, length)
	if err := readFull(f, body); err != nil {
		return nil, 0, fmt.Errorf("read item bytes: %w", err)
	}

	newStackPtr := bodyStart - frameLengthSize

	return body, newStackPtr, nil
}

// scanNext reads the frame at readPtr moving forward and returns its item
// bytes along with the position immediately after the frame. The caller
// must ensure readPtr < stackPtr before calling.
func scanNext(f oatsfs.File, readPtr, stackPtr int64) ([]byte, int64, error) {
	if readPtr+frameLengthSize > stackPtr {
		return nil, 0, fmt.Errorf("frame leading length at %d reads past stack pointer %d: %w", readPtr, stackPtr, ErrCorruption)
	}

	length, err := readLengthAt(f, readPtr)
	if err != nil {
		return nil, 0, err
	}

	bodyStart := readPtr + frameLengthSize
	bodyEnd := bodyStart + int64(length)

	if bodyEnd+frameLengthSize > stackPtr {
		return nil, 0, fmt.Errorf("frame body ending at %d reads past stack pointer %d: %w", bodyEnd, stackPtr, ErrCorruption)
	}

	body := make([]byte, length)
	if err := readFull(f, body); err != nil {
		return nil, 0, fmt.Errorf("read item bytes: %w", err)
	}

	return body, bodyEnd + frameLengthSize, nil
}

func readLengthAt(f oatsfs.File, offset int64) (uint32, error) {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek to length field: %w: %w", err, ErrIOError)
	}

	var lenBuf [frameLengthSize]byte
	if err := readFull(f, lenBuf[:]); err != nil {
		return 0, fmt.Errorf("read length field: %w", err)
	}

	return binary.BigEndian.Uint32(lenBuf[:]), nil
}

func writeFull(w io.Writer, p []byte) error {
	n, err := w.Write(p)
	if err != nil {
		return fmt.Errorf("%w: %w", err, ErrIOError)
	}

	if n != len(p) {
		return fmt.Errorf("short write: wrote %d of %d bytes: %w", n, len(p), ErrIOError)
	}

	return nil
}

func readFull(r io.Reader, p []byte) error {
	_, err := io.ReadFull(r, p)
	if err != nil {
		return fmt.Errorf("%w: %w", err, ErrIOError)
	}

	return nil
}
