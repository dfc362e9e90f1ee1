package oatslog

import (
	"encoding/binary"
	"fmt"
)

// File header layout per spec §6:
//
//	offset  len  field
//	0       4    magic = "oats"
//	4       1    major version
//	5       8    stack_pointer (absolute file offset)
//	13      *    stack body
const (
	offMagic      = 0
	offVersion    = 4
	offStackPtr   = 5
	headerSize    = 13
	stackStartOff = headerSize
)

// magic is the fixed 4-byte ASCII file identifier.
var magic = [4]byte{'o', 'a', 't', 's'}

// majorVersion is the only format version this library understands.
const majorVersion = 1

// encodeHeader serializes the fixed file header.
func encodeHeader(stackPtr int64) []byte {
	buf := make([]byte, headerSize)
	copy(buf[offMagic:], magic[:])
	buf[offVersion] = majorVersion
	binary.BigEndian.PutUint64(buf[offStackPtr:], uint64(stackPtr)) //nolint:gosec // stack pointer is always non-negative

	return buf
}

// decodeHeader validates the magic and version of a header buffer and
// returns the stack pointer it encodes.
func decodeHeader(buf []byte) (int64, error) {
	if len(buf) < headerSize {
		return 0, fmt.Errorf("header of %d bytes shorter than %d: %w", len(buf), headerSize, ErrCorruption)
	}

	if [4]byte(buf[offMagic:offMagic+4]) != magic {
		return 0, ErrMagicMismatch
	}

	if buf[offVersion] != majorVersion {
		return 0, fmt.Errorf("file version %d, library understands %d: %w", buf[offVersion], majorVersion, ErrVersionMismatch)
	}

	stackPtr := int64(binary.BigEndian.Uint64(buf[offStackPtr:])) //nolint:gosec // file-controlled value, validated by caller

	if stackPtr < stackStartOff {
		return 0, fmt.Errorf("stack pointer %d before stack start %d: %w", stackPtr, stackStartOff, ErrCorruption)
	}

	return stackPtr, nil
}
