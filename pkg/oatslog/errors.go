package oatslog

import "errors"

// Sentinel errors returned by oatslog operations, grouped by cause rather
// than by Go type so callers can branch with errors.Is.
//
//	if errors.Is(err, oatslog.ErrCorruption) {
//	    // the file is damaged beyond what a reader can recover from
//	}
var (
	// ErrNotFound indicates the database file does not exist.
	//
	// Recovery: run the wipe/initialize operation to create a fresh store.
	ErrNotFound = errors.New("oatslog: database not found")

	// ErrMagicMismatch indicates the first four bytes of the file are not
	// the "oats" magic.
	//
	// Recovery: point at a valid store; this is not an oats file.
	ErrMagicMismatch = errors.New("oatslog: magic mismatch")

	// ErrVersionMismatch indicates the file's major version does not match
	// the version this library understands.
	//
	// Recovery: none automatic; there is no format migration.
	ErrVersionMismatch = errors.New("oatslog: version mismatch")

	// ErrEmptyStack indicates a pop or tail was attempted with no items
	// remaining between the stack start and the stack pointer.
	ErrEmptyStack = errors.New("oatslog: empty stack")

	// ErrCorruption indicates a frame's length reads past the stack
	// pointer, a frame's two length fields disagree, or an item's declared
	// feature bytes exceed the frame.
	//
	// Recovery: none automatic; the store must be repaired out of band or
	// discarded.
	ErrCorruption = errors.New("oatslog: corruption")

	// ErrUnknownAttribute indicates a feature name passed to trim, filter,
	// or count does not name a recognized feature bit.
	ErrUnknownAttribute = errors.New("oatslog: unknown attribute")

	// ErrUnknownVideoKind indicates a pushed video's leading bytes did not
	// match any recognized container magic.
	ErrUnknownVideoKind = errors.New("oatslog: unknown video kind")

	// ErrInvalidArgument indicates a caller supplied an out-of-range or
	// ill-formed argument (for example a payload exceeding the u32 frame
	// length field, or a negative count).
	ErrInvalidArgument = errors.New("oatslog: invalid argument")

	// ErrIOError wraps an underlying read/write/seek/rename failure from
	// the filesystem abstraction.
	ErrIOError = errors.New("oatslog: io error")

	// ErrClosed indicates an operation was attempted on a Store that has
	// already been closed.
	ErrClosed = errors.New("oatslog: closed")
)
