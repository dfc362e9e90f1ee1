// Package oatslog implements the on-disk log engine for oats: a single
// seekable file holding a self-describing, append-only (stack-structured)
// binary log of notes, images, files and videos.
//
// The package is split into the frame codec (frame.go), the item codec
// (item.go), the log store primitives (store.go, open.go), the query
// engine (query.go) and the maintenance operations that rewrite the whole
// store (sort.go, importop.go, trimfilter.go, count.go). Rendering lives
// in the sibling render subpackage.
//
// Store is not safe for concurrent use: spec §5 assumes an exclusive
// external lock around any writing operation, and a single in-process
// goroutine per Store handle.
package oatslog

// VideoKind identifies the container format of a pushed video item.
type VideoKind uint8

// Recognized video container kinds.
const (
	VideoKindNone VideoKind = 0
	VideoKindMP4  VideoKind = 1
	VideoKindOGG  VideoKind = 2
	VideoKindWebM VideoKind = 3
)

// String renders the video kind the way the normal listing and markdown
// export spell it.
func (k VideoKind) String() string {
	switch k {
	case VideoKindMP4:
		return "mp4"
	case VideoKindOGG:
		return "ogg"
	case VideoKindWebM:
		return "webm"
	default:
		return ""
	}
}

// Feature bit positions, fixed per spec §6. New bits must only ever be
// assigned higher than any bit already in use so that an older reader can
// ignore bits it doesn't know about.
const (
	bitExtended      = 0
	bitHasTimestamp  = 1
	bitHasSessionID  = 2
	bitIsImage       = 3
	bitIsMobile      = 4
	bitIsVoid        = 5
	bitIsFile        = 6
	bitHasVideoKind  = 7
	knownFeatureBits = 1<<8 - 1 // all 8 bits of the bitfield are assigned in v1
)

// Features is the decoded feature bitfield of an item plus its optional
// field values. Only fields whose corresponding bit is set are meaningful;
// the zero value of an unset field's Go type carries no information.
type Features struct {
	bits uint8

	Timestamp     int64  // milliseconds since epoch, present if HasTimestamp()
	SessionID     int64  // present if HasSessionID()
	ImageFilename []byte // present if IsImage()
	Filename      []byte // present if IsFile() (a video carries one only with the file bit set)
	VideoKind     VideoKind
}

func (f Features) HasTimestamp() bool { return f.bits&(1<<bitHasTimestamp) != 0 }
func (f Features) HasSessionID() bool { return f.bits&(1<<bitHasSessionID) != 0 }
func (f Features) IsImage() bool      { return f.bits&(1<<bitIsImage) != 0 }
func (f Features) IsMobile() bool     { return f.bits&(1<<bitIsMobile) != 0 }
func (f Features) IsVoid() bool       { return f.bits&(1<<bitIsVoid) != 0 }
func (f Features) IsFile() bool       { return f.bits&(1<<bitIsFile) != 0 }
func (f Features) HasVideoKind() bool { return f.bits&(1<<bitHasVideoKind) != 0 }

// IsVideo reports whether the feature set marks this item as video:
// per spec §3, presence of vid_kind marks the item kind as video, whether
// or not a filename also accompanies it.
func (f Features) IsVideo() bool { return f.HasVideoKind() }

// Bits returns the raw 1-byte bitfield.
func (f Features) Bits() uint8 { return f.bits }

// Kind reports the item's rendered kind per spec §4.6.1's priority:
// void overrides everything else, then image, then video, then file,
// then plain text.
type Kind int

const (
	KindText Kind = iota
	KindImage
	KindVideo
	KindFile
	KindVoid
)

// Kind classifies the item for rendering purposes.
func (f Features) Kind() Kind {
	switch {
	case f.IsVoid():
		return KindVoid
	case f.IsImage():
		return KindImage
	case f.IsVideo():
		return KindVideo
	case f.IsFile():
		return KindFile
	default:
		return KindText
	}
}

// Item is a single fully-decoded stored record: identity, features and
// payload bytes.
type Item struct {
	ID       uint64
	Features Features
	Payload  []byte
}

// Metadata is the in-memory summary produced by a scan: everything about
// an item except its payload bytes, plus enough file-position bookkeeping
// to fetch the payload later without re-scanning.
type Metadata struct {
	ID       uint64
	Features Features

	// StartOffset is the file position of the item record, i.e. the byte
	// immediately after the frame's leading length field.
	StartOffset int64

	// ContentsOffset is the number of bytes from StartOffset to the start
	// of the payload.
	ContentsOffset int64

	// Size is the total length of the item record (ContentsOffset +
	// payload length).
	Size int64
}

// PayloadSize returns the number of payload bytes for this item.
func (m Metadata) PayloadSize() int64 {
	return m.Size - m.ContentsOffset
}
