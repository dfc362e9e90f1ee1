package oatslog

import (
	"bytes"
	"fmt"
)

// PushItem appends an already-encoded item record to the stack and
// persists the new stack pointer. It wraps the frame codec; it has no
// knowledge of what the payload means.
func (s *Store) PushItem(itemBytes []byte) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	newPtr, err := pushFrame(s.file, s.stackPtr, itemBytes)
	if err != nil {
		return err
	}

	if err := writeStackPtr(s.file, newPtr); err != nil {
		return err
	}

	s.stackPtr = newPtr

	return nil
}

// PopItem removes and returns the topmost item record, persisting the new
// stack pointer. Returns ErrEmptyStack if the store has no items.
func (s *Store) PopItem() ([]byte, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	body, newPtr, err := popFrame(s.file, s.stackPtr, stackStartOff)
	if err != nil {
		return nil, err
	}

	if err := writeStackPtr(s.file, newPtr); err != nil {
		return nil, err
	}

	s.stackPtr = newPtr

	return body, nil
}

// peekItem reads the topmost item record without persisting any change to
// the stack pointer, used by Tail (spec §4.5.4).
func (s *Store) peekItem(fromPtr int64) ([]byte, int64, error) {
	return popFrame(s.file, fromPtr, stackStartOff)
}

// Push appends a fully-formed item built from id, features and payload.
func (s *Store) Push(id uint64, feat Features, payload []byte) error {
	itemBytes, err := encodeItem(id, feat, payload)
	if err != nil {
		return err
	}

	return s.PushItem(itemBytes)
}

// PushText appends a plain text item.
func (s *Store) PushText(id uint64, timestamp int64, sessionID int64, hasSession, mobile bool, text []byte) error {
	feat := textFeatures(timestamp, sessionID, hasSession, mobile)

	return s.Push(id, feat, text)
}

// PushImage appends an image item with the given filename.
func (s *Store) PushImage(id uint64, timestamp int64, sessionID int64, hasSession, mobile bool, filename string, data []byte) error {
	feat := Features{Timestamp: timestamp, ImageFilename: []byte(filename)}
	feat.bits = 1<<bitHasTimestamp | 1<<bitIsImage

	if hasSession {
		feat.bits |= 1 << bitHasSessionID
		feat.SessionID = sessionID
	}

	if mobile {
		feat.bits |= 1 << bitIsMobile
	}

	return s.Push(id, feat, data)
}

// PushFile appends a generic file item with the given filename.
func (s *Store) PushFile(id uint64, timestamp int64, sessionID int64, hasSession, mobile bool, filename string, data []byte) error {
	feat := Features{Timestamp: timestamp, Filename: []byte(filename)}
	feat.bits = 1<<bitHasTimestamp | 1<<bitIsFile

	if hasSession {
		feat.bits |= 1 << bitHasSessionID
		feat.SessionID = sessionID
	}

	if mobile {
		feat.bits |= 1 << bitIsMobile
	}

	return s.Push(id, feat, data)
}

// PushVideo appends a video item. filename may be empty (spec §4.6.1:
// "# [<filename>: ]<binary video data>"). The container kind is sniffed
// from data's leading bytes; ErrUnknownVideoKind is returned if it does
// not match a recognized magic.
func (s *Store) PushVideo(id uint64, timestamp int64, sessionID int64, hasSession, mobile bool, filename string, data []byte) error {
	kind, err := SniffVideoKind(data)
	if err != nil {
		return err
	}

	feat := Features{Timestamp: timestamp, VideoKind: kind}
	feat.bits = 1<<bitHasTimestamp | 1<<bitHasVideoKind

	if filename != "" {
		feat.Filename = []byte(filename)
		feat.bits |= 1 << bitIsFile
	}

	if hasSession {
		feat.bits |= 1 << bitHasSessionID
		feat.SessionID = sessionID
	}

	if mobile {
		feat.bits |= 1 << bitIsMobile
	}

	return s.Push(id, feat, data)
}

func textFeatures(timestamp int64, sessionID int64, hasSession, mobile bool) Features {
	feat := Features{Timestamp: timestamp}
	feat.bits = 1 << bitHasTimestamp

	if hasSession {
		feat.bits |= 1 << bitHasSessionID
		feat.SessionID = sessionID
	}

	if mobile {
		feat.bits |= 1 << bitIsMobile
	}

	return feat
}

// video container magic signatures, sniffed from the first bytes of a
// pushed video payload.
var (
	oggMagic  = []byte("OggS")
	webmMagic = []byte{0x1A, 0x45, 0xDF, 0xA3} // EBML header, used by WebM/Matroska
)

// SniffVideoKind identifies a video container from its leading bytes.
//
// MP4 (and its ISO-BMFF relatives) store a 4-byte size followed by an
// "ftyp" box type at offset 4, so the magic is checked at that offset
// rather than offset 0. OGG begins with "OggS"; WebM begins with an EBML
// header.
func SniffVideoKind(data []byte) (VideoKind, error) {
	switch {
	case len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp")):
		return VideoKindMP4, nil
	case len(data) >= len(oggMagic) && bytes.Equal(data[:len(oggMagic)], oggMagic):
		return VideoKindOGG, nil
	case len(data) >= len(webmMagic) && bytes.Equal(data[:len(webmMagic)], webmMagic):
		return VideoKindWebM, nil
	default:
		return VideoKindNone, fmt.Errorf("%d leading bytes match no recognized container: %w", min(len(data), 16), ErrUnknownVideoKind)
	}
}

// ReadPayload reads an item's payload from the store file given its
// Metadata, without needing another full decode pass.
func (s *Store) ReadPayload(md Metadata) ([]byte, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	payloadStart := md.StartOffset + md.ContentsOffset
	payloadLen := md.Size - md.ContentsOffset

	if payloadLen < 0 {
		return nil, fmt.Errorf("metadata has negative payload length: %w", ErrCorruption)
	}

	if _, err := s.file.Seek(payloadStart, 0); err != nil {
		return nil, fmt.Errorf("seek to payload: %w: %w", err, ErrIOError)
	}

	buf := make([]byte, payloadLen)
	if err := readFull(s.file, buf); err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}

	return buf, nil
}
