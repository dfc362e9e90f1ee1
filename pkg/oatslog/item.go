package oatslog

import (
	"encoding/binary"
	"fmt"
)

// idSize is the width in bytes of an item's id field.
const idSize = 8

// bitfieldSize is the width in bytes of the feature bitfield.
const bitfieldSize = 1

// filenameLengthSize is the width in bytes of a length-prefixed byte
// string's length field.
const filenameLengthSize = 2

// videoKindSize is the width in bytes of the video_kind field.
const videoKindSize = 1

// maxFilenameLen is the largest filename length representable by the u16
// length prefix.
const maxFilenameLen = 1<<16 - 1

// itemRecordOverhead is the minimum size of an item record with no
// optional fields present: just the id and the bitfield byte.
const itemRecordOverhead = idSize + bitfieldSize

// MaxPayloadSize is the largest payload that fits whichever optional
// fields are present: id + bitfield + every optional field at its widest +
// payload still fits in the u32 frame length field. encodeItem itself
// checks the whole record's size against that field, so with fewer
// optional fields it accepts somewhat larger payloads. Spec §9: "Video push accepts payloads up to
// 4 GiB − 1; the frame length field is u32, which enforces this limit."
const MaxPayloadSize = maxFrameBodyLen - itemRecordOverhead - 8 - 8 - (filenameLengthSize + maxFilenameLen) - (filenameLengthSize + maxFilenameLen) - videoKindSize

// encodeItem serializes id, features and payload into one item record
// per spec §4.2/§6: id, bitfield, then each present feature field in
// fixed order, then the payload.
func encodeItem(id uint64, feat Features, payload []byte) ([]byte, error) {
	if len(feat.ImageFilename) > maxFilenameLen {
		return nil, fmt.Errorf("image filename %d bytes exceeds max %d: %w", len(feat.ImageFilename), maxFilenameLen, ErrInvalidArgument)
	}

	if len(feat.Filename) > maxFilenameLen {
		return nil, fmt.Errorf("filename %d bytes exceeds max %d: %w", len(feat.Filename), maxFilenameLen, ErrInvalidArgument)
	}

	size := itemRecordOverhead

	if feat.HasTimestamp() {
		size += 8
	}

	if feat.HasSessionID() {
		size += 8
	}

	if feat.IsImage() {
		size += filenameLengthSize + len(feat.ImageFilename)
	}

	if feat.IsFile() {
		size += filenameLengthSize + len(feat.Filename)
	}

	if feat.HasVideoKind() {
		size += videoKindSize
	}

	size += len(payload)

	if size > maxFrameBodyLen {
		return nil, fmt.Errorf("item record of %d bytes exceeds frame limit: %w", size, ErrInvalidArgument)
	}

	buf := make([]byte, size)
	pos := 0

	binary.BigEndian.PutUint64(buf[pos:], id)
	pos += idSize

	buf[pos] = feat.bits
	pos += bitfieldSize

	if feat.HasTimestamp() {
		binary.BigEndian.PutUint64(buf[pos:], uint64(feat.Timestamp))
		pos += 8
	}

	if feat.HasSessionID() {
		binary.BigEndian.PutUint64(buf[pos:], uint64(feat.SessionID))
		pos += 8
	}

	if feat.IsImage() {
		pos = putByteString(buf, pos, feat.ImageFilename)
	}

	if feat.IsFile() {
		pos = putByteString(buf, pos, feat.Filename)
	}

	if feat.HasVideoKind() {
		buf[pos] = byte(feat.VideoKind)
		pos += videoKindSize
	}

	copy(buf[pos:], payload)

	return buf, nil
}

func putByteString(buf []byte, pos int, s []byte) int {
	binary.BigEndian.PutUint16(buf[pos:], uint16(len(s))) //nolint:gosec // bounds checked by caller
	pos += filenameLengthSize
	copy(buf[pos:], s)

	return pos + len(s)
}

// decodeMetadata parses an item record's id and feature fields, without
// touching payload bytes, and fills in the offset bookkeeping a Metadata
// needs. startOffset is the item record's absolute file position; it is
// stored as StartOffset, and ContentsOffset is counted from it.
func decodeMetadata(buf []byte, startOffset int64) (Metadata, error) {
	if len(buf) < itemRecordOverhead {
		return Metadata{}, fmt.Errorf("item record of %d bytes shorter than minimum %d: %w", len(buf), itemRecordOverhead, ErrCorruption)
	}

	id := binary.BigEndian.Uint64(buf[0:idSize])
	bits := buf[idSize]
	pos := itemRecordOverhead

	feat := Features{bits: bits}

	if feat.HasTimestamp() {
		v, err := takeInt64(buf, &pos)
		if err != nil {
			return Metadata{}, err
		}

		feat.Timestamp = v
	}

	if feat.HasSessionID() {
		v, err := takeInt64(buf, &pos)
		if err != nil {
			return Metadata{}, err
		}

		feat.SessionID = v
	}

	if feat.IsImage() {
		s, err := takeByteString(buf, &pos)
		if err != nil {
			return Metadata{}, err
		}

		feat.ImageFilename = s
	}

	if feat.IsFile() {
		s, err := takeByteString(buf, &pos)
		if err != nil {
			return Metadata{}, err
		}

		feat.Filename = s
	}

	if feat.HasVideoKind() {
		if pos+videoKindSize > len(buf) {
			return Metadata{}, fmt.Errorf("video_kind field reads past item record: %w", ErrCorruption)
		}

		feat.VideoKind = VideoKind(buf[pos])
		pos += videoKindSize
	}

	return Metadata{
		ID:             id,
		Features:       feat,
		StartOffset:    startOffset,
		ContentsOffset: int64(pos),
		Size:           int64(len(buf)),
	}, nil
}

// decodeItem fully decodes an item record including its payload.
func decodeItem(buf []byte) (Item, error) {
	md, err := decodeMetadata(buf, 0)
	if err != nil {
		return Item{}, err
	}

	payload := make([]byte, int64(len(buf))-md.ContentsOffset)
	copy(payload, buf[md.ContentsOffset:])

	return Item{ID: md.ID, Features: md.Features, Payload: payload}, nil
}

func takeInt64(buf []byte, pos *int) (int64, error) {
	if *pos+8 > len(buf) {
		return 0, fmt.Errorf("8-byte field reads past item record: %w", ErrCorruption)
	}

	v := int64(binary.BigEndian.Uint64(buf[*pos:]))
	*pos += 8

	return v, nil
}

func takeByteString(buf []byte, pos *int) ([]byte, error) {
	if *pos+filenameLengthSize > len(buf) {
		return nil, fmt.Errorf("length-prefixed field reads past item record: %w", ErrCorruption)
	}

	n := int(binary.BigEndian.Uint16(buf[*pos:]))
	*pos += filenameLengthSize

	if *pos+n > len(buf) {
		return nil, fmt.Errorf("length-prefixed field of %d bytes reads past item record: %w", n, ErrCorruption)
	}

	s := make([]byte, n)
	copy(s, buf[*pos:*pos+n])
	*pos += n

	return s, nil
}
