package oatslog

import (
	"encoding/binary"
	"fmt"
)

// DebugSetID rewrites the id of the item identified by oldID to newID,
// in place, by overwriting just that item record's id field on disk.
// Exposed for the CLI's dbgsetid per spec §6; §9 flags that duplicate ids
// produced this way make Sort's tie-break undefined, which is intentional
// (this exists to let an operator reproduce exactly that scenario).
func DebugSetID(s *Store, oldID, newID uint64) error {
	md, err := findByID(s, oldID)
	if err != nil {
		return err
	}

	var idBuf [idSize]byte
	binary.BigEndian.PutUint64(idBuf[:], newID)

	if _, err := s.file.Seek(md.StartOffset, 0); err != nil {
		return fmt.Errorf("seek to item %d: %w: %w", oldID, err, ErrIOError)
	}

	if err := writeFull(s.file, idBuf[:]); err != nil {
		return fmt.Errorf("rewrite id of item %d: %w", oldID, err)
	}

	return nil
}

// DebugSetTimestamp rewrites the timestamp of the item identified by id,
// in place. Returns ErrInvalidArgument if the item does not carry a
// timestamp field (there is no room to grow the record in place).
func DebugSetTimestamp(s *Store, id uint64, newTimestampMs int64) error {
	md, err := findByID(s, id)
	if err != nil {
		return err
	}

	if !md.Features.HasTimestamp() {
		return fmt.Errorf("item %d has no timestamp field: %w", id, ErrInvalidArgument)
	}

	tsOffset := md.StartOffset + idSize + bitfieldSize

	var tsBuf [8]byte
	binary.BigEndian.PutUint64(tsBuf[:], uint64(newTimestampMs)) //nolint:gosec // round-trips back through int64 on decode

	if _, err := s.file.Seek(tsOffset, 0); err != nil {
		return fmt.Errorf("seek to item %d timestamp: %w: %w", id, err, ErrIOError)
	}

	if err := writeFull(s.file, tsBuf[:]); err != nil {
		return fmt.Errorf("rewrite timestamp of item %d: %w", id, err)
	}

	return nil
}

func findByID(s *Store, id uint64) (Metadata, error) {
	all, err := s.CollectAllMetadata()
	if err != nil {
		return Metadata{}, err
	}

	for _, md := range all {
		if md.ID == id {
			return md, nil
		}
	}

	return Metadata{}, fmt.Errorf("no item with id %d: %w", id, ErrInvalidArgument)
}
