package oatslog

import (
	"fmt"
	"sort"
)

// MetadataSeq is a pull-style iterator over item metadata.
//
// It matches the shape expected by Go's range-over-func. A yielded
// Metadata carries no payload bytes; callers that need them call
// Store.ReadPayload with the yielded Metadata. A non-nil error terminates
// the scan; the loop body sees it once and should stop ranging.
type MetadataSeq func(yield func(Metadata, error) bool)

// ScanAllMetadata returns an iterator over every item's Metadata from the
// stack start to the store's current stack pointer, in append (forward)
// order. Each item's whole record, payload included, is read from the
// file one item at a time to decode it; the payload bytes are then
// dropped and are not kept in the yielded Metadata.
func (s *Store) ScanAllMetadata() MetadataSeq {
	return func(yield func(Metadata, error) bool) {
		if err := s.checkOpen(); err != nil {
			yield(Metadata{}, err)

			return
		}

		readPtr := int64(stackStartOff)
		stackPtr := s.stackPtr

		for readPtr < stackPtr {
			body, next, err := scanNext(s.file, readPtr, stackPtr)
			if err != nil {
				yield(Metadata{}, err)

				return
			}

			md, err := decodeMetadata(body, readPtr+frameLengthSize)
			if err != nil {
				yield(Metadata{}, err)

				return
			}

			if !yield(md, nil) {
				return
			}

			readPtr = next
		}
	}
}

// CollectAllMetadata drains ScanAllMetadata into a slice, useful for the
// maintenance operations that need a full in-memory metadata list.
func (s *Store) CollectAllMetadata() ([]Metadata, error) {
	var (
		out []Metadata
		err error
	)

	s.ScanAllMetadata()(func(md Metadata, e error) bool {
		if e != nil {
			err = e

			return false
		}

		out = append(out, md)

		return true
	})

	if err != nil {
		return nil, err
	}

	return out, nil
}

// Tail returns the metadata and payload bytes of the n topmost items,
// ordered from most-recently-pushed to least, without persisting any
// change to the stack pointer (spec §4.5.4).
//
// Returns ErrEmptyStack if the store has fewer than n items and n > 0; in
// that case the items found before running out are discarded and none
// are returned (all or nothing).
func (s *Store) Tail(n int) ([]Item, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d: %w", n, ErrInvalidArgument)
	}

	items := make([]Item, 0, n)
	ptr := s.stackPtr

	for range n {
		body, next, err := s.peekItem(ptr)
		if err != nil {
			return nil, err
		}

		item, err := decodeItem(body)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
		ptr = next
	}

	return items, nil
}

// Head returns the metadata and payload bytes of the n oldest items, in
// append (forward) order, without persisting any change to the stack
// pointer. Complements Tail's backward view; used by the CLI's `head`.
func (s *Store) Head(n int) ([]Item, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	if n < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d: %w", n, ErrInvalidArgument)
	}

	items := make([]Item, 0, n)
	ptr := int64(stackStartOff)
	stackPtr := s.stackPtr

	for range n {
		if ptr >= stackPtr {
			return nil, ErrEmptyStack
		}

		body, next, err := scanNext(s.file, ptr, stackPtr)
		if err != nil {
			return nil, err
		}

		item, err := decodeItem(body)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
		ptr = next
	}

	return items, nil
}

// Pop removes and returns the topmost n items, persisting the new stack
// pointer after each pop (so a partial failure leaves earlier pops
// durable). Items are returned most-recent-first, matching Tail's order.
func (s *Store) Pop(n int) ([]Item, error) {
	if n < 0 {
		return nil, fmt.Errorf("n must be >= 0, got %d: %w", n, ErrInvalidArgument)
	}

	items := make([]Item, 0, n)

	for range n {
		body, err := s.PopItem()
		if err != nil {
			return nil, err
		}

		item, err := decodeItem(body)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// BinarySearchByID searches a slice sorted ascending by ID for target.
// found is true and index is the position of the match when present;
// otherwise found is false and index is the position target would be
// inserted at to keep the slice sorted.
func BinarySearchByID(sorted []Metadata, target uint64) (found bool, index int) {
	idx := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].ID >= target
	})

	if idx < len(sorted) && sorted[idx].ID == target {
		return true, idx
	}

	return false, idx
}
