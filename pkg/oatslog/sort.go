package oatslog

import (
	"sort"

	"github.com/kalscium/oats/pkg/oatsfs"
)

// Sort rewrites the store at path into one with strictly ascending ids
// among live items, preserving void stubs except where a stub's id
// duplicates a live item's id (spec §4.5.1).
//
// Algorithm: scan all metadata into live and void lists; sort live
// ascending by id; for each void item, binary-search its id among the
// live items and insert at that position only if no live item already
// has that id; stream-copy every surviving item's raw bytes into a new
// file at tmpPath and atomically replace path with it.
func Sort(fsys oatsfs.FS, path, tmpPath string) error {
	src, err := Open(fsys, path)
	if err != nil {
		return err
	}
	defer src.Close()

	all, err := src.CollectAllMetadata()
	if err != nil {
		return err
	}

	live := make([]Metadata, 0, len(all))
	voids := make([]Metadata, 0)

	for _, md := range all {
		if md.Features.IsVoid() {
			voids = append(voids, md)
		} else {
			live = append(live, md)
		}
	}

	sort.Slice(live, func(i, j int) bool { return live[i].ID < live[j].ID })

	merged := make([]Metadata, len(live))
	copy(merged, live)

	for _, v := range voids {
		if found, _ := BinarySearchByID(live, v.ID); found {
			// A live item with this id exists: the stub would be
			// redundant, so it is dropped (spec §4.5.1 step 3).
			continue
		}

		_, idx := BinarySearchByID(merged, v.ID)

		merged = append(merged, Metadata{})
		copy(merged[idx+1:], merged[idx:])
		merged[idx] = v
	}

	removeStaleTemp(fsys, tmpPath)

	return rewriteStore(fsys, path, tmpPath, func(dst oatsfs.File) (int64, error) {
		ptr := int64(stackStartOff)

		for _, md := range merged {
			raw, err := src.RawItemBytes(md)
			if err != nil {
				return 0, err
			}

			next, err := pushFrame(dst, ptr, raw)
			if err != nil {
				return 0, err
			}

			ptr = next
		}

		return ptr, nil
	})
}
