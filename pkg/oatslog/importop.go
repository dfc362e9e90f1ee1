package oatslog

import (
	"sort"

	"github.com/kalscium/oats/pkg/oatsfs"
)

// ImportResult reports the outcome of Import.
type ImportResult struct {
	// Imported is the number of items copied from the external store
	// because their id was not already present.
	Imported int

	// Conflicts lists the ids where an incoming live item collided with
	// an existing void stub. Spec §4.5.2 treats this as ambiguous and
	// specifies "current wins" (skip in both directions); a caller may
	// choose to log these.
	Conflicts []uint64

	// Skipped counts incoming items dropped because the id already
	// existed in the current store (including Conflicts).
	Skipped int
}

// Import merges items from the external store at externalPath into the
// current store at currentPath, deduplicating by id (spec §4.5.2).
//
// Ordering is broken by Import; callers should run Sort afterward.
func Import(fsys oatsfs.FS, currentPath, externalPath string) (ImportResult, error) {
	cur, err := Open(fsys, currentPath)
	if err != nil {
		return ImportResult{}, err
	}
	defer cur.Close()

	current, err := cur.CollectAllMetadata()
	if err != nil {
		return ImportResult{}, err
	}

	sortByID(current)

	ext, err := Open(fsys, externalPath)
	if err != nil {
		return ImportResult{}, err
	}
	defer ext.Close()

	var result ImportResult

	ptr := cur.stackPtr

	seqErr := rangeMetadataErr(ext.ScanAllMetadata(), func(incoming Metadata) error {
		found, idx := BinarySearchByID(current, incoming.ID)
		if found {
			result.Skipped++

			existing := current[idx]
			if existing.Features.IsVoid() && !incoming.Features.IsVoid() {
				result.Conflicts = append(result.Conflicts, incoming.ID)
			}

			return nil
		}

		raw, err := ext.RawItemBytes(incoming)
		if err != nil {
			return err
		}

		next, err := pushFrame(cur.file, ptr, raw)
		if err != nil {
			return err
		}

		ptr = next
		result.Imported++

		current = append(current, Metadata{})
		copy(current[idx+1:], current[idx:])
		current[idx] = incoming

		return nil
	})
	if seqErr != nil {
		return ImportResult{}, seqErr
	}

	if err := writeStackPtr(cur.file, ptr); err != nil {
		return ImportResult{}, err
	}

	cur.stackPtr = ptr

	return result, nil
}

func sortByID(md []Metadata) {
	// Current store metadata is already in append order; a stable sort
	// keeps equal-id duplicates (which spec §9 says have undefined
	// ordering) in scan order rather than reshuffling them needlessly.
	sort.SliceStable(md, func(i, j int) bool { return md[i].ID < md[j].ID })
}

// rangeMetadataErr adapts a MetadataSeq into a simple per-item callback
// that can return an error to stop the scan early.
func rangeMetadataErr(seq MetadataSeq, fn func(Metadata) error) error {
	var outerErr error

	seq(func(md Metadata, err error) bool {
		if err != nil {
			outerErr = err

			return false
		}

		if fnErr := fn(md); fnErr != nil {
			outerErr = fnErr

			return false
		}

		return true
	})

	return outerErr
}
