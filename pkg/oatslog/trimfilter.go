package oatslog

import (
	"github.com/kalscium/oats/pkg/oatsfs"
)

// FilterResult reports how many items of each disposition a trim or
// filter pass produced.
type FilterResult struct {
	Stubbed int
	Copied  int
}

// Trim rewrites the store at srcPath into a new store at outPath where
// every item matching the given attribute names (conjunctive) is replaced
// with a void stub, and every other item is copied byte-for-byte (spec
// §4.5.3). The special name "everything" matches every item.
func Trim(fsys oatsfs.FS, srcPath, outPath string, attrNames []string) (FilterResult, error) {
	return trimOrFilter(fsys, srcPath, outPath, attrNames, true)
}

// Filter rewrites the store at srcPath into a new store at outPath where
// every item NOT matching the given attribute names (conjunctive) is
// replaced with a void stub, and every matching item is copied
// byte-for-byte (spec §4.5.3). "everything" is not accepted by Filter.
func Filter(fsys oatsfs.FS, srcPath, outPath string, attrNames []string) (FilterResult, error) {
	return trimOrFilter(fsys, srcPath, outPath, attrNames, false)
}

func trimOrFilter(fsys oatsfs.FS, srcPath, outPath string, attrNames []string, isTrim bool) (FilterResult, error) {
	everything := false

	if isTrim {
		for _, n := range attrNames {
			if n == AttrEverything {
				everything = true
			}
		}
	}

	var mask uint8

	if !everything {
		m, err := ParseAttributes(attrNames)
		if err != nil {
			return FilterResult{}, err
		}

		mask = m
	}

	src, err := Open(fsys, srcPath)
	if err != nil {
		return FilterResult{}, err
	}
	defer src.Close()

	all, err := src.CollectAllMetadata()
	if err != nil {
		return FilterResult{}, err
	}

	var result FilterResult

	tmpPath := TempPathFor(outPath)
	removeStaleTemp(fsys, tmpPath)

	err = rewriteStore(fsys, outPath, tmpPath, func(dst oatsfs.File) (int64, error) {
		ptr := int64(stackStartOff)

		for _, md := range all {
			matches := everything || matchesAll(md.Features.bits, mask)

			// Trim stubs matches; Filter stubs non-matches.
			stub := matches == isTrim

			var raw []byte

			var err error

			if stub {
				raw, err = stubBytes(md)
				result.Stubbed++
			} else {
				raw, err = src.RawItemBytes(md)
				result.Copied++
			}

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
	if err != nil {
		return FilterResult{}, err
	}

	return result, nil
}
