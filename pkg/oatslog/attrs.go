package oatslog

import (
	"fmt"
	"strings"
)

// Attribute names recognized by trim, filter, and count, one per feature
// bit (spec §4.5.3, §4.5.5). "everything" is a Trim-only special token
// matching every item, not a bit name.
const (
	AttrTimestamp = "timestamp"
	AttrSessionID = "session_id"
	AttrImage     = "image"
	AttrMobile    = "mobile"
	AttrVoid      = "void"
	AttrFile      = "file"
	AttrVideo     = "video"

	AttrEverything = "everything"
)

var attrBits = map[string]uint8{
	AttrTimestamp: 1 << bitHasTimestamp,
	AttrSessionID: 1 << bitHasSessionID,
	AttrImage:     1 << bitIsImage,
	AttrMobile:    1 << bitIsMobile,
	AttrVoid:      1 << bitIsVoid,
	AttrFile:      1 << bitIsFile,
	AttrVideo:     1 << bitHasVideoKind,
}

// ParseAttributes turns a comma-enumerable list of feature names into a
// single conjunctive bitmask. Returns ErrUnknownAttribute naming the first
// unrecognized attribute.
func ParseAttributes(names []string) (uint8, error) {
	var mask uint8

	for _, name := range names {
		name = strings.TrimSpace(name)

		bit, ok := attrBits[name]
		if !ok {
			return 0, fmt.Errorf("%q: %w", name, ErrUnknownAttribute)
		}

		mask |= bit
	}

	return mask, nil
}

// matchesAll reports whether every bit in mask is also set in bits
// (conjunctive match, spec §4.5.5).
func matchesAll(bits, mask uint8) bool {
	return bits&mask == mask
}
