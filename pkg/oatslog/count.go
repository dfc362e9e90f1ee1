package oatslog

// Count performs a full forward scan counting items whose bitfield
// matches the given attribute names conjunctively. If invert is true
// (the CLI's --not), items that do NOT match are counted instead (spec
// §4.5.5). With no attribute names, every item matches (mask is zero, and
// every bitfield satisfies an empty conjunction).
func (s *Store) Count(attrNames []string, invert bool) (int, error) {
	mask, err := ParseAttributes(attrNames)
	if err != nil {
		return 0, err
	}

	count := 0

	var scanErr error

	s.ScanAllMetadata()(func(md Metadata, err error) bool {
		if err != nil {
			scanErr = err

			return false
		}

		matches := matchesAll(md.Features.bits, mask)
		if matches != invert {
			count++
		}

		return true
	})

	if scanErr != nil {
		return 0, scanErr
	}

	return count, nil
}
