// Package render turns decoded items into the two human-facing output
// forms spec'd for oats: a padded one-line listing (this file) and a
// grouped Markdown export (markdown.go).
package render

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/kalscium/oats/pkg/oatslog"
)

// prefixWidth is the worst-case width of the "id: ..., date: ...,
// sess_id: ..., kind: ..., video_kind: ..., on: mobile" prefix, assuming
// every optional field is present at its widest possible value
// simultaneously. Padding every line's prefix out to this width keeps the
// separator column constant across a run of items with differing feature
// sets (the pad width is "computable at build time from type widths and
// label sizes", spec §4.6.1); it is computed once at init rather than
// hand-counted so it can't drift if a field's label changes.
var prefixWidth = computePrefixWidth()

func computePrefixWidth() int {
	widest := fmt.Sprintf("id: %d", uint64(math.MaxUint64)) +
		fmt.Sprintf(", date: %s", formatTimestamp(math.MaxInt64)) +
		fmt.Sprintf(", sess_id: %d", int64(math.MinInt64)) +
		", kind: video" + // "image" and "video" are both 5 letters; "file" is shorter
		", video_kind: webm" +
		", on: mobile"

	return len(widest)
}

// formatTimestamp renders milliseconds-since-epoch the way the normal
// listing spells dates: ISO 8601 with
// millisecond precision and a literal "Z" (the store has no notion of
// timezone; §4.6.2's tz_offset shift is a markdown-export-only concern).
func formatTimestamp(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02T15:04:05.000Z")
}

// Normal writes the one-line listing for a single item per spec §4.6.1,
// reading its payload from store (used when rendering from a metadata
// scan, e.g. `raw` and `session`).
func Normal(w io.Writer, md oatslog.Metadata, store *oatslog.Store) error {
	payload, err := payloadFor(md, store)
	if err != nil {
		return err
	}

	return writeLine(w, md.ID, md.Features, payload)
}

// NormalItem writes the one-line listing for an already fully-decoded
// Item (used by tail/pop/head, which have the payload bytes in hand and
// must not assume the store still has them, e.g. right after a pop).
func NormalItem(w io.Writer, item oatslog.Item) error {
	return writeLine(w, item.ID, item.Features, item.Payload)
}

// payloadFor fetches the payload bytes a metadata-only rendering needs.
// Void items never read: their payload was already discarded on disk.
func payloadFor(md oatslog.Metadata, store *oatslog.Store) ([]byte, error) {
	if md.Features.Kind() == oatslog.KindVoid {
		return nil, nil
	}

	return store.ReadPayload(md)
}

func writeLine(w io.Writer, id uint64, feat oatslog.Features, payload []byte) error {
	prefix := buildPrefix(id, feat)

	pad := prefixWidth - len(prefix)
	if pad < 1 {
		pad = 1 // always at least one separator space, even past the worst case
	}

	if _, err := fmt.Fprint(w, prefix); err != nil {
		return fmt.Errorf("write normal listing: %w", err)
	}

	for range pad {
		if _, err := io.WriteString(w, " "); err != nil {
			return fmt.Errorf("write normal listing: %w", err)
		}
	}

	if _, err := io.WriteString(w, buildBody(feat, payload)); err != nil {
		return fmt.Errorf("write normal listing: %w", err)
	}

	return nil
}

func buildPrefix(id uint64, feat oatslog.Features) string {
	prefix := fmt.Sprintf("id: %d", id)

	if feat.HasTimestamp() {
		prefix += fmt.Sprintf(", date: %s", formatTimestamp(feat.Timestamp))
	}

	if feat.HasSessionID() {
		prefix += fmt.Sprintf(", sess_id: %d", feat.SessionID)
	}

	switch feat.Kind() {
	case oatslog.KindImage:
		prefix += ", kind: image"
	case oatslog.KindFile:
		prefix += ", kind: file"
	case oatslog.KindVideo:
		prefix += ", kind: video"
	}

	if feat.HasVideoKind() {
		prefix += fmt.Sprintf(", video_kind: %s", feat.VideoKind)
	}

	if feat.IsMobile() {
		prefix += ", on: mobile"
	}

	return prefix
}

// bodyTrimLen is how much of a void item's former image filename is shown
// before truncation.
const bodyTrimLen = 40

func buildBody(feat oatslog.Features, payload []byte) string {
	switch feat.Kind() {
	case oatslog.KindVoid:
		if len(feat.ImageFilename) > 0 {
			return fmt.Sprintf(" ... %s: trimmed image data", trimForDisplay(feat.ImageFilename))
		}

		return " ? trimmed oats item"

	case oatslog.KindImage:
		return fmt.Sprintf("# %s: %s", string(feat.ImageFilename), binarySummary(payload))

	case oatslog.KindVideo:
		if len(feat.Filename) > 0 {
			return fmt.Sprintf("# %s: %s", string(feat.Filename), binarySummary(payload))
		}

		return fmt.Sprintf("# %s", binarySummary(payload))

	case oatslog.KindFile:
		return fmt.Sprintf("# %s: %s", string(feat.Filename), binarySummary(payload))

	default: // KindText
		return fmt.Sprintf("| %s", string(payload))
	}
}

func trimForDisplay(b []byte) string {
	if len(b) > bodyTrimLen {
		return string(b[:bodyTrimLen])
	}

	return string(b)
}

// binarySummary stands in for binary payload bytes that aren't
// meaningfully printable as text: the byte count, since the actual bytes
// are image/video/file data.
func binarySummary(payload []byte) string {
	return fmt.Sprintf("<%d bytes>", len(payload))
}
