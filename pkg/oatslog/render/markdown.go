package render

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kalscium/oats/pkg/oatslog"
)

// group is one session's (or synthetic run's) items in scan order.
//
// key is the session id for a real session, or the id of the group's
// first item for a synthetic run; both are signed 64-bit quantities
// (spec.md:39 declares session_id explicitly signed, with no
// non-negativity constraint), so the key itself stays signed rather than
// wrapping to uint64 and silently reordering negative session ids.
type group struct {
	key   int64
	items []oatslog.Metadata
}

// Markdown writes the grouped Markdown export described in spec §4.6.2.
// tzOffsetMinutes shifts every timestamp before it's rendered; mediaRoot,
// if non-empty, is the directory under which file/image/video payloads
// are written to disk (otherwise those items' bodies are silently
// skipped, per spec §9's "fallible operations" translation note).
func Markdown(w io.Writer, store *oatslog.Store, tzOffsetMinutes int, mediaRoot string) error {
	return writeMarkdown(w, store, tzOffsetMinutes, mediaRoot)
}

func writeMarkdown(w io.Writer, store *oatslog.Store, tzOffsetMinutes int, mediaRoot string) error {
	all, err := store.CollectAllMetadata()
	if err != nil {
		return err
	}

	groups := groupItems(all)

	keys := make([]int64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for _, key := range keys {
		if err := renderGroup(bw, store, groups[key], tzOffsetMinutes, mediaRoot); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// groupItems implements spec §4.6.2 step 2: items with a session_id join
// that session's list; items without one join the immediately preceding
// sessionless item's synthetic group, or start a new one keyed by their
// own id.
func groupItems(all []oatslog.Metadata) map[int64]*group {
	groups := make(map[int64]*group)

	var (
		havePrevSynthetic bool
		prevSyntheticKey  int64
	)

	for _, md := range all {
		var key int64

		if md.Features.HasSessionID() {
			key = md.Features.SessionID
			havePrevSynthetic = false
		} else if havePrevSynthetic {
			key = prevSyntheticKey
		} else {
			key = int64(md.ID) //nolint:gosec // item ids are assigned from int64 timestamps/counters in practice
			prevSyntheticKey = key
			havePrevSynthetic = true
		}

		g, ok := groups[key]
		if !ok {
			g = &group{key: key}
			groups[key] = g
		}

		g.items = append(g.items, md)
	}

	return groups
}

// shiftedTime applies the tz_offset-minutes shift, plus the spec's
// preserved (and flagged-approximate, spec §9) extra -60 minute DST
// correction for timestamps in or after April.
func shiftedTime(ms int64, tzOffsetMinutes int) time.Time {
	t := time.UnixMilli(ms).UTC()

	offset := tzOffsetMinutes
	if t.Month() >= time.April {
		offset -= 60
	}

	return t.Add(time.Duration(offset) * time.Minute)
}

func ordinalSuffix(day int) string {
	if day >= 11 && day <= 13 {
		return "th"
	}

	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func dayHeader(t time.Time) string {
	return fmt.Sprintf("## %s, %d%s of %s %d `%s`",
		t.Weekday(), t.Day(), ordinalSuffix(t.Day()), t.Month(), t.Year(), t.Format("03:04 PM"))
}

func timeHeader(t time.Time, level string) string {
	return fmt.Sprintf("%s `%s`", level, t.Format("03:04 PM"))
}

const minutesBetweenHeaders = 8

// renderGroup streams one session or synthetic group's Markdown body,
// emitting date/time headers and coalescing runs of the same body kind.
func renderGroup(w io.Writer, store *oatslog.Store, g *group, tzOffsetMinutes int, mediaRoot string) error {
	var (
		prevTime    time.Time
		havePrev    bool
		firstInGrp  = true
		voidRun     int
		imageRun    []oatslog.Metadata
		videoRun    []oatslog.Metadata
	)

	flushVoidRun := func() error {
		if voidRun == 0 {
			return nil
		}

		plural := ""
		if voidRun != 1 {
			plural = "s"
		}

		if _, err := fmt.Fprintf(w, "*%d Trimmed Item%s*\n\n", voidRun, plural); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}

		voidRun = 0

		return nil
	}

	flushImageRun := func() error {
		if len(imageRun) == 0 {
			return nil
		}

		if err := writeMediaDetails(w, store, imageRun, mediaRoot, mediaKindImage); err != nil {
			return err
		}

		imageRun = nil

		return nil
	}

	flushVideoRun := func() error {
		if len(videoRun) == 0 {
			return nil
		}

		if err := writeMediaDetails(w, store, videoRun, mediaRoot, mediaKindVideo); err != nil {
			return err
		}

		videoRun = nil

		return nil
	}

	flushRuns := func() error {
		if err := flushVoidRun(); err != nil {
			return err
		}

		if err := flushImageRun(); err != nil {
			return err
		}

		return flushVideoRun()
	}

	for _, md := range g.items {
		feat := md.Features

		var t time.Time

		if feat.HasTimestamp() {
			t = shiftedTime(feat.Timestamp, tzOffsetMinutes)
		}

		header := ""

		switch {
		case !havePrev || !feat.HasTimestamp() || !sameCalendarDay(prevTime, t):
			header = dayHeader(t)
		case firstInGrp || t.Sub(prevTime) > minutesBetweenHeaders*time.Minute:
			level := "##"
			if !firstInGrp {
				level = "###"
			}

			header = timeHeader(t, level)
		}

		if header != "" {
			if feat.IsMobile() {
				header += " *(on mobile)*"
			}

			if err := flushRuns(); err != nil {
				return err
			}

			if _, err := fmt.Fprintf(w, "%s\n\n", header); err != nil {
				return fmt.Errorf("write markdown: %w", err)
			}
		}

		if feat.HasTimestamp() {
			prevTime = t
			havePrev = true
		}

		firstInGrp = false

		switch feat.Kind() {
		case oatslog.KindVoid:
			if err := flushImageRun(); err != nil {
				return err
			}

			if err := flushVideoRun(); err != nil {
				return err
			}

			voidRun++

		case oatslog.KindImage:
			if err := flushVoidRun(); err != nil {
				return err
			}

			if err := flushVideoRun(); err != nil {
				return err
			}

			imageRun = append(imageRun, md)

		case oatslog.KindVideo:
			if err := flushVoidRun(); err != nil {
				return err
			}

			if err := flushImageRun(); err != nil {
				return err
			}

			videoRun = append(videoRun, md)

		case oatslog.KindFile:
			if err := flushRuns(); err != nil {
				return err
			}

			if err := writeFileLink(w, store, md, mediaRoot); err != nil {
				return err
			}

		default: // text
			if err := flushRuns(); err != nil {
				return err
			}

			payload, err := store.ReadPayload(md)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintf(w, "- %s\n\n", string(payload)); err != nil {
				return fmt.Errorf("write markdown: %w", err)
			}
		}
	}

	return flushRuns()
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}

// mediaDir returns media_root/<session_id or timestamp or 0>, per spec
// §4.6.2 step 5's File bullet (the same directory rule is reused for
// image/video runs).
func mediaDir(mediaRoot string, md oatslog.Metadata) string {
	var key int64

	switch {
	case md.Features.HasSessionID():
		key = md.Features.SessionID
	case md.Features.HasTimestamp():
		key = md.Features.Timestamp
	default:
		key = 0
	}

	return filepath.Join(mediaRoot, fmt.Sprintf("%d", key))
}

func writeFileLink(w io.Writer, store *oatslog.Store, md oatslog.Metadata, mediaRoot string) error {
	if mediaRoot == "" {
		return nil
	}

	payload, err := store.ReadPayload(md)
	if err != nil {
		return err
	}

	dir := mediaDir(mediaRoot, md)

	filename := string(md.Features.Filename)
	if filename == "" {
		filename = fmt.Sprintf("%d.bin", md.ID)
	}

	path, err := writeMediaFile(dir, filename, payload)
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(mediaRoot, path)
	if err != nil {
		rel = path
	}

	if _, err := fmt.Fprintf(w, "[%s](%s)\n\n", filename, filepath.ToSlash(rel)); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	return nil
}

type mediaKind int

const (
	mediaKindImage mediaKind = iota
	mediaKindVideo
)

// writeMediaDetails emits one <details> block containing an <img> or
// <video> tag per item in run, per spec §4.6.2 step 5's image/video run
// handling.
func writeMediaDetails(w io.Writer, store *oatslog.Store, run []oatslog.Metadata, mediaRoot string, kind mediaKind) error {
	if mediaRoot == "" {
		return nil
	}

	if _, err := fmt.Fprint(w, "<details>\n\n"); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	for _, md := range run {
		payload, err := store.ReadPayload(md)
		if err != nil {
			return err
		}

		dir := mediaDir(mediaRoot, md)

		filename := string(md.Features.ImageFilename)
		if kind == mediaKindVideo {
			filename = string(md.Features.Filename)
		}

		if filename == "" {
			filename = fmt.Sprintf("%d.bin", md.ID)
		}

		path, err := writeMediaFile(dir, filename, payload)
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(mediaRoot, path)
		if err != nil {
			rel = path
		}

		rel = filepath.ToSlash(rel)

		if kind == mediaKindImage {
			if _, err := fmt.Fprintf(w, "<img src=\"%s\">\n\n", rel); err != nil {
				return fmt.Errorf("write markdown: %w", err)
			}

			continue
		}

		if _, err := fmt.Fprintf(w, "<video controls><source src=\"%s\" type=\"video/%s\"></video>\n\n", rel, md.Features.VideoKind); err != nil {
			return fmt.Errorf("write markdown: %w", err)
		}
	}

	if _, err := fmt.Fprint(w, "</details>\n\n"); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	return nil
}

func writeMediaFile(dir, filename string, payload []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media directory %q: %w", dir, err)
	}

	path := filepath.Join(dir, filename)

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write media file %q: %w", path, err)
	}

	return path, nil
}
