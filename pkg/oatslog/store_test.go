package oatslog_test

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
)

func openFresh(t *testing.T) (*oatslog.Store, oatsfs.FS, string) {
	t.Helper()

	fs := oatsfs.NewMemFS()
	path := filepath.Join("store", "log.oats")

	require.NoError(t, oatslog.Initialize(fs, path))

	s, err := oatslog.Open(fs, path)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	return s, fs, path
}

// Test_Store_Scenario1_HeaderAndFrame_MatchLiteralLayout is spec §8
// scenario 1: wipe then push a single text item, and check the exact
// header size and stack pointer arithmetic.
func Test_Store_Scenario1_HeaderAndFrame_MatchLiteralLayout(t *testing.T) {
	t.Parallel()

	s, _, _ := openFresh(t)

	require.NoError(t, s.PushText(1000, 1000, 0, false, false, []byte("hello")))

	// 13-byte header, then length(4) + item(8 id + 1 bitfield + 8 ts + 5 "hello" = 22) + length(4).
	require.Equal(t, int64(13+4+22+4), s.StackPointer())
}

func Test_Store_Tail_ReturnsTopmostItem_WithoutMutatingFile(t *testing.T) {
	t.Parallel()

	s, _, _ := openFresh(t)
	require.NoError(t, s.PushText(1000, 1000, 0, false, false, []byte("hello")))

	before := s.StackPointer()

	items, err := s.Tail(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, uint64(1000), items[0].ID)
	require.Equal(t, "hello", string(items[0].Payload))
	require.Equal(t, before, s.StackPointer())
}

// Test_Store_PushPop_RestoresStackPointer is property P3.
func Test_Store_PushPop_RestoresStackPointer(t *testing.T) {
	t.Parallel()

	s, _, _ := openFresh(t)

	before := s.StackPointer()

	require.NoError(t, s.PushText(1000, 1000, 0, false, false, []byte("hello")))

	items, err := s.Pop(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "hello", string(items[0].Payload))
	require.Equal(t, before, s.StackPointer())
}

func Test_Store_Pop_ReturnsEmptyStack_When_NoItems(t *testing.T) {
	t.Parallel()

	s, _, _ := openFresh(t)

	_, err := s.Pop(1)
	require.ErrorIs(t, err, oatslog.ErrEmptyStack)
}

func Test_Store_Tail_ReturnsEmptyStack_When_NoItems(t *testing.T) {
	t.Parallel()

	s, _, _ := openFresh(t)

	_, err := s.Tail(1)
	require.ErrorIs(t, err, oatslog.ErrEmptyStack)
}

func Test_Store_Head_ReturnsOldestFirst(t *testing.T) {
	t.Parallel()

	s, _, _ := openFresh(t)

	require.NoError(t, s.PushText(1, 100, 0, false, false, []byte("first")))
	require.NoError(t, s.PushText(2, 200, 0, false, false, []byte("second")))

	items, err := s.Head(2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, uint64(1), items[0].ID)
	require.Equal(t, uint64(2), items[1].ID)
}

func Test_Store_ZeroLengthPayload_RoundTrips_ForNonVoidKind(t *testing.T) {
	t.Parallel()

	s, _, _ := openFresh(t)

	require.NoError(t, s.PushText(1, 0, 0, false, false, []byte{}))

	items, err := s.Tail(1)
	require.NoError(t, err)
	require.Equal(t, []byte{}, items[0].Payload)
}

func Test_Store_ZeroLengthFilename_RoundTrips_AsEmptyNotAbsent(t *testing.T) {
	t.Parallel()

	s, _, _ := openFresh(t)

	require.NoError(t, s.PushFile(1, 0, 0, false, false, "", []byte("data")))

	all, err := s.CollectAllMetadata()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.True(t, all[0].Features.IsFile())
	require.Equal(t, []byte{}, all[0].Features.Filename)
}

// Test_Store_Open_RecoversToLastCompleteFrame_AfterSimulatedCrash is
// property P7. The stack-pointer field is always the last write of an
// append (spec §5), so a crash partway through writing a new frame's
// bytes leaves the header still pointing at the end of the previous,
// complete frame: reopening must see only the items pushed before the
// crash, not a half-written one.
func Test_Store_Open_RecoversToLastCompleteFrame_AfterSimulatedCrash(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	path := "crash.oats"
	require.NoError(t, oatslog.Initialize(fs, path))

	s, err := oatslog.Open(fs, path)
	require.NoError(t, err)

	require.NoError(t, s.PushText(1, 0, 0, false, false, []byte("first")))
	ptrBeforeCrash := s.StackPointer()

	require.NoError(t, s.PushText(2, 0, 0, false, false, []byte("second, never fully committed")))
	ptrAfterCrash := s.StackPointer()
	require.NoError(t, s.Close())

	// Roll the header's stack pointer back to its pre-push value, as if
	// the crash happened before that write landed...
	raw, err := fs.OpenFile(path, os.O_RDWR, 0o644)
	require.NoError(t, err)

	var oldPtr [8]byte
	binary.BigEndian.PutUint64(oldPtr[:], uint64(ptrBeforeCrash))
	_, err = raw.Seek(5, io.SeekStart)
	require.NoError(t, err)
	_, err = raw.Write(oldPtr[:])
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	// ...and truncate partway into the second item's frame, as if only
	// part of its bytes had reached disk before the crash.
	partial := ptrBeforeCrash + (ptrAfterCrash-ptrBeforeCrash)/2
	require.NoError(t, fs.Truncate(path, partial))

	reopened, err := oatslog.Open(fs, path)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, ptrBeforeCrash, reopened.StackPointer())

	all, err := reopened.CollectAllMetadata()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, uint64(1), all[0].ID)
}

func Test_Store_Open_ReturnsNotFound_When_FileAbsent(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()

	_, err := oatslog.Open(fs, "missing.oats")
	require.ErrorIs(t, err, oatslog.ErrNotFound)
}

func Test_Store_SniffVideoKind_RecognizesEachContainer(t *testing.T) {
	t.Parallel()

	mp4 := append([]byte{0, 0, 0, 0}, []byte("ftypisom")...)
	ogg := append([]byte("OggS"), make([]byte, 4)...)
	webm := []byte{0x1A, 0x45, 0xDF, 0xA3, 0, 0, 0, 0}

	kind, err := oatslog.SniffVideoKind(mp4)
	require.NoError(t, err)
	require.Equal(t, oatslog.VideoKindMP4, kind)

	kind, err = oatslog.SniffVideoKind(ogg)
	require.NoError(t, err)
	require.Equal(t, oatslog.VideoKindOGG, kind)

	kind, err = oatslog.SniffVideoKind(webm)
	require.NoError(t, err)
	require.Equal(t, oatslog.VideoKindWebM, kind)
}

func Test_Store_SniffVideoKind_ReturnsUnknown_When_NoMagicMatches(t *testing.T) {
	t.Parallel()

	_, err := oatslog.SniffVideoKind([]byte("not a video"))
	require.ErrorIs(t, err, oatslog.ErrUnknownVideoKind)
}
