package oatslog

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/kalscium/oats/pkg/oatsfs"
)

// Test_PushFrame_PopFrame_RoundTrips_Symmetrically is property P2: a frame
// written by pushFrame and immediately popped by popFrame yields back the
// same body bytes and restores the stack pointer that preceded the push.
func Test_PushFrame_PopFrame_RoundTrips_Symmetrically(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	h, err := fs.OpenFile("x.bin", os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	body := []byte("arbitrary item bytes")

	newPtr, err := pushFrame(h, stackStartOff, body)
	require.NoError(t, err)
	require.Equal(t, int64(stackStartOff+frameOverhead+len(body)), newPtr)

	got, restoredPtr, err := popFrame(h, newPtr, stackStartOff)
	require.NoError(t, err)
	require.Equal(t, int64(stackStartOff), restoredPtr)

	if diff := cmp.Diff(body, got); diff != "" {
		t.Fatalf("popped body mismatch (-want +got):\n%s", diff)
	}
}

func Test_PopFrame_ReturnsEmptyStack_When_AtStackStart(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	h, err := fs.OpenFile("x.bin", os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	_, _, err = popFrame(h, stackStartOff, stackStartOff)
	require.ErrorIs(t, err, ErrEmptyStack)
}

// Test_EncodeItem_DecodeItem_RoundTrips_AllOptionalFields is property P1.
func Test_EncodeItem_DecodeItem_RoundTrips_AllOptionalFields(t *testing.T) {
	t.Parallel()

	feat := Features{
		Timestamp: 1234567890,
		SessionID: -42,
		Filename:  []byte("clip.mp4"),
		VideoKind: VideoKindMP4,
	}
	feat.bits = 1<<bitHasTimestamp | 1<<bitHasSessionID | 1<<bitIsFile | 1<<bitHasVideoKind

	payload := []byte("binary video bytes")

	buf, err := encodeItem(77, feat, payload)
	require.NoError(t, err)

	item, err := decodeItem(buf)
	require.NoError(t, err)

	require.Equal(t, uint64(77), item.ID)
	require.Equal(t, payload, item.Payload)
	require.True(t, item.Features.HasTimestamp())
	require.Equal(t, int64(1234567890), item.Features.Timestamp)
	require.True(t, item.Features.HasSessionID())
	require.Equal(t, int64(-42), item.Features.SessionID)
	require.True(t, item.Features.IsFile())
	require.Equal(t, "clip.mp4", string(item.Features.Filename))
	require.True(t, item.Features.HasVideoKind())
	require.Equal(t, VideoKindMP4, item.Features.VideoKind)
}

func Test_EncodeItem_RejectsFilenameLongerThanU16(t *testing.T) {
	t.Parallel()

	feat := Features{Filename: make([]byte, maxFilenameLen+1)}
	feat.bits = 1 << bitIsFile

	_, err := encodeItem(1, feat, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func Test_DecodeMetadata_ReturnsCorruption_When_BufferShorterThanOverhead(t *testing.T) {
	t.Parallel()

	_, err := decodeMetadata([]byte{1, 2, 3}, 0)
	require.ErrorIs(t, err, ErrCorruption)
}

// Test_DecodeItem_IgnoresReservedExtendedBit is property P8: bit 0 is
// reserved for future extension and must not affect decoding of the known
// fields.
func Test_DecodeItem_IgnoresReservedExtendedBit(t *testing.T) {
	t.Parallel()

	feat := Features{Timestamp: 5}
	feat.bits = 1<<bitHasTimestamp | 1<<bitExtended

	buf, err := encodeItem(1, feat, []byte("payload"))
	require.NoError(t, err)

	item, err := decodeItem(buf)
	require.NoError(t, err)
	require.Equal(t, int64(5), item.Features.Timestamp)
	require.Equal(t, []byte("payload"), item.Payload)
}
