package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kalscium/oats/pkg/oatsfs"
	"github.com/kalscium/oats/pkg/oatslog"
	"github.com/kalscium/oats/pkg/oatslog/render"
)

func Test_Markdown_EmitsDayHeader_ForFirstItemOfEachCalendarDay(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	require.NoError(t, oatslog.Initialize(fs, "log.oats"))

	s, err := oatslog.Open(fs, "log.oats")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PushText(1, 1000, 0, false, false, []byte("hello")))

	var buf bytes.Buffer
	require.NoError(t, render.Markdown(&buf, s, 0, ""))

	out := buf.String()
	require.Contains(t, out, "## Thursday, 1st of January 1970")
	require.Contains(t, out, "- hello")
}

func Test_Markdown_GroupsSessionlessRun_UnderOneSyntheticGroup(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	require.NoError(t, oatslog.Initialize(fs, "log.oats"))

	s, err := oatslog.Open(fs, "log.oats")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PushText(1, 1000, 0, false, false, []byte("first")))
	require.NoError(t, s.PushText(2, 2000, 0, false, false, []byte("second")))

	var buf bytes.Buffer
	require.NoError(t, render.Markdown(&buf, s, 0, ""))

	out := buf.String()
	require.Contains(t, out, "- first")
	require.Contains(t, out, "- second")
	// Every group opens with a day header, so one group means one header.
	require.Equal(t, 1, strings.Count(out, "## Thursday"))
}

func Test_Markdown_OrdersGroupsBySignedSessionID_NotUnsignedCast(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	require.NoError(t, oatslog.Initialize(fs, "log.oats"))

	s, err := oatslog.Open(fs, "log.oats")
	require.NoError(t, err)
	defer s.Close()

	// Session -1 must render before session 5: numeric ascending order,
	// not unsigned-cast order (where -1 would become the largest
	// possible uint64 and sort dead last).
	require.NoError(t, s.PushText(1, 1000, 5, true, false, []byte("from positive session")))
	require.NoError(t, s.PushText(2, 1000, -1, true, false, []byte("from negative session")))

	var buf bytes.Buffer
	require.NoError(t, render.Markdown(&buf, s, 0, ""))

	out := buf.String()
	negIdx := strings.Index(out, "from negative session")
	posIdx := strings.Index(out, "from positive session")
	require.NotEqual(t, -1, negIdx)
	require.NotEqual(t, -1, posIdx)
	require.Less(t, negIdx, posIdx)
}

func Test_Markdown_CoalescesConsecutiveVoidItems_IntoOneTrimmedCount(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	require.NoError(t, oatslog.Initialize(fs, "log.oats"))

	s, err := oatslog.Open(fs, "log.oats")
	require.NoError(t, err)
	require.NoError(t, s.PushText(1, 1000, 0, false, false, []byte("a")))
	require.NoError(t, s.PushText(2, 1000, 0, false, false, []byte("b")))
	require.NoError(t, s.Close())

	_, err = oatslog.Trim(fs, "log.oats", "trimmed.oats", []string{oatslog.AttrEverything})
	require.NoError(t, err)

	out, err := oatslog.Open(fs, "trimmed.oats")
	require.NoError(t, err)
	defer out.Close()

	var buf bytes.Buffer
	require.NoError(t, render.Markdown(&buf, out, 0, ""))
	require.Contains(t, buf.String(), "*2 Trimmed Items*")
}

func Test_Markdown_WritesImageRunToMediaRoot_AsDetailsBlock(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	require.NoError(t, oatslog.Initialize(fs, "log.oats"))

	s, err := oatslog.Open(fs, "log.oats")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PushImage(1, 1000, 0, false, false, "a.png", []byte("PNGDATA")))

	mediaRoot := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, render.Markdown(&buf, s, 0, mediaRoot))

	out := buf.String()
	require.Contains(t, out, "<details>")
	require.Contains(t, out, "<img src=")
	require.Contains(t, out, "</details>")

	written, err := os.ReadFile(filepath.Join(mediaRoot, "1000", "a.png"))
	require.NoError(t, err)
	require.Equal(t, "PNGDATA", string(written))
}

func Test_Markdown_WritesFileLink_WithRelativePath(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	require.NoError(t, oatslog.Initialize(fs, "log.oats"))

	s, err := oatslog.Open(fs, "log.oats")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PushFile(1, 1000, 0, false, false, "notes.txt", []byte("contents")))

	mediaRoot := t.TempDir()

	var buf bytes.Buffer
	require.NoError(t, render.Markdown(&buf, s, 0, mediaRoot))
	require.Contains(t, buf.String(), "[notes.txt](1000/notes.txt)")
}

func Test_Markdown_SkipsMediaWriting_When_MediaRootEmpty(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()
	require.NoError(t, oatslog.Initialize(fs, "log.oats"))

	s, err := oatslog.Open(fs, "log.oats")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.PushImage(1, 1000, 0, false, false, "a.png", []byte("PNGDATA")))

	var buf bytes.Buffer
	require.NoError(t, render.Markdown(&buf, s, 0, ""))
	require.NotContains(t, buf.String(), "<img")
}
