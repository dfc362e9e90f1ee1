package cli_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kalscium/oats/internal/cli"
)

// run is a small helper that sandboxes the store under a fresh OATS_HOME
// and returns captured stdout/stderr plus the exit code.
func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	t.Setenv("OATS_HOME", t.TempDir())

	var outBuf, errBuf bytes.Buffer
	code = cli.Run(&outBuf, &errBuf, args)

	return outBuf.String(), errBuf.String(), code
}

func Test_Run_Wipe_Then_Push_Then_Tail_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OATS_HOME", dir)

	var out, errOut bytes.Buffer

	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"wipe"}))
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"push", "--id", "1000", "--no-timestamp", "hello"}))

	out.Reset()
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"tail", "1"}))
	require.Contains(t, out.String(), "id: 1000")
	require.Contains(t, out.String(), "| hello")
}

func Test_Run_Pop_RemovesTopmostItem(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OATS_HOME", dir)

	var out, errOut bytes.Buffer

	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"wipe"}))
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"push", "--id", "1", "--no-timestamp", "first"}))
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"push", "--id", "2", "--no-timestamp", "second"}))

	out.Reset()
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"pop", "1"}))
	require.Contains(t, out.String(), "id: 2")

	out.Reset()
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"count"}))
	require.Equal(t, "1\n", out.String())
}

func Test_Run_UnknownCommand_ReturnsNonZeroExitCode(t *testing.T) {
	stdout, stderr, code := run(t, "not-a-real-command")
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "unknown command")
}

func Test_Run_Help_PrintsUsageToStdout(t *testing.T) {
	stdout, _, code := run(t, "--help")
	require.Equal(t, 0, code)
	require.Contains(t, stdout, "oats - a personal append-only notes log")
}

func Test_Run_NoArgs_PrintsUsageToStderr_AndReturnsOne(t *testing.T) {
	_, stderr, code := run(t)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "Usage:")
}

func Test_Run_Markdown_RendersTextBullet_When_MediaDirGiven(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OATS_HOME", dir)

	mediaDir := filepath.Join(dir, "media")

	var out, errOut bytes.Buffer
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"wipe"}))
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"push", "--id", "1", "hello there"}))

	out.Reset()
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"markdown", "0", mediaDir}))
	require.Contains(t, out.String(), "- hello there")
}

func Test_Run_Import_MergesSecondStore_ByID(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OATS_HOME", dir)

	var out, errOut bytes.Buffer
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"wipe"}))
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"push", "--id", "1", "--no-timestamp", "original"}))

	// Re-point OATS_HOME so wipe/push build a second, independent store file.
	extDir := t.TempDir()
	t.Setenv("OATS_HOME", extDir)
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"wipe"}))
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"push", "--id", "2", "--no-timestamp", "from elsewhere"}))

	t.Setenv("OATS_HOME", dir)

	out.Reset()
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"import", filepath.Join(extDir, "log.oats")}))
	require.Contains(t, out.String(), "imported 1, skipped 0")
}

func Test_Run_Count_FiltersByAttribute(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OATS_HOME", dir)

	var out, errOut bytes.Buffer
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"wipe"}))
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"push", "--id", "1", "--mobile", "--no-timestamp", "a"}))
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"push", "--id", "2", "--no-timestamp", "b"}))

	out.Reset()
	require.Equal(t, 0, cli.Run(&out, &errOut, []string{"count", "mobile"}))
	require.Equal(t, "1\n", strings.TrimLeft(out.String(), "\n"))
}
