package oatsfs_test

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kalscium/oats/pkg/oatsfs"
)

func Test_MemFS_RoundTrips_Bytes_When_Written_Then_Read(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()

	f, err := fs.OpenFile("a.bin", os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := fs.Open("a.bin")
	require.NoError(t, err)
	defer r.Close()

	buf, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(buf))
}

func Test_MemFS_Open_Returns_NotExist_When_File_Absent(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()

	_, err := fs.Open("missing.bin")
	require.True(t, os.IsNotExist(err))
}

func Test_MemFS_OpenFile_Returns_Exist_When_OExclOnExistingFile(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()

	_, err := fs.OpenFile("a.bin", os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	_, err = fs.OpenFile("a.bin", os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	require.True(t, os.IsExist(err))
}

func Test_MemFS_Rename_MovesContentsToNewPath(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()

	f, err := fs.OpenFile("old.bin", os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, fs.Rename("old.bin", "new.bin"))

	_, err = fs.Open("old.bin")
	require.True(t, os.IsNotExist(err))

	r, err := fs.Open("new.bin")
	require.NoError(t, err)

	buf, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "payload", string(buf))
}

func Test_MemFS_Truncate_ShortensStoredBytes(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()

	f, err := fs.OpenFile("a.bin", os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	_, err = f.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, fs.Truncate("a.bin", 4))

	info, err := fs.Stat("a.bin")
	require.NoError(t, err)
	require.Equal(t, int64(4), info.Size())
}

func Test_StreamToTemp_RemovesTempFile_When_BuildFails(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()

	buildErr := oatsfs.StreamToTemp(fs, "tmp.bin", 0o644, func(oatsfs.File) error {
		return io.ErrUnexpectedEOF
	})
	require.Error(t, buildErr)

	_, statErr := fs.Stat("tmp.bin")
	require.True(t, os.IsNotExist(statErr))
}

func Test_Replace_MovesTempToFinalPath(t *testing.T) {
	t.Parallel()

	fs := oatsfs.NewMemFS()

	err := oatsfs.StreamToTemp(fs, "tmp.bin", 0o644, func(f oatsfs.File) error {
		_, writeErr := f.Write([]byte("new contents"))
		return writeErr
	})
	require.NoError(t, err)

	require.NoError(t, oatsfs.Replace(fs, "tmp.bin", "final.bin"))

	r, err := fs.Open("final.bin")
	require.NoError(t, err)

	buf, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "new contents", string(buf))

	_, statErr := fs.Stat("tmp.bin")
	require.True(t, os.IsNotExist(statErr))
}
