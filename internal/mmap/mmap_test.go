//go:build unix

package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMmapReadAt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.bin")
	data := []byte("0123456789ABCDEF")
	require.NoError(t, os.WriteFile(path, data, 0644))

	mf, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, len(data), mf.Len())

	buf := make([]byte, 4)
	n, err := mf.ReadAt(buf, 10)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, []byte("ABCD"), buf)

	n, err = mf.ReadAt(buf, 14)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 2, n)

	_, err = mf.ReadAt(buf, 16)
	require.ErrorIs(t, err, io.EOF)

	require.NoError(t, mf.Close())
	require.Nil(t, mf.Data)
	require.NoError(t, mf.Close())
}

func TestMmapEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := Open(path)
	require.Error(t, err)
}
