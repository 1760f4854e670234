package scan_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/ostafen/seginfo/internal/sample"
	"github.com/ostafen/seginfo/internal/scan"
	"github.com/stretchr/testify/require"
)

func TestRawSourceGeometry(t *testing.T) {
	base := scan.Layout{Format: sample.Int16, SamplesPerTrace: 4, DataOffset: 10, TraceHeaderSize: 6}
	// 10 + 2 traces * (6 + 8)
	const size = 38

	src, err := scan.NewRawSource(bytes.NewReader(make([]byte, size)), size, base)
	require.NoError(t, err)
	require.Equal(t, 2, src.Traces())
	require.Equal(t, 2, src.SampleBytes())

	_, err = scan.NewRawSource(bytes.NewReader(make([]byte, size+1)), size+1, base)
	require.ErrorIs(t, err, scan.ErrGeometry)

	l := base
	l.DataOffset = size + 1
	_, err = scan.NewRawSource(bytes.NewReader(nil), size, l)
	require.ErrorIs(t, err, scan.ErrGeometry)

	l = base
	l.CountOffset = 4
	_, err = scan.NewRawSource(bytes.NewReader(nil), size, l)
	require.ErrorIs(t, err, scan.ErrGeometry)

	l = base
	l.SampleBytes = 4
	_, err = scan.NewRawSource(bytes.NewReader(nil), size, l)
	require.ErrorIs(t, err, scan.ErrGeometry)

	l = scan.Layout{Format: sample.Int8}
	_, err = scan.NewRawSource(bytes.NewReader(nil), 0, l)
	require.ErrorIs(t, err, scan.ErrGeometry)

	l = base
	l.Format = sample.NotInUse1
	_, err = scan.NewRawSource(bytes.NewReader(nil), size, l)
	require.ErrorIs(t, err, sample.ErrUnsupportedFormat)
}

func TestRawSourceReads(t *testing.T) {
	layout := scan.Layout{
		Format:          sample.Int16,
		SamplesPerTrace: 2,
		DataOffset:      4,
		TraceHeaderSize: 4,
		CountOffset:     0,
	}
	data := buildDump(t, layout, [][]sample.NativeSample{int16Samples(1, 2), int16Samples(3, 4)}, []int32{2, 9})

	src, err := scan.NewRawSource(bytes.NewReader(data), int64(len(data)), layout)
	require.NoError(t, err)

	c, err := src.SampleCount(1)
	require.NoError(t, err)
	require.Equal(t, 9, c)

	raw, err := src.ReadSamples(1, nil)
	require.NoError(t, err)

	samples, err := sample.DecodeNative(sample.Int16, raw, nil)
	require.NoError(t, err)
	require.Equal(t, int16Samples(3, 4), samples)

	_, err = src.ReadSamples(2, raw)
	require.Error(t, err)
	_, err = src.SampleCount(-1)
	require.Error(t, err)
}

func TestOpenPlainMappedAndCompressed(t *testing.T) {
	dir := t.TempDir()
	payload := bytes.Repeat([]byte{0xAB, 0xCD}, 512)

	plain := filepath.Join(dir, "dump.bin")
	require.NoError(t, os.WriteFile(plain, payload, 0644))

	var compressed bytes.Buffer
	enc, err := zstd.NewWriter(&compressed)
	require.NoError(t, err)
	_, err = enc.Write(payload)
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	zst := filepath.Join(dir, "dump.bin.zst")
	require.NoError(t, os.WriteFile(zst, compressed.Bytes(), 0644))

	cases := []struct {
		path       string
		opts       scan.OpenOptions
		compressed bool
	}{
		{plain, scan.OpenOptions{}, false},
		{plain, scan.OpenOptions{Mmap: true}, false},
		{zst, scan.OpenOptions{}, true},
		{zst, scan.OpenOptions{Mmap: true}, true},
	}

	for _, c := range cases {
		in, err := scan.Open(c.path, c.opts, nil)
		require.NoError(t, err)
		require.Equal(t, int64(len(payload)), in.Size)
		require.Equal(t, c.compressed, in.Compressed)

		buf := make([]byte, 4)
		_, err = in.ReadAt(buf, 100)
		require.NoError(t, err)
		require.Equal(t, payload[100:104], buf)

		require.NoError(t, in.Close())
	}

	_, err = scan.Open(filepath.Join(dir, "missing"), scan.OpenOptions{}, nil)
	require.Error(t, err)
}

func TestOpenMmapFallsBackOnEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	in, err := scan.Open(path, scan.OpenOptions{Mmap: true}, nil)
	require.NoError(t, err)
	defer in.Close()

	require.False(t, in.Mapped)
	require.Zero(t, in.Size)
}
