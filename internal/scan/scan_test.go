package scan_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/ostafen/seginfo/internal/sample"
	"github.com/ostafen/seginfo/internal/scan"
	"github.com/ostafen/seginfo/internal/stats"
	"github.com/stretchr/testify/require"
)

// buildDump lays out traces as a native dump. counts, when not nil, is
// written as a native int32 at layout.CountOffset of each trace header.
func buildDump(t *testing.T, layout scan.Layout, traces [][]sample.NativeSample, counts []int32) []byte {
	t.Helper()

	buf := make([]byte, layout.DataOffset)
	for i, tr := range traces {
		hdr := make([]byte, layout.TraceHeaderSize)
		if counts != nil {
			binary.NativeEndian.PutUint32(hdr[layout.CountOffset:], uint32(counts[i]))
		}
		buf = append(buf, hdr...)

		var err error
		buf, err = sample.EncodeNative(layout.Format, tr, buf)
		require.NoError(t, err)
	}
	return buf
}

func int16Samples(values ...int16) []sample.NativeSample {
	out := make([]sample.NativeSample, len(values))
	for i, v := range values {
		out[i] = sample.Int16Sample(v)
	}
	return out
}

func TestScanInt16Dump(t *testing.T) {
	layout := scan.Layout{
		Format:          sample.Int16,
		SamplesPerTrace: 2,
		DataOffset:      16,
		TraceHeaderSize: 8,
		CountOffset:     4,
	}
	traces := [][]sample.NativeSample{
		int16Samples(-5, 3),
		int16Samples(10, -999),
		int16Samples(0, 999),
	}
	data := buildDump(t, layout, traces, []int32{10, 3, 7})

	src, err := scan.NewRawSource(bytes.NewReader(data), int64(len(data)), layout)
	require.NoError(t, err)
	require.Equal(t, 3, src.Traces())

	res, err := scan.Scan(context.Background(), src, scan.Options{Workers: 1})
	require.NoError(t, err)

	s := res.Summary
	require.Equal(t, int32(-999), s.Min.Value.Int())
	require.Equal(t, 1, s.Min.Trace)
	require.Equal(t, int32(999), s.Max.Value.Int())
	require.Equal(t, 2, s.Max.Trace)
	require.Equal(t, 3, s.SampleCounts.Min)
	require.Equal(t, 10, s.SampleCounts.Max)
	require.False(t, res.HasDigest)
}

func TestParallelScanMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))

	layout := scan.Layout{
		Format:          sample.IEEEFloat32,
		SamplesPerTrace: 25,
		TraceHeaderSize: 12,
		CountOffset:     -1,
	}

	traces := make([][]sample.NativeSample, 97)
	for i := range traces {
		tr := make([]sample.NativeSample, layout.SamplesPerTrace)
		for j := range tr {
			tr[j] = sample.Float32Sample(float32(rng.IntN(50) - 25))
		}
		traces[i] = tr
	}
	data := buildDump(t, layout, traces, nil)

	src, err := scan.NewRawSource(bytes.NewReader(data), int64(len(data)), layout)
	require.NoError(t, err)

	want, err := scan.Scan(context.Background(), src, scan.Options{Digest: true})
	require.NoError(t, err)
	require.True(t, want.HasDigest)
	require.Equal(t, 97, want.Summary.Traces)

	for _, workers := range []int{2, 3, 8, 97, 200} {
		var (
			mu    sync.Mutex
			calls int
		)
		got, err := scan.Scan(context.Background(), src, scan.Options{
			Workers: workers,
			Digest:  true,
			Progress: func(done int) {
				mu.Lock()
				calls++
				mu.Unlock()
			},
		})
		require.NoError(t, err)
		require.Equal(t, want, got, "workers=%d", workers)
		require.Equal(t, 97, calls)
	}
}

func TestScanDigestDependsOnPayload(t *testing.T) {
	layout := scan.Layout{Format: sample.Int8, SamplesPerTrace: 1, CountOffset: -1}

	digest := func(v int8) uint64 {
		data := buildDump(t, layout, [][]sample.NativeSample{{sample.Int8Sample(v)}}, nil)
		src, err := scan.NewRawSource(bytes.NewReader(data), int64(len(data)), layout)
		require.NoError(t, err)

		res, err := scan.Scan(context.Background(), src, scan.Options{Digest: true})
		require.NoError(t, err)
		return res.Digest
	}
	require.Equal(t, digest(1), digest(1))
	require.NotEqual(t, digest(1), digest(2))
}

func TestScanNegativeCountAborts(t *testing.T) {
	layout := scan.Layout{
		Format:          sample.Int32,
		SamplesPerTrace: 1,
		TraceHeaderSize: 4,
		CountOffset:     0,
	}
	traces := [][]sample.NativeSample{
		{sample.Int32Sample(1)},
		{sample.Int32Sample(2)},
		{sample.Int32Sample(3)},
	}
	data := buildDump(t, layout, traces, []int32{1, -4, 1})

	src, err := scan.NewRawSource(bytes.NewReader(data), int64(len(data)), layout)
	require.NoError(t, err)

	for _, workers := range []int{1, 3} {
		res, err := scan.Scan(context.Background(), src, scan.Options{Workers: workers})
		require.ErrorIs(t, err, stats.ErrInvalidSampleCount)
		require.Equal(t, scan.Result{}, res)
	}
}

func TestScanUnsupportedFormat(t *testing.T) {
	layout := scan.Layout{
		Format:          sample.FixedPointGain32,
		SamplesPerTrace: 3,
		SampleBytes:     4,
		TraceHeaderSize: 4,
		CountOffset:     -1,
	}
	data := make([]byte, 2*(4+3*4))
	for i := range data {
		data[i] = byte(i)
	}

	src, err := scan.NewRawSource(bytes.NewReader(data), int64(len(data)), layout)
	require.NoError(t, err)

	res, err := scan.Scan(context.Background(), src, scan.Options{Workers: 2})
	require.NoError(t, err)
	require.False(t, res.Summary.Min.Found())
	require.False(t, res.Summary.Max.Found())
	require.Equal(t, 2, res.Summary.Traces)
	require.Equal(t, 3, res.Summary.SampleCounts.Max)
}

func TestScanEmptyDump(t *testing.T) {
	layout := scan.Layout{Format: sample.Int16, SamplesPerTrace: 4, DataOffset: 8, TraceHeaderSize: 8}
	data := make([]byte, 8)

	src, err := scan.NewRawSource(bytes.NewReader(data), int64(len(data)), layout)
	require.NoError(t, err)
	require.Zero(t, src.Traces())

	res, err := scan.Scan(context.Background(), src, scan.Options{Workers: 4})
	require.NoError(t, err)
	require.False(t, res.Summary.Min.Found())
	require.Zero(t, res.Summary.SampleCounts.Observed)
}

func TestScanCanceled(t *testing.T) {
	layout := scan.Layout{Format: sample.Int8, SamplesPerTrace: 1, CountOffset: -1}
	data := []byte{1, 2, 3}

	src, err := scan.NewRawSource(bytes.NewReader(data), int64(len(data)), layout)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = scan.Scan(ctx, src, scan.Options{})
	require.ErrorIs(t, err, context.Canceled)
}
