package sample_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ostafen/seginfo/internal/sample"
	"github.com/stretchr/testify/require"
)

func TestDecodeNative(t *testing.T) {
	cases := map[sample.Format][]sample.NativeSample{
		sample.IEEEFloat32: {sample.Float32Sample(1.5), sample.Float32Sample(-2.25), sample.Float32Sample(0)},
		sample.IBMFloat32:  {sample.Float32Sample(3.75)},
		sample.Int32:       {sample.Int32Sample(math.MinInt32), sample.Int32Sample(7)},
		sample.Int16:       {sample.Int16Sample(-5), sample.Int16Sample(3), sample.Int16Sample(math.MaxInt16)},
		sample.Int8:        {sample.Int8Sample(-128), sample.Int8Sample(127), sample.Int8Sample(0)},
	}

	var scratch []sample.NativeSample
	for f, samples := range cases {
		raw, err := sample.EncodeNative(f, samples, nil)
		require.NoError(t, err)

		width, _ := sample.WidthOf(f)
		require.Len(t, raw, width*len(samples))

		scratch, err = sample.DecodeNative(f, raw, scratch)
		require.NoError(t, err)
		require.Equal(t, samples, scratch)
	}
}

func TestDecodeNativeUsesHostByteOrder(t *testing.T) {
	raw := binary.NativeEndian.AppendUint16(nil, uint16(0xFFFE)) // -2

	out, err := sample.DecodeNative(sample.Int16, raw, nil)
	require.NoError(t, err)
	require.Equal(t, []sample.NativeSample{sample.Int16Sample(-2)}, out)
}

func TestDecodeNativeErrors(t *testing.T) {
	_, err := sample.DecodeNative(sample.Int32, make([]byte, 6), nil)
	require.ErrorIs(t, err, sample.ErrShortBuffer)

	_, err = sample.DecodeNative(sample.FixedPointGain32, make([]byte, 8), nil)
	require.ErrorIs(t, err, sample.ErrUnsupportedFormat)

	_, err = sample.EncodeNative(sample.Int32, []sample.NativeSample{sample.Int8Sample(1)}, nil)
	require.ErrorIs(t, err, sample.ErrKindMismatch)
}
