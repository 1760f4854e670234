package sample

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeNative interprets src as samples of format f laid out in host
// byte order and appends them to dst[:0]. No byte swapping or IBM
// conversion happens here: src must already be native.
func DecodeNative(f Format, src []byte, dst []NativeSample) ([]NativeSample, error) {
	c, err := lookup(f)
	if err != nil {
		return dst[:0], err
	}
	if len(src)%c.width != 0 {
		return dst[:0], fmt.Errorf("%w: %d bytes for %d-byte samples", ErrShortBuffer, len(src), c.width)
	}

	n := len(src) / c.width
	if cap(dst) < n {
		dst = make([]NativeSample, n)
	}
	dst = dst[:n]

	order := binary.NativeEndian
	switch c.kind {
	case KindFloat32:
		for i := range dst {
			dst[i] = Float32Sample(math.Float32frombits(order.Uint32(src[i*4:])))
		}
	case KindInt32:
		for i := range dst {
			dst[i] = Int32Sample(int32(order.Uint32(src[i*4:])))
		}
	case KindInt16:
		for i := range dst {
			dst[i] = Int16Sample(int16(order.Uint16(src[i*2:])))
		}
	case KindInt8:
		for i := range dst {
			dst[i] = Int8Sample(int8(src[i]))
		}
	}
	return dst, nil
}

// EncodeNative is the inverse of DecodeNative. It is used to build native
// trace dumps and test fixtures.
func EncodeNative(f Format, samples []NativeSample, dst []byte) ([]byte, error) {
	c, err := lookup(f)
	if err != nil {
		return dst, err
	}

	order := binary.NativeEndian
	for _, s := range samples {
		if s.kind != c.kind {
			return dst, fmt.Errorf("%w: %s sample for format %s", ErrKindMismatch, s.kind, f)
		}
		switch c.kind {
		case KindFloat32:
			dst = order.AppendUint32(dst, math.Float32bits(s.f))
		case KindInt32:
			dst = order.AppendUint32(dst, uint32(s.i))
		case KindInt16:
			dst = order.AppendUint16(dst, uint16(int16(s.i)))
		case KindInt8:
			dst = append(dst, byte(int8(s.i)))
		}
	}
	return dst, nil
}
