// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package scan

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ostafen/seginfo/internal/sample"
)

var ErrGeometry = errors.New("invalid trace geometry")

// TraceSource is the codec collaborator feeding a scan. Implementations
// hand out payloads already converted to host byte order.
type TraceSource interface {
	Format() sample.Format
	Traces() int
	SamplesPerTrace() int

	// SampleCount returns the sample count declared in the header of trace i.
	SampleCount(i int) (int, error)

	// ReadSamples reads the payload of trace i into dst, growing it if needed.
	ReadSamples(i int, dst []byte) ([]byte, error)
}

// Layout describes a native trace dump: DataOffset bytes of file headers
// followed by fixed-size traces, each a TraceHeaderSize byte header and
// SamplesPerTrace samples.
type Layout struct {
	Format          sample.Format
	SamplesPerTrace int
	SampleBytes     int   // 0 derives the width from Format
	DataOffset      int64 // first trace header
	TraceHeaderSize int
	CountOffset     int // native int32 sample count in the trace header, <0 if absent
}

// DefaultLayout matches the usual 3200+400 byte file headers and 240 byte
// trace headers.
var DefaultLayout = Layout{
	DataOffset:      3600,
	TraceHeaderSize: 240,
	CountOffset:     -1,
}

// RawSource is a TraceSource over a native trace dump of fixed-size traces.
type RawSource struct {
	r      io.ReaderAt
	layout Layout

	sampleBytes int
	traceSize   int64
	traces      int
}

// NewRawSource validates layout against a dump of size bytes and returns a
// source over its traces. Geometry problems are reported as ErrGeometry.
func NewRawSource(r io.ReaderAt, size int64, layout Layout) (*RawSource, error) {
	sampleBytes := layout.SampleBytes
	if sampleBytes <= 0 {
		w, err := sample.WidthOf(layout.Format)
		if err != nil {
			return nil, err
		}
		sampleBytes = w
	} else if w, err := sample.WidthOf(layout.Format); err == nil && w != sampleBytes {
		return nil, fmt.Errorf("%w: %d bytes per sample for format %s, want %d", ErrGeometry, sampleBytes, layout.Format, w)
	}

	if layout.SamplesPerTrace < 0 || layout.TraceHeaderSize < 0 || layout.DataOffset < 0 {
		return nil, fmt.Errorf("%w: negative layout field", ErrGeometry)
	}
	if layout.DataOffset > size {
		return nil, fmt.Errorf("%w: data offset %d beyond file size %d", ErrGeometry, layout.DataOffset, size)
	}
	if layout.CountOffset >= 0 && layout.CountOffset+4 > layout.TraceHeaderSize {
		return nil, fmt.Errorf("%w: sample count field at %d does not fit a %d byte trace header", ErrGeometry, layout.CountOffset, layout.TraceHeaderSize)
	}

	traceSize := int64(layout.TraceHeaderSize) + int64(layout.SamplesPerTrace)*int64(sampleBytes)
	if traceSize == 0 {
		return nil, fmt.Errorf("%w: zero sized traces", ErrGeometry)
	}

	data := size - layout.DataOffset
	if data%traceSize != 0 {
		return nil, fmt.Errorf("%w: %d data bytes is not a multiple of the %d byte trace size", ErrGeometry, data, traceSize)
	}

	return &RawSource{
		r:           r,
		layout:      layout,
		sampleBytes: sampleBytes,
		traceSize:   traceSize,
		traces:      int(data / traceSize),
	}, nil
}

func (s *RawSource) Format() sample.Format { return s.layout.Format }
func (s *RawSource) Traces() int           { return s.traces }
func (s *RawSource) SamplesPerTrace() int  { return s.layout.SamplesPerTrace }

// SampleBytes returns the width of one sample, taken from the format or from
// Layout.SampleBytes for unsupported formats.
func (s *RawSource) SampleBytes() int { return s.sampleBytes }

func (s *RawSource) traceOffset(i int) (int64, error) {
	if i < 0 || i >= s.traces {
		return 0, fmt.Errorf("trace %d out of range [0, %d)", i, s.traces)
	}
	return s.layout.DataOffset + int64(i)*s.traceSize, nil
}

// SampleCount returns the count declared in the header of trace i, or
// SamplesPerTrace when the layout has no count field.
func (s *RawSource) SampleCount(i int) (int, error) {
	off, err := s.traceOffset(i)
	if err != nil {
		return 0, err
	}
	if s.layout.CountOffset < 0 {
		return s.layout.SamplesPerTrace, nil
	}

	var field [4]byte
	if _, err := s.r.ReadAt(field[:], off+int64(s.layout.CountOffset)); err != nil {
		return 0, fmt.Errorf("unable to read header of trace %d: %w", i, err)
	}
	return int(int32(binary.NativeEndian.Uint32(field[:]))), nil
}

// ReadSamples reads the payload of trace i into dst, growing it as needed.
func (s *RawSource) ReadSamples(i int, dst []byte) ([]byte, error) {
	off, err := s.traceOffset(i)
	if err != nil {
		return dst, err
	}

	n := s.layout.SamplesPerTrace * s.sampleBytes
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	if n == 0 {
		return dst, nil
	}

	if _, err := s.r.ReadAt(dst, off+int64(s.layout.TraceHeaderSize)); err != nil {
		return dst, fmt.Errorf("unable to read trace %d: %w", i, err)
	}
	return dst, nil
}
