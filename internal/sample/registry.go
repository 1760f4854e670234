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
package sample

import (
	"fmt"
	"math"
	"sort"
)

type codec struct {
	name    string
	aliases []string
	desc    string
	kind    Kind
	width   int

	minSeed NativeSample
	maxSeed NativeSample
}

// registry is the single capability table every format lookup goes
// through. Unsupported formats are present with KindNone.
var registry = map[Format]codec{
	IBMFloat32: {
		name:    "ibm",
		aliases: []string{"ibm-float32", "ibm_float_4_byte"},
		desc:    "4-byte IBM floating point",
		kind:    KindFloat32,
		width:   4,
		minSeed: asSeed(Float32Sample(float32(math.Inf(1)))),
		maxSeed: asSeed(Float32Sample(float32(math.Inf(-1)))),
	},
	Int32: {
		name:    "int32",
		aliases: []string{"signed_integer_4_byte"},
		desc:    "4-byte two's complement integer",
		kind:    KindInt32,
		width:   4,
		minSeed: asSeed(Int32Sample(math.MaxInt32)),
		maxSeed: asSeed(Int32Sample(math.MinInt32)),
	},
	Int16: {
		name:    "int16",
		aliases: []string{"signed_short_2_byte"},
		desc:    "2-byte two's complement integer",
		kind:    KindInt16,
		width:   2,
		minSeed: asSeed(Int16Sample(math.MaxInt16)),
		maxSeed: asSeed(Int16Sample(math.MinInt16)),
	},
	FixedPointGain32: {
		name:    "fixed-gain",
		aliases: []string{"fixed_point_with_gain_4_byte"},
		desc:    "4-byte fixed point with gain (obsolete)",
	},
	IEEEFloat32: {
		name:    "ieee",
		aliases: []string{"ieee-float32", "float32", "ieee_float_4_byte"},
		desc:    "4-byte IEEE floating point",
		kind:    KindFloat32,
		width:   4,
		minSeed: asSeed(Float32Sample(float32(math.Inf(1)))),
		maxSeed: asSeed(Float32Sample(float32(math.Inf(-1)))),
	},
	NotInUse1: {
		name: "not-in-use-1",
		desc: "not currently used",
	},
	NotInUse2: {
		name: "not-in-use-2",
		desc: "not currently used",
	},
	Int8: {
		name:    "int8",
		aliases: []string{"signed_char_1_byte"},
		desc:    "1-byte two's complement integer",
		kind:    KindInt8,
		width:   1,
		minSeed: asSeed(Int8Sample(math.MaxInt8)),
		maxSeed: asSeed(Int8Sample(math.MinInt8)),
	},
}

// Formats returns every recognized format ordered by code.
func Formats() []Format {
	formats := make([]Format, 0, len(registry))
	for f := range registry {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

func lookup(f Format) (codec, error) {
	c, ok := registry[f]
	if !ok {
		return codec{}, fmt.Errorf("%w: code %d", ErrUnknownFormat, int(f))
	}
	if c.kind == KindNone {
		return codec{}, fmt.Errorf("%w: %s (code %d)", ErrUnsupportedFormat, c.name, int(f))
	}
	return c, nil
}

// WidthOf returns the size in bytes of one sample of format f.
func WidthOf(f Format) (int, error) {
	c, err := lookup(f)
	if err != nil {
		return 0, err
	}
	return c.width, nil
}

// SeedExtremes returns the initial running minimum and maximum for f. The
// seeds hold the type bounds of f but are marked as seeds, so the first
// real sample replaces them even when it sits on a bound.
func SeedExtremes(f Format) (minSeed, maxSeed NativeSample, err error) {
	c, err := lookup(f)
	if err != nil {
		return NativeSample{}, NativeSample{}, err
	}
	return c.minSeed, c.maxSeed, nil
}

// CompareUpdateMin replaces *current with candidate iff *current is a seed
// or candidate is strictly less under the native ordering of f. NaN never
// replaces anything.
func CompareUpdateMin(current *NativeSample, candidate NativeSample, f Format) bool {
	if !observable(*current, candidate, f) {
		return false
	}
	if current.seed || less(candidate, *current) {
		*current = candidate
		return true
	}
	return false
}

// CompareUpdateMax replaces *current with candidate iff *current is a seed
// or candidate is strictly greater under the native ordering of f.
func CompareUpdateMax(current *NativeSample, candidate NativeSample, f Format) bool {
	if !observable(*current, candidate, f) {
		return false
	}
	if current.seed || less(*current, candidate) {
		*current = candidate
		return true
	}
	return false
}

func sameKind(a, b NativeSample, f Format) bool {
	kind := f.Kind()
	return kind != KindNone && a.kind == kind && b.kind == kind
}

// observable reports whether candidate may take part in an update of
// current. A seed candidate is never an observation.
func observable(current, candidate NativeSample, f Format) bool {
	return sameKind(current, candidate, f) && !candidate.seed && !candidate.isNaN()
}

func less(a, b NativeSample) bool {
	if a.kind == KindFloat32 {
		return a.f < b.f
	}
	return a.i < b.i
}
