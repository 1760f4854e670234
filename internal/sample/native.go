package sample

import (
	"math"
	"strconv"
)

// Kind discriminates the representation held by a NativeSample.
type Kind uint8

const (
	KindNone Kind = iota
	KindFloat32
	KindInt32
	KindInt16
	KindInt8
)

func (k Kind) String() string {
	switch k {
	case KindFloat32:
		return "float32"
	case KindInt32:
		return "int32"
	case KindInt16:
		return "int16"
	case KindInt8:
		return "int8"
	default:
		return "none"
	}
}

// NativeSample is one decoded sample. Integer kinds are stored widened
// to int32; the kind always travels with the value.
type NativeSample struct {
	kind Kind
	f    float32
	i    int32

	// seed marks the placeholder a running extremum starts from. The first
	// real sample replaces it whatever its value.
	seed bool
}

func Float32Sample(v float32) NativeSample { return NativeSample{kind: KindFloat32, f: v} }
func Int32Sample(v int32) NativeSample     { return NativeSample{kind: KindInt32, i: v} }
func Int16Sample(v int16) NativeSample     { return NativeSample{kind: KindInt16, i: int32(v)} }
func Int8Sample(v int8) NativeSample       { return NativeSample{kind: KindInt8, i: int32(v)} }

func (s NativeSample) Kind() Kind { return s.kind }

// IsSeed reports whether s is an extremum seed rather than an observed sample.
func (s NativeSample) IsSeed() bool { return s.seed }

func (s NativeSample) isNaN() bool {
	return s.kind == KindFloat32 && s.f != s.f
}

func asSeed(s NativeSample) NativeSample {
	s.seed = true
	return s
}

// Float returns the float32 variant. It is only meaningful for KindFloat32.
func (s NativeSample) Float() float32 { return s.f }

// Int returns the integer variant widened to int32. It is only meaningful
// for the integer kinds.
func (s NativeSample) Int() int32 { return s.i }

// Float64 converts any variant to float64, for reporting.
func (s NativeSample) Float64() float64 {
	if s.kind == KindFloat32 {
		return float64(s.f)
	}
	return float64(s.i)
}

// String formats the value the way the scanner prints it: %f for floats
// and %d for integers.
func (s NativeSample) String() string {
	switch s.kind {
	case KindFloat32:
		if math.IsInf(float64(s.f), 0) {
			return strconv.FormatFloat(float64(s.f), 'f', -1, 32)
		}
		return strconv.FormatFloat(float64(s.f), 'f', 6, 32)
	case KindInt32, KindInt16, KindInt8:
		return strconv.FormatInt(int64(s.i), 10)
	default:
		return "n/a"
	}
}
