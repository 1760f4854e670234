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

// Package stats computes global sample extrema and per-trace sample count
// ranges over a stream of decoded traces.
//
// An Accumulator is seeded once for a sample format, fed one trace at a time
// and finalized exactly once. Comparisons are strict, so among traces holding
// the same extreme value the one observed first is reported. An Accumulator
// is not safe for concurrent use; parallel scans shard the traces into
// independent accumulators and combine them with Merge.
package stats

import (
	"errors"
	"fmt"

	"github.com/ostafen/seginfo/internal/sample"
)

var (
	ErrInvalidSampleCount   = errors.New("invalid trace sample count")
	ErrAccumulatorFinalized = errors.New("accumulator already finalized")
)

type state uint8

const (
	seeded state = iota
	finalized
)

// Accumulator holds the running statistics of one scan or scan shard.
type Accumulator struct {
	format sample.Format
	state  state

	min    Extremum
	max    Extremum
	counts SampleCountRange
	traces int
}

// NewAccumulator returns an accumulator seeded for format. Unsupported
// formats are accepted: their extrema are never updated.
func NewAccumulator(format sample.Format) *Accumulator {
	acc := &Accumulator{
		format: format,
		min:    Extremum{Trace: NoTrace},
		max:    Extremum{Trace: NoTrace},
		counts: newSampleCountRange(),
	}

	if minSeed, maxSeed, err := sample.SeedExtremes(format); err == nil {
		acc.min.Value = minSeed
		acc.max.Value = maxSeed
	}
	return acc
}

func (acc *Accumulator) Format() sample.Format { return acc.format }

// ObserveTraceSampleCount records the sample count declared in the header of
// trace traceIndex.
func (acc *Accumulator) ObserveTraceSampleCount(traceIndex, declaredCount int) error {
	if acc.state == finalized {
		return ErrAccumulatorFinalized
	}
	if declaredCount < 0 {
		return fmt.Errorf("%w: trace %d declares %d samples", ErrInvalidSampleCount, traceIndex, declaredCount)
	}
	acc.counts.observe(declaredCount)
	return nil
}

// ObserveTraceSamples updates the running extrema with the samples of trace
// traceIndex. format must be the format the accumulator was seeded with and
// every sample must carry its kind; nothing is updated otherwise.
func (acc *Accumulator) ObserveTraceSamples(traceIndex int, samples []sample.NativeSample, format sample.Format) error {
	if acc.state == finalized {
		return ErrAccumulatorFinalized
	}
	if format != acc.format {
		return fmt.Errorf("%w: accumulator holds %s, trace %d is %s", sample.ErrFormatMismatch, acc.format, traceIndex, format)
	}

	if !format.Supported() {
		acc.traces++
		return nil
	}

	kind := format.Kind()
	for i, s := range samples {
		if s.Kind() != kind {
			return fmt.Errorf("%w: trace %d sample %d is %s, want %s", sample.ErrKindMismatch, traceIndex, i, s.Kind(), kind)
		}
	}

	acc.traces++
	for _, s := range samples {
		if sample.CompareUpdateMin(&acc.min.Value, s, format) {
			acc.min.Trace = traceIndex
		}
		if sample.CompareUpdateMax(&acc.max.Value, s, format) {
			acc.max.Trace = traceIndex
		}
	}
	return nil
}

// Finalize ends the scan and returns its summary. It may be called once.
func (acc *Accumulator) Finalize() (Summary, error) {
	if acc.state == finalized {
		return Summary{}, ErrAccumulatorFinalized
	}
	acc.state = finalized

	return acc.summary(), nil
}

func (acc *Accumulator) summary() Summary {
	s := Summary{
		Format:       acc.format,
		SampleCounts: acc.counts,
		Min:          acc.min,
		Max:          acc.max,
		Traces:       acc.traces,
	}
	if !s.Min.Found() {
		s.Min.Value = sample.NativeSample{}
	}
	if !s.Max.Found() {
		s.Max.Value = sample.NativeSample{}
	}
	return s
}
