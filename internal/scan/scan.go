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

// Package scan drives a statistics scan over the traces of a TraceSource.
package scan

import (
	"context"
	"encoding/binary"
	"log/slog"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/ostafen/seginfo/internal/sample"
	"github.com/ostafen/seginfo/internal/stats"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// Workers is the number of shards scanned in parallel. Values below 2
	// scan the traces sequentially.
	Workers int

	// Digest enables the payload digest of Result.
	Digest bool

	// Progress is called with the number of traces processed so far. With
	// more than one worker it is called concurrently.
	Progress func(done int)

	Logger *slog.Logger
}

type Result struct {
	Summary stats.Summary

	// Digest is an xxhash over the per-trace payload digests in trace order,
	// independent of the number of workers.
	Digest    uint64
	HasDigest bool
}

type shard struct {
	start, end int
}

// Scan observes every trace of src and returns the finalized summary. The
// first error aborts the whole scan and no partial summary is returned.
func Scan(ctx context.Context, src TraceSource, opts Options) (Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	format := src.Format()
	if !format.Supported() {
		logger.Warn("unsupported sample format, extrema will not be computed", "format", format.Code())
	}

	shards := partition(src.Traces(), opts.Workers)
	partials := make([]stats.Summary, len(shards))

	var digests []uint64
	if opts.Digest {
		digests = make([]uint64, src.Traces())
	}

	var done atomic.Int64
	progress := func() {
		n := done.Add(1)
		if opts.Progress != nil {
			opts.Progress(int(n))
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, sh := range shards {
		g.Go(func() error {
			logger.Debug("scanning shard", "shard", i, "start", sh.start, "end", sh.end)

			s, err := scanShard(ctx, src, sh, digests, progress)
			if err != nil {
				logger.Error("shard failed", "shard", i, "err", err)
				return err
			}
			partials[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	summary, err := stats.Merge(format, partials...)
	if err != nil {
		return Result{}, err
	}

	res := Result{Summary: summary}
	if opts.Digest {
		res.Digest = combineDigests(digests)
		res.HasDigest = true
	}
	return res, nil
}

// scanShard runs one accumulator over a contiguous range of traces, reusing
// its raw and decoded buffers across traces.
func scanShard(ctx context.Context, src TraceSource, sh shard, digests []uint64, progress func()) (stats.Summary, error) {
	format := src.Format()
	acc := stats.NewAccumulator(format)

	var (
		raw     []byte
		samples []sample.NativeSample
	)
	for i := sh.start; i < sh.end; i++ {
		if err := ctx.Err(); err != nil {
			return stats.Summary{}, err
		}

		count, err := src.SampleCount(i)
		if err != nil {
			return stats.Summary{}, err
		}
		if err := acc.ObserveTraceSampleCount(i, count); err != nil {
			return stats.Summary{}, err
		}

		raw, err = src.ReadSamples(i, raw)
		if err != nil {
			return stats.Summary{}, err
		}
		if digests != nil {
			digests[i] = xxhash.Sum64(raw)
		}

		samples = samples[:0]
		if format.Supported() {
			samples, err = sample.DecodeNative(format, raw, samples)
			if err != nil {
				return stats.Summary{}, err
			}
		}
		if err := acc.ObserveTraceSamples(i, samples, format); err != nil {
			return stats.Summary{}, err
		}
		progress()
	}

	return acc.Finalize()
}

// partition splits [0, traces) into at most workers contiguous ranges in
// ascending order.
func partition(traces, workers int) []shard {
	workers = max(1, min(workers, traces))

	shards := make([]shard, 0, workers)
	per, rem := traces/workers, traces%workers
	start := 0
	for i := 0; i < workers; i++ {
		size := per
		if i < rem {
			size++
		}
		shards = append(shards, shard{start: start, end: start + size})
		start += size
	}
	return shards
}

func combineDigests(digests []uint64) uint64 {
	h := xxhash.New()

	var buf [8]byte
	for _, d := range digests {
		binary.LittleEndian.PutUint64(buf[:], d)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
