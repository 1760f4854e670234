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
package cmd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math"
	mrand "math/rand/v2"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/ostafen/seginfo/internal/config"
	"github.com/ostafen/seginfo/internal/logger"
	"github.com/ostafen/seginfo/internal/sample"
	"github.com/ostafen/seginfo/internal/scan"
	fmtutil "github.com/ostafen/seginfo/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic native trace dump",
		Long: `The 'generate' command writes a native trace dump filled with pseudo-random samples.
This is useful for testing the scanner with known, reproducible data: the same seed always produces the same dump.
Headers are zero-filled except for the declared sample count, written at --count-offset when it is not -1.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         RunGenerate,
	}

	defaults := config.Default()

	cmd.Flags().StringP("output", "o", "", "Path to the output dump file (required)")
	cmd.Flags().StringP("format", "f", "ieee", "sample format code or name")
	cmd.Flags().IntP("samples", "s", 1000, "samples per trace")
	cmd.Flags().IntP("traces", "n", 100, "number of traces")
	cmd.Flags().Int("sample-bytes", 0, "bytes per sample, required for unsupported formats")
	cmd.Flags().Int64("data-offset", defaults.Layout.DataOffset, "size of the leading file header")
	cmd.Flags().Int("trace-header-size", defaults.Layout.TraceHeaderSize, "size of each trace header")
	cmd.Flags().Int("count-offset", defaults.Layout.CountOffset, "offset of the native int32 sample count in the trace header, -1 to omit it")
	cmd.Flags().Uint64("seed", 1, "seed of the sample generator")
	cmd.Flags().Bool("compress", false, "compress the dump with zstd")

	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func RunGenerate(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	outPath, _ := flags.GetString("output")
	traces, _ := flags.GetInt("traces")
	seed, _ := flags.GetUint64("seed")
	compress, _ := flags.GetBool("compress")

	if traces < 0 {
		return fmt.Errorf("traces must not be negative, got %d", traces)
	}

	var l config.Layout
	l.Format, _ = flags.GetString("format")
	l.SamplesPerTrace, _ = flags.GetInt("samples")
	l.SampleBytes, _ = flags.GetInt("sample-bytes")
	l.DataOffset, _ = flags.GetInt64("data-offset")
	l.TraceHeaderSize, _ = flags.GetInt("trace-header-size")
	l.CountOffset, _ = flags.GetInt("count-offset")

	layout, err := l.ScanLayout()
	if err != nil {
		return err
	}
	if layout.DataOffset < 0 || layout.TraceHeaderSize < 0 {
		return fmt.Errorf("%w: negative offsets", scan.ErrGeometry)
	}
	if layout.CountOffset >= 0 && layout.CountOffset+4 > layout.TraceHeaderSize {
		return fmt.Errorf("%w: count offset %d does not fit a %d byte trace header",
			scan.ErrGeometry, layout.CountOffset, layout.TraceHeaderSize)
	}

	sampleBytes := layout.SampleBytes
	if width, err := sample.WidthOf(layout.Format); err == nil {
		if sampleBytes != 0 && sampleBytes != width {
			return fmt.Errorf("%w: %s samples are %d bytes wide, not %d", scan.ErrGeometry, layout.Format, width, sampleBytes)
		}
		sampleBytes = width
	} else if sampleBytes <= 0 {
		return fmt.Errorf("%w: --sample-bytes is required for format %s", scan.ErrGeometry, layout.Format)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	log := logger.New(cmd.OutOrStdout(), slog.LevelInfo)
	log.Info("generating dump", "path", outPath, "format", layout.Format.String(), "traces", traces, "samples", layout.SamplesPerTrace)

	bw := bufio.NewWriter(f)

	var w io.Writer = bw
	var enc *zstd.Encoder
	if compress {
		enc, err = zstd.NewWriter(bw)
		if err != nil {
			return err
		}
		w = enc
	}

	rng := mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	cw := &countingWriter{w: w}
	if err := writeDump(cw, rng, layout, sampleBytes, traces); err != nil {
		return err
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("error closing zstd encoder: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("error flushing writer: %w", err)
	}

	log.Info("dump successfully generated", "bytes", cw.n, "size", fmtutil.FormatBytes(cw.n))
	return nil
}

func writeDump(w io.Writer, rng *mrand.Rand, layout scan.Layout, sampleBytes, traces int) error {
	if _, err := w.Write(make([]byte, layout.DataOffset)); err != nil {
		return err
	}

	header := make([]byte, layout.TraceHeaderSize)
	if layout.CountOffset >= 0 {
		binary.NativeEndian.PutUint32(header[layout.CountOffset:], uint32(layout.SamplesPerTrace))
	}

	samples := make([]sample.NativeSample, layout.SamplesPerTrace)
	payload := make([]byte, 0, layout.SamplesPerTrace*sampleBytes)

	for range traces {
		if _, err := w.Write(header); err != nil {
			return err
		}

		var err error
		if layout.Format.Supported() {
			for i := range samples {
				samples[i] = randomSample(rng, layout.Format.Kind())
			}
			payload, err = sample.EncodeNative(layout.Format, samples, payload[:0])
			if err != nil {
				return err
			}
		} else {
			payload = payload[:layout.SamplesPerTrace*sampleBytes]
			for i := range payload {
				payload[i] = byte(rng.Uint32())
			}
		}

		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

func randomSample(rng *mrand.Rand, kind sample.Kind) sample.NativeSample {
	switch kind {
	case sample.KindFloat32:
		return sample.Float32Sample(float32(rng.NormFloat64() * 1000))
	case sample.KindInt32:
		return sample.Int32Sample(int32(rng.Uint32()))
	case sample.KindInt16:
		return sample.Int16Sample(int16(rng.IntN(math.MaxUint16+1) + math.MinInt16))
	case sample.KindInt8:
		return sample.Int8Sample(int8(rng.IntN(math.MaxUint8+1) + math.MinInt8))
	}
	return sample.NativeSample{}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
