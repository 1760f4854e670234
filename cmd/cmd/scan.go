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
	"fmt"
	"path/filepath"
	"time"

	"github.com/ostafen/seginfo/internal/config"
	"github.com/ostafen/seginfo/internal/env"
	"github.com/ostafen/seginfo/internal/logger"
	"github.com/ostafen/seginfo/internal/scan"
	"github.com/ostafen/seginfo/pkg/pbar"
	"github.com/ostafen/seginfo/pkg/report"
	fmtutil "github.com/ostafen/seginfo/pkg/util/format"
	"github.com/spf13/cobra"
)

func DefineScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <dump>",
		Short: "Compute sample statistics of a native trace dump",
		Long: `The 'scan' command reads every trace of a native trace dump and reports the sample format,
the range of declared sample counts and the minimum and maximum sample value together with the trace they occur in.
The dump geometry is given with flags or a YAML config file; samples must already be in host byte order.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunScan,
	}

	defaults := config.Default()

	cmd.Flags().String("config", "", "path of a YAML config file")
	cmd.Flags().StringP("format", "f", "", "sample format code or name (see 'formats')")
	cmd.Flags().IntP("samples", "s", 0, "samples per trace")
	cmd.Flags().Int("sample-bytes", 0, "bytes per sample, required for unsupported formats")
	cmd.Flags().Int64("data-offset", defaults.Layout.DataOffset, "offset of the first trace header")
	cmd.Flags().Int("trace-header-size", defaults.Layout.TraceHeaderSize, "size of each trace header")
	cmd.Flags().Int("count-offset", defaults.Layout.CountOffset, "offset of the native int32 sample count in the trace header, -1 if absent")
	cmd.Flags().Bool("mmap", false, "memory map the dump")
	cmd.Flags().Bool("decompress", false, "decode the dump as zstd even without the zstd magic")
	cmd.Flags().IntP("workers", "w", defaults.Scan.Workers, "number of shards scanned in parallel")
	cmd.Flags().Bool("digest", false, "compute an xxhash digest of the trace payloads")
	cmd.Flags().Bool("progress", false, "show a progress bar")
	cmd.Flags().StringP("output", "o", "", "path of the XML report file")
	cmd.Flags().Bool("no-log", false, "disable logging")
	cmd.Flags().String("log-dir", defaults.Logging.Dir, "directory of the scan log file")
	cmd.Flags().String("log-level", defaults.Logging.Level, "log level (DEBUG, INFO, WARN, ERROR)")

	return cmd
}

type scanOptions struct {
	cfg        *config.Config
	reportFile string
	progress   bool
}

func RunScan(cmd *cobra.Command, args []string) error {
	path := args[0]

	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}
	cfg := opts.cfg

	layout, err := cfg.Layout.ScanLayout()
	if err != nil {
		return err
	}

	session := GenSessionID()

	var logFilePath string
	if !cfg.Logging.Disabled {
		logFilePath = absPath(filepath.Join(cfg.Logging.Dir, session) + ".log")
	}

	log, logFile, err := logger.Setup(logFilePath, logger.ParseLevel(cfg.Logging.Level))
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	out := cmd.OutOrStdout()

	in, err := scan.Open(path, scan.OpenOptions{
		Mmap:       cfg.Scan.Mmap,
		Decompress: cfg.Scan.Decompress,
	}, log)
	if err != nil {
		return err
	}
	defer in.Close()

	src, err := scan.NewRawSource(in, in.Size, layout)
	if err != nil {
		log.Error("invalid dump geometry", "path", path, "err", err)
		return err
	}

	outLog := "disabled"
	if logFilePath != "" {
		outLog = logFilePath
	}

	fmt.Fprintln(out, "[INFO] Starting scanning operation...")
	fmt.Fprintf(out, "[INFO] Source: \t%s (%s)\n", absPath(path), fmtutil.FormatBytes(in.Size))
	fmt.Fprintf(out, "[INFO] Output Log: \t%s\n", outLog)
	fmt.Fprintf(out, "[INFO] Samples per trace: \t%d\n", src.SamplesPerTrace())
	fmt.Fprintf(out, "[INFO] Bytes per sample: \t%d\n", src.SampleBytes())
	fmt.Fprintf(out, "[INFO] Traces: \t%d\n", src.Traces())

	log.Info("scan started",
		"path", path,
		"format", layout.Format.Code(),
		"traces", src.Traces(),
		"mapped", in.Mapped,
		"compressed", in.Compressed,
		"workers", cfg.Scan.Workers,
	)

	scanOpts := scan.Options{
		Workers: cfg.Scan.Workers,
		Digest:  cfg.Scan.Digest,
		Logger:  log,
	}

	var bar *pbar.ProgressBarState
	if opts.progress {
		bar = pbar.NewProgressBarState(out, src.Traces())
		scanOpts.Progress = bar.Update
	}

	start := time.Now()
	res, err := scan.Scan(cmd.Context(), src, scanOpts)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		log.Error("scan aborted", "err", err)
		return err
	}
	elapsed := time.Since(start)

	log.Info("scan completed", "traces", res.Summary.Traces, "elapsed", elapsed)

	fmt.Fprintln(out)
	fmt.Fprint(out, res.Summary.String())
	if res.HasDigest {
		fmt.Fprintf(out, "Payload digest: %016x\n", res.Digest)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Read all traces in: %s\n", fmtutil.FormatDurationHMS(elapsed))

	if opts.reportFile != "" {
		rep := report.New(env.AppName, env.Version, report.Source{
			Filename:   absPath(path),
			Size:       uint64(in.Size),
			Compressed: in.Compressed,
			Mapped:     in.Mapped,
			Layout:     report.LayoutFrom(layout, src.SampleBytes()),
		}, res, elapsed)

		if err := report.WriteFile(opts.reportFile, rep); err != nil {
			return err
		}
		fmt.Fprintf(out, "[INFO] Report saved to: \t%s\n", absPath(opts.reportFile))
	}
	return nil
}

// parseOptions loads the config file, if any, and overrides it with every
// flag set on the command line.
func parseOptions(cmd *cobra.Command) (scanOptions, error) {
	cfg := config.Default()

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return scanOptions{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Layout.Format, _ = flags.GetString("format")
	}
	if flags.Changed("samples") {
		cfg.Layout.SamplesPerTrace, _ = flags.GetInt("samples")
	}
	if flags.Changed("sample-bytes") {
		cfg.Layout.SampleBytes, _ = flags.GetInt("sample-bytes")
	}
	if flags.Changed("data-offset") {
		cfg.Layout.DataOffset, _ = flags.GetInt64("data-offset")
	}
	if flags.Changed("trace-header-size") {
		cfg.Layout.TraceHeaderSize, _ = flags.GetInt("trace-header-size")
	}
	if flags.Changed("count-offset") {
		cfg.Layout.CountOffset, _ = flags.GetInt("count-offset")
	}
	if flags.Changed("mmap") {
		cfg.Scan.Mmap, _ = flags.GetBool("mmap")
	}
	if flags.Changed("decompress") {
		cfg.Scan.Decompress, _ = flags.GetBool("decompress")
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("digest") {
		cfg.Scan.Digest, _ = flags.GetBool("digest")
	}
	if flags.Changed("no-log") {
		cfg.Logging.Disabled, _ = flags.GetBool("no-log")
	}
	if flags.Changed("log-dir") {
		cfg.Logging.Dir, _ = flags.GetString("log-dir")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}

	if cfg.Scan.Workers < 1 {
		return scanOptions{}, fmt.Errorf("workers must be at least 1, got %d", cfg.Scan.Workers)
	}

	reportFile, _ := flags.GetString("output")
	progress, _ := flags.GetBool("progress")

	return scanOptions{
		cfg:        cfg,
		reportFile: reportFile,
		progress:   progress,
	}, nil
}

func absPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

// GenSessionID names a scan session as YYYYMMDD_HHMMSS.
func GenSessionID() string {
	return time.Now().Format("20060102_150405")
}
