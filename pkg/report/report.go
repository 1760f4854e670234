package report

import (
	"encoding/xml"
	"strconv"
	"time"

	"github.com/ostafen/seginfo/internal/scan"
	"github.com/ostafen/seginfo/internal/stats"
	"github.com/segmentio/ksuid"
)

const OutputVersion = "1.0"

// Report is the XML document written at the end of a scan.
type Report struct {
	XMLName xml.Name `xml:"seginfo_report"`
	Version string   `xml:"version,attr"`
	ScanID  string   `xml:"scan_id"` // KSUID, sortable by creation time.
	Creator Creator  `xml:"creator"`
	Source  Source   `xml:"source"`
	Summary Summary  `xml:"summary"`
}

type Creator struct {
	Package              string  `xml:"package"`
	Version              string  `xml:"version"`
	ExecutionEnvironment ExecEnv `xml:"execution_environment"`
}

type ExecEnv struct {
	OS        string `xml:"os_sysname"`
	OSRelease string `xml:"os_release"`
	OSVersion string `xml:"os_version"`
	Host      string `xml:"host"`
	Arch      string `xml:"arch"`
	UID       int    `xml:"uid"`
	Start     string `xml:"start_time"`
}

type Source struct {
	Filename   string `xml:"filename"`
	Size       uint64 `xml:"size"`
	Compressed bool   `xml:"compressed"`
	Mapped     bool   `xml:"mapped"`
	Layout     Layout `xml:"layout"`
}

type Layout struct {
	Format          int   `xml:"format"`
	SamplesPerTrace int   `xml:"samples_per_trace"`
	SampleBytes     int   `xml:"sample_bytes"`
	DataOffset      int64 `xml:"data_offset"`
	TraceHeaderSize int   `xml:"trace_header_size"`
	CountOffset     int   `xml:"count_offset"`
}

type Summary struct {
	Format       int          `xml:"format,attr"`
	FormatName   string       `xml:"format_name,attr"`
	Traces       int          `xml:"traces"`
	SampleCounts SampleCounts `xml:"sample_counts"`
	Min          Extremum     `xml:"min"`
	Max          Extremum     `xml:"max"`
	Digest       string       `xml:"digest,omitempty"`
	Duration     string       `xml:"duration"`
}

type SampleCounts struct {
	Min      int `xml:"min,attr"`
	Max      int `xml:"max,attr"`
	Observed int `xml:"observed,attr"`
}

// Extremum carries the literal value printed by the scanner.
type Extremum struct {
	Found bool   `xml:"found,attr"`
	Trace int    `xml:"trace,attr"`
	Value string `xml:",chardata"`
}

// New builds a report for a finished scan.
func New(pkg, version string, src Source, res scan.Result, elapsed time.Duration) Report {
	return Report{
		Version: OutputVersion,
		ScanID:  ksuid.New().String(),
		Creator: Creator{
			Package:              pkg,
			Version:              version,
			ExecutionEnvironment: GetExecEnv(),
		},
		Source:  src,
		Summary: SummaryFrom(res, elapsed),
	}
}

// LayoutFrom records the dump geometry a scan used.
func LayoutFrom(l scan.Layout, sampleBytes int) Layout {
	return Layout{
		Format:          l.Format.Code(),
		SamplesPerTrace: l.SamplesPerTrace,
		SampleBytes:     sampleBytes,
		DataOffset:      l.DataOffset,
		TraceHeaderSize: l.TraceHeaderSize,
		CountOffset:     l.CountOffset,
	}
}

// SummaryFrom converts a scan result, writing extrema as the scanner prints them.
func SummaryFrom(res scan.Result, elapsed time.Duration) Summary {
	s := res.Summary

	out := Summary{
		Format:     s.Format.Code(),
		FormatName: s.Format.String(),
		Traces:     s.Traces,
		SampleCounts: SampleCounts{
			Min:      s.SampleCounts.Min,
			Max:      s.SampleCounts.Max,
			Observed: s.SampleCounts.Observed,
		},
		Min:      extremumFrom(s.Min),
		Max:      extremumFrom(s.Max),
		Duration: elapsed.String(),
	}
	if s.SampleCounts.Observed == 0 {
		out.SampleCounts.Min = 0
	}
	if res.HasDigest {
		out.Digest = strconv.FormatUint(res.Digest, 16)
	}
	return out
}

func extremumFrom(e stats.Extremum) Extremum {
	if !e.Found() {
		return Extremum{Trace: stats.NoTrace}
	}
	return Extremum{Found: true, Trace: e.Trace, Value: e.Value.String()}
}
