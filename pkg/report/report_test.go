package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ostafen/seginfo/internal/sample"
	"github.com/ostafen/seginfo/internal/scan"
	"github.com/ostafen/seginfo/internal/stats"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"
)

func testResult(t *testing.T) scan.Result {
	acc := stats.NewAccumulator(sample.Int16)
	require.NoError(t, acc.ObserveTraceSampleCount(0, 2))
	require.NoError(t, acc.ObserveTraceSamples(0, []sample.NativeSample{sample.Int16Sample(-5), sample.Int16Sample(3)}, sample.Int16))

	s, err := acc.Finalize()
	require.NoError(t, err)
	return scan.Result{Summary: s, Digest: 0xbeef, HasDigest: true}
}

func TestWriteRead(t *testing.T) {
	layout := scan.Layout{Format: sample.Int16, SamplesPerTrace: 2, DataOffset: 3600, TraceHeaderSize: 240, CountOffset: -1}
	rep := New("seginfo", "dev", Source{
		Filename: "line.dump",
		Size:     4096,
		Layout:   LayoutFrom(layout, 2),
	}, testResult(t), time.Second)

	_, err := ksuid.Parse(rep.ScanID)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf).Write(rep))
	require.True(t, strings.HasPrefix(buf.String(), "<?xml"))
	require.Contains(t, buf.String(), `<min found="true" trace="0">-5</min>`)

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Equal(t, rep.ScanID, got.ScanID)
	require.Equal(t, rep.Source, got.Source)
	require.Equal(t, rep.Summary, got.Summary)
	require.Equal(t, "beef", got.Summary.Digest)
	require.Equal(t, "int16", got.Summary.FormatName)
}

func TestSummaryNoneFound(t *testing.T) {
	s, err := stats.NewAccumulator(sample.NotInUse2).Finalize()
	require.NoError(t, err)

	out := SummaryFrom(scan.Result{Summary: s}, 0)
	require.False(t, out.Min.Found)
	require.Equal(t, stats.NoTrace, out.Max.Trace)
	require.Empty(t, out.Digest)
	require.Zero(t, out.SampleCounts.Min)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xml")

	rep := New("seginfo", "dev", Source{Filename: "x"}, testResult(t), 0)
	require.NoError(t, WriteFile(path, rep))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := Read(f)
	require.NoError(t, err)
	require.Equal(t, rep.Summary, got.Summary)
}

func TestReadMissingElement(t *testing.T) {
	_, err := Read(strings.NewReader("<other/>"))
	require.Error(t, err)
}

func TestParseKeyValues(t *testing.T) {
	osRelease := "NAME=\"Ubuntu\"\nVERSION_ID=\"24.04\"\nVERSION=\"24.04 LTS (Noble Numbat)\"\n"
	name, version := parseKeyValues(strings.NewReader(osRelease), "NAME=", "VERSION=")
	require.Equal(t, "Ubuntu", name)
	require.Equal(t, "24.04 LTS (Noble Numbat)", version)

	swVers := "ProductName:\t\tmacOS\nProductVersion:\t\t14.5\n"
	name, version = parseKeyValues(strings.NewReader(swVers), "ProductName:", "ProductVersion:")
	require.Equal(t, "macOS", name)
	require.Equal(t, "14.5", version)

	name, version = parseKeyValues(strings.NewReader(""), "NAME=", "VERSION=")
	require.Equal(t, unknown, name)
	require.Equal(t, unknown, version)
}
