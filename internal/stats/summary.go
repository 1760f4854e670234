package stats

import (
	"fmt"
	"math"
	"strings"

	"github.com/ostafen/seginfo/internal/sample"
)

// NoTrace marks an extremum that no sample ever updated.
const NoTrace = -1

// Extremum is a running minimum or maximum together with the trace that
// first produced it.
type Extremum struct {
	Value sample.NativeSample
	Trace int
}

// Found reports whether any sample updated the extremum.
func (e Extremum) Found() bool { return e.Trace != NoTrace }

func (e Extremum) String() string {
	if !e.Found() {
		return "none found"
	}
	return fmt.Sprintf("%s at trace %d", e.Value, e.Trace)
}

// SampleCountRange tracks the declared per-trace sample counts.
type SampleCountRange struct {
	Min      int
	Max      int
	Observed int
}

func newSampleCountRange() SampleCountRange {
	return SampleCountRange{Min: math.MaxInt, Max: 0}
}

func (r *SampleCountRange) observe(count int) {
	r.Min = min(r.Min, count)
	r.Max = max(r.Max, count)
	r.Observed++
}

func (r *SampleCountRange) merge(o SampleCountRange) {
	if o.Observed == 0 {
		return
	}
	r.Min = min(r.Min, o.Min)
	r.Max = max(r.Max, o.Max)
	r.Observed += o.Observed
}

// Summary is the read-out of a finalized scan.
type Summary struct {
	Format       sample.Format
	SampleCounts SampleCountRange
	Min          Extremum
	Max          Extremum
	Traces       int // traces whose samples were observed
}

func (s Summary) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Sample format: %d (%s)\n", s.Format.Code(), s.Format)
	fmt.Fprintf(&sb, "Traces: %d\n", s.Traces)
	if s.SampleCounts.Observed > 0 {
		fmt.Fprintf(&sb, "Min sample count: %d\n", s.SampleCounts.Min)
		fmt.Fprintf(&sb, "Max sample count: %d\n", s.SampleCounts.Max)
	} else {
		sb.WriteString("Min sample count: n/a\n")
		sb.WriteString("Max sample count: n/a\n")
	}
	fmt.Fprintf(&sb, "Min sample value: %s\n", s.Min)
	fmt.Fprintf(&sb, "Max sample value: %s\n", s.Max)
	return sb.String()
}
