package stats

import (
	"fmt"

	"github.com/ostafen/seginfo/internal/sample"
)

// Merge combines the summaries of independent shards of one scan. partials
// must be ordered by ascending partition start so that, as in a sequential
// scan, the first trace holding an extreme value wins ties.
func Merge(format sample.Format, partials ...Summary) (Summary, error) {
	acc := NewAccumulator(format)

	for i, p := range partials {
		if p.Format != format {
			return Summary{}, fmt.Errorf("%w: partial %d is %s, want %s", sample.ErrFormatMismatch, i, p.Format, format)
		}

		acc.counts.merge(p.SampleCounts)
		acc.traces += p.Traces

		if p.Min.Found() && sample.CompareUpdateMin(&acc.min.Value, p.Min.Value, format) {
			acc.min.Trace = p.Min.Trace
		}
		if p.Max.Found() && sample.CompareUpdateMax(&acc.max.Value, p.Max.Value, format) {
			acc.max.Trace = p.Max.Trace
		}
	}
	return acc.Finalize()
}
