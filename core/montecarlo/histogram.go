package montecarlo

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// buildHistogram buckets sorted total-duration samples into evenly spaced
// bins. A degenerate distribution (all trials identical) collapses into a
// single full bucket.
func buildHistogram(sorted []float64, bins int) []HistogramBin {
	if len(sorted) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []HistogramBin{{MinDays: lo, MaxDays: hi, Count: len(sorted), Frequency: 1}}
	}

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// Half-open buckets drop the maximum sample; widen the last divider a
	// hair so it lands in the final bucket.
	dividers[bins] = hi + 1e-9

	counts := stat.Histogram(nil, dividers, sorted, nil)
	total := float64(len(sorted))
	out := make([]HistogramBin, bins)
	for i := range counts {
		out[i] = HistogramBin{
			MinDays:   dividers[i],
			MaxDays:   dividers[i+1],
			Count:     int(counts[i]),
			Frequency: counts[i] / total,
		}
	}
	out[bins-1].MaxDays = hi
	return out
}
