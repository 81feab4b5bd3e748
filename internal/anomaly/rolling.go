package anomaly

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// rollingStats computes the trailing-window mean and sample standard deviation of
// values. The first window-1 entries are NaN.
func rollingStats(values []float64, window int) (means, stds []float64) {
	means = make([]float64, len(values))
	stds = make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			means[i], stds[i] = math.NaN(), math.NaN()
			continue
		}
		means[i], stds[i] = stat.MeanStdDev(values[i-window+1:i+1], nil)
	}
	return means, stds
}

// quantile is the linearly interpolated quantile between closest ranks,
// x[floor(h)] + (h - floor(h)) * (x[floor(h)+1] - x[floor(h)]) with h = (n-1)p.
// sorted must be ascending.
func quantile(p float64, sorted []float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	h := float64(len(sorted)-1) * p
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}
