package combine

import "sort"

// cdf sorts the across-run scalars ascending and assigns each its empirical
// cumulative fraction rank/count, producing the CDF curve.
func cdf(vals []float64) []CDFPoint {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	out := make([]CDFPoint, len(sorted))
	n := float64(len(sorted))
	for i, v := range sorted {
		out[i] = CDFPoint{Value: v, Fraction: float64(i+1) / n}
	}
	return out
}
