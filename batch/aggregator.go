// Package batch implements batched processing for slices of values,
// in particular aggregations over aligned matrix columns.
package batch

// aggregation functions for batches of data.
// NaN marks a missing measurement and is always excluded, never counted as zero.
import (
	"math"
	"sort"
)

type AggFunc func(in []float64) float64

func Avg(in []float64) float64 {
	valid := float64(0)
	sum := float64(0)
	for _, v := range in {
		if !math.IsNaN(v) {
			valid += 1
			sum += v
		}
	}
	if valid == 0 {
		return math.NaN()
	}
	return sum / valid
}

func Cnt(in []float64) float64 {
	valid := float64(0)
	for _, v := range in {
		if !math.IsNaN(v) {
			valid += 1
		}
	}
	if valid == 0 {
		return math.NaN()
	}
	return valid
}

func Lst(in []float64) float64 {
	lst := math.NaN()
	for _, v := range in {
		if !math.IsNaN(v) {
			lst = v
		}
	}
	return lst
}

func Min(in []float64) float64 {
	valid := false
	min := math.Inf(1)
	for _, v := range in {
		if !math.IsNaN(v) {
			valid = true
			if v < min {
				min = v
			}
		}
	}
	if !valid {
		min = math.NaN()
	}
	return min
}

func Max(in []float64) float64 {
	valid := false
	max := math.Inf(-1)
	for _, v := range in {
		if !math.IsNaN(v) {
			valid = true
			if v > max {
				max = v
			}
		}
	}
	if !valid {
		max = math.NaN()
	}
	return max
}

func Med(in []float64) float64 {
	med := math.NaN()
	vals := make([]float64, 0, len(in))
	for _, v := range in {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) != 0 {
		sort.Float64s(vals)
		mid := len(vals) / 2
		if len(vals)%2 == 0 {
			med = (vals[mid-1] + vals[mid]) / 2
		} else {
			med = vals[mid]
		}
	}
	return med
}

func StdDev(in []float64) float64 {
	avg := Avg(in)
	if math.IsNaN(avg) {
		return avg
	}
	num := float64(0)
	sumDeviationsSquared := float64(0)
	for _, v := range in {
		if !math.IsNaN(v) {
			num++
			deviation := v - avg
			sumDeviationsSquared += deviation * deviation
		}
	}
	return math.Sqrt(sumDeviationsSquared / num)
}

func Range(in []float64) float64 {
	min := Min(in)
	if math.IsNaN(min) {
		return min
	}
	return Max(in) - min
}

func Sum(in []float64) float64 {
	valid := false
	sum := float64(0)
	for _, v := range in {
		if !math.IsNaN(v) {
			valid = true
			sum += v
		}
	}
	if !valid {
		sum = math.NaN()
	}
	return sum
}
