// Package test contains utility functions used by tests in various packages.
package test

import (
	"math"

	"github.com/soohyunc/flent/series"
)

// MustBuffer builds a finalized buffer from (t, val) pairs, panicking on
// malformed input. For test setup only.
func MustBuffer(name string, points ...float64) *series.Buffer {
	if len(points)%2 != 0 {
		panic("MustBuffer needs (t, val) pairs")
	}
	b := series.NewBuffer(name, "")
	for i := 0; i < len(points); i += 2 {
		if err := b.Append(points[i], points[i+1]); err != nil {
			panic(err)
		}
	}
	b.Finalize()
	return b
}

// FloatsEqual compares float slices treating NaN as equal to NaN, which is
// what "missing == missing" means here. reflect.DeepEqual can't do that, see
// https://github.com/golang/go/issues/12025
func FloatsEqual(exp, got []float64) bool {
	if len(exp) != len(got) {
		return false
	}
	for i := range exp {
		bothNaN := math.IsNaN(exp[i]) && math.IsNaN(got[i])
		if !bothNaN && exp[i] != got[i] {
			return false
		}
	}
	return true
}

// NaN is a shorthand for the missing-marker in test fixtures.
var NaN = math.NaN()
