package batch

import (
	"math"
	"testing"
)

var nan = math.NaN()

type testCase struct {
	name string
	fn   AggFunc
	in   []float64
	want float64
}

func TestAggregators(t *testing.T) {
	cases := []testCase{
		{"avg_basic", Avg, []float64{10, 20, 30}, 20},
		{"avg_skips_missing", Avg, []float64{10, nan, 30}, 20},
		{"avg_all_missing", Avg, []float64{nan, nan}, nan},
		{"avg_empty", Avg, []float64{}, nan},
		{"cnt", Cnt, []float64{1, nan, 3}, 2},
		{"cnt_all_missing", Cnt, []float64{nan}, nan},
		{"lst", Lst, []float64{1, 2, nan}, 2},
		{"lst_empty", Lst, []float64{}, nan},
		{"min", Min, []float64{3, nan, 1, 2}, 1},
		{"min_all_missing", Min, []float64{nan, nan}, nan},
		{"max", Max, []float64{3, nan, 1, 2}, 3},
		{"med_odd", Med, []float64{5, 1, 3}, 3},
		{"med_even", Med, []float64{4, 1, 3, 2}, 2.5},
		{"med_skips_missing", Med, []float64{nan, 1, 3}, 2},
		{"sum", Sum, []float64{1, 2, nan, 3}, 6},
		{"sum_all_missing", Sum, []float64{nan}, nan},
		{"range", Range, []float64{2, 9, nan, 4}, 7},
		{"range_empty", Range, []float64{}, nan},
		{"stddev", StdDev, []float64{2, 4, 4, 4, 5, 5, 7, 9}, 2},
		{"stddev_all_missing", StdDev, []float64{nan}, nan},
	}
	for _, c := range cases {
		got := c.fn(c.in)
		bothNaN := math.IsNaN(c.want) && math.IsNaN(got)
		if !bothNaN && got != c.want {
			t.Fatalf("case %q: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestAvgDoesNotTreatMissingAsZero(t *testing.T) {
	// mean of {10, missing} is 10, not 5
	if got := Avg([]float64{10, nan}); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
}
