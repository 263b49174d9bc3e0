package align

import (
	"math"
	"sort"

	"github.com/soohyunc/flent/batch"
	"github.com/soohyunc/flent/table"
)

// Matrix is the output of alignment: one shared time index and one value
// column per series, all of the same length. NaN marks points where
// interpolation is not valid, i.e. outside a series' observed extent.
type Matrix struct {
	T         []float64
	Names     []string // column order
	Columns   map[string][]float64
	Tolerance float64 // duplicate-merge tolerance the index was built with
}

func (m *Matrix) Len() int {
	return len(m.T)
}

// Value returns the value of the named series at an arbitrary time t,
// linearly interpolated between the matrix's aligned points. This is the
// single source of truth for "value at time t": reductions never re-derive
// values from raw samples.
func (m *Matrix) Value(name string, t float64) float64 {
	col, ok := m.Columns[name]
	if !ok || len(m.T) == 0 {
		return math.NaN()
	}
	i := sort.SearchFloat64s(m.T, t)
	if i < len(m.T) && m.T[i]-t <= m.Tolerance {
		return col[i]
	}
	if i > 0 && t-m.T[i-1] <= m.Tolerance {
		return col[i-1]
	}
	if i == 0 || i >= len(m.T) {
		// no extrapolation outside the index
		return math.NaN()
	}
	a, b := col[i-1], col[i]
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.NaN()
	}
	frac := (t - m.T[i-1]) / (m.T[i] - m.T[i-1])
	return a + frac*(b-a)
}

// Window returns the column values whose time falls within [start, end],
// boundaries inclusive.
func (m *Matrix) Window(name string, start, end float64) []float64 {
	col, ok := m.Columns[name]
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(col))
	for i, t := range m.T {
		if t >= start-m.Tolerance && t <= end+m.Tolerance {
			out = append(out, col[i])
		}
	}
	return out
}

// Extent returns the time range over which the named series has real values.
func (m *Matrix) Extent(name string) (start, end float64, ok bool) {
	col, found := m.Columns[name]
	if !found {
		return 0, 0, false
	}
	for i, v := range col {
		if !math.IsNaN(v) {
			if !ok {
				start = m.T[i]
				ok = true
			}
			end = m.T[i]
		}
	}
	return start, end, ok
}

// LastValue returns the last non-missing value of the column, NaN if there
// is none.
func (m *Matrix) LastValue(name string) float64 {
	return batch.Lst(m.Columns[name])
}

// Smoothed returns a moving-average view of the column: each point becomes
// the mean of the non-missing values in a window of the given size centered
// on it. Points that are missing stay missing.
func (m *Matrix) Smoothed(name string, amount int) []float64 {
	col, ok := m.Columns[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(col))
	for i := range col {
		if math.IsNaN(col[i]) {
			out[i] = math.NaN()
			continue
		}
		s := i - amount/2
		if s < 0 {
			s = 0
		}
		e := i + amount/2
		if e > len(col) {
			e = len(col)
		}
		out[i] = batch.Avg(col[s:e])
	}
	return out
}

// Table converts the matrix to the columnar interchange structure, one row
// per time point with "time" as the first column.
func (m *Matrix) Table() *table.Table {
	t := table.New(append([]string{"time"}, m.Names...)...)
	for i, ts := range m.T {
		row := make([]float64, 0, len(m.Names)+1)
		row = append(row, ts)
		for _, n := range m.Names {
			row = append(row, m.Columns[n][i])
		}
		t.AddRow(row...)
	}
	return t
}
