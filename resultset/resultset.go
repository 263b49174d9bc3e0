package resultset

import (
	"fmt"
	"math"

	"github.com/soohyunc/flent/align"
)

// ResultSet is the ordered collection of completed runs of one test. It only
// grows by appending finalized runs; combination reads it without locking
// because every contained RunRecord is immutable once added.
type ResultSet struct {
	Name string

	runs []*RunRecord
	keys []string // logical group key per run, "" when ungrouped
}

func New(name string) *ResultSet {
	return &ResultSet{Name: name}
}

// Add appends a completed run.
func (rs *ResultSet) Add(r *RunRecord) error {
	return rs.AddGrouped(r, "")
}

// AddGrouped appends a completed run under a logical group key, e.g. the
// value of a parameter varied between runs.
func (rs *ResultSet) AddGrouped(r *RunRecord, key string) error {
	if !r.Finalized() {
		return IncompleteRunError(fmt.Sprintf("run %s is not finalized", r.ID))
	}
	rs.runs = append(rs.runs, r)
	rs.keys = append(rs.keys, key)
	return nil
}

func (rs *ResultSet) Len() int {
	return len(rs.runs)
}

func (rs *ResultSet) Run(i int) *RunRecord {
	return rs.runs[i]
}

// Series returns a lazy view of the named series across all runs, in run
// order. No column data is copied.
func (rs *ResultSet) Series(name string) SeriesView {
	return SeriesView{rs: rs, name: name}
}

// Group is a view into the run list: indexes, not copies.
type Group struct {
	Key  string
	Runs []int
}

// GroupBy partitions the runs into named groups by the given key function,
// ordered by first appearance. The underlying run data is shared, not copied.
func (rs *ResultSet) GroupBy(key func(*RunRecord) string) []Group {
	var out []Group
	idx := make(map[string]int)
	for i, r := range rs.runs {
		k := key(r)
		j, ok := idx[k]
		if !ok {
			j = len(out)
			idx[k] = j
			out = append(out, Group{Key: k})
		}
		out[j].Runs = append(out[j].Runs, i)
	}
	return out
}

// Groups partitions by the group keys the runs were added with.
func (rs *ResultSet) Groups() []Group {
	var out []Group
	idx := make(map[string]int)
	for i, k := range rs.keys {
		j, ok := idx[k]
		if !ok {
			j = len(out)
			idx[k] = j
			out = append(out, Group{Key: k})
		}
		out[j].Runs = append(out[j].Runs, i)
	}
	return out
}

// Concatenate stitches the aligned matrices of all runs onto one time axis,
// each run starting one step after the previous run's last point. The column
// set is the union of all series names; runs that lack a series contribute
// NaN. Useful for plotting sequential runs as one timeline.
func (rs *ResultSet) Concatenate(step float64) (*align.Matrix, error) {
	if len(rs.runs) == 0 {
		return nil, IncompleteRunError("result set is empty, nothing to concatenate")
	}
	if step <= 0 {
		return nil, fmt.Errorf("concatenate: step must be positive, got %v", step)
	}
	var names []string
	seen := make(map[string]bool)
	for _, r := range rs.runs {
		for _, n := range r.Matrix().Names {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	out := &align.Matrix{
		Names:     names,
		Columns:   make(map[string][]float64, len(names)),
		Tolerance: rs.runs[0].Matrix().Tolerance,
	}
	offset := 0.0
	for i, r := range rs.runs {
		m := r.Matrix()
		if i > 0 {
			offset += step
		}
		for _, t := range m.T {
			out.T = append(out.T, t+offset)
		}
		for _, n := range names {
			col := m.Columns[n]
			for j := 0; j < m.Len(); j++ {
				if col == nil {
					out.Columns[n] = append(out.Columns[n], math.NaN())
				} else {
					out.Columns[n] = append(out.Columns[n], col[j])
				}
			}
		}
		if m.Len() > 0 {
			offset += m.T[m.Len()-1]
		}
	}
	return out, nil
}

// SeriesView is a lazy cross-run view of one series. It indexes into the
// result set rather than copying columns.
type SeriesView struct {
	rs   *ResultSet
	name string
}

func (v SeriesView) Name() string {
	return v.name
}

func (v SeriesView) Len() int {
	return v.rs.Len()
}

func (v SeriesView) Run(i int) *RunRecord {
	return v.rs.Run(i)
}

// Column returns the aligned column of the series in run i, nil when the run
// did not record it.
func (v SeriesView) Column(i int) []float64 {
	return v.rs.Run(i).Matrix().Columns[v.name]
}
