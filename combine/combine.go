// Package combine reduces result sets into aggregate statistics or resampled
// distributions, per a declared combine mode. All reductions read the runs'
// aligned matrices, never raw sample buffers, so there is exactly one
// interpolation answering "value at time t".
package combine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/soohyunc/flent/batch"
	"github.com/soohyunc/flent/resultset"
	"github.com/soohyunc/flent/table"
)

// scalarFunc reduces one run to a scalar. It also reports how many missing
// values it excluded along the way.
type scalarFunc func(r *resultset.RunRecord, spec Spec) (float64, int)

// Engine dispatches combine specs to their mode handlers. The handler
// registry is built once at construction, nothing is registered globally.
type Engine struct {
	handlers map[Mode]scalarFunc
}

func NewEngine() *Engine {
	return &Engine{
		handlers: map[Mode]scalarFunc{
			ModeMean:     meanScalar,
			ModeMeta:     metaScalar,
			ModeSpan:     spanScalar,
			ModeMeanSpan: spanScalar,
		},
	}
}

// CDFPoint is one point of an empirical CDF curve.
type CDFPoint struct {
	Value    float64
	Fraction float64
}

// GroupResult holds the per-run scalars of one group, in run order, with
// their provenance.
type GroupResult struct {
	Key    string
	RunIDs []string
	Labels []string
	Values []float64 // one scalar per run; NaN when the run had no valid data

	// Mean and StdDev summarize the non-missing scalars of the group.
	Mean   float64
	StdDev float64

	// CDF is set when the spec asked for CDF resampling.
	CDF []CDFPoint
}

// Result is the outcome of one combine request.
type Result struct {
	Spec   Spec
	Groups []GroupResult
	// Excluded counts the missing-marker values that were left out of the
	// aggregates rather than silently treated as zero.
	Excluded int
}

// Combine reduces the result set per the spec. The result set itself is
// never modified; a failed combine leaves it fully usable.
func (e *Engine) Combine(rs *resultset.ResultSet, spec Spec) (*Result, error) {
	if rs.Len() == 0 {
		return nil, EmptyResultSetError(fmt.Sprintf("result set %q has no runs to combine", rs.Name))
	}
	h, ok := e.handlers[spec.Mode]
	if !ok {
		return nil, UnknownModeError(fmt.Sprintf("no handler for combine mode %q", spec.Mode))
	}
	res := &Result{Spec: spec}
	for _, g := range groupsFor(rs, spec) {
		gr := GroupResult{Key: g.Key, Mean: math.NaN(), StdDev: math.NaN()}
		for _, i := range g.Runs {
			r := rs.Run(i)
			v, excluded := h(r, spec)
			res.Excluded += excluded
			gr.RunIDs = append(gr.RunIDs, r.ID)
			gr.Labels = append(gr.Labels, r.Label())
			gr.Values = append(gr.Values, v)
		}
		valid := make([]float64, 0, len(gr.Values))
		for _, v := range gr.Values {
			if !math.IsNaN(v) {
				valid = append(valid, v)
			}
		}
		res.Excluded += len(gr.Values) - len(valid)
		if len(valid) > 0 {
			gr.Mean = stat.Mean(valid, nil)
			gr.StdDev = stat.StdDev(valid, nil)
		}
		if spec.CDF {
			gr.CDF = cdf(valid)
		}
		res.Groups = append(res.Groups, gr)
	}
	return res, nil
}

func groupsFor(rs *resultset.ResultSet, spec Spec) []resultset.Group {
	if spec.GroupBy != "" {
		return rs.GroupBy(func(r *resultset.RunRecord) string {
			return r.Settings[spec.GroupBy]
		})
	}
	return rs.Groups()
}

// meanScalar computes the arithmetic mean of the aligned series within the
// cutoff window. All-missing input yields NaN, not zero and not an error.
func meanScalar(r *resultset.RunRecord, spec Spec) (float64, int) {
	m := r.Matrix()
	var vals []float64
	if spec.Cutoff != nil {
		vals = m.Window(spec.Series, spec.Cutoff.Start, spec.Cutoff.End)
	} else {
		vals = m.Columns[spec.Series]
	}
	excluded := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			excluded++
		}
	}
	return batch.Avg(vals), excluded
}

// metaScalar reads a precomputed run-level metadata value. A missing key
// yields the missing-marker for that run.
func metaScalar(r *resultset.RunRecord, spec Spec) (float64, int) {
	v, ok := r.Meta(spec.MetaKey)
	if !ok {
		return math.NaN(), 0
	}
	return v, 0
}

// spanScalar interpolates the series at the two cutoff boundaries and takes
// the delta. Without a cutoff the series' own observed extent is used.
func spanScalar(r *resultset.RunRecord, spec Spec) (float64, int) {
	m := r.Matrix()
	start, end := 0.0, 0.0
	if spec.Cutoff != nil {
		start, end = spec.Cutoff.Start, spec.Cutoff.End
	} else {
		var ok bool
		start, end, ok = m.Extent(spec.Series)
		if !ok {
			return math.NaN(), 0
		}
	}
	return m.Value(spec.Series, end) - m.Value(spec.Series, start), 0
}

// Table converts the result to the columnar interchange structure: one
// labeled row per run, or one row per CDF point when resampling.
func (res *Result) Table() *table.Table {
	if res.Spec.CDF {
		t := table.New(res.Spec.ColumnName(), "cumulative_fraction")
		for _, g := range res.Groups {
			for _, p := range g.CDF {
				t.AddLabeledRow(g.Key, p.Value, p.Fraction)
			}
		}
		return t
	}
	t := table.New(res.Spec.ColumnName())
	for _, g := range res.Groups {
		for i, v := range g.Values {
			label := g.Labels[i]
			if g.Key != "" {
				label = g.Key + "/" + label
			}
			t.AddLabeledRow(label, v)
		}
	}
	return t
}
