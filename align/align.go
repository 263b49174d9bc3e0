// Package align reconciles the independently sampled series of one test run
// onto a single shared time index via linear interpolation. Measurement tools
// are launched concurrently but never sample in lockstep, so their series
// arrive with different timestamp sets and different start offsets.
package align

import (
	"fmt"
	"math"
	"sort"

	"github.com/soohyunc/flent/series"
)

// Error is reported for malformed alignment input: unfinalized buffers,
// duplicate names, or nothing to align.
type Error string

func (e Error) Error() string {
	return string(e)
}

// DefaultTolerance is the default duplicate-merge tolerance for the time
// index, in seconds.
const DefaultTolerance = 1e-9

// Aligner produces an aligned Matrix from the finalized series buffers of
// one run. The zero value is not usable, use New.
type Aligner struct {
	// Tolerance within which two timestamps count as the same index point.
	Tolerance float64
	// Step, when non-zero, re-grids the index to regular steps of this many
	// seconds instead of keeping the union of all sample timestamps.
	Step float64
	// Offsets holds per-series start offsets to subtract, for wrappers that
	// know when a tool actually started (e.g. its self-reported start time)
	// and want launch skew compensated. Series without an entry keep their
	// timestamps as-is: the default zero time is the common wrapper-observed
	// run start that all parsers stamp against.
	Offsets map[string]float64
	// FirstSampleZero shifts every series without an explicit offset so its
	// own first sample lands at t=0 ("all commands observed as started").
	FirstSampleZero bool
}

func New() *Aligner {
	return &Aligner{Tolerance: DefaultTolerance}
}

// Align merges the given finalized buffers onto one master time index.
// The result is a pure function of the inputs and the aligner settings:
// aligning the same buffers twice yields identical matrices.
func (a *Aligner) Align(bufs []*series.Buffer) (*Matrix, error) {
	tol := a.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	if len(bufs) == 0 {
		return nil, Error("nothing to align")
	}
	seen := make(map[string]bool, len(bufs))
	empty := true
	for _, b := range bufs {
		if !b.Finalized() {
			return nil, Error(fmt.Sprintf("series %q is not finalized", b.Name))
		}
		if seen[b.Name] {
			return nil, Error(fmt.Sprintf("duplicate series %q", b.Name))
		}
		seen[b.Name] = true
		if b.Len() > 0 {
			empty = false
		}
	}
	if empty {
		return nil, Error("all input series are empty")
	}

	shifted := make([][]series.Sample, len(bufs))
	for i, b := range bufs {
		shifted[i] = a.shift(b)
	}

	m := &Matrix{
		T:         a.index(shifted, tol),
		Columns:   make(map[string][]float64, len(bufs)),
		Tolerance: tol,
	}
	for i, b := range bufs {
		m.Names = append(m.Names, b.Name)
		m.Columns[b.Name] = column(m.T, shifted[i], tol)
	}
	return m, nil
}

// shift moves a buffer's samples onto the run-relative zero time.
func (a *Aligner) shift(b *series.Buffer) []series.Sample {
	src := b.Samples()
	if len(src) == 0 {
		return nil
	}
	off, ok := a.Offsets[b.Name]
	if !ok && a.FirstSampleZero {
		off = src[0].T
	}
	out := make([]series.Sample, len(src))
	for i, s := range src {
		out[i] = series.Sample{T: s.T - off, Val: s.Val}
	}
	return out
}

// index builds the master time index: the sorted union of all shifted sample
// timestamps with duplicates merged within tolerance, or a regular grid over
// the same extent when a step is configured.
func (a *Aligner) index(shifted [][]series.Sample, tol float64) []float64 {
	var all []float64
	for _, ss := range shifted {
		for _, s := range ss {
			all = append(all, s.T)
		}
	}
	sort.Float64s(all)
	T := make([]float64, 0, len(all))
	for _, t := range all {
		if len(T) == 0 || t-T[len(T)-1] > tol {
			T = append(T, t)
		}
	}
	if a.Step > 0 && len(T) > 1 {
		grid := make([]float64, 0, int((T[len(T)-1]-T[0])/a.Step)+1)
		for t := T[0]; t <= T[len(T)-1]+tol; t += a.Step {
			grid = append(grid, t)
		}
		return grid
	}
	return T
}

// column computes the value of one series at every index point: the sample's
// own value on an exact match, linear interpolation between the bracketing
// samples otherwise, NaN outside the observed extent (no extrapolation).
func column(T []float64, in []series.Sample, tol float64) []float64 {
	out := make([]float64, len(T))
	if len(in) < 2 {
		// a series with zero or one sample never participates in
		// interpolation: exact index matches only
		for i := range out {
			out[i] = math.NaN()
		}
		if len(in) == 1 {
			for i, t := range T {
				if math.Abs(t-in[0].T) <= tol {
					out[i] = in[0].Val
				}
			}
		}
		return out
	}
	j := 0
	for i, t := range T {
		for j < len(in) && in[j].T < t-tol {
			j++
		}
		switch {
		case j >= len(in) || (j == 0 && in[0].T > t+tol):
			out[i] = math.NaN()
		case math.Abs(in[j].T-t) <= tol:
			out[i] = in[j].Val
		default:
			out[i] = lerp(in[j-1], in[j], t)
		}
	}
	return out
}

func lerp(a, b series.Sample, t float64) float64 {
	if math.IsNaN(a.Val) || math.IsNaN(b.Val) {
		return math.NaN()
	}
	frac := (t - a.T) / (b.T - a.T)
	return a.Val + frac*(b.Val-a.Val)
}
