// Package series holds the raw measurement samples for one measured quantity,
// as emitted by the per-tool output parsers. Buffers are append-only while a
// test run is in flight and frozen once the run completes.
package series

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"github.com/spenczar/tdigest"
)

// Sample is one parsed measurement. T is in seconds (run-relative or absolute,
// the buffer does not care which, as long as it is consistent within the
// buffer). Val is NaN when the tool reported no usable value at T.
// NaN is the missing-marker throughout this codebase, never zero.
type Sample struct {
	T   float64
	Val float64
}

// Stats are the descriptive statistics computed when a buffer is finalized.
// All fields are NaN when the buffer holds no valid samples.
type Stats struct {
	Mean   float64
	Min    float64
	Max    float64
	Median float64
	StdDev float64
	P95    float64
	P99    float64
	Count  int // number of non-missing samples
}

// Buffer accumulates the samples of one series within one run.
// Writes are expected to come from a single consumer goroutine, see the
// resultset package for how concurrent producers are funneled.
type Buffer struct {
	Name string
	Unit string

	samples   []Sample
	finalized bool
	td        *tdigest.TDigest
	stats     Stats
}

func NewBuffer(name, unit string) *Buffer {
	return &Buffer{
		Name: name,
		Unit: unit,
		td:   tdigest.New(),
	}
}

// Append adds one sample. Timestamps must be non-decreasing.
func (b *Buffer) Append(t, val float64) error {
	if b.finalized {
		return FinalizedError(fmt.Sprintf("series %q: append after finalize", b.Name))
	}
	if n := len(b.samples); n > 0 && t < b.samples[n-1].T {
		return OutOfOrderError(fmt.Sprintf("series %q: sample at %v precedes %v", b.Name, t, b.samples[n-1].T))
	}
	if !math.IsNaN(val) {
		b.td.Add(val, 1)
	}
	b.samples = append(b.samples, Sample{T: t, Val: val})
	return nil
}

// AppendMissing records that the tool produced output at t but no usable value.
func (b *Buffer) AppendMissing(t float64) error {
	return b.Append(t, math.NaN())
}

// Finalize freezes the buffer and computes its descriptive statistics.
// Calling it again is a no-op.
func (b *Buffer) Finalize() {
	if b.finalized {
		return
	}
	b.finalized = true
	b.stats = describe(b.samples, b.td)
}

func (b *Buffer) Finalized() bool {
	return b.finalized
}

func (b *Buffer) Len() int {
	return len(b.samples)
}

// Samples returns the underlying sample slice. Callers must not modify it;
// after Finalize the buffer is immutable by contract.
func (b *Buffer) Samples() []Sample {
	return b.samples
}

// Stats returns the descriptive statistics. Only valid after Finalize.
func (b *Buffer) Stats() Stats {
	return b.stats
}

func describe(samples []Sample, td *tdigest.TDigest) Stats {
	vals := make([]float64, 0, len(samples))
	for _, s := range samples {
		if !math.IsNaN(s.Val) {
			vals = append(vals, s.Val)
		}
	}
	st := Stats{
		Mean:   math.NaN(),
		Min:    math.NaN(),
		Max:    math.NaN(),
		Median: math.NaN(),
		StdDev: math.NaN(),
		P95:    math.NaN(),
		P99:    math.NaN(),
		Count:  len(vals),
	}
	if len(vals) == 0 {
		return st
	}
	// the stats library only errors on empty input, which is handled above
	st.Mean, _ = stats.Mean(vals)
	st.Min, _ = stats.Min(vals)
	st.Max, _ = stats.Max(vals)
	st.Median, _ = stats.Median(vals)
	st.StdDev, _ = stats.StandardDeviationPopulation(vals)
	st.P95 = td.Quantile(0.95)
	st.P99 = td.Quantile(0.99)
	return st
}
