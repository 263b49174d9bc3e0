// Package resultset holds the data model for completed test executions: one
// RunRecord per run, accumulated into a ResultSet across repeated runs of the
// same test for cross-run aggregation.
package resultset

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/soohyunc/flent/align"
	"github.com/soohyunc/flent/series"
)

type runState int

const (
	building runState = iota
	finalized
	aborted
)

// RunRecord is one complete test execution: the raw series buffers collected
// during the run, the aligned matrix produced at run end, and run-level
// metadata. It is mutable while the run is in flight and frozen by Finalize.
type RunRecord struct {
	ID    string
	Name  string
	Title string
	Start time.Time

	// Settings records the resolved test configuration the run was started
	// with (test parameters, command lines, hosts). Informational only.
	Settings map[string]string

	mu      sync.Mutex
	buffers map[string]*series.Buffer
	order   []string
	meta    map[string]float64
	matrix  *align.Matrix
	state   runState
}

func NewRun(name string) *RunRecord {
	return &RunRecord{
		ID:       uuid.NewString(),
		Name:     name,
		Start:    time.Now(),
		Settings: make(map[string]string),
		buffers:  make(map[string]*series.Buffer),
		meta:     make(map[string]float64),
	}
}

// AddSeries registers a series buffer with the run. Buffers are registered
// up front, before their producers start feeding samples.
func (r *RunRecord) AddSeries(b *series.Buffer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != building {
		return FrozenRunError(fmt.Sprintf("run %s: cannot add series %q to a %s run", r.ID, b.Name, r.stateName()))
	}
	if _, ok := r.buffers[b.Name]; ok {
		return DuplicateSeriesError(fmt.Sprintf("run %s: series %q already present", r.ID, b.Name))
	}
	r.buffers[b.Name] = b
	r.order = append(r.order, b.Name)
	return nil
}

// Series returns the named buffer, nil if unknown.
func (r *RunRecord) Series(name string) *series.Buffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buffers[name]
}

// SeriesNames returns the series names in registration order.
func (r *RunRecord) SeriesNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// SetMeta records a run-level scalar (e.g. total bytes transferred), keyed by
// name. Combine mode "meta:<KEY>" reads these back without touching samples.
func (r *RunRecord) SetMeta(key string, val float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meta[key] = val
}

func (r *RunRecord) Meta(key string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.meta[key]
	return v, ok
}

// SeriesStats returns the finalized descriptive statistics of the named
// series. Only meaningful after Finalize.
func (r *RunRecord) SeriesStats(name string) (series.Stats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buffers[name]
	if !ok {
		return series.Stats{}, false
	}
	return b.Stats(), true
}

// Finalize is the synchronization barrier at run end: it freezes every
// contributing buffer and aligns them with the given aligner. No aligner
// logic runs before this point. After Finalize the record is immutable.
func (r *RunRecord) Finalize(a *align.Aligner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case finalized:
		return nil
	case aborted:
		return IncompleteRunError(fmt.Sprintf("run %s: aborted, cannot finalize", r.ID))
	}
	bufs := make([]*series.Buffer, 0, len(r.order))
	for _, name := range r.order {
		b := r.buffers[name]
		b.Finalize()
		bufs = append(bufs, b)
	}
	m, err := a.Align(bufs)
	if err != nil {
		return err
	}
	// record the per-series means alongside any tool-reported metadata so
	// meta combine modes can reach them uniformly
	for _, b := range bufs {
		r.meta[b.Name+":MEAN_VALUE"] = b.Stats().Mean
	}
	r.matrix = m
	r.state = finalized
	return nil
}

// Abort marks the run incomplete, e.g. because a contributing measurement
// stream died. Aborted runs are never aligned and are rejected by
// ResultSet.Add, so aggregation only ever sees fully aligned runs.
func (r *RunRecord) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == building {
		r.state = aborted
	}
}

func (r *RunRecord) Finalized() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == finalized
}

func (r *RunRecord) Aborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == aborted
}

// Matrix returns the aligned matrix, nil before Finalize.
func (r *RunRecord) Matrix() *align.Matrix {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matrix
}

// Label is what plots identify the run by: the title if set, else the start
// time.
func (r *RunRecord) Label() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Start.Format("2006-01-02 15:04:05")
}

func (r *RunRecord) stateName() string {
	switch r.state {
	case finalized:
		return "finalized"
	case aborted:
		return "aborted"
	}
	return "building"
}
