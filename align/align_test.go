package align_test

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/soohyunc/flent/align"
	"github.com/soohyunc/flent/series"
	"github.com/soohyunc/flent/test"
)

func TestAlignTwoSeries(t *testing.T) {
	a := test.MustBuffer("A", 0, 10, 1, 20, 2, 30)
	b := test.MustBuffer("B", 0.5, 100, 1.5, 200)

	m, err := align.New().Align([]*series.Buffer{a, b})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	if !test.FloatsEqual([]float64{0, 0.5, 1, 1.5, 2}, m.T) {
		t.Fatalf("unexpected index %v", m.T)
	}
	for _, n := range m.Names {
		if len(m.Columns[n]) != len(m.T) {
			t.Fatalf("column %q has %d values for %d index points", n, len(m.Columns[n]), len(m.T))
		}
	}
	if !test.FloatsEqual([]float64{10, 15, 20, 25, 30}, m.Columns["A"]) {
		t.Fatalf("unexpected column A %v", m.Columns["A"])
	}
	// B has not started at t=0 and is over at t=2: missing, not zero
	if !test.FloatsEqual([]float64{test.NaN, 100, 150, 200, test.NaN}, m.Columns["B"]) {
		t.Fatalf("unexpected column B %v", m.Columns["B"])
	}
}

func TestAlignIndexStrictlyIncreasing(t *testing.T) {
	a := test.MustBuffer("A", 0, 1, 1, 2, 2, 3)
	b := test.MustBuffer("B", 0, 5, 1, 6, 2, 7)
	m, err := align.New().Align([]*series.Buffer{a, b})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	for i := 1; i < len(m.T); i++ {
		if m.T[i] <= m.T[i-1] {
			t.Fatalf("index not strictly increasing at %d: %v", i, m.T)
		}
	}
	if len(m.T) != 3 {
		t.Fatalf("shared timestamps must merge, got %v", m.T)
	}
}

func TestAlignRoundTrip(t *testing.T) {
	// a real sample's value must come through exactly, regardless of what
	// other series are present
	a := test.MustBuffer("A", 0.1, 1.0/3.0, 0.9, 2.0/7.0)
	b := test.MustBuffer("B", 0, 1, 0.5, 2, 1.3, 3)
	m, err := align.New().Align([]*series.Buffer{a, b})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	if got := m.Value("A", 0.1); got != 1.0/3.0 {
		t.Fatalf("expected exact sample value at 0.1, got %v", got)
	}
	if got := m.Value("A", 0.9); got != 2.0/7.0 {
		t.Fatalf("expected exact sample value at 0.9, got %v", got)
	}
}

func TestAlignIdempotent(t *testing.T) {
	bufs := []*series.Buffer{
		test.MustBuffer("A", 0, 10, 1, 20, 2, 30),
		test.MustBuffer("B", 0.5, 100, 1.5, 200),
		test.MustBuffer("C", 0.25, test.NaN, 1.75, 4),
	}
	al := align.New()
	m1, err := al.Align(bufs)
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	m2, err := al.Align(bufs)
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	if diff := cmp.Diff(m1, m2, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("aligning twice produced different matrices:\n%s", diff)
	}
}

func TestAlignSingleSampleSeries(t *testing.T) {
	// zero- and one-sample series never interpolate
	a := test.MustBuffer("A", 0, 1, 1, 2, 2, 3)
	single := test.MustBuffer("single", 1, 42)
	none := test.MustBuffer("none")
	m, err := align.New().Align([]*series.Buffer{a, single, none})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	if !test.FloatsEqual([]float64{test.NaN, 42, test.NaN}, m.Columns["single"]) {
		t.Fatalf("single-sample series must only match exactly, got %v", m.Columns["single"])
	}
	if !test.FloatsEqual([]float64{test.NaN, test.NaN, test.NaN}, m.Columns["none"]) {
		t.Fatalf("empty series must be all missing, got %v", m.Columns["none"])
	}
}

func TestAlignUnfinalized(t *testing.T) {
	b := series.NewBuffer("raw", "")
	if err := b.Append(0, 1); err != nil {
		t.Fatalf("append: %s", err)
	}
	_, err := align.New().Align([]*series.Buffer{b})
	if _, ok := err.(align.Error); !ok {
		t.Fatalf("expected align.Error for unfinalized input, got %v", err)
	}
}

func TestAlignNothing(t *testing.T) {
	if _, err := align.New().Align(nil); err == nil {
		t.Fatal("expected error for empty input")
	}
	empty := test.MustBuffer("empty")
	_, err := align.New().Align([]*series.Buffer{empty})
	if _, ok := err.(align.Error); !ok {
		t.Fatalf("expected align.Error when all buffers are empty, got %v", err)
	}
}

func TestAlignDuplicateName(t *testing.T) {
	a1 := test.MustBuffer("A", 0, 1)
	a2 := test.MustBuffer("A", 0, 2)
	_, err := align.New().Align([]*series.Buffer{a1, a2})
	if _, ok := err.(align.Error); !ok {
		t.Fatalf("expected align.Error for duplicate names, got %v", err)
	}
}

func TestAlignStep(t *testing.T) {
	a := test.MustBuffer("A", 0, 0, 0.3, 3, 1.1, 11)
	al := align.New()
	al.Step = 0.5
	m, err := al.Align([]*series.Buffer{a})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	if !test.FloatsEqual([]float64{0, 0.5, 1}, m.T) {
		t.Fatalf("unexpected regular grid %v", m.T)
	}
	want := []float64{0, 5, 10}
	if !test.FloatsEqual(want, m.Columns["A"]) {
		t.Fatalf("expected %v, got %v", want, m.Columns["A"])
	}
}

func TestAlignFirstSampleZero(t *testing.T) {
	// with first-sample zeroing, launch skew between tools disappears
	a := test.MustBuffer("A", 10, 1, 11, 2)
	b := test.MustBuffer("B", 10.4, 5, 11.4, 6)
	al := align.New()
	al.FirstSampleZero = true
	m, err := al.Align([]*series.Buffer{a, b})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	if !test.FloatsEqual([]float64{0, 1}, m.T) {
		t.Fatalf("expected both series shifted onto 0, got %v", m.T)
	}
	if !test.FloatsEqual([]float64{5, 6}, m.Columns["B"]) {
		t.Fatalf("unexpected column B %v", m.Columns["B"])
	}
}

func TestAlignExplicitOffsets(t *testing.T) {
	a := test.MustBuffer("A", 10, 1, 12, 3)
	al := align.New()
	al.Offsets = map[string]float64{"A": 10}
	m, err := al.Align([]*series.Buffer{a})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	if !test.FloatsEqual([]float64{0, 2}, m.T) {
		t.Fatalf("expected offset-shifted index, got %v", m.T)
	}
}

func TestAlignToleranceMergesNearDuplicates(t *testing.T) {
	a := test.MustBuffer("A", 0, 1, 1, 2)
	b := test.MustBuffer("B", 1e-12, 5, 1+1e-12, 6)
	m, err := align.New().Align([]*series.Buffer{a, b})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	if len(m.T) != 2 {
		t.Fatalf("near-duplicate timestamps must merge within tolerance, got %v", m.T)
	}
	if !test.FloatsEqual([]float64{5, 6}, m.Columns["B"]) {
		t.Fatalf("unexpected column B %v", m.Columns["B"])
	}
}

func TestAlignMissingSampleBlocksInterpolation(t *testing.T) {
	a := test.MustBuffer("A", 0, 10, 1, test.NaN, 2, 30)
	b := test.MustBuffer("B", 0.5, 0, 1.5, 0)
	m, err := align.New().Align([]*series.Buffer{a, b})
	if err != nil {
		t.Fatalf("align: %s", err)
	}
	// interpolating across a missing sample is not valid
	if !math.IsNaN(m.Value("A", 0.5)) || !math.IsNaN(m.Value("A", 1.5)) {
		t.Fatalf("expected NaN next to a missing sample, got %v", m.Columns["A"])
	}
	if m.Value("A", 0) != 10 || m.Value("A", 2) != 30 {
		t.Fatalf("real samples must survive, got %v", m.Columns["A"])
	}
}
