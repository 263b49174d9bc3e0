package series

import (
	"math"
	"testing"
)

func TestAppendOutOfOrder(t *testing.T) {
	b := NewBuffer("latency", "ms")
	if err := b.Append(1, 10); err != nil {
		t.Fatalf("append: %s", err)
	}
	if err := b.Append(1, 11); err != nil {
		t.Fatalf("append at equal timestamp should be allowed, got %s", err)
	}
	err := b.Append(0.5, 12)
	if _, ok := err.(OutOfOrderError); !ok {
		t.Fatalf("expected OutOfOrderError, got %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("failed append must not retain partial state, len=%d", b.Len())
	}
}

func TestAppendAfterFinalize(t *testing.T) {
	b := NewBuffer("latency", "ms")
	if err := b.Append(0, 1); err != nil {
		t.Fatalf("append: %s", err)
	}
	b.Finalize()
	err := b.Append(1, 2)
	if _, ok := err.(FinalizedError); !ok {
		t.Fatalf("expected FinalizedError, got %v", err)
	}
}

func TestFinalizeStats(t *testing.T) {
	b := NewBuffer("throughput", "Mbps")
	for i, v := range []float64{10, 20, math.NaN(), 30} {
		if err := b.Append(float64(i), v); err != nil {
			t.Fatalf("append: %s", err)
		}
	}
	b.Finalize()
	st := b.Stats()
	if st.Count != 3 {
		t.Fatalf("expected 3 non-missing samples, got %d", st.Count)
	}
	if st.Mean != 20 {
		t.Fatalf("expected mean 20, got %v", st.Mean)
	}
	if st.Min != 10 || st.Max != 30 {
		t.Fatalf("expected min 10 max 30, got %v %v", st.Min, st.Max)
	}
	if st.Median != 20 {
		t.Fatalf("expected median 20, got %v", st.Median)
	}
}

func TestFinalizeEmpty(t *testing.T) {
	b := NewBuffer("empty", "")
	b.Finalize()
	st := b.Stats()
	if st.Count != 0 {
		t.Fatalf("expected count 0, got %d", st.Count)
	}
	if !math.IsNaN(st.Mean) || !math.IsNaN(st.Min) || !math.IsNaN(st.Max) {
		t.Fatalf("stats of an empty buffer must be the missing-marker, got %+v", st)
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	b := NewBuffer("x", "")
	if err := b.Append(0, 5); err != nil {
		t.Fatalf("append: %s", err)
	}
	b.Finalize()
	first := b.Stats()
	b.Finalize()
	if b.Stats() != first {
		t.Fatalf("second finalize changed stats: %+v vs %+v", first, b.Stats())
	}
}

func TestAppendMissing(t *testing.T) {
	b := NewBuffer("loss", "%")
	if err := b.AppendMissing(0); err != nil {
		t.Fatalf("append missing: %s", err)
	}
	if err := b.Append(1, 0); err != nil {
		t.Fatalf("append: %s", err)
	}
	b.Finalize()
	if !math.IsNaN(b.Samples()[0].Val) {
		t.Fatalf("missing sample should be NaN, got %v", b.Samples()[0].Val)
	}
	// a recorded zero is a real measurement, distinct from missing
	if b.Stats().Count != 1 || b.Stats().Mean != 0 {
		t.Fatalf("expected one real sample with mean 0, got %+v", b.Stats())
	}
}
