package resultset_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soohyunc/flent/align"
	"github.com/soohyunc/flent/resultset"
	"github.com/soohyunc/flent/series"
)

func TestCollectorConcurrentProducers(t *testing.T) {
	r := resultset.NewRun("rrul")
	names := []string{"dl", "ul", "rtt"}
	for _, n := range names {
		require.NoError(t, r.AddSeries(series.NewBuffer(n, "")))
	}

	c := resultset.NewCollector(r)
	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				c.Record(name, float64(i), float64(i)*2)
			}
		}(n)
	}
	wg.Wait()
	require.NoError(t, c.Close())

	require.NoError(t, r.Finalize(align.New()))
	for _, n := range names {
		b := r.Series(n)
		require.Equal(t, 100, b.Len(), n)
		// per-producer ordering survives the funnel
		assert.Equal(t, 0.0, b.Samples()[0].T)
		assert.Equal(t, 99.0, b.Samples()[99].T)
	}
}

func TestCollectorUnknownSeries(t *testing.T) {
	r := resultset.NewRun("rrul")
	require.NoError(t, r.AddSeries(series.NewBuffer("dl", "")))
	c := resultset.NewCollector(r)
	c.Record("nosuch", 0, 1)
	require.Error(t, c.Close())
}

func TestCollectorReportsAppendError(t *testing.T) {
	r := resultset.NewRun("rrul")
	require.NoError(t, r.AddSeries(series.NewBuffer("dl", "")))
	c := resultset.NewCollector(r)
	c.Record("dl", 5, 1)
	c.Record("dl", 1, 2) // out of order
	err := c.Close()
	var ooo series.OutOfOrderError
	require.ErrorAs(t, err, &ooo)
}
