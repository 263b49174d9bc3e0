package resultset

import (
	"fmt"
	"math"
)

type sampleMsg struct {
	series string
	t      float64
	val    float64
}

// Collector funnels samples from concurrently running measurement producers
// into a run's buffers through a single consumer goroutine, so each buffer
// only ever sees one writer. Producers call Record from their own goroutines;
// Close drains the channel and reports the first append failure.
type Collector struct {
	run  *RunRecord
	ch   chan sampleMsg
	done chan struct{}
	err  error
}

func NewCollector(run *RunRecord) *Collector {
	c := &Collector{
		run:  run,
		ch:   make(chan sampleMsg, 256),
		done: make(chan struct{}),
	}
	go c.consume()
	return c
}

func (c *Collector) consume() {
	defer close(c.done)
	for msg := range c.ch {
		b := c.run.Series(msg.series)
		if b == nil {
			if c.err == nil {
				c.err = fmt.Errorf("unexpected data point for unregistered series %q", msg.series)
			}
			continue
		}
		if err := b.Append(msg.t, msg.val); err != nil && c.err == nil {
			c.err = err
		}
	}
}

// Record hands one sample to the consumer. Safe to call from any goroutine.
func (c *Collector) Record(series string, t, val float64) {
	c.ch <- sampleMsg{series: series, t: t, val: val}
}

// RecordMissing records output with no usable value at t.
func (c *Collector) RecordMissing(series string, t float64) {
	c.Record(series, t, math.NaN())
}

// Close stops the consumer, waits for all pending samples to be appended and
// returns the first error the consumer hit. The run can be finalized once
// Close returns.
func (c *Collector) Close() error {
	close(c.ch)
	<-c.done
	return c.err
}
