package cpu

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counters replays a fixed sequence of (total, active) readings and then
// repeats the last one.
type counters struct {
	mu    sync.Mutex
	reads [][2]uint64
	n     int
}

func (c *counters) CPUJiffies() (uint64, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := min(c.n, len(c.reads)-1)
	c.n++
	return c.reads[i][0], c.reads[i][1]
}

func TestUtilization_FirstCallIsSinceBoot(t *testing.T) {
	p := New(&counters{reads: [][2]uint64{{1000, 250}}})
	assert.InDelta(t, 0.25, p.Utilization(), 1e-12)
	assert.Equal(t, Sample{Total: 1000, Active: 250}, p.Last())
}

func TestUtilization_Deltas(t *testing.T) {
	p := New(&counters{reads: [][2]uint64{
		{1000, 250},
		{1100, 300}, // 50/100
		{1300, 500}, // 200/200
		{1400, 500}, // 0/100
	}})
	_ = p.Utilization()

	want := []float64{0.5, 1.0, 0.0}
	for i, w := range want {
		assert.InDelta(t, w, p.Utilization(), 1e-12, "tick %d", i+1)
	}
}

func TestUtilization_NoAdvanceIsZero(t *testing.T) {
	p := New(&counters{reads: [][2]uint64{{5000, 1200}}})
	_ = p.Utilization()

	u := p.Utilization()
	assert.False(t, math.IsNaN(u))
	assert.Equal(t, 0.0, u)
}

func TestUtilization_ZeroCounters(t *testing.T) {
	p := New(&counters{reads: [][2]uint64{{0, 0}}})
	assert.Equal(t, 0.0, p.Utilization(), "unreadable source yields zero")
}

func TestUtilization_CounterReset(t *testing.T) {
	p := New(&counters{reads: [][2]uint64{
		{1000, 500},
		{100, 50},  // went backwards
		{200, 150}, // 100/100 from the new baseline
	}})
	_ = p.Utilization()
	assert.Equal(t, 0.0, p.Utilization())
	assert.Equal(t, Sample{Total: 100, Active: 50}, p.Last())
	assert.InDelta(t, 1.0, p.Utilization(), 1e-12)
}

func TestUtilization_Concurrent(t *testing.T) {
	reads := make([][2]uint64, 0, 100)
	for i := uint64(1); i <= 100; i++ {
		reads = append(reads, [2]uint64{i * 100, i * 40})
	}
	p := New(&counters{reads: reads})

	var wg sync.WaitGroup
	results := make([]float64, 100)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Utilization()
		}(i)
	}
	wg.Wait()

	// Every reading is strictly newer than the stored one, so each call
	// sees exactly one step of 40/100.
	for _, u := range results {
		require.InDelta(t, 0.4, u, 1e-12)
	}
	assert.Equal(t, Sample{Total: 10000, Active: 4000}, p.Last())
}
