package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_FirstSampleSetsState(t *testing.T) {
	e := NewEMA(0.5)
	out := e.Next(10)
	assert.Equal(t, 10.0, out, "first output should equal first input")
	// second call should blend now
	out2 := e.Next(20)
	assert.InDelta(t, 15.0, out2, 1e-9, "EMA(0.5) of 10 then 20 should be 15")
}

func TestEMA_SequenceAlphaPointFive(t *testing.T) {
	e := NewEMA(0.5)
	// inputs: 10, 20, 20, 40
	got := make([]float64, 0, 4)
	got = append(got, e.Next(10)) // 10
	got = append(got, e.Next(20)) // 0.5*20 + 0.5*10 = 15
	got = append(got, e.Next(20)) // 0.5*20 + 0.5*15 = 17.5
	got = append(got, e.Next(40)) // 0.5*40 + 0.5*17.5 = 28.75

	want := []float64{10, 15, 17.5, 28.75}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-9, "i=%d", i)
	}
}

func TestEMA_AlphaOne_NoSmoothing(t *testing.T) {
	e := NewEMA(1.0)
	// First value passes through, then always equal to latest input
	assert.Equal(t, 10.0, e.Next(10))
	assert.Equal(t, 20.0, e.Next(20))
	assert.Equal(t, 5.0, e.Next(5))
}

func TestEMA_AlphaZero_HoldsInitialValue(t *testing.T) {
	e := NewEMA(0.0)
	// First sample sets state; subsequent outputs remain at that value
	assert.Equal(t, 10.0, e.Next(10))
	assert.Equal(t, 10.0, e.Next(20))
	assert.Equal(t, 10.0, e.Next(-5))
}

func TestEMA_AlphaIsClamped(t *testing.T) {
	e := NewEMA(7)
	assert.Equal(t, 10.0, e.Next(10))
	assert.Equal(t, 20.0, e.Next(20), "alpha > 1 behaves like alpha = 1")
}

func TestDeltaU64(t *testing.T) {
	t.Run("normal_increase", func(t *testing.T) {
		assert.Equal(t, uint64(10), DeltaU64(110, 100))
	})
	t.Run("no_change", func(t *testing.T) {
		assert.Equal(t, uint64(0), DeltaU64(100, 100))
	})
	t.Run("wrap_or_reset", func(t *testing.T) {
		assert.Equal(t, uint64(0), DeltaU64(99, 100))
	})
	t.Run("large_values", func(t *testing.T) {
		const hi = ^uint64(0) - 5
		assert.Equal(t, uint64(5), DeltaU64(hi, hi-5))
	})
}

func TestSafeDiv(t *testing.T) {
	const eps = 1e-12

	t.Run("regular", func(t *testing.T) {
		require.InDelta(t, 2.5, SafeDiv(5, 2), 1e-12)
		require.InDelta(t, -2.5, SafeDiv(5, -2), 1e-12)
	})
	t.Run("zero_denominator", func(t *testing.T) {
		assert.Equal(t, 0.0, SafeDiv(123, 0))
		assert.Equal(t, 0.0, SafeDiv(0, 0))
	})
	t.Run("tiny_denominator_below_eps", func(t *testing.T) {
		assert.Equal(t, 0.0, SafeDiv(1, eps/10))
		assert.Equal(t, 0.0, SafeDiv(1, -eps/10))
	})
}

func TestClamp01(t *testing.T) {
	t.Run("below_zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Clamp01(-1e9))
	})
	t.Run("within_range", func(t *testing.T) {
		assert.InDelta(t, 0.123, Clamp01(0.123), 0)
	})
	t.Run("above_one", func(t *testing.T) {
		assert.Equal(t, 1.0, Clamp01(42))
		assert.Equal(t, 1.0, Clamp01(math.Inf(1)))
	})
	t.Run("NaN_becomes_zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Clamp01(math.NaN()))
	})
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 60.0, Percent(0.6), 1e-9)
	assert.Equal(t, 0.0, Percent(math.NaN()))
	assert.Equal(t, 0.0, Percent(math.Inf(1)))
	assert.InDelta(t, 250.0, Percent(2.5), 1e-9, "ratios above one are not clamped")
}
