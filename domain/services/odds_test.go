package services

import (
	"testing"

	"betshop/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestBias(t *testing.T) {
	assert.Equal(t, 0.0, Bias(500, 0), "empty market has no bias")
	assert.Equal(t, 0.0, Bias(0, 1000))
	assert.Equal(t, 0.25, Bias(250, 1000))
	assert.Equal(t, 1.0, Bias(1000, 1000))
}

func TestSuggestedOdd_StaysInsideBounds(t *testing.T) {
	for bias := 0.0; bias <= 1.0; bias += 0.01 {
		odd := SuggestedOdd(bias)
		assert.GreaterOrEqual(t, odd, entities.MinOdd, "bias %.2f", bias)
		assert.LessOrEqual(t, odd, entities.MaxOdd, "bias %.2f", bias)
	}
}

func TestSuggestedOdd_Endpoints(t *testing.T) {
	// No money on the option: 2.0/0.6
	assert.InDelta(t, 3.33, SuggestedOdd(0), 0.001)
	// All money on the option: 2.0/1.4
	assert.InDelta(t, 1.43, SuggestedOdd(1), 0.001)
}

func TestApplyDeltaCap(t *testing.T) {
	// Within the cap the suggested odd passes through unchanged
	assert.InDelta(t, 2.10, ApplyDeltaCap(2.00, 2.10), 0.001)
	assert.InDelta(t, 1.75, ApplyDeltaCap(2.00, 1.75), 0.001)

	// Beyond the cap the result moves exactly the cap distance
	assert.InDelta(t, 2.25, ApplyDeltaCap(2.00, 3.33), 0.001)
	assert.InDelta(t, 1.75, ApplyDeltaCap(2.00, 1.43), 0.001)
}

func TestApplyDeltaCap_NeverExceedsCap(t *testing.T) {
	currents := []float64{1.2, 1.43, 2.0, 3.33, 5.0}
	suggesteds := []float64{1.2, 1.5, 2.5, 4.0, 5.0}
	for _, current := range currents {
		for _, suggested := range suggesteds {
			result := ApplyDeltaCap(current, suggested)
			diff := result - current
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, OddDeltaCap+0.001,
				"current %.2f suggested %.2f", current, suggested)
		}
	}
}

func TestPoolPayout(t *testing.T) {
	// Net pool 88000, winner holds 5000 of the 20000 winning total
	assert.Equal(t, int64(22000), PoolPayout(100000, 12, 20000, 5000))
}

func TestPoolPayout_NoWinners(t *testing.T) {
	assert.Equal(t, int64(0), PoolPayout(100000, 12, 0, 5000))
	assert.Equal(t, int64(0), PoolPayout(50000, 5, -1, 1000))
}

func TestPoolPayout_NeverOverDistributes(t *testing.T) {
	// Awkward amounts chosen so per-ticket truncation matters
	cases := []struct {
		totalWagered int64
		feePct       float64
		tickets      []int64
	}{
		{100001, 12, []int64{3333, 3333, 3335}},
		{99999, 7.5, []int64{1, 2, 99996}},
		{77777, 10, []int64{25925, 25926, 25926}},
	}

	for _, tc := range cases {
		var winningTotal int64
		for _, amt := range tc.tickets {
			winningTotal += amt
		}

		var distributed int64
		for _, amt := range tc.tickets {
			distributed += PoolPayout(tc.totalWagered, tc.feePct, winningTotal, amt)
		}

		feeBp := int64(tc.feePct * 100)
		netPool := tc.totalWagered * (10000 - feeBp) / 10000
		assert.LessOrEqual(t, distributed, netPool,
			"total %d fee %.1f", tc.totalWagered, tc.feePct)
	}
}

func TestOddsPayout_Truncates(t *testing.T) {
	assert.Equal(t, int64(3000), OddsPayout(1500, 2.0))
	assert.Equal(t, int64(1328), OddsPayout(999, 1.33))
	assert.Equal(t, int64(0), OddsPayout(0, 5.0))
}

func TestClampOdd(t *testing.T) {
	assert.Equal(t, entities.MinOdd, ClampOdd(0.9))
	assert.Equal(t, entities.MaxOdd, ClampOdd(7.2))
	assert.Equal(t, 2.5, ClampOdd(2.5))
}

func TestOddsEqual(t *testing.T) {
	assert.True(t, OddsEqual(2.0, 2.0))
	assert.True(t, OddsEqual(2.0, 2.00005))
	assert.False(t, OddsEqual(2.0, 2.01))
}
