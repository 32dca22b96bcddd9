package services

import (
	"testing"

	"betshop/domain/entities"

	"github.com/stretchr/testify/assert"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestEvaluateRecalc_PoolNeverTriggers(t *testing.T) {
	market := &entities.Market{
		ID:              1,
		Type:            entities.MarketTypePool,
		RecalcThreshold: 1000,
		Accumulated:     900,
	}

	eval := EvaluateRecalc(market, nil, 0, 5000)

	assert.False(t, eval.Triggered)
	assert.Equal(t, int64(5900), eval.NewAccumulated)
	assert.Empty(t, eval.Changes)
}

func TestEvaluateRecalc_BelowThresholdCarries(t *testing.T) {
	market := &entities.Market{
		ID:              1,
		Type:            entities.MarketTypeOdds,
		RecalcThreshold: 1000,
		Accumulated:     300,
	}

	eval := EvaluateRecalc(market, nil, 0, 400)

	assert.False(t, eval.Triggered)
	assert.Equal(t, int64(700), eval.NewAccumulated)
}

func TestEvaluateRecalc_TriggerWrapsAccumulator(t *testing.T) {
	market := &entities.Market{
		ID:              1,
		Type:            entities.MarketTypeOdds,
		RecalcThreshold: 1000,
		Accumulated:     800,
	}
	options := []*entities.Option{
		{ID: 10, MarketID: 1, InitialOdd: floatPtr(2.0)},
		{ID: 11, MarketID: 1, InitialOdd: floatPtr(2.0)},
	}

	eval := EvaluateRecalc(market, options, 10, 500)

	assert.True(t, eval.Triggered)
	// (800 + 500) mod 1000: partial progress carries into the next cycle
	assert.Equal(t, int64(300), eval.NewAccumulated)
}

func TestEvaluateRecalc_AppliesDeltaCap(t *testing.T) {
	market := &entities.Market{
		ID:              1,
		Type:            entities.MarketTypeOdds,
		RecalcThreshold: 1000,
	}
	// All incoming money lands on option 10, so its bias jumps to 1.0
	// (suggested 1.43) while option 11 drops to bias 0 (suggested 3.33).
	// Both moves exceed the cap from a 2.0 starting odd.
	options := []*entities.Option{
		{ID: 10, MarketID: 1, InitialOdd: floatPtr(2.0)},
		{ID: 11, MarketID: 1, InitialOdd: floatPtr(2.0)},
	}

	eval := EvaluateRecalc(market, options, 10, 1000)

	assert.True(t, eval.Triggered)
	assert.Len(t, eval.Changes, 2)

	byOption := make(map[int64]entities.OddChange)
	for _, c := range eval.Changes {
		byOption[c.OptionID] = c
	}

	assert.InDelta(t, 1.75, byOption[10].After, 0.001)
	assert.InDelta(t, 2.25, byOption[11].After, 0.001)
	assert.InDelta(t, 1.0, byOption[10].Bias, 0.001)
	assert.InDelta(t, 0.0, byOption[11].Bias, 0.001)
}

func TestEvaluateRecalc_SkipsUnchangedOptions(t *testing.T) {
	market := &entities.Market{
		ID:              1,
		Type:            entities.MarketTypeOdds,
		RecalcThreshold: 100,
	}
	// Current odds already match what the bias produces: equal money on
	// both options gives bias 0.5 and suggested 2.0 for each.
	options := []*entities.Option{
		{ID: 10, MarketID: 1, InitialOdd: floatPtr(2.0), CurrentOdd: floatPtr(2.0), TotalAmount: 5000},
		{ID: 11, MarketID: 1, InitialOdd: floatPtr(2.0), CurrentOdd: floatPtr(2.0), TotalAmount: 4900},
	}

	eval := EvaluateRecalc(market, options, 11, 100)

	assert.True(t, eval.Triggered)
	assert.Empty(t, eval.Changes)
}

func TestChangesMatch(t *testing.T) {
	fresh := []entities.OddChange{
		{OptionID: 10, After: 1.75},
		{OptionID: 11, After: 2.25},
	}

	assert.True(t, ChangesMatch(fresh, []entities.OddChange{
		{OptionID: 11, After: 2.25},
		{OptionID: 10, After: 1.75},
	}), "order must not matter")

	assert.False(t, ChangesMatch(fresh, []entities.OddChange{
		{OptionID: 10, After: 1.75},
	}), "missing option")

	assert.False(t, ChangesMatch(fresh, []entities.OddChange{
		{OptionID: 10, After: 1.80},
		{OptionID: 11, After: 2.25},
	}), "stale target odd")

	assert.True(t, ChangesMatch(nil, nil))
}

func TestChangesMatch_StaleStartingOdd(t *testing.T) {
	// The option's odd moved from 2.0 away and back between proposal and
	// confirmation: same target, different starting point.
	fresh := []entities.OddChange{
		{OptionID: 10, Before: floatPtr(2.10), After: 1.75},
	}
	expected := []entities.OddChange{
		{OptionID: 10, Before: floatPtr(2.0), After: 1.75},
	}

	assert.False(t, ChangesMatch(fresh, expected))

	assert.True(t, ChangesMatch(
		[]entities.OddChange{{OptionID: 10, Before: floatPtr(2.0), After: 1.75}},
		[]entities.OddChange{{OptionID: 10, Before: floatPtr(2.0), After: 1.75}},
	))

	assert.False(t, ChangesMatch(
		[]entities.OddChange{{OptionID: 10, Before: floatPtr(2.0), After: 1.75}},
		[]entities.OddChange{{OptionID: 10, Before: nil, After: 1.75}},
	), "odd set since the proposal was taken")
}
