package services

import (
	"math"

	"betshop/domain/entities"
)

// RecalcEvaluation is the outcome of checking an incoming wager against a
// market's recalculation threshold. NewAccumulated always carries the value
// the market's accumulator should take after the sale commits.
type RecalcEvaluation struct {
	Triggered      bool
	NewAccumulated int64
	Changes        []entities.OddChange
}

// EvaluateRecalc decides whether an incoming wager pushes an ODDS market
// over its recalculation threshold, and if so which options' odds move.
// POOL markets never trigger. When triggered, the accumulator wraps to
// (accumulated+incoming) mod threshold so partial progress carries into the
// next cycle instead of resetting to zero.
func EvaluateRecalc(market *entities.Market, options []*entities.Option, selectedOptionID, incoming int64) RecalcEvaluation {
	since := market.Accumulated + incoming
	if market.Type != entities.MarketTypeOdds || market.RecalcThreshold <= 0 || since < market.RecalcThreshold {
		return RecalcEvaluation{NewAccumulated: since}
	}

	var marketTotal int64
	for _, o := range options {
		marketTotal += o.TotalAmount
	}
	marketTotal += incoming

	var changes []entities.OddChange
	for _, o := range options {
		total := o.TotalAmount
		if o.ID == selectedOptionID {
			total += incoming
		}
		bias := Bias(total, marketTotal)
		suggested := SuggestedOdd(bias)

		before := o.EffectiveOdd()
		var after float64
		if before == nil {
			after = suggested
		} else {
			after = ApplyDeltaCap(*before, suggested)
		}

		if before == nil || math.Abs(after-*before) > oddEpsilon {
			changes = append(changes, entities.OddChange{
				OptionID: o.ID,
				Bias:     bias,
				Before:   before,
				After:    after,
			})
		}
	}

	return RecalcEvaluation{
		Triggered:      true,
		NewAccumulated: since % market.RecalcThreshold,
		Changes:        changes,
	}
}

// ChangesMatch compares a freshly computed update set against the one a
// caller confirmed. Any difference in the affected options or their
// before/after odds means the caller's snapshot went stale. Both sides are
// compared so an odd that moved away and back between proposal and
// confirmation still invalidates the snapshot.
func ChangesMatch(fresh, expected []entities.OddChange) bool {
	if len(fresh) != len(expected) {
		return false
	}
	byOption := make(map[int64]entities.OddChange, len(expected))
	for _, c := range expected {
		byOption[c.OptionID] = c
	}
	for _, c := range fresh {
		e, ok := byOption[c.OptionID]
		if !ok || !OddsEqual(c.After, e.After) {
			return false
		}
		if (c.Before == nil) != (e.Before == nil) {
			return false
		}
		if c.Before != nil && !OddsEqual(*c.Before, *e.Before) {
			return false
		}
	}
	return true
}
