package services

import (
	"math"

	"betshop/domain/entities"
)

// Odds formula constants. SuggestedOdd maps wager concentration (bias) onto
// an odd: no money on an option yields base/k1 (clamped to MaxOdd), full
// concentration yields base/(k1+k2) (clamped to MinOdd).
const (
	oddBase = 2.0
	oddK1   = 0.6
	oddK2   = 0.8

	// OddDeltaCap bounds how far a single recalculation may move an
	// option's odd, limiting slippage against bettors who acted just
	// before a large wager landed.
	OddDeltaCap = 0.25
)

// oddEpsilon absorbs float representation noise when comparing odds.
const oddEpsilon = 0.0001

// Bias returns the fraction of a market's total wagered amount sitting on
// one option, or 0 when the market has no money yet.
func Bias(optionTotal, marketTotal int64) float64 {
	if marketTotal <= 0 {
		return 0
	}
	return float64(optionTotal) / float64(marketTotal)
}

// SuggestedOdd computes the bias-based odd, rounded to 2 decimals and
// clamped to [MinOdd, MaxOdd].
func SuggestedOdd(bias float64) float64 {
	return ClampOdd(round2(oddBase / (oddK1 + oddK2*bias)))
}

// ApplyDeltaCap limits the per-recalculation change to ±OddDeltaCap. When
// the suggested odd is within the cap it is returned as-is; otherwise the
// result moves exactly the cap distance in the suggested direction.
func ApplyDeltaCap(current, suggested float64) float64 {
	diff := suggested - current
	if math.Abs(diff) <= OddDeltaCap+oddEpsilon {
		return round2(suggested)
	}
	if diff > 0 {
		return round2(current + OddDeltaCap)
	}
	return round2(current - OddDeltaCap)
}

// PoolPayout computes a winning ticket's share of a POOL market's net pool.
// All arithmetic truncates toward zero so the sum of payouts never exceeds
// the net pool due to rounding. A zero winning total means no winners: the
// operator keeps the pool and nothing is distributed.
func PoolPayout(totalWagered int64, feePct float64, winningTotal, ticketAmount int64) int64 {
	if winningTotal <= 0 {
		return 0
	}
	feeBp := int64(math.Round(feePct * 100))
	netPool := totalWagered * (10000 - feeBp) / 10000
	return netPool * ticketAmount / winningTotal
}

// OddsPayout computes a fixed-odds ticket's gross payout, truncated.
func OddsPayout(amount int64, fixedOdd float64) int64 {
	return int64(math.Floor(float64(amount) * fixedOdd))
}

// ClampOdd forces an odd into the allowed [MinOdd, MaxOdd] range.
func ClampOdd(odd float64) float64 {
	if odd < entities.MinOdd {
		return entities.MinOdd
	}
	if odd > entities.MaxOdd {
		return entities.MaxOdd
	}
	return odd
}

// OddsEqual compares two odds within representation tolerance.
func OddsEqual(a, b float64) bool {
	return math.Abs(a-b) <= oddEpsilon
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
