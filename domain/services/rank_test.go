package services

import (
	"testing"

	"betshop/domain/entities"

	"github.com/stretchr/testify/assert"
)

func testLadder() []*entities.RankRule {
	return []*entities.RankRule{
		{ID: 1, Ordinal: 1, Name: "Bronze", MinAmount: 100, MaxAmount: 5000},
		{ID: 2, Ordinal: 2, Name: "Silver", MinAmount: 100, MaxAmount: 20000},
		{ID: 3, Ordinal: 3, Name: "Gold", MinAmount: 100, MaxAmount: 100000},
	}
}

func TestApplyPromotion_BelowThreshold(t *testing.T) {
	ladder := testLadder()

	outcome := ApplyPromotion(ladder[0], ladder, 3, 10)

	assert.Equal(t, ladder[0], outcome.NewRank)
	assert.Empty(t, outcome.Path)
	assert.Equal(t, int64(4), outcome.RemainingBets)
}

func TestApplyPromotion_SingleAdvance(t *testing.T) {
	ladder := testLadder()

	// 9 accumulated + this bet completes one cycle of 10
	outcome := ApplyPromotion(ladder[0], ladder, 9, 10)

	assert.Equal(t, ladder[1], outcome.NewRank)
	assert.Equal(t, []*entities.RankRule{ladder[1]}, outcome.Path)
	assert.Equal(t, int64(0), outcome.RemainingBets)
}

func TestApplyPromotion_MultipleCycles(t *testing.T) {
	ladder := testLadder()

	// 24 accumulated + 1 = 25 with threshold 10: two full cycles, 5 left over
	outcome := ApplyPromotion(ladder[0], ladder, 24, 10)

	assert.Equal(t, ladder[2], outcome.NewRank)
	assert.Equal(t, []*entities.RankRule{ladder[1], ladder[2]}, outcome.Path)
	assert.Equal(t, int64(5), outcome.RemainingBets)
}

func TestApplyPromotion_SaturatesAtTop(t *testing.T) {
	ladder := testLadder()

	// Silver with enough cycles to pass the top still lands on Gold
	outcome := ApplyPromotion(ladder[1], ladder, 29, 10)

	assert.Equal(t, ladder[2], outcome.NewRank)
	assert.Equal(t, []*entities.RankRule{ladder[2]}, outcome.Path)
	assert.Equal(t, int64(0), outcome.RemainingBets)
}

func TestApplyPromotion_TopTierResetsCounter(t *testing.T) {
	ladder := testLadder()

	// Already at the top: no advance, but the completed cycle still resets
	// the counter so it cannot grow without bound
	outcome := ApplyPromotion(ladder[2], ladder, 9, 10)

	assert.Equal(t, ladder[2], outcome.NewRank)
	assert.Empty(t, outcome.Path)
	assert.Equal(t, int64(0), outcome.RemainingBets)
}

func TestApplyPromotion_ZeroThreshold(t *testing.T) {
	ladder := testLadder()

	outcome := ApplyPromotion(ladder[0], ladder, 5, 0)

	assert.Equal(t, ladder[0], outcome.NewRank)
	assert.Equal(t, int64(6), outcome.RemainingBets)
}
