package services

import (
	"sort"

	"betshop/domain/entities"
)

// PromotionOutcome is the result of applying one more bet to a bettor's
// promotion counters.
type PromotionOutcome struct {
	NewRank       *entities.RankRule
	Path          []*entities.RankRule // tiers advanced through, in order, excluding the start
	RemainingBets int64
}

// ApplyPromotion computes the rank promotion for a bettor who just placed
// one more bet. cycles = floor((accumulated+1)/threshold); each cycle
// advances one tier, saturating at the top of the ladder. The remainder
// reset applies whenever at least one full cycle completed, even when the
// bettor was already at the top tier, so the counter never grows without
// bound.
func ApplyPromotion(current *entities.RankRule, ladder []*entities.RankRule, accumulated, threshold int64) PromotionOutcome {
	newCount := accumulated + 1
	if threshold <= 0 || len(ladder) == 0 {
		return PromotionOutcome{NewRank: current, RemainingBets: newCount}
	}

	sorted := make([]*entities.RankRule, len(ladder))
	copy(sorted, ladder)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Ordinal < sorted[j].Ordinal })

	pos := 0
	for i, r := range sorted {
		if r.ID == current.ID {
			pos = i
			break
		}
	}

	cycles := newCount / threshold
	if cycles == 0 {
		return PromotionOutcome{NewRank: current, RemainingBets: newCount}
	}

	advances := int(cycles)
	if pos+advances > len(sorted)-1 {
		advances = len(sorted) - 1 - pos
	}

	return PromotionOutcome{
		NewRank:       sorted[pos+advances],
		Path:          sorted[pos+1 : pos+advances+1],
		RemainingBets: newCount % threshold,
	}
}
