package entities

import (
	"strings"
	"time"
)

// Bettor is a customer identified at the counter by alias.
type Bettor struct {
	ID              int64     `db:"id"`
	Alias           string    `db:"alias"` // unique, stored upper-case
	RankID          int64     `db:"rank_id"`
	LifetimeBets    int64     `db:"lifetime_bets"`
	AccumulatedBets int64     `db:"accumulated_bets"` // since last promotion check
	AutoPromote     bool      `db:"auto_promote"`
	CreatedAt       time.Time `db:"created_at"`
}

// RankRule is one tier of the rank ladder, bounding allowed wager size.
type RankRule struct {
	ID        int64  `db:"id"`
	Ordinal   int    `db:"ordinal"`
	Name      string `db:"name"`
	MinAmount int64  `db:"min_amount"`
	MaxAmount int64  `db:"max_amount"`
}

// RankPromotion records one actual tier advance for a bettor.
type RankPromotion struct {
	ID         int64     `db:"id"`
	BettorID   int64     `db:"bettor_id"`
	FromRankID int64     `db:"from_rank_id"`
	ToRankID   int64     `db:"to_rank_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// NormalizeAlias canonicalizes a bettor alias for lookup and storage.
func NormalizeAlias(alias string) string {
	return strings.ToUpper(strings.TrimSpace(alias))
}

// Allows reports whether a wager amount falls inside this tier's bounds.
func (r *RankRule) Allows(amount int64) bool {
	return amount >= r.MinAmount && amount <= r.MaxAmount
}
