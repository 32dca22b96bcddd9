package entities

import (
	"fmt"
	"time"
)

// MarketType distinguishes how winning tickets are paid out.
type MarketType string

const (
	// MarketTypePool splits the wagered pool (net of fee) among winners.
	MarketTypePool MarketType = "POOL"
	// MarketTypeOdds pays wager times a fixed odd captured at sale time.
	MarketTypeOdds MarketType = "ODDS"
)

// MarketState represents the lifecycle state of a market.
type MarketState string

const (
	MarketStateOpen      MarketState = "OPEN"
	MarketStateSuspended MarketState = "SUSPENDED"
	MarketStateClosed    MarketState = "CLOSED"
)

// Odds bounds for ODDS markets. Every odd ever stored or snapshotted on a
// ticket stays inside this range.
const (
	MinOdd = 1.2
	MaxOdd = 5.0
)

// Market represents a single betable event with one or more options.
type Market struct {
	ID              int64       `db:"id"`
	Name            string      `db:"name"`
	Type            MarketType  `db:"market_type"`
	State           MarketState `db:"state"`
	FeePct          float64     `db:"fee_pct"`
	FranchiseID     *int64      `db:"franchise_id"` // nil means GLOBAL scope
	RecalcThreshold int64       `db:"recalc_threshold"`
	Accumulated     int64       `db:"accumulated"` // wagered since last recalculation
	WinningOptionID *int64      `db:"winning_option_id"`
	StartsAt        time.Time   `db:"starts_at"`
	EndsAt          time.Time   `db:"ends_at"`
	ClosedAt        *time.Time  `db:"closed_at"`
	CreatedAt       time.Time   `db:"created_at"`
}

// Option represents a selectable outcome within a market.
type Option struct {
	ID          int64    `db:"id"`
	MarketID    int64    `db:"market_id"`
	Name        string   `db:"name"`
	InitialOdd  *float64 `db:"initial_odd"` // ODDS markets only
	CurrentOdd  *float64 `db:"current_odd"` // nil until first recalculation
	TotalAmount int64    `db:"total_amount"`
}

// IsGlobal reports whether the market accepts sales from any franchise.
func (m *Market) IsGlobal() bool {
	return m.FranchiseID == nil
}

// IsOpen reports whether the market accepts ticket sales.
func (m *Market) IsOpen() bool {
	return m.State == MarketStateOpen
}

// AcceptsFranchise checks the market's scope against a seller's franchise.
func (m *Market) AcceptsFranchise(franchiseID int64) bool {
	return m.IsGlobal() || *m.FranchiseID == franchiseID
}

// Suspend transitions OPEN -> SUSPENDED.
func (m *Market) Suspend() error {
	if m.State != MarketStateOpen {
		return fmt.Errorf("market %d cannot be suspended from state %s", m.ID, m.State)
	}
	m.State = MarketStateSuspended
	return nil
}

// Reopen transitions SUSPENDED -> OPEN.
func (m *Market) Reopen() error {
	if m.State != MarketStateSuspended {
		return fmt.Errorf("market %d cannot be reopened from state %s", m.ID, m.State)
	}
	m.State = MarketStateOpen
	return nil
}

// Close seals the market with its winning option. Closing is terminal; the
// winning option must belong to this market, which callers verify against
// the loaded option set before invoking.
func (m *Market) Close(winningOptionID int64, at time.Time) error {
	if m.State == MarketStateClosed {
		return fmt.Errorf("market %d is already closed", m.ID)
	}
	m.State = MarketStateClosed
	m.WinningOptionID = &winningOptionID
	m.ClosedAt = &at
	return nil
}

// EffectiveOdd returns the odd a sale on this option would snapshot: the
// current odd when a recalculation has happened, otherwise the initial odd.
func (o *Option) EffectiveOdd() *float64 {
	if o.CurrentOdd != nil {
		return o.CurrentOdd
	}
	return o.InitialOdd
}
