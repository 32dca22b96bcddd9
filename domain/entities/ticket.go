package entities

import "time"

// TicketState represents the lifecycle state of a sold ticket.
type TicketState string

const (
	TicketStateActive  TicketState = "ACTIVE"
	TicketStatePaid    TicketState = "PAID"
	TicketStateExpired TicketState = "EXPIRED"
	TicketStateVoid    TicketState = "VOID"
)

// Ticket represents a sold wager against a market option.
type Ticket struct {
	ID          int64       `db:"id"`
	Code        string      `db:"code"` // human-readable, unique
	MarketID    int64       `db:"market_id"`
	OptionID    int64       `db:"option_id"`
	BettorID    int64       `db:"bettor_id"`
	WorkerID    int64       `db:"worker_id"`
	FranchiseID int64       `db:"franchise_id"`
	Amount      int64       `db:"amount"`    // currency minor units
	FixedOdd    *float64    `db:"fixed_odd"` // ODDS markets only, clamped snapshot
	State       TicketState `db:"state"`
	ExpiresAt   *time.Time  `db:"expires_at"`
	CreatedAt   time.Time   `db:"created_at"`
}

// Payment records the disbursement for a winning ticket. At most one payment
// exists per ticket, enforced by a unique constraint.
type Payment struct {
	ID          int64     `db:"id"`
	TicketID    int64     `db:"ticket_id"`
	WorkerID    int64     `db:"worker_id"`
	FranchiseID int64     `db:"franchise_id"`
	NetAmount   int64     `db:"net_amount"`
	PaidAt      time.Time `db:"paid_at"`
}

// IsActive reports whether the ticket is still live.
func (t *Ticket) IsActive() bool {
	return t.State == TicketStateActive
}

// EffectiveExpiry resolves the ticket's expiry: its own timestamp when set,
// otherwise the market's close time plus the default grace period.
func (t *Ticket) EffectiveExpiry(marketClosedAt time.Time, gracePeriod time.Duration) time.Time {
	if t.ExpiresAt != nil {
		return *t.ExpiresAt
	}
	return marketClosedAt.Add(gracePeriod)
}

// CountsTowardPool reports whether the ticket participates in a POOL
// market's distributable total.
func (t *Ticket) CountsTowardPool() bool {
	return t.State == TicketStateActive || t.State == TicketStatePaid
}
