package entities

import "time"

// OddChange is one option's proposed or applied odds movement during a
// recalculation.
type OddChange struct {
	OptionID int64
	Bias     float64
	Before   *float64
	After    float64
}

// RecalcProposal carries the odds changes a caller must confirm before a
// sale that crosses the recalculation threshold can commit.
type RecalcProposal struct {
	MarketID int64
	Changes  []OddChange
}

// SaleRequest is one ticket sale submission. Confirm and Expected carry the
// caller's acknowledgement of a previously proposed recalculation.
type SaleRequest struct {
	MarketID    int64
	OptionID    int64
	Amount      int64
	BettorAlias string
	Confirm     bool
	Expected    []OddChange
}

// SaleResult is the tagged outcome of a sale: exactly one of Ticket or
// NeedsConfirmation is set. A NeedsConfirmation result mutates nothing; the
// caller resubmits with Confirm and the proposed changes.
type SaleResult struct {
	Ticket            *Ticket
	NeedsConfirmation *RecalcProposal
	RecalcApplied     bool
}

// PaymentResult is the outcome of paying a ticket. Expired means the ticket
// passed its expiry before payment and transitioned to EXPIRED instead.
type PaymentResult struct {
	Ticket  *Ticket
	Payment *Payment
	Gross   int64
	Fee     int64
	Net     int64
	Expired bool
}

// SessionCloseResult is the outcome of approving a session close.
type SessionCloseResult struct {
	Session   *CashSession
	Direction LiquidationDirection
	Amount    int64
}

// SessionWindowReport is the recomputed view of one historical session's
// activity, derived from the time-window association rather than the
// session's materialized totals.
type SessionWindowReport struct {
	SessionID     int64
	WorkerID      int64
	Start         time.Time
	End           time.Time
	SalesTotal    int64
	SalesCount    int64
	PaymentsTotal int64
	PaymentsCount int64
	SystemFloat   int64
}
