package entities

import (
	"fmt"
	"time"
)

// CashSessionState represents the lifecycle state of a worker's cash float.
type CashSessionState string

const (
	CashSessionStateOpen           CashSessionState = "OPEN"
	CashSessionStateCloseRequested CashSessionState = "CLOSE_REQUESTED"
	CashSessionStateClosed         CashSessionState = "CLOSED"
)

// LiquidationDirection tells which side settles a closed session's net.
type LiquidationDirection string

const (
	// LiquidationWorkerOwes means sales exceeded payments; the worker
	// hands the surplus to headquarters.
	LiquidationWorkerOwes LiquidationDirection = "WORKER_OWES"
	// LiquidationHQOwes means payments exceeded sales; headquarters
	// reimburses the worker.
	LiquidationHQOwes   LiquidationDirection = "HQ_OWES"
	LiquidationBalanced LiquidationDirection = "BALANCED"
)

// CashSession is a worker's open cash float for a shift, reconciled against
// sales and payments on close.
type CashSession struct {
	ID            int64            `db:"id"`
	FranchiseID   int64            `db:"franchise_id"`
	WorkerID      int64            `db:"worker_id"`
	State         CashSessionState `db:"state"`
	OpeningFloat  int64            `db:"opening_float"`
	SalesTotal    int64            `db:"sales_total"`
	SalesCount    int64            `db:"sales_count"`
	PaymentsTotal int64            `db:"payments_total"`
	PaymentsCount int64            `db:"payments_count"`
	DeclaredFloat *int64           `db:"declared_float"` // set on close-request
	SystemFloat   *int64           `db:"system_float"`
	Difference    *int64           `db:"difference"`
	ApproverID    *int64           `db:"approver_id"`
	ApprovedAt    *time.Time       `db:"approved_at"`
	RequestedAt   *time.Time       `db:"requested_at"`
	CreatedAt     time.Time        `db:"created_at"`
}

// CashMovementType classifies an entry in the session's append-only log.
type CashMovementType string

const (
	CashMovementOpening    CashMovementType = "OPENING"
	CashMovementIncome     CashMovementType = "INCOME"
	CashMovementExpense    CashMovementType = "EXPENSE"
	CashMovementAdjustment CashMovementType = "ADJUSTMENT"
)

// CashMovement is one append-only entry against a session. The session's
// running totals are a materialized view over this log.
type CashMovement struct {
	ID        int64            `db:"id"`
	SessionID int64            `db:"session_id"`
	Type      CashMovementType `db:"movement_type"`
	Amount    int64            `db:"amount"`
	TicketID  *int64           `db:"ticket_id"`
	PaymentID *int64           `db:"payment_id"`
	CreatedAt time.Time        `db:"created_at"`
}

// SignedAmount folds the movement into a running float: EXPENSE debits,
// everything else credits.
func (m *CashMovement) SignedAmount() int64 {
	if m.Type == CashMovementExpense {
		return -m.Amount
	}
	return m.Amount
}

// IsActive reports whether the session still accumulates movements.
func (s *CashSession) IsActive() bool {
	return s.State == CashSessionStateOpen || s.State == CashSessionStateCloseRequested
}

// Available returns the cash on hand per the running totals.
func (s *CashSession) Available() int64 {
	return s.OpeningFloat + s.SalesTotal - s.PaymentsTotal
}

// RequestClose snapshots the declared vs system float and moves the session
// to CLOSE_REQUESTED. Sales may still post until approval.
func (s *CashSession) RequestClose(declaredFloat, systemFloat int64, at time.Time) error {
	if s.State != CashSessionStateOpen {
		return fmt.Errorf("session %d cannot request close from state %s", s.ID, s.State)
	}
	diff := declaredFloat - systemFloat
	s.State = CashSessionStateCloseRequested
	s.DeclaredFloat = &declaredFloat
	s.SystemFloat = &systemFloat
	s.Difference = &diff
	s.RequestedAt = &at
	return nil
}

// Approve seals the session. The system float is recomputed by the caller
// against live movements before this is invoked, since sales may have
// continued after the close request.
func (s *CashSession) Approve(approverID, systemFloat int64, at time.Time) error {
	if s.State != CashSessionStateCloseRequested {
		return fmt.Errorf("session %d cannot be approved from state %s", s.ID, s.State)
	}
	s.State = CashSessionStateClosed
	s.SystemFloat = &systemFloat
	if s.DeclaredFloat != nil {
		diff := *s.DeclaredFloat - systemFloat
		s.Difference = &diff
	}
	s.ApproverID = &approverID
	s.ApprovedAt = &at
	return nil
}

// Liquidation returns the settlement direction and absolute amount between
// the session and headquarters.
func (s *CashSession) Liquidation() (LiquidationDirection, int64) {
	net := s.SalesTotal - s.PaymentsTotal
	switch {
	case net > 0:
		return LiquidationWorkerOwes, net
	case net < 0:
		return LiquidationHQOwes, -net
	default:
		return LiquidationBalanced, 0
	}
}
