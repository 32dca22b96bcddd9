package interfaces

import (
	"context"

	"betshop/domain/entities"
)

// MarketService defines the interface for market ledger operations
type MarketService interface {
	// CreateMarket creates a market together with its options
	CreateMarket(ctx context.Context, market *entities.Market, options []*entities.Option) (*entities.Market, error)

	// UpdateStatus applies a market state transition; closing requires the
	// winning option id
	UpdateStatus(ctx context.Context, marketID int64, newState entities.MarketState, winningOptionID *int64) (*entities.Market, error)

	// AdjustOptionOdds applies a manual odds edit within the allowed range
	AdjustOptionOdds(ctx context.Context, actorID, optionID int64, newOdd float64) (*entities.Option, error)

	// OddsHistory returns the odds-change audit trail for an option
	OddsHistory(ctx context.Context, optionID int64, limit int) ([]*entities.OddUpdate, error)
}

// TicketService defines the interface for ticket settlement operations
type TicketService interface {
	// Sell runs the two-phase sale protocol. A NeedsConfirmation result
	// mutates nothing; the caller resubmits with the proposed changes.
	Sell(ctx context.Context, operator entities.Operator, req entities.SaleRequest) (*entities.SaleResult, error)

	// Pay settles a winning ticket against the worker's cash session. An
	// Expired result means the ticket transitioned to EXPIRED instead of
	// being paid; that transition still needs to commit.
	Pay(ctx context.Context, operator entities.Operator, ticketID int64) (*entities.PaymentResult, error)

	// GetTicketByCode resolves a ticket from its human-readable code
	GetTicketByCode(ctx context.Context, code string) (*entities.Ticket, error)
}

// CashSessionService defines the interface for cash session operations
type CashSessionService interface {
	// Open creates a worker's cash session, recording a non-zero opening
	// float as an OPENING movement
	Open(ctx context.Context, operator entities.Operator, openingFloat int64) (*entities.CashSession, error)

	// RequestClose snapshots declared vs system float and moves the
	// session to CLOSE_REQUESTED
	RequestClose(ctx context.Context, operator entities.Operator, declaredFloat int64) (*entities.CashSession, error)

	// ApproveClose re-snapshots the system float against live movements
	// and seals the session
	ApproveClose(ctx context.Context, approver entities.Operator, sessionID int64) (*entities.SessionCloseResult, error)

	// RecomputeWindow rebuilds a session's activity from the time-window
	// association for audit reconciliation
	RecomputeWindow(ctx context.Context, sessionID int64) (*entities.SessionWindowReport, error)
}
