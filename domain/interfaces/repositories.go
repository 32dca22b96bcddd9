package interfaces

import (
	"context"
	"time"

	"betshop/domain/entities"
	"betshop/domain/events"
)

// MarketRepository defines the interface for market and option data access
type MarketRepository interface {
	// CreateWithOptions creates a new market together with its options
	CreateWithOptions(ctx context.Context, market *entities.Market, options []*entities.Option) error

	// GetByID retrieves a market by its ID
	GetByID(ctx context.Context, id int64) (*entities.Market, error)

	// Update persists a market's mutable fields (state, winning option, accumulator)
	Update(ctx context.Context, market *entities.Market) error

	// GetOptions returns all options of a market ordered by ID
	GetOptions(ctx context.Context, marketID int64) ([]*entities.Option, error)

	// GetOption retrieves a single option by its ID
	GetOption(ctx context.Context, id int64) (*entities.Option, error)

	// IncrementOptionTotal adds an amount to an option's wagered total
	IncrementOptionTotal(ctx context.Context, optionID int64, amount int64) error

	// UpdateOptionOdd sets an option's current odd
	UpdateOptionOdd(ctx context.Context, optionID int64, odd float64) error

	// RecordOddUpdate appends one odds-change audit row
	RecordOddUpdate(ctx context.Context, update *entities.OddUpdate) error

	// GetOddUpdatesByOption returns the odds-change history for an option
	GetOddUpdatesByOption(ctx context.Context, optionID int64, limit int) ([]*entities.OddUpdate, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create creates a new ticket record
	Create(ctx context.Context, ticket *entities.Ticket) error

	// GetByID retrieves a ticket by its ID
	GetByID(ctx context.Context, id int64) (*entities.Ticket, error)

	// GetByCode retrieves a ticket by its human-readable code
	GetByCode(ctx context.Context, code string) (*entities.Ticket, error)

	// UpdateState transitions a ticket's state
	UpdateState(ctx context.Context, id int64, state entities.TicketState) error

	// GetByMarket returns all tickets sold against a market
	GetByMarket(ctx context.Context, marketID int64) ([]*entities.Ticket, error)

	// GetInWindow returns tickets sold by a worker within a franchise
	// during the half-open interval [start, end)
	GetInWindow(ctx context.Context, workerID, franchiseID int64, start, end time.Time) ([]*entities.Ticket, error)
}

// PaymentRepository defines the interface for payment data access
type PaymentRepository interface {
	// Create creates a new payment record
	Create(ctx context.Context, payment *entities.Payment) error

	// GetByTicketID retrieves the payment for a ticket, if any
	GetByTicketID(ctx context.Context, ticketID int64) (*entities.Payment, error)

	// GetInWindow returns payments made by a worker within a franchise
	// during the half-open interval [start, end)
	GetInWindow(ctx context.Context, workerID, franchiseID int64, start, end time.Time) ([]*entities.Payment, error)
}

// BettorRepository defines the interface for bettor data access
type BettorRepository interface {
	// GetByAlias retrieves a bettor by normalized alias
	GetByAlias(ctx context.Context, alias string) (*entities.Bettor, error)

	// Create creates a new bettor at the given rank
	Create(ctx context.Context, alias string, rankID int64) (*entities.Bettor, error)

	// Update persists a bettor's rank and bet counters
	Update(ctx context.Context, bettor *entities.Bettor) error

	// RecordPromotion appends one promotion-history record
	RecordPromotion(ctx context.Context, promotion *entities.RankPromotion) error
}

// RankRepository defines the interface for rank ladder data access
type RankRepository interface {
	// GetByID retrieves a rank rule by its ID
	GetByID(ctx context.Context, id int64) (*entities.RankRule, error)

	// GetLadder returns all rank rules ordered by ordinal
	GetLadder(ctx context.Context) ([]*entities.RankRule, error)
}

// CashSessionRepository defines the interface for cash session data access
type CashSessionRepository interface {
	// Create creates a new cash session
	Create(ctx context.Context, session *entities.CashSession) error

	// GetByID retrieves a session by its ID
	GetByID(ctx context.Context, id int64) (*entities.CashSession, error)

	// GetActiveByWorker returns the worker's session in OPEN or
	// CLOSE_REQUESTED state, or nil when none exists
	GetActiveByWorker(ctx context.Context, workerID int64) (*entities.CashSession, error)

	// Update persists a session's state, totals and close snapshot
	Update(ctx context.Context, session *entities.CashSession) error

	// RecordMovement appends one cash movement to the session's log
	RecordMovement(ctx context.Context, movement *entities.CashMovement) error

	// ListMovements returns a session's movements in insertion order
	ListMovements(ctx context.Context, sessionID int64) ([]*entities.CashMovement, error)

	// SumMovements folds a session's movements into the system float
	SumMovements(ctx context.Context, sessionID int64) (int64, error)

	// GetNextSessionStart returns the creation time of the worker's next
	// session created after the given time, or nil when none exists
	GetNextSessionStart(ctx context.Context, workerID int64, after time.Time) (*time.Time, error)
}

// AuditRepository defines the interface for the append-only audit log
type AuditRepository interface {
	// Record appends one audit fact within the current transaction
	Record(ctx context.Context, entry *entities.AuditEntry) error
}

// EventPublisher defines the interface for publishing notification events
type EventPublisher interface {
	// Publish delivers an event to interested subscribers
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding
// transaction commits
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all buffered events after a successful commit
	Flush(ctx context.Context) error

	// Discard drops all buffered events on rollback
	Discard()
}
