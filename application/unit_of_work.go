package application

import (
	"context"

	"betshop/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	MarketRepository() interfaces.MarketRepository
	TicketRepository() interfaces.TicketRepository
	PaymentRepository() interfaces.PaymentRepository
	BettorRepository() interfaces.BettorRepository
	RankRepository() interfaces.RankRepository
	CashSessionRepository() interfaces.CashSessionRepository
	AuditRepository() interfaces.AuditRepository

	// EventBus returns the transactional event publisher; events flush
	// only after a successful commit
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
