package repository

import (
	"context"
	"fmt"

	"betshop/application"
	"betshop/database"
	"betshop/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	marketRepo             interfaces.MarketRepository
	ticketRepo             interfaces.TicketRepository
	paymentRepo            interfaces.PaymentRepository
	bettorRepo             interfaces.BettorRepository
	rankRepo               interfaces.RankRepository
	cashSessionRepo        interfaces.CashSessionRepository
	auditRepo              interfaces.AuditRepository
}

type unitOfWorkFactory struct {
	db               *database.DB
	publisherFactory func() interfaces.TransactionalEventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. Each unit of work
// gets its own transactional publisher so pending events never leak between
// transactions.
func NewUnitOfWorkFactory(db *database.DB, publisherFactory func() interfaces.TransactionalEventPublisher) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:               db,
		publisherFactory: publisherFactory,
	}
}

// Create creates a new UnitOfWork
func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: f.publisherFactory(),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.marketRepo = newMarketRepositoryWithTx(tx)
	u.ticketRepo = newTicketRepositoryWithTx(tx)
	u.paymentRepo = newPaymentRepositoryWithTx(tx)
	u.bettorRepo = newBettorRepositoryWithTx(tx)
	u.rankRepo = newRankRepositoryWithTx(tx)
	u.cashSessionRepo = newCashSessionRepositoryWithTx(tx)
	u.auditRepo = newAuditRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// MarketRepository returns the market repository for this unit of work
func (u *unitOfWork) MarketRepository() interfaces.MarketRepository {
	if u.marketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.marketRepo
}

// TicketRepository returns the ticket repository for this unit of work
func (u *unitOfWork) TicketRepository() interfaces.TicketRepository {
	if u.ticketRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.ticketRepo
}

// PaymentRepository returns the payment repository for this unit of work
func (u *unitOfWork) PaymentRepository() interfaces.PaymentRepository {
	if u.paymentRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.paymentRepo
}

// BettorRepository returns the bettor repository for this unit of work
func (u *unitOfWork) BettorRepository() interfaces.BettorRepository {
	if u.bettorRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.bettorRepo
}

// RankRepository returns the rank repository for this unit of work
func (u *unitOfWork) RankRepository() interfaces.RankRepository {
	if u.rankRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.rankRepo
}

// CashSessionRepository returns the cash session repository for this unit of work
func (u *unitOfWork) CashSessionRepository() interfaces.CashSessionRepository {
	if u.cashSessionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.cashSessionRepo
}

// AuditRepository returns the audit repository for this unit of work
func (u *unitOfWork) AuditRepository() interfaces.AuditRepository {
	if u.auditRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.auditRepo
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalPublisher
}
