package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"betshop/domain/entities"
	"betshop/domain/interfaces"
	"betshop/domain/services"
	"betshop/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// ErrTicketExpired is returned when a payment attempt finds the ticket past
// its expiry. The EXPIRED transition has already committed by the time the
// caller sees this.
var ErrTicketExpired = errors.New("ticket has expired and cannot be paid")

// BackOffice exposes the settlement operations to the transport layer. Each
// operation runs inside one unit of work: every write commits atomically or
// not at all, and buffered events flush only after commit.
type BackOffice struct {
	uowFactory UnitOfWorkFactory
}

// NewBackOffice creates the back-office facade
func NewBackOffice(uowFactory UnitOfWorkFactory) *BackOffice {
	return &BackOffice{uowFactory: uowFactory}
}

// CreateTicket runs the two-phase sale protocol. A NeedsConfirmation result
// rolls the transaction back untouched; the caller resubmits with the
// proposed changes. Because the re-submission re-reads market state inside
// a fresh transaction, a concurrent sale that moved the odds surfaces as
// another NeedsConfirmation rather than a silent mismatch.
func (b *BackOffice) CreateTicket(ctx context.Context, operator entities.Operator, req entities.SaleRequest) (*entities.SaleResult, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	svc := b.ticketService(uow)
	result, err := svc.Sell(ctx, operator, req)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if result.NeedsConfirmation != nil {
		// Nothing was mutated; discard the transaction and hand the
		// proposal back for confirmation.
		_ = uow.Rollback()
		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.RecordSaleConfirmation()
		}
		return result, nil
	}

	b.audit(ctx, uow, operator, "ticket.sell", "ticket", result.Ticket.ID, nil, result.Ticket)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit sale: %w", err)
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		marketType := observability.MarketTypePool
		if result.Ticket.FixedOdd != nil {
			marketType = observability.MarketTypeOdds
		}
		metrics.RecordTicketSold(marketType)
		if result.RecalcApplied {
			metrics.RecordOddsRecalculation()
		}
	}
	return result, nil
}

// PayTicket settles a winning ticket. When the ticket turns out to be past
// its expiry, the EXPIRED transition commits and ErrTicketExpired is
// returned.
func (b *BackOffice) PayTicket(ctx context.Context, operator entities.Operator, ticketID int64) (*entities.PaymentResult, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	svc := b.ticketService(uow)
	result, err := svc.Pay(ctx, operator, ticketID)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if result.Expired {
		b.audit(ctx, uow, operator, "ticket.expire", "ticket", result.Ticket.ID, nil, result.Ticket)
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit expiry: %w", err)
		}
		if metrics := observability.GetMetrics(); metrics != nil {
			metrics.RecordTicketPayment(observability.PaymentOutcomeExpired)
		}
		return result, ErrTicketExpired
	}

	b.audit(ctx, uow, operator, "ticket.pay", "payment", result.Payment.ID, nil, result.Payment)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordTicketPayment(observability.PaymentOutcomePaid)
	}
	return result, nil
}

// PayTicketByCode resolves a ticket from its counter code and settles it.
func (b *BackOffice) PayTicketByCode(ctx context.Context, operator entities.Operator, code string) (*entities.PaymentResult, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	ticket, err := b.ticketService(uow).GetTicketByCode(ctx, code)
	_ = uow.Rollback()
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket not found")
	}
	return b.PayTicket(ctx, operator, ticket.ID)
}

// OpenSession opens a worker's cash session for a shift.
func (b *BackOffice) OpenSession(ctx context.Context, operator entities.Operator, openingFloat int64) (*entities.CashSession, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	svc := b.cashSessionService(uow)
	session, err := svc.Open(ctx, operator, openingFloat)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	b.audit(ctx, uow, operator, "session.open", "cash_session", session.ID, nil, session)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session open: %w", err)
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.UpdateOpenSessions(1)
	}
	return session, nil
}

// RequestClose snapshots the worker's declared float against the system
// float and requests the close.
func (b *BackOffice) RequestClose(ctx context.Context, operator entities.Operator, declaredFloat int64) (*entities.CashSession, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	svc := b.cashSessionService(uow)
	session, err := svc.RequestClose(ctx, operator, declaredFloat)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	b.audit(ctx, uow, operator, "session.request_close", "cash_session", session.ID, nil, session)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit close request: %w", err)
	}
	return session, nil
}

// ApproveClose seals a session; admin only.
func (b *BackOffice) ApproveClose(ctx context.Context, operator entities.Operator, sessionID int64) (*entities.SessionCloseResult, error) {
	if !operator.CanApproveSessions() {
		return nil, fmt.Errorf("role %s cannot approve session closes", operator.Role)
	}

	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	svc := b.cashSessionService(uow)
	result, err := svc.ApproveClose(ctx, operator, sessionID)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	b.audit(ctx, uow, operator, "session.approve_close", "cash_session", result.Session.ID, nil, result.Session)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session close: %w", err)
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.UpdateOpenSessions(-1)
	}
	return result, nil
}

// CreateMarket creates a market with its options; market-maker/admin only.
func (b *BackOffice) CreateMarket(ctx context.Context, operator entities.Operator, market *entities.Market, options []*entities.Option) (*entities.Market, error) {
	if !operator.CanManageMarkets() {
		return nil, fmt.Errorf("role %s cannot create markets", operator.Role)
	}

	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	svc := services.NewMarketService(uow.MarketRepository())
	created, err := svc.CreateMarket(ctx, market, options)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	b.audit(ctx, uow, operator, "market.create", "market", created.ID, nil, created)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit market: %w", err)
	}
	return created, nil
}

// UpdateMarketStatus applies a market state transition; market-maker/admin
// only.
func (b *BackOffice) UpdateMarketStatus(ctx context.Context, operator entities.Operator, marketID int64, newState entities.MarketState, winningOptionID *int64) (*entities.Market, error) {
	if !operator.CanManageMarkets() {
		return nil, fmt.Errorf("role %s cannot change market state", operator.Role)
	}

	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	svc := services.NewMarketService(uow.MarketRepository())
	before, err := uow.MarketRepository().GetByID(ctx, marketID)
	if err != nil {
		_ = uow.Rollback()
		return nil, fmt.Errorf("failed to get market: %w", err)
	}

	market, err := svc.UpdateStatus(ctx, marketID, newState, winningOptionID)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	b.audit(ctx, uow, operator, "market.update_status", "market", market.ID, before, market)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit market status: %w", err)
	}
	return market, nil
}

// AdjustOptionOdds applies a manual odds edit; market-maker/admin only.
func (b *BackOffice) AdjustOptionOdds(ctx context.Context, operator entities.Operator, optionID int64, newOdd float64) (*entities.Option, error) {
	if !operator.CanManageMarkets() {
		return nil, fmt.Errorf("role %s cannot adjust odds", operator.Role)
	}

	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	svc := services.NewMarketService(uow.MarketRepository())
	option, err := svc.AdjustOptionOdds(ctx, operator.UserID, optionID, newOdd)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	b.audit(ctx, uow, operator, "market.adjust_odds", "option", option.ID, nil, option)

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit odds adjustment: %w", err)
	}
	return option, nil
}

// GetOddsHistory returns an option's odds-change trail, newest first.
func (b *BackOffice) GetOddsHistory(ctx context.Context, optionID int64, limit int) ([]*entities.OddUpdate, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := services.NewMarketService(uow.MarketRepository())
	return svc.OddsHistory(ctx, optionID, limit)
}

// ListSessionMovements returns a session's cash movement log in insertion
// order.
func (b *BackOffice) ListSessionMovements(ctx context.Context, sessionID int64) ([]*entities.CashMovement, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.CashSessionRepository().ListMovements(ctx, sessionID)
}

// ReconcileSessionWindow recomputes a session's activity from the
// time-window association. Read-only and idempotent.
func (b *BackOffice) ReconcileSessionWindow(ctx context.Context, sessionID int64) (*entities.SessionWindowReport, error) {
	uow := b.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	svc := b.cashSessionService(uow)
	return svc.RecomputeWindow(ctx, sessionID)
}

func (b *BackOffice) ticketService(uow UnitOfWork) interfaces.TicketService {
	return services.NewTicketService(
		uow.MarketRepository(),
		uow.TicketRepository(),
		uow.PaymentRepository(),
		uow.BettorRepository(),
		uow.RankRepository(),
		uow.CashSessionRepository(),
		uow.EventBus(),
	)
}

func (b *BackOffice) cashSessionService(uow UnitOfWork) interfaces.CashSessionService {
	return services.NewCashSessionService(
		uow.CashSessionRepository(),
		uow.TicketRepository(),
		uow.PaymentRepository(),
		uow.EventBus(),
	)
}

// audit appends a fact to the audit log inside the current transaction. A
// failed audit write is logged and never blocks the settlement it
// describes.
func (b *BackOffice) audit(ctx context.Context, uow UnitOfWork, operator entities.Operator, action, entityType string, entityID int64, before, after any) {
	entry := &entities.AuditEntry{
		ActorID:    operator.UserID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if before != nil {
		if data, err := json.Marshal(before); err == nil {
			entry.Before = data
		}
	}
	if after != nil {
		if data, err := json.Marshal(after); err == nil {
			entry.After = data
		}
	}
	if err := uow.AuditRepository().Record(ctx, entry); err != nil {
		log.WithError(err).WithField("action", action).Error("Failed to record audit entry")
	}
}
