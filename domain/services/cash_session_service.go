package services

import (
	"context"
	"fmt"
	"time"

	"betshop/domain/entities"
	"betshop/domain/events"
	"betshop/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type cashSessionService struct {
	sessionRepo    interfaces.CashSessionRepository
	ticketRepo     interfaces.TicketRepository
	paymentRepo    interfaces.PaymentRepository
	eventPublisher interfaces.EventPublisher
}

// NewCashSessionService creates a new cash session service
func NewCashSessionService(
	sessionRepo interfaces.CashSessionRepository,
	ticketRepo interfaces.TicketRepository,
	paymentRepo interfaces.PaymentRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.CashSessionService {
	return &cashSessionService{
		sessionRepo:    sessionRepo,
		ticketRepo:     ticketRepo,
		paymentRepo:    paymentRepo,
		eventPublisher: eventPublisher,
	}
}

// Open creates a worker's cash session for a shift.
func (s *cashSessionService) Open(ctx context.Context, operator entities.Operator, openingFloat int64) (*entities.CashSession, error) {
	if openingFloat < 0 {
		return nil, fmt.Errorf("opening float cannot be negative")
	}
	if operator.FranchiseID == nil {
		return nil, fmt.Errorf("worker has no active franchise")
	}

	existing, err := s.sessionRepo.GetActiveByWorker(ctx, operator.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("worker already has a session in state %s", existing.State)
	}

	session := &entities.CashSession{
		FranchiseID:  *operator.FranchiseID,
		WorkerID:     operator.UserID,
		State:        entities.CashSessionStateOpen,
		OpeningFloat: openingFloat,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if openingFloat > 0 {
		if err := s.sessionRepo.RecordMovement(ctx, &entities.CashMovement{
			SessionID: session.ID,
			Type:      entities.CashMovementOpening,
			Amount:    openingFloat,
		}); err != nil {
			return nil, fmt.Errorf("failed to record opening movement: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"sessionID":    session.ID,
		"workerID":     operator.UserID,
		"openingFloat": openingFloat,
	}).Info("Cash session opened")

	return session, nil
}

// RequestClose snapshots the declared vs system float. Sales keep posting
// against the session until an admin approves.
func (s *cashSessionService) RequestClose(ctx context.Context, operator entities.Operator, declaredFloat int64) (*entities.CashSession, error) {
	if declaredFloat < 0 {
		return nil, fmt.Errorf("declared float cannot be negative")
	}

	session, err := s.sessionRepo.GetActiveByWorker(ctx, operator.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("worker has no open cash session")
	}

	systemFloat, err := s.systemFloat(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := session.RequestClose(declaredFloat, systemFloat, time.Now()); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if err := s.eventPublisher.Publish(events.CashCloseRequestedEvent{
		SessionID:     session.ID,
		WorkerID:      session.WorkerID,
		FranchiseID:   session.FranchiseID,
		DeclaredFloat: declaredFloat,
		SystemFloat:   systemFloat,
		Difference:    declaredFloat - systemFloat,
	}); err != nil {
		log.WithError(err).Error("Failed to publish cash close requested event")
	}

	return session, nil
}

// ApproveClose seals the session. The system float is recomputed against
// live movements because sales may have continued after the close request.
func (s *cashSessionService) ApproveClose(ctx context.Context, approver entities.Operator, sessionID int64) (*entities.SessionCloseResult, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found")
	}

	systemFloat, err := s.systemFloat(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := session.Approve(approver.UserID, systemFloat, time.Now()); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	direction, amount := session.Liquidation()

	log.WithFields(log.Fields{
		"sessionID":   session.ID,
		"systemFloat": systemFloat,
		"direction":   direction,
		"amount":      amount,
	}).Info("Cash session closed")

	return &entities.SessionCloseResult{
		Session:   session,
		Direction: direction,
		Amount:    amount,
	}, nil
}

// systemFloat folds the session's movement log. The materialized totals on
// the session row are never trusted as the sole source during
// reconciliation.
func (s *cashSessionService) systemFloat(ctx context.Context, session *entities.CashSession) (int64, error) {
	sum, err := s.sessionRepo.SumMovements(ctx, session.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum movements: %w", err)
	}
	return sum, nil
}

// RecomputeWindow rebuilds a session's activity from the time-window
// association (worker + franchise + [start, end)) instead of the stored
// totals. Idempotent; safe to re-run as a batch job.
func (s *cashSessionService) RecomputeWindow(ctx context.Context, sessionID int64) (*entities.SessionWindowReport, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("session not found")
	}

	start := session.CreatedAt
	end := s.windowEnd(ctx, session)

	tickets, err := s.ticketRepo.GetInWindow(ctx, session.WorkerID, session.FranchiseID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets in window: %w", err)
	}
	payments, err := s.paymentRepo.GetInWindow(ctx, session.WorkerID, session.FranchiseID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments in window: %w", err)
	}

	report := &entities.SessionWindowReport{
		SessionID: session.ID,
		WorkerID:  session.WorkerID,
		Start:     start,
		End:       end,
	}
	for _, t := range tickets {
		report.SalesTotal += t.Amount
		report.SalesCount++
	}
	for _, p := range payments {
		report.PaymentsTotal += p.NetAmount
		report.PaymentsCount++
	}
	report.SystemFloat = session.OpeningFloat + report.SalesTotal - report.PaymentsTotal

	return report, nil
}

// windowEnd picks the earliest of the session's own close timestamps, the
// next session's creation time, or now for a still-open session.
func (s *cashSessionService) windowEnd(ctx context.Context, session *entities.CashSession) time.Time {
	end := time.Now()
	if session.RequestedAt != nil && session.RequestedAt.Before(end) {
		end = *session.RequestedAt
	}
	if session.ApprovedAt != nil && session.ApprovedAt.Before(end) {
		end = *session.ApprovedAt
	}

	next, err := s.sessionRepo.GetNextSessionStart(ctx, session.WorkerID, session.CreatedAt)
	if err != nil {
		log.WithError(err).Warn("Failed to look up next session start, using own timestamps")
		return end
	}
	if next != nil && next.Before(end) {
		end = *next
	}
	return end
}
