package repository

import (
	"context"
	"fmt"
	"time"

	"betshop/database"
	"betshop/domain/entities"

	"github.com/jackc/pgx/v5"
)

// PaymentRepository implements payment data access
type PaymentRepository struct {
	q Queryable
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *database.DB) *PaymentRepository {
	return &PaymentRepository{q: db.Pool}
}

// newPaymentRepositoryWithTx creates a new payment repository with a transaction
func newPaymentRepositoryWithTx(tx Queryable) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create creates a new payment record
func (r *PaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	query := `
		INSERT INTO payments (ticket_id, worker_id, franchise_id, net_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id, paid_at
	`

	err := r.q.QueryRow(ctx, query,
		payment.TicketID,
		payment.WorkerID,
		payment.FranchiseID,
		payment.NetAmount,
	).Scan(&payment.ID, &payment.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// GetByTicketID retrieves the payment for a ticket, if any
func (r *PaymentRepository) GetByTicketID(ctx context.Context, ticketID int64) (*entities.Payment, error) {
	query := `
		SELECT id, ticket_id, worker_id, franchise_id, net_amount, paid_at
		FROM payments
		WHERE ticket_id = $1
	`

	var p entities.Payment
	err := r.q.QueryRow(ctx, query, ticketID).Scan(
		&p.ID, &p.TicketID, &p.WorkerID, &p.FranchiseID, &p.NetAmount, &p.PaidAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment for ticket %d: %w", ticketID, err)
	}

	return &p, nil
}

// GetInWindow returns payments made by a worker within a franchise during
// the half-open interval [start, end)
func (r *PaymentRepository) GetInWindow(ctx context.Context, workerID, franchiseID int64, start, end time.Time) ([]*entities.Payment, error) {
	query := `
		SELECT id, ticket_id, worker_id, franchise_id, net_amount, paid_at
		FROM payments
		WHERE worker_id = $1 AND franchise_id = $2
		  AND paid_at >= $3 AND paid_at < $4
		ORDER BY paid_at
	`

	rows, err := r.q.Query(ctx, query, workerID, franchiseID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments in window: %w", err)
	}
	defer rows.Close()

	var payments []*entities.Payment
	for rows.Next() {
		var p entities.Payment
		if err := rows.Scan(&p.ID, &p.TicketID, &p.WorkerID, &p.FranchiseID, &p.NetAmount, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, &p)
	}

	return payments, rows.Err()
}
