package repository

import (
	"context"
	"fmt"
	"time"

	"betshop/database"
	"betshop/domain/entities"

	"github.com/jackc/pgx/v5"
)

const ticketColumns = `
	id, code, market_id, option_id, bettor_id, worker_id, franchise_id,
	amount, fixed_odd, state, expires_at, created_at
`

// TicketRepository implements ticket data access
type TicketRepository struct {
	q Queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a new ticket repository with a transaction
func newTicketRepositoryWithTx(tx Queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

// Create creates a new ticket record
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (
			code, market_id, option_id, bettor_id, worker_id, franchise_id,
			amount, fixed_odd, state, expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		ticket.Code,
		ticket.MarketID,
		ticket.OptionID,
		ticket.BettorID,
		ticket.WorkerID,
		ticket.FranchiseID,
		ticket.Amount,
		ticket.FixedOdd,
		ticket.State,
		ticket.ExpiresAt,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// GetByID retrieves a ticket by its ID
func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	ticket, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket by ID %d: %w", id, err)
	}
	return ticket, nil
}

// GetByCode retrieves a ticket by its human-readable code
func (r *TicketRepository) GetByCode(ctx context.Context, code string) (*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE code = $1`

	ticket, err := r.scanOne(r.q.QueryRow(ctx, query, code))
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket by code %s: %w", code, err)
	}
	return ticket, nil
}

// UpdateState transitions a ticket's state
func (r *TicketRepository) UpdateState(ctx context.Context, id int64, state entities.TicketState) error {
	query := `UPDATE tickets SET state = $2 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, id, state)
	if err != nil {
		return fmt.Errorf("failed to update ticket %d state: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ticket %d not found", id)
	}

	return nil
}

// GetByMarket returns all tickets sold against a market
func (r *TicketRepository) GetByMarket(ctx context.Context, marketID int64) ([]*entities.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE market_id = $1 ORDER BY id`

	rows, err := r.q.Query(ctx, query, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets for market %d: %w", marketID, err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// GetInWindow returns tickets sold by a worker within a franchise during
// the half-open interval [start, end)
func (r *TicketRepository) GetInWindow(ctx context.Context, workerID, franchiseID int64, start, end time.Time) ([]*entities.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets
		WHERE worker_id = $1 AND franchise_id = $2
		  AND created_at >= $3 AND created_at < $4
		ORDER BY created_at
	`

	rows, err := r.q.Query(ctx, query, workerID, franchiseID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets in window: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

func (r *TicketRepository) scanOne(row pgx.Row) (*entities.Ticket, error) {
	var t entities.Ticket
	err := row.Scan(
		&t.ID, &t.Code, &t.MarketID, &t.OptionID, &t.BettorID, &t.WorkerID,
		&t.FranchiseID, &t.Amount, &t.FixedOdd, &t.State, &t.ExpiresAt, &t.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) scanAll(rows pgx.Rows) ([]*entities.Ticket, error) {
	var tickets []*entities.Ticket
	for rows.Next() {
		var t entities.Ticket
		if err := rows.Scan(
			&t.ID, &t.Code, &t.MarketID, &t.OptionID, &t.BettorID, &t.WorkerID,
			&t.FranchiseID, &t.Amount, &t.FixedOdd, &t.State, &t.ExpiresAt, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &t)
	}
	return tickets, rows.Err()
}
