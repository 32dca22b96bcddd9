package repository

import (
	"context"
	"fmt"
	"time"

	"betshop/database"
	"betshop/domain/entities"

	"github.com/jackc/pgx/v5"
)

const cashSessionColumns = `
	id, franchise_id, worker_id, state, opening_float,
	sales_total, sales_count, payments_total, payments_count,
	declared_float, system_float, difference,
	approver_id, approved_at, requested_at, created_at
`

// CashSessionRepository implements cash session and movement data access
type CashSessionRepository struct {
	q Queryable
}

// NewCashSessionRepository creates a new cash session repository
func NewCashSessionRepository(db *database.DB) *CashSessionRepository {
	return &CashSessionRepository{q: db.Pool}
}

// newCashSessionRepositoryWithTx creates a new cash session repository with a transaction
func newCashSessionRepositoryWithTx(tx Queryable) *CashSessionRepository {
	return &CashSessionRepository{q: tx}
}

// Create creates a new cash session
func (r *CashSessionRepository) Create(ctx context.Context, session *entities.CashSession) error {
	query := `
		INSERT INTO cash_sessions (franchise_id, worker_id, state, opening_float)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		session.FranchiseID,
		session.WorkerID,
		session.State,
		session.OpeningFloat,
	).Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create cash session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by its ID
func (r *CashSessionRepository) GetByID(ctx context.Context, id int64) (*entities.CashSession, error) {
	query := `SELECT ` + cashSessionColumns + ` FROM cash_sessions WHERE id = $1`

	session, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get session by ID %d: %w", id, err)
	}
	return session, nil
}

// GetActiveByWorker returns the worker's session in OPEN or CLOSE_REQUESTED
// state, or nil when none exists
func (r *CashSessionRepository) GetActiveByWorker(ctx context.Context, workerID int64) (*entities.CashSession, error) {
	query := `
		SELECT ` + cashSessionColumns + `
		FROM cash_sessions
		WHERE worker_id = $1 AND state IN ('OPEN', 'CLOSE_REQUESTED')
	`

	session, err := r.scanOne(r.q.QueryRow(ctx, query, workerID))
	if err != nil {
		return nil, fmt.Errorf("failed to get active session for worker %d: %w", workerID, err)
	}
	return session, nil
}

// Update persists a session's state, totals and close snapshot
func (r *CashSessionRepository) Update(ctx context.Context, session *entities.CashSession) error {
	query := `
		UPDATE cash_sessions
		SET state = $2,
		    sales_total = $3, sales_count = $4,
		    payments_total = $5, payments_count = $6,
		    declared_float = $7, system_float = $8, difference = $9,
		    approver_id = $10, approved_at = $11, requested_at = $12
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		session.ID,
		session.State,
		session.SalesTotal,
		session.SalesCount,
		session.PaymentsTotal,
		session.PaymentsCount,
		session.DeclaredFloat,
		session.SystemFloat,
		session.Difference,
		session.ApproverID,
		session.ApprovedAt,
		session.RequestedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update session %d: %w", session.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %d not found", session.ID)
	}

	return nil
}

// RecordMovement appends one cash movement to the session's log
func (r *CashSessionRepository) RecordMovement(ctx context.Context, movement *entities.CashMovement) error {
	query := `
		INSERT INTO cash_movements (session_id, movement_type, amount, ticket_id, payment_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		movement.SessionID,
		movement.Type,
		movement.Amount,
		movement.TicketID,
		movement.PaymentID,
	).Scan(&movement.ID, &movement.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record cash movement: %w", err)
	}

	return nil
}

// ListMovements returns a session's movements in insertion order
func (r *CashSessionRepository) ListMovements(ctx context.Context, sessionID int64) ([]*entities.CashMovement, error) {
	query := `
		SELECT id, session_id, movement_type, amount, ticket_id, payment_id, created_at
		FROM cash_movements
		WHERE session_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements for session %d: %w", sessionID, err)
	}
	defer rows.Close()

	var movements []*entities.CashMovement
	for rows.Next() {
		var m entities.CashMovement
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Type, &m.Amount, &m.TicketID, &m.PaymentID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, &m)
	}

	return movements, rows.Err()
}

// SumMovements folds a session's movements into the system float. EXPENSE
// movements debit, everything else credits.
func (r *CashSessionRepository) SumMovements(ctx context.Context, sessionID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN movement_type = 'EXPENSE' THEN -amount ELSE amount END), 0)
		FROM cash_movements
		WHERE session_id = $1
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, sessionID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum movements for session %d: %w", sessionID, err)
	}

	return sum, nil
}

// GetNextSessionStart returns the creation time of the worker's next
// session created after the given time, or nil when none exists
func (r *CashSessionRepository) GetNextSessionStart(ctx context.Context, workerID int64, after time.Time) (*time.Time, error) {
	query := `
		SELECT created_at
		FROM cash_sessions
		WHERE worker_id = $1 AND created_at > $2
		ORDER BY created_at
		LIMIT 1
	`

	var start time.Time
	err := r.q.QueryRow(ctx, query, workerID, after).Scan(&start)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get next session start for worker %d: %w", workerID, err)
	}

	return &start, nil
}

func (r *CashSessionRepository) scanOne(row pgx.Row) (*entities.CashSession, error) {
	var s entities.CashSession
	err := row.Scan(
		&s.ID, &s.FranchiseID, &s.WorkerID, &s.State, &s.OpeningFloat,
		&s.SalesTotal, &s.SalesCount, &s.PaymentsTotal, &s.PaymentsCount,
		&s.DeclaredFloat, &s.SystemFloat, &s.Difference,
		&s.ApproverID, &s.ApprovedAt, &s.RequestedAt, &s.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
