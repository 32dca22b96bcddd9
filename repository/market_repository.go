package repository

import (
	"context"
	"fmt"

	"betshop/database"
	"betshop/domain/entities"

	"github.com/jackc/pgx/v5"
)

// MarketRepository implements market and option data access
type MarketRepository struct {
	q Queryable
}

// NewMarketRepository creates a new market repository
func NewMarketRepository(db *database.DB) *MarketRepository {
	return &MarketRepository{q: db.Pool}
}

// newMarketRepositoryWithTx creates a new market repository with a transaction
func newMarketRepositoryWithTx(tx Queryable) *MarketRepository {
	return &MarketRepository{q: tx}
}

// CreateWithOptions creates a new market together with its options
func (r *MarketRepository) CreateWithOptions(ctx context.Context, market *entities.Market, options []*entities.Option) error {
	query := `
		INSERT INTO markets (
			name, market_type, state, fee_pct, franchise_id,
			recalc_threshold, accumulated, starts_at, ends_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		market.Name,
		market.Type,
		market.State,
		market.FeePct,
		market.FranchiseID,
		market.RecalcThreshold,
		market.Accumulated,
		market.StartsAt,
		market.EndsAt,
	).Scan(&market.ID, &market.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create market: %w", err)
	}

	optionQuery := `
		INSERT INTO options (market_id, name, initial_odd, current_odd, total_amount)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	for _, o := range options {
		o.MarketID = market.ID
		if err := r.q.QueryRow(ctx, optionQuery,
			o.MarketID, o.Name, o.InitialOdd, o.CurrentOdd, o.TotalAmount,
		).Scan(&o.ID); err != nil {
			return fmt.Errorf("failed to create option %q: %w", o.Name, err)
		}
	}

	return nil
}

// GetByID retrieves a market by its ID
func (r *MarketRepository) GetByID(ctx context.Context, id int64) (*entities.Market, error) {
	query := `
		SELECT
			id, name, market_type, state, fee_pct, franchise_id,
			recalc_threshold, accumulated, winning_option_id,
			starts_at, ends_at, closed_at, created_at
		FROM markets
		WHERE id = $1
	`

	var market entities.Market
	err := r.q.QueryRow(ctx, query, id).Scan(
		&market.ID,
		&market.Name,
		&market.Type,
		&market.State,
		&market.FeePct,
		&market.FranchiseID,
		&market.RecalcThreshold,
		&market.Accumulated,
		&market.WinningOptionID,
		&market.StartsAt,
		&market.EndsAt,
		&market.ClosedAt,
		&market.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market by ID %d: %w", id, err)
	}

	return &market, nil
}

// Update persists a market's mutable fields
func (r *MarketRepository) Update(ctx context.Context, market *entities.Market) error {
	query := `
		UPDATE markets
		SET state = $2, accumulated = $3, winning_option_id = $4, closed_at = $5
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		market.ID,
		market.State,
		market.Accumulated,
		market.WinningOptionID,
		market.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update market %d: %w", market.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("market %d not found", market.ID)
	}

	return nil
}

// GetOptions returns all options of a market ordered by ID
func (r *MarketRepository) GetOptions(ctx context.Context, marketID int64) ([]*entities.Option, error) {
	query := `
		SELECT id, market_id, name, initial_odd, current_odd, total_amount
		FROM options
		WHERE market_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options for market %d: %w", marketID, err)
	}
	defer rows.Close()

	var options []*entities.Option
	for rows.Next() {
		var o entities.Option
		if err := rows.Scan(&o.ID, &o.MarketID, &o.Name, &o.InitialOdd, &o.CurrentOdd, &o.TotalAmount); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, &o)
	}

	return options, rows.Err()
}

// GetOption retrieves a single option by its ID
func (r *MarketRepository) GetOption(ctx context.Context, id int64) (*entities.Option, error) {
	query := `
		SELECT id, market_id, name, initial_odd, current_odd, total_amount
		FROM options
		WHERE id = $1
	`

	var o entities.Option
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.MarketID, &o.Name, &o.InitialOdd, &o.CurrentOdd, &o.TotalAmount)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get option by ID %d: %w", id, err)
	}

	return &o, nil
}

// IncrementOptionTotal adds an amount to an option's wagered total
func (r *MarketRepository) IncrementOptionTotal(ctx context.Context, optionID int64, amount int64) error {
	query := `UPDATE options SET total_amount = total_amount + $2 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, optionID, amount)
	if err != nil {
		return fmt.Errorf("failed to increment option %d total: %w", optionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("option %d not found", optionID)
	}

	return nil
}

// UpdateOptionOdd sets an option's current odd
func (r *MarketRepository) UpdateOptionOdd(ctx context.Context, optionID int64, odd float64) error {
	query := `UPDATE options SET current_odd = $2 WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, optionID, odd)
	if err != nil {
		return fmt.Errorf("failed to update option %d odd: %w", optionID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("option %d not found", optionID)
	}

	return nil
}

// RecordOddUpdate appends one odds-change audit row
func (r *MarketRepository) RecordOddUpdate(ctx context.Context, update *entities.OddUpdate) error {
	query := `
		INSERT INTO odd_updates (option_id, bias, odd_before, odd_after, reason, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		update.OptionID,
		update.Bias,
		update.OddBefore,
		update.OddAfter,
		update.Reason,
		update.ActorID,
	).Scan(&update.ID, &update.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record odd update: %w", err)
	}

	return nil
}

// GetOddUpdatesByOption returns the odds-change history for an option
func (r *MarketRepository) GetOddUpdatesByOption(ctx context.Context, optionID int64, limit int) ([]*entities.OddUpdate, error) {
	query := `
		SELECT id, option_id, bias, odd_before, odd_after, reason, actor_id, created_at
		FROM odd_updates
		WHERE option_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, optionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get odd updates for option %d: %w", optionID, err)
	}
	defer rows.Close()

	var updates []*entities.OddUpdate
	for rows.Next() {
		var u entities.OddUpdate
		if err := rows.Scan(&u.ID, &u.OptionID, &u.Bias, &u.OddBefore, &u.OddAfter, &u.Reason, &u.ActorID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan odd update: %w", err)
		}
		updates = append(updates, &u)
	}

	return updates, rows.Err()
}
