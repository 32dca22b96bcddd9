package repository

import (
	"context"
	"fmt"

	"betshop/database"
	"betshop/domain/entities"

	"github.com/jackc/pgx/v5"
)

// BettorRepository implements bettor data access
type BettorRepository struct {
	q Queryable
}

// NewBettorRepository creates a new bettor repository
func NewBettorRepository(db *database.DB) *BettorRepository {
	return &BettorRepository{q: db.Pool}
}

// newBettorRepositoryWithTx creates a new bettor repository with a transaction
func newBettorRepositoryWithTx(tx Queryable) *BettorRepository {
	return &BettorRepository{q: tx}
}

// GetByAlias retrieves a bettor by normalized alias
func (r *BettorRepository) GetByAlias(ctx context.Context, alias string) (*entities.Bettor, error) {
	query := `
		SELECT id, alias, rank_id, lifetime_bets, accumulated_bets, auto_promote, created_at
		FROM bettors
		WHERE alias = $1
	`

	var b entities.Bettor
	err := r.q.QueryRow(ctx, query, alias).Scan(
		&b.ID, &b.Alias, &b.RankID, &b.LifetimeBets, &b.AccumulatedBets, &b.AutoPromote, &b.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bettor by alias %s: %w", alias, err)
	}

	return &b, nil
}

// Create creates a new bettor at the given rank
func (r *BettorRepository) Create(ctx context.Context, alias string, rankID int64) (*entities.Bettor, error) {
	query := `
		INSERT INTO bettors (alias, rank_id)
		VALUES ($1, $2)
		RETURNING id, alias, rank_id, lifetime_bets, accumulated_bets, auto_promote, created_at
	`

	var b entities.Bettor
	err := r.q.QueryRow(ctx, query, alias, rankID).Scan(
		&b.ID, &b.Alias, &b.RankID, &b.LifetimeBets, &b.AccumulatedBets, &b.AutoPromote, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bettor %s: %w", alias, err)
	}

	return &b, nil
}

// Update persists a bettor's rank and bet counters
func (r *BettorRepository) Update(ctx context.Context, bettor *entities.Bettor) error {
	query := `
		UPDATE bettors
		SET rank_id = $2, lifetime_bets = $3, accumulated_bets = $4, auto_promote = $5
		WHERE id = $1
	`

	tag, err := r.q.Exec(ctx, query,
		bettor.ID,
		bettor.RankID,
		bettor.LifetimeBets,
		bettor.AccumulatedBets,
		bettor.AutoPromote,
	)
	if err != nil {
		return fmt.Errorf("failed to update bettor %d: %w", bettor.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bettor %d not found", bettor.ID)
	}

	return nil
}

// RecordPromotion appends one promotion-history record
func (r *BettorRepository) RecordPromotion(ctx context.Context, promotion *entities.RankPromotion) error {
	query := `
		INSERT INTO rank_promotions (bettor_id, from_rank_id, to_rank_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		promotion.BettorID,
		promotion.FromRankID,
		promotion.ToRankID,
	).Scan(&promotion.ID, &promotion.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record promotion: %w", err)
	}

	return nil
}
