package repository

import (
	"context"
	"fmt"

	"betshop/database"
	"betshop/domain/entities"

	"github.com/jackc/pgx/v5"
)

// RankRepository implements rank ladder data access
type RankRepository struct {
	q Queryable
}

// NewRankRepository creates a new rank repository
func NewRankRepository(db *database.DB) *RankRepository {
	return &RankRepository{q: db.Pool}
}

// newRankRepositoryWithTx creates a new rank repository with a transaction
func newRankRepositoryWithTx(tx Queryable) *RankRepository {
	return &RankRepository{q: tx}
}

// GetByID retrieves a rank rule by its ID
func (r *RankRepository) GetByID(ctx context.Context, id int64) (*entities.RankRule, error) {
	query := `
		SELECT id, ordinal, name, min_amount, max_amount
		FROM rank_rules
		WHERE id = $1
	`

	var rule entities.RankRule
	err := r.q.QueryRow(ctx, query, id).Scan(
		&rule.ID, &rule.Ordinal, &rule.Name, &rule.MinAmount, &rule.MaxAmount,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rank by ID %d: %w", id, err)
	}

	return &rule, nil
}

// GetLadder returns all rank rules ordered by ordinal
func (r *RankRepository) GetLadder(ctx context.Context) ([]*entities.RankRule, error) {
	query := `
		SELECT id, ordinal, name, min_amount, max_amount
		FROM rank_rules
		ORDER BY ordinal
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank ladder: %w", err)
	}
	defer rows.Close()

	var ladder []*entities.RankRule
	for rows.Next() {
		var rule entities.RankRule
		if err := rows.Scan(&rule.ID, &rule.Ordinal, &rule.Name, &rule.MinAmount, &rule.MaxAmount); err != nil {
			return nil, fmt.Errorf("failed to scan rank rule: %w", err)
		}
		ladder = append(ladder, &rule)
	}

	return ladder, rows.Err()
}
