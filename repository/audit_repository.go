package repository

import (
	"context"
	"fmt"

	"betshop/database"
	"betshop/domain/entities"
)

// AuditRepository implements the append-only audit log
type AuditRepository struct {
	q Queryable
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{q: db.Pool}
}

// newAuditRepositoryWithTx creates a new audit repository with a transaction
func newAuditRepositoryWithTx(tx Queryable) *AuditRepository {
	return &AuditRepository{q: tx}
}

// Record appends one audit fact within the current transaction
func (r *AuditRepository) Record(ctx context.Context, entry *entities.AuditEntry) error {
	query := `
		INSERT INTO audit_log (actor_id, action, entity_type, entity_id, before, after)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.ActorID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Before,
		entry.After,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}
