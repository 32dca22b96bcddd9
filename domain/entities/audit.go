package entities

import "time"

// AuditEntry is one append-only fact in the back-office audit log. Before
// and after carry JSON snapshots of the mutated entity.
type AuditEntry struct {
	ID         int64     `db:"id"`
	ActorID    int64     `db:"actor_id"`
	Action     string    `db:"action"`
	EntityType string    `db:"entity_type"`
	EntityID   int64     `db:"entity_id"`
	Before     []byte    `db:"before"`
	After      []byte    `db:"after"`
	CreatedAt  time.Time `db:"created_at"`
}
