package entities

import "time"

// OddUpdateReason tags how an odds change originated.
type OddUpdateReason string

const (
	OddUpdateReasonAutomatic OddUpdateReason = "AUTOMATIC"
	OddUpdateReasonManual    OddUpdateReason = "MANUAL"
)

// OddUpdate is one append-only audit entry for an option's odds change.
type OddUpdate struct {
	ID        int64           `db:"id"`
	OptionID  int64           `db:"option_id"`
	Bias      float64         `db:"bias"`
	OddBefore *float64        `db:"odd_before"`
	OddAfter  float64         `db:"odd_after"`
	Reason    OddUpdateReason `db:"reason"`
	ActorID   *int64          `db:"actor_id"` // nil for automatic recalculations
	CreatedAt time.Time       `db:"created_at"`
}
