package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewTicketCode generates a human-readable ticket code. The code is short
// enough to read over a counter and unique enough to never collide in
// practice (uniqueness is still enforced by the database).
func NewTicketCode() string {
	id := uuid.New()
	raw := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return fmt.Sprintf("TK-%s-%s", raw[:4], raw[4:10])
}
