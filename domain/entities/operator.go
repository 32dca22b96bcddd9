package entities

// Role is the coarse authorization role carried by the session context.
// Credential issuance and validation live outside the core; only the
// role/franchise invariants are checked here.
type Role string

const (
	RoleWorker      Role = "WORKER"
	RoleAdmin       Role = "ADMIN"
	RoleMarketMaker Role = "MARKET_MAKER"
)

// Operator is the session context supplied by the authentication layer to
// every entry point.
type Operator struct {
	UserID      int64
	Role        Role
	FranchiseID *int64
}

// CanManageMarkets reports whether the operator may change market state or
// edit odds by hand.
func (o Operator) CanManageMarkets() bool {
	return o.Role == RoleAdmin || o.Role == RoleMarketMaker
}

// CanApproveSessions reports whether the operator may seal cash sessions.
func (o Operator) CanApproveSessions() bool {
	return o.Role == RoleAdmin
}
