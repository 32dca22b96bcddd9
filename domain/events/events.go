package events

// EventType represents different types of notification events in the system
type EventType string

const (
	EventTypeMarketOddsThreshold EventType = "market_odds_threshold"
	EventTypeCashCloseRequested  EventType = "cash_close_requested"
	EventTypeHighPayout          EventType = "high_payout"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// OddsChange carries one option's odds movement inside a threshold event.
type OddsChange struct {
	OptionID int64
	Before   *float64
	After    float64
}

// MarketOddsThresholdEvent signals that accumulated wagers crossed a
// market's recalculation threshold and odds were updated.
type MarketOddsThresholdEvent struct {
	MarketID int64
	Changes  []OddsChange
}

func (e MarketOddsThresholdEvent) Type() EventType {
	return EventTypeMarketOddsThreshold
}

// CashCloseRequestedEvent signals a worker asked to close their cash session.
type CashCloseRequestedEvent struct {
	SessionID     int64
	WorkerID      int64
	FranchiseID   int64
	DeclaredFloat int64
	SystemFloat   int64
	Difference    int64
}

func (e CashCloseRequestedEvent) Type() EventType {
	return EventTypeCashCloseRequested
}

// HighPayoutEvent signals a gross payout above the configured threshold.
type HighPayoutEvent struct {
	TicketID    int64
	MarketID    int64
	WorkerID    int64
	GrossAmount int64
	NetAmount   int64
}

func (e HighPayoutEvent) Type() EventType {
	return EventTypeHighPayout
}
