package infrastructure

import (
	"fmt"

	"betshop/domain/events"
)

// EventSubjectMapper handles mapping between notification events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a notification event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeMarketOddsThreshold:
		return "markets.odds.threshold_crossed"
	case events.EventTypeCashCloseRequested:
		return "cash.sessions.close_requested"
	case events.EventTypeHighPayout:
		return "tickets.payouts.high_value"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "markets.odds.threshold_crossed":
		return events.EventTypeMarketOddsThreshold
	case "cash.sessions.close_requested":
		return events.EventTypeCashCloseRequested
	case "tickets.payouts.high_value":
		return events.EventTypeHighPayout
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"markets.odds.threshold_crossed",
		"cash.sessions.close_requested",
		"tickets.payouts.high_value",
	}
}
