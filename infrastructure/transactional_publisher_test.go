package infrastructure

import (
	"context"
	"errors"
	"testing"

	"betshop/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestTransactionalPublisher_FlushAfterCommit(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewTransactionalPublisher(mockPublisher)

	testEvent := events.CashCloseRequestedEvent{
		SessionID:     7,
		WorkerID:      42,
		FranchiseID:   3,
		DeclaredFloat: 6400,
		SystemFloat:   6500,
		Difference:    -100,
	}

	// Publish event (it gets queued)
	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	// Nothing reaches the real publisher before flush
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	err = transPublisher.Flush(context.Background())
	require.NoError(t, err)

	assert.Len(t, mockPublisher.PublishedEvents, 1)
	assert.Equal(t, testEvent, mockPublisher.PublishedEvents[0])
}

func TestTransactionalPublisher_FlushPreservesOrder(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewTransactionalPublisher(mockPublisher)

	first := events.MarketOddsThresholdEvent{MarketID: 1}
	second := events.HighPayoutEvent{TicketID: 77, MarketID: 1, WorkerID: 42, GrossAmount: 60000, NetAmount: 57000}

	require.NoError(t, transPublisher.Publish(first))
	require.NoError(t, transPublisher.Publish(second))

	require.NoError(t, transPublisher.Flush(context.Background()))

	require.Len(t, mockPublisher.PublishedEvents, 2)
	assert.Equal(t, first, mockPublisher.PublishedEvents[0])
	assert.Equal(t, second, mockPublisher.PublishedEvents[1])
}

func TestTransactionalPublisher_Discard(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}

	transPublisher := NewTransactionalPublisher(mockPublisher)

	testEvent := events.HighPayoutEvent{
		TicketID:    77,
		MarketID:    1,
		WorkerID:    42,
		GrossAmount: 60000,
		NetAmount:   57000,
	}

	err := transPublisher.Publish(testEvent)
	require.NoError(t, err)

	// Discard instead of flush, as on transaction rollback
	transPublisher.Discard()

	assert.Len(t, mockPublisher.PublishedEvents, 0)

	// A later flush must not resurrect discarded events
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}

func TestTransactionalPublisher_FlushContinuesOnError(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishError: errors.New("stream unavailable"),
	}

	transPublisher := NewTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.MarketOddsThresholdEvent{MarketID: 1}))

	// Flush swallows publish errors so a broken broker cannot fail a
	// committed transaction
	err := transPublisher.Flush(context.Background())
	assert.NoError(t, err)
}
