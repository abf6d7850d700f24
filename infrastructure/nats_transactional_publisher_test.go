package infrastructure

import (
	"context"
	"errors"
	"testing"

	"bookie/domain/events"

	"github.com/shopspring/decimal"
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

func TestNATSTransactionalPublisher_BuffersUntilFlush(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	placed := events.CouponPlacedEvent{
		CouponID:     1,
		UniqueID:     "ABC123",
		PlayerID:     "player-1",
		Stake:        decimal.NewFromInt(50),
		PotentialWin: decimal.NewFromInt(150),
	}
	recorded := events.TransactionRecordedEvent{
		TransactionID: 7,
		AccountID:     "player-1",
		Amount:        decimal.NewFromInt(-50),
		NewBalance:    decimal.NewFromInt(50),
	}

	require.NoError(t, transPublisher.Publish(placed))
	require.NoError(t, transPublisher.Publish(recorded))

	// Nothing reaches the real publisher before flush
	assert.Len(t, mockPublisher.PublishedEvents, 0)

	require.NoError(t, transPublisher.Flush(context.Background()))

	// Events arrive in publish order
	require.Len(t, mockPublisher.PublishedEvents, 2)
	assert.Equal(t, placed, mockPublisher.PublishedEvents[0])
	assert.Equal(t, recorded, mockPublisher.PublishedEvents[1])

	// A second flush publishes nothing
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 2)
}

func TestNATSTransactionalPublisher_DiscardDropsPending(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishedEvents: make([]events.Event, 0),
	}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.CreditGrantApprovedEvent{
		GrantID:     12,
		ToAccountID: "agent-1",
		Amount:      decimal.NewFromInt(2000),
		ApprovedBy:  "root",
	}))

	transPublisher.Discard()

	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}

func TestNATSTransactionalPublisher_FlushSurvivesPublishError(t *testing.T) {
	mockPublisher := &MockEventPublisher{
		PublishError: errors.New("nats unavailable"),
	}
	transPublisher := NewNATSTransactionalPublisher(mockPublisher)

	require.NoError(t, transPublisher.Publish(events.CouponSettledEvent{
		CouponID: 3,
		PlayerID: "player-1",
	}))

	// Flush logs the failure per event but does not return it
	require.NoError(t, transPublisher.Flush(context.Background()))

	// The queue is cleared even when publishing failed
	mockPublisher.PublishError = nil
	require.NoError(t, transPublisher.Flush(context.Background()))
	assert.Len(t, mockPublisher.PublishedEvents, 0)
}
