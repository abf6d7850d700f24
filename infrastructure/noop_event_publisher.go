package infrastructure

import (
	"context"

	"bookie/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing.
// Useful for tests and admin commands where events should not be processed.
// It satisfies the transactional publisher interface so it can back a unit
// of work directly.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}

// Flush does nothing
func (n *NoopEventPublisher) Flush(ctx context.Context) error {
	return nil
}

// Discard does nothing
func (n *NoopEventPublisher) Discard() {}
