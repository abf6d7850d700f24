package infrastructure

import (
	"fmt"

	"bookie/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeTransactionRecorded:
		return "ledger.transaction_recorded"
	case events.EventTypeCouponPlaced:
		return "coupons.placed"
	case events.EventTypeCouponSettled:
		return "coupons.settled"
	case events.EventTypeCreditGrantApproved:
		return "credits.approved"
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "ledger.transaction_recorded":
		return events.EventTypeTransactionRecorded
	case "coupons.placed":
		return events.EventTypeCouponPlaced
	case "coupons.settled":
		return events.EventTypeCouponSettled
	case "credits.approved":
		return events.EventTypeCreditGrantApproved
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"ledger.transaction_recorded",
		"coupons.placed",
		"coupons.settled",
		"credits.approved",
	}
}
