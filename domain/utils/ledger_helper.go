package utils

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"bookie/domain/entities"
	"bookie/domain/events"
	"bookie/domain/interfaces"
)

// RecordTransaction appends a ledger entry and emits the corresponding event.
// This is the single entry point for all ledger appends in the system.
func RecordTransaction(ctx context.Context, ledger interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher, transaction *entities.Transaction, newBalance decimal.Decimal) error {
	if err := transaction.Validate(); err != nil {
		return fmt.Errorf("invalid ledger entry: %w", err)
	}

	if err := ledger.Append(ctx, transaction); err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}

	event := events.TransactionRecordedEvent{
		TransactionID: transaction.ID,
		AccountID:     transaction.AccountID,
		Kind:          transaction.Kind,
		Amount:        transaction.Amount,
		NewBalance:    newBalance,
	}
	log.WithFields(log.Fields{
		"transactionID": event.TransactionID,
		"accountID":     event.AccountID,
		"kind":          event.Kind,
		"amount":        event.Amount.String(),
		"newBalance":    event.NewBalance.String(),
	}).Debug("Publishing TransactionRecordedEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish transaction recorded event")
	}

	return nil
}
