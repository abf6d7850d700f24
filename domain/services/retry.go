package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"bookie/domain"
)

const (
	maxConcurrencyRetries = 3
	retryBaseDelay        = 25 * time.Millisecond
)

// withConcurrencyRetry runs op, retrying a bounded number of times when the
// backing store reports a lock conflict. Any other error, including an
// exhausted retry budget, is returned to the caller as-is.
func withConcurrencyRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt <= maxConcurrencyRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * retryBaseDelay
			log.WithFields(log.Fields{
				"attempt": attempt,
				"delay":   delay,
			}).Warn("Retrying ledger operation after concurrent modification")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		err = op()
		if err == nil || !domain.IsConcurrentModification(err) {
			return err
		}
	}
	return err
}
