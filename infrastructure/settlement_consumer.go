package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/interfaces"
)

const (
	// settleRequestSubject is where the external judging process publishes
	// coupon outcomes once the underlying matches have been decided.
	settleRequestSubject = "coupons.settle_requests"
	settleRequestStream  = "settlement_requests"
)

// settleRequest is the wire form of an outcome notification
type settleRequest struct {
	CouponID int64  `json:"coupon_id"`
	Outcome  string `json:"outcome"`
}

// SettlementConsumer routes settlement requests from NATS to the coupon service
type SettlementConsumer struct {
	natsClient *NATSClient
	coupons    interfaces.CouponService
}

// NewSettlementConsumer creates a consumer over an already-connected NATS client
func NewSettlementConsumer(natsClient *NATSClient, coupons interfaces.CouponService) *SettlementConsumer {
	return &SettlementConsumer{
		natsClient: natsClient,
		coupons:    coupons,
	}
}

// Start ensures the request stream exists and begins consuming settlement
// requests. It blocks until the context is cancelled.
func (c *SettlementConsumer) Start(ctx context.Context) error {
	if err := c.natsClient.ensureStream(settleRequestStream, []string{settleRequestSubject}); err != nil {
		return fmt.Errorf("failed to ensure settlement request stream: %w", err)
	}

	if err := c.natsClient.Subscribe(settleRequestSubject, func(data []byte) error {
		return c.handleSettleRequest(ctx, data)
	}); err != nil {
		return fmt.Errorf("failed to subscribe to settlement requests: %w", err)
	}

	log.WithField("subject", settleRequestSubject).Info("Settlement consumer started")

	<-ctx.Done()
	return nil
}

// handleSettleRequest decodes one request and settles the coupon. A coupon
// that was already settled by an earlier delivery is acknowledged rather than
// redelivered.
func (c *SettlementConsumer) handleSettleRequest(ctx context.Context, data []byte) error {
	var req settleRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("failed to decode settlement request: %w", err)
	}

	var outcome entities.CouponStatus
	switch req.Outcome {
	case string(entities.CouponStatusWon):
		outcome = entities.CouponStatusWon
	case string(entities.CouponStatusLost):
		outcome = entities.CouponStatusLost
	default:
		return fmt.Errorf("settlement request for coupon %d has invalid outcome %q", req.CouponID, req.Outcome)
	}

	if _, err := c.coupons.Settle(ctx, req.CouponID, outcome); err != nil {
		if domain.IsKind(err, domain.ErrKindAlreadySettled) {
			log.WithFields(log.Fields{
				"couponID": req.CouponID,
				"outcome":  req.Outcome,
			}).Info("Settlement request for already settled coupon, acknowledging")
			return nil
		}
		return fmt.Errorf("failed to settle coupon %d: %w", req.CouponID, err)
	}

	log.WithFields(log.Fields{
		"couponID": req.CouponID,
		"outcome":  req.Outcome,
	}).Info("Settled coupon from settlement request")
	return nil
}
