package infrastructure

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookie/domain"
	"bookie/domain/entities"
)

// mockCouponService records settle calls made by the consumer
type mockCouponService struct {
	settleCalls    int
	settledID      int64
	settledOutcome entities.CouponStatus
	settleErr      error
}

func (m *mockCouponService) PlaceBet(ctx context.Context, playerID string, selections []entities.Selection, stake decimal.Decimal) (*entities.Coupon, error) {
	return nil, nil
}

func (m *mockCouponService) Settle(ctx context.Context, couponID int64, outcome entities.CouponStatus) (*entities.Coupon, error) {
	m.settleCalls++
	m.settledID = couponID
	m.settledOutcome = outcome
	if m.settleErr != nil {
		return nil, m.settleErr
	}
	return &entities.Coupon{ID: couponID, Status: outcome}, nil
}

func (m *mockCouponService) GetCouponsByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.Coupon, error) {
	return nil, nil
}

func TestSettlementConsumer_HandleSettleRequest(t *testing.T) {
	t.Run("settles a coupon from a won request", func(t *testing.T) {
		coupons := &mockCouponService{}
		consumer := NewSettlementConsumer(NewNATSClient("nats://localhost:4222"), coupons)

		err := consumer.handleSettleRequest(context.Background(), []byte(`{"coupon_id": 42, "outcome": "won"}`))

		require.NoError(t, err)
		assert.Equal(t, 1, coupons.settleCalls)
		assert.Equal(t, int64(42), coupons.settledID)
		assert.Equal(t, entities.CouponStatusWon, coupons.settledOutcome)
	})

	t.Run("acknowledges a redelivery for an already settled coupon", func(t *testing.T) {
		coupons := &mockCouponService{
			settleErr: domain.NewError(domain.ErrKindAlreadySettled, "coupon 42 is already won"),
		}
		consumer := NewSettlementConsumer(NewNATSClient("nats://localhost:4222"), coupons)

		err := consumer.handleSettleRequest(context.Background(), []byte(`{"coupon_id": 42, "outcome": "lost"}`))

		require.NoError(t, err)
		assert.Equal(t, 1, coupons.settleCalls)
	})

	t.Run("rejects malformed payloads without settling", func(t *testing.T) {
		coupons := &mockCouponService{}
		consumer := NewSettlementConsumer(NewNATSClient("nats://localhost:4222"), coupons)

		err := consumer.handleSettleRequest(context.Background(), []byte(`not json`))

		assert.Error(t, err)
		assert.Equal(t, 0, coupons.settleCalls)
	})

	t.Run("rejects unknown outcomes", func(t *testing.T) {
		coupons := &mockCouponService{}
		consumer := NewSettlementConsumer(NewNATSClient("nats://localhost:4222"), coupons)

		err := consumer.handleSettleRequest(context.Background(), []byte(`{"coupon_id": 42, "outcome": "pending"}`))

		assert.Error(t, err)
		assert.Equal(t, 0, coupons.settleCalls)
	})

	t.Run("propagates settle failures for redelivery", func(t *testing.T) {
		coupons := &mockCouponService{
			settleErr: domain.NewError(domain.ErrKindNotFound, "coupon 42 not found"),
		}
		consumer := NewSettlementConsumer(NewNATSClient("nats://localhost:4222"), coupons)

		err := consumer.handleSettleRequest(context.Background(), []byte(`{"coupon_id": 42, "outcome": "won"}`))

		assert.Error(t, err)
	})
}
