package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/events"
	"bookie/domain/interfaces"
	"bookie/domain/utils"
)

// CouponSettings carries the betting limits and commission split injected at
// construction time.
type CouponSettings struct {
	CommissionRate decimal.Decimal
	MinStake       decimal.Decimal
	MaxStake       decimal.Decimal // zero means unlimited
}

type couponService struct {
	uowFactory interfaces.UnitOfWorkFactory
	settings   CouponSettings
}

// NewCouponService creates a new coupon lifecycle service
func NewCouponService(uowFactory interfaces.UnitOfWorkFactory, settings CouponSettings) interfaces.CouponService {
	return &couponService{
		uowFactory: uowFactory,
		settings:   settings,
	}
}

func (s *couponService) PlaceBet(ctx context.Context, playerID string, selections []entities.Selection, stake decimal.Decimal) (*entities.Coupon, error) {
	var coupon *entities.Coupon
	err := withConcurrencyRetry(ctx, func() error {
		var err error
		coupon, err = s.placeOnce(ctx, playerID, selections, stake)
		return err
	})
	return coupon, err
}

func (s *couponService) placeOnce(ctx context.Context, playerID string, selections []entities.Selection, stake decimal.Decimal) (*entities.Coupon, error) {
	if err := s.validateStake(stake); err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return nil, domain.NewError(domain.ErrKindInvalidAmount, "coupon must have at least one selection")
	}
	one := decimal.NewFromInt(1)
	for _, sel := range selections {
		if !sel.Odds.GreaterThan(one) {
			return nil, domain.NewError(domain.ErrKindInvalidAmount, "selection odds must be greater than 1.0, got %s", sel.Odds)
		}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	player, err := uow.Accounts().GetForUpdate(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player account: %w", err)
	}
	if player == nil {
		return nil, domain.NewError(domain.ErrKindNotFound, "account %s not found", playerID)
	}
	if player.Role != entities.RolePlayer {
		return nil, domain.NewError(domain.ErrKindUnauthorized, "%s %s may not place bets", player.Role, playerID)
	}
	if player.IsBanned {
		return nil, domain.NewError(domain.ErrKindBannedAccount, "account %s is banned", playerID)
	}
	if !player.HasSufficientBalance(stake) {
		return nil, domain.NewError(domain.ErrKindInsufficientBalance, "account %s has %s, need %s", playerID, player.Balance, stake)
	}

	totalOdds := entities.TotalOddsOf(selections)
	coupon := &entities.Coupon{
		UniqueID:     newCouponCode(),
		PlayerID:     playerID,
		AgentID:      player.ParentID,
		Selections:   selections,
		Stake:        stake,
		TotalOdds:    totalOdds,
		PotentialWin: stake.Mul(totalOdds),
		Status:       entities.CouponStatusPending,
	}
	if err := uow.Coupons().Create(ctx, coupon); err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	updated, err := uow.Accounts().ApplyDelta(ctx, playerID, stake.Neg(), decimal.Zero, false)
	if err != nil {
		return nil, fmt.Errorf("failed to debit stake: %w", err)
	}

	transaction := &entities.Transaction{
		AccountID:       playerID,
		RelatedAgentID:  player.ParentID,
		Kind:            entities.TransactionKindBetStake,
		Amount:          stake.Neg(),
		Description:     fmt.Sprintf("stake for coupon %s", coupon.UniqueID),
		RelatedCouponID: &coupon.ID,
	}
	if err := utils.RecordTransaction(ctx, uow.Ledger(), uow.EventBus(), transaction, updated.Balance); err != nil {
		return nil, err
	}

	if err := uow.EventBus().Publish(events.CouponPlacedEvent{
		CouponID:     coupon.ID,
		UniqueID:     coupon.UniqueID,
		PlayerID:     playerID,
		Stake:        stake,
		PotentialWin: coupon.PotentialWin,
	}); err != nil {
		log.WithError(err).Error("Failed to publish coupon placed event")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return coupon, nil
}

func (s *couponService) Settle(ctx context.Context, couponID int64, outcome entities.CouponStatus) (*entities.Coupon, error) {
	if outcome != entities.CouponStatusWon && outcome != entities.CouponStatusLost {
		return nil, fmt.Errorf("settlement outcome must be won or lost, got %q", outcome)
	}

	var coupon *entities.Coupon
	err := withConcurrencyRetry(ctx, func() error {
		var err error
		coupon, err = s.settleOnce(ctx, couponID, outcome)
		return err
	})
	return coupon, err
}

func (s *couponService) settleOnce(ctx context.Context, couponID int64, outcome entities.CouponStatus) (*entities.Coupon, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	coupon, err := uow.Coupons().GetByID(ctx, couponID)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if coupon == nil {
		return nil, domain.NewError(domain.ErrKindNotFound, "coupon %d not found", couponID)
	}
	if !coupon.IsPending() {
		return nil, domain.NewError(domain.ErrKindAlreadySettled, "coupon %d is already %s", couponID, coupon.Status)
	}

	// Accounts are locked player first, agent second, so two settlements
	// touching the same pair cannot deadlock.
	player, err := uow.Accounts().GetForUpdate(ctx, coupon.PlayerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get player account: %w", err)
	}
	if player == nil {
		return nil, domain.NewError(domain.ErrKindNotFound, "account %s not found", coupon.PlayerID)
	}

	var agent *entities.Account
	if outcome == entities.CouponStatusWon && coupon.AgentID != nil {
		agent, err = uow.Accounts().GetForUpdate(ctx, *coupon.AgentID)
		if err != nil {
			return nil, fmt.Errorf("failed to get agent account: %w", err)
		}
	}

	now := time.Now().UTC()
	settled, err := uow.Coupons().MarkSettled(ctx, couponID, outcome, now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark coupon settled: %w", err)
	}
	if !settled {
		// Lost the settlement race; the winner's status is already visible.
		return nil, domain.NewError(domain.ErrKindAlreadySettled, "coupon %d is already settled", couponID)
	}

	netWin, commission := decimal.Zero, decimal.Zero
	if outcome == entities.CouponStatusWon {
		netWin, commission = coupon.PayoutSplit(s.settings.CommissionRate)

		playerUpdated, err := uow.Accounts().ApplyDelta(ctx, coupon.PlayerID, netWin, decimal.Zero, false)
		if err != nil {
			return nil, fmt.Errorf("failed to credit win: %w", err)
		}
		winTx := &entities.Transaction{
			AccountID:       coupon.PlayerID,
			RelatedAgentID:  coupon.AgentID,
			Kind:            entities.TransactionKindWin,
			Amount:          netWin,
			Description:     fmt.Sprintf("win for coupon %s", coupon.UniqueID),
			RelatedCouponID: &coupon.ID,
		}
		if err := utils.RecordTransaction(ctx, uow.Ledger(), uow.EventBus(), winTx, playerUpdated.Balance); err != nil {
			return nil, err
		}

		if agent != nil {
			agentUpdated, err := uow.Accounts().ApplyDelta(ctx, agent.ID, commission, decimal.Zero, false)
			if err != nil {
				return nil, fmt.Errorf("failed to credit commission: %w", err)
			}
			commissionTx := &entities.Transaction{
				AccountID:       agent.ID,
				RelatedAgentID:  coupon.AgentID,
				Kind:            entities.TransactionKindCommission,
				Amount:          commission,
				Description:     fmt.Sprintf("commission for coupon %s", coupon.UniqueID),
				RelatedCouponID: &coupon.ID,
			}
			if err := utils.RecordTransaction(ctx, uow.Ledger(), uow.EventBus(), commissionTx, agentUpdated.Balance); err != nil {
				return nil, err
			}
		}
	}

	if err := uow.EventBus().Publish(events.CouponSettledEvent{
		CouponID:   couponID,
		PlayerID:   coupon.PlayerID,
		Outcome:    outcome,
		NetWin:     netWin,
		Commission: commission,
		SettledAt:  now,
	}); err != nil {
		log.WithError(err).Error("Failed to publish coupon settled event")
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	coupon.Status = outcome
	coupon.SettledAt = &now
	return coupon, nil
}

func (s *couponService) GetCouponsByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.Coupon, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	coupons, err := uow.Coupons().GetByPlayer(ctx, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupons: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return coupons, nil
}

func (s *couponService) validateStake(stake decimal.Decimal) error {
	if !stake.IsPositive() {
		return domain.NewError(domain.ErrKindInvalidAmount, "stake must be positive, got %s", stake)
	}
	if stake.LessThan(s.settings.MinStake) {
		return domain.NewError(domain.ErrKindInvalidAmount, "stake %s is below the minimum of %s", stake, s.settings.MinStake)
	}
	if s.settings.MaxStake.IsPositive() && stake.GreaterThan(s.settings.MaxStake) {
		return domain.NewError(domain.ErrKindInvalidAmount, "stake %s exceeds the maximum of %s", stake, s.settings.MaxStake)
	}
	return nil
}

// newCouponCode derives the short display code shown on bet slips.
func newCouponCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}
