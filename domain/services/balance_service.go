package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/interfaces"
	"bookie/domain/utils"
)

type balanceService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewBalanceService creates a new balance transfer service
func NewBalanceService(uowFactory interfaces.UnitOfWorkFactory) interfaces.BalanceService {
	return &balanceService{
		uowFactory: uowFactory,
	}
}

func (s *balanceService) AddBalance(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.Account, error) {
	var account *entities.Account
	err := withConcurrencyRetry(ctx, func() error {
		var err error
		account, err = s.transfer(ctx, fromID, toID, amount, description, false)
		return err
	})
	return account, err
}

func (s *balanceService) RemoveBalance(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.Account, error) {
	var account *entities.Account
	err := withConcurrencyRetry(ctx, func() error {
		var err error
		account, err = s.transfer(ctx, fromID, toID, amount, description, true)
		return err
	})
	return account, err
}

// transfer applies one instant balance mutation: the delta, one ledger entry
// and the commit happen as a single atomic unit.
func (s *balanceService) transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string, remove bool) (*entities.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	_, to, err := loadTransferAccounts(ctx, uow.Accounts(), fromID, toID, amount)
	if err != nil {
		return nil, err
	}

	delta := amount
	kind := entities.TransactionKindBalanceAdd
	if remove {
		if !to.HasSufficientBalance(amount) {
			return nil, domain.NewError(domain.ErrKindInsufficientBalance, "account %s has %s, need %s", to.ID, to.Balance, amount)
		}
		delta = amount.Neg()
		kind = entities.TransactionKindBalanceRemove
	}

	updated, err := uow.Accounts().ApplyDelta(ctx, to.ID, delta, decimal.Zero, false)
	if err != nil {
		return nil, fmt.Errorf("failed to apply balance delta: %w", err)
	}

	transaction := &entities.Transaction{
		AccountID:      to.ID,
		RelatedAgentID: relatedAgentFor(to),
		Kind:           kind,
		Amount:         delta,
		Description:    description,
	}
	if err := utils.RecordTransaction(ctx, uow.Ledger(), uow.EventBus(), transaction, updated.Balance); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return updated, nil
}

func (s *balanceService) GetAccount(ctx context.Context, id string) (*entities.Account, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.Accounts().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, domain.NewError(domain.ErrKindNotFound, "account %s not found", id)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return account, nil
}
