package services

import (
	"context"
	"fmt"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/interfaces"
)

type ledgerService struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewLedgerService creates the read-only ledger projection service
func NewLedgerService(uowFactory interfaces.UnitOfWorkFactory) interfaces.LedgerService {
	return &ledgerService{
		uowFactory: uowFactory,
	}
}

func (s *ledgerService) TransactionsForAccount(ctx context.Context, accountID string, limit int) ([]*entities.Transaction, error) {
	return s.query(ctx, func(ctx context.Context, ledger interfaces.TransactionRepository) ([]*entities.Transaction, error) {
		return ledger.GetByAccount(ctx, accountID, limit)
	})
}

func (s *ledgerService) TransactionsForAgent(ctx context.Context, agentID string, limit int) ([]*entities.Transaction, error) {
	return s.query(ctx, func(ctx context.Context, ledger interfaces.TransactionRepository) ([]*entities.Transaction, error) {
		return ledger.GetByAgent(ctx, agentID, limit)
	})
}

func (s *ledgerService) AllTransactions(ctx context.Context, limit int) ([]*entities.Transaction, error) {
	return s.query(ctx, func(ctx context.Context, ledger interfaces.TransactionRepository) ([]*entities.Transaction, error) {
		return ledger.GetAll(ctx, limit)
	})
}

func (s *ledgerService) Reconcile(ctx context.Context, accountID string) (*entities.ReconciliationReport, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	account, err := uow.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, domain.NewError(domain.ErrKindNotFound, "account %s not found", accountID)
	}

	sum, err := uow.Ledger().SumByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &entities.ReconciliationReport{
		AccountID: accountID,
		Balance:   account.Balance,
		LedgerSum: sum,
		Drift:     account.Balance.Sub(sum),
	}, nil
}

func (s *ledgerService) query(ctx context.Context, fn func(context.Context, interfaces.TransactionRepository) ([]*entities.Transaction, error)) ([]*entities.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	transactions, err := fn(ctx, uow.Ledger())
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return transactions, nil
}
