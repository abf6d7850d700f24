package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"bookie/domain"
	"bookie/domain/entities"
	"bookie/domain/interfaces"
)

// loadTransferAccounts resolves and validates the two sides of a tier
// transfer. The target is read under a row lock since it is the only account
// mutated; the source is consulted for authorization only. All validations
// run before any mutation is attempted.
func loadTransferAccounts(ctx context.Context, accounts interfaces.AccountRepository, fromID, toID string, amount decimal.Decimal) (from, to *entities.Account, err error) {
	if !amount.IsPositive() {
		return nil, nil, domain.NewError(domain.ErrKindInvalidAmount, "amount must be positive, got %s", amount)
	}

	from, err = accounts.GetByID(ctx, fromID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get source account: %w", err)
	}
	if from == nil {
		return nil, nil, domain.NewError(domain.ErrKindNotFound, "account %s not found", fromID)
	}

	to, err = accounts.GetForUpdate(ctx, toID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get target account: %w", err)
	}
	if to == nil {
		return nil, nil, domain.NewError(domain.ErrKindNotFound, "account %s not found", toID)
	}

	if !from.CanTransferTo(to) {
		return nil, nil, domain.NewError(domain.ErrKindUnauthorized, "%s %s may not transfer to %s %s", from.Role, from.ID, to.Role, to.ID)
	}
	if to.IsBanned {
		return nil, nil, domain.NewError(domain.ErrKindBannedAccount, "account %s is banned", to.ID)
	}

	return from, to, nil
}

// relatedAgentFor returns the agent id recorded on ledger entries touching
// the given account, for audit grouping by agent chain.
func relatedAgentFor(account *entities.Account) *string {
	switch account.Role {
	case entities.RoleAgent:
		id := account.ID
		return &id
	case entities.RolePlayer:
		return account.ParentID
	default:
		return nil
	}
}
