package interfaces

import (
	"context"

	"github.com/shopspring/decimal"

	"bookie/domain/entities"
)

// CreditService defines the interface for the credit grant workflow
type CreditService interface {
	// RequestCredit creates a pending grant; no balance or credit changes
	RequestCredit(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.CreditGrant, error)

	// ApproveCredit pays out a pending grant exactly once, crediting the
	// target's balance and credit allowance
	ApproveCredit(ctx context.Context, grantID int64, approverID string) (*entities.CreditGrant, error)

	// CancelCredit cancels a pending grant exactly once; no balance effect
	CancelCredit(ctx context.Context, grantID int64, actorID string) (*entities.CreditGrant, error)

	// RemoveCredit immediately withdraws approved credit, flooring the
	// balance at zero
	RemoveCredit(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.Account, error)

	// GetPendingGrants lists pending grants targeting an account
	GetPendingGrants(ctx context.Context, accountID string) ([]*entities.CreditGrant, error)
}

// BalanceService defines the interface for direct balance transfers
type BalanceService interface {
	// AddBalance instantly credits the target's spendable balance
	AddBalance(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.Account, error)

	// RemoveBalance instantly debits the target's spendable balance
	RemoveBalance(ctx context.Context, fromID, toID string, amount decimal.Decimal, description string) (*entities.Account, error)

	// GetAccount returns the current account state
	GetAccount(ctx context.Context, id string) (*entities.Account, error)
}

// CouponService defines the interface for the bet slip lifecycle
type CouponService interface {
	// PlaceBet creates a pending coupon and debits the stake atomically
	PlaceBet(ctx context.Context, playerID string, selections []entities.Selection, stake decimal.Decimal) (*entities.Coupon, error)

	// Settle resolves a pending coupon to won or lost exactly once,
	// distributing payout and commission on a win
	Settle(ctx context.Context, couponID int64, outcome entities.CouponStatus) (*entities.Coupon, error)

	// GetCouponsByPlayer lists a player's coupons, newest first
	GetCouponsByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.Coupon, error)
}

// LedgerService defines read-only ledger projections for dashboards
type LedgerService interface {
	// TransactionsForAccount returns ledger entries for one account
	TransactionsForAccount(ctx context.Context, accountID string, limit int) ([]*entities.Transaction, error)

	// TransactionsForAgent returns ledger entries across an agent chain
	TransactionsForAgent(ctx context.Context, agentID string, limit int) ([]*entities.Transaction, error)

	// AllTransactions returns ledger entries across all accounts
	AllTransactions(ctx context.Context, limit int) ([]*entities.Transaction, error)

	// Reconcile verifies that an account's ledger sum matches its balance
	Reconcile(ctx context.Context, accountID string) (*entities.ReconciliationReport, error)
}
