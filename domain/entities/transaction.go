package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind represents the type of balance-affecting event
type TransactionKind string

// All transaction kinds recorded in the ledger
const (
	// Coupon-related transactions
	TransactionKindBetStake   TransactionKind = "bet_stake"
	TransactionKindWin        TransactionKind = "win"
	TransactionKindCommission TransactionKind = "commission"

	// Credit workflow transactions
	TransactionKindCreditAdd    TransactionKind = "credit_add"
	TransactionKindCreditRemove TransactionKind = "credit_remove"

	// Direct balance transfers
	TransactionKindBalanceAdd    TransactionKind = "balance_add"
	TransactionKindBalanceRemove TransactionKind = "balance_remove"
)

// IsCouponRelated returns true if the kind originates from coupon lifecycle
func (k TransactionKind) IsCouponRelated() bool {
	return k == TransactionKindBetStake || k == TransactionKindWin || k == TransactionKindCommission
}

// IsCreditRelated returns true if the kind originates from the credit workflow
func (k TransactionKind) IsCreditRelated() bool {
	return k == TransactionKindCreditAdd || k == TransactionKindCreditRemove
}

// IsDebit returns true for kinds that decrease the account balance
func (k TransactionKind) IsDebit() bool {
	return k == TransactionKindBetStake || k == TransactionKindCreditRemove || k == TransactionKindBalanceRemove
}

// String returns the string representation of the kind
func (k TransactionKind) String() string {
	return string(k)
}

// Transaction is one append-only ledger entry. Rows are never updated or
// deleted; for every account the sum of its transaction amounts equals its
// current balance.
type Transaction struct {
	ID              int64           `db:"id"`
	AccountID       string          `db:"account_id"`
	RelatedAgentID  *string         `db:"related_agent_id"`
	Kind            TransactionKind `db:"kind"`
	Amount          decimal.Decimal `db:"amount"`
	Description     string          `db:"description"`
	RelatedCouponID *int64          `db:"related_coupon_id"`
	CreatedAt       time.Time       `db:"created_at"`
}

// ReconciliationReport compares an account balance against its ledger sum
type ReconciliationReport struct {
	AccountID string
	Balance   decimal.Decimal
	LedgerSum decimal.Decimal
	Drift     decimal.Decimal
}

// Consistent returns true when the ledger sum matches the balance exactly
func (r *ReconciliationReport) Consistent() bool {
	return r.Drift.IsZero()
}

// Validate performs basic validation on the ledger entry
func (t *Transaction) Validate() error {
	if t.AccountID == "" {
		return errors.New("transaction account id must not be empty")
	}
	if t.Amount.IsZero() {
		return errors.New("transaction amount cannot be zero")
	}
	if t.Kind.IsDebit() && t.Amount.IsPositive() {
		return errors.New("debit transaction must carry a negative amount")
	}
	if !t.Kind.IsDebit() && t.Amount.IsNegative() {
		return errors.New("credit transaction must carry a positive amount")
	}
	return nil
}
