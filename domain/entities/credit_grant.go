package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CreditGrantStatus represents the state of a credit request
type CreditGrantStatus string

const (
	CreditGrantStatusPending   CreditGrantStatus = "pending"
	CreditGrantStatusPaid      CreditGrantStatus = "paid"
	CreditGrantStatusCancelled CreditGrantStatus = "cancelled"
)

// CreditGrant is one credit request moving through the approval workflow.
// It transitions exactly once from pending to paid or cancelled; no balance
// or credit change happens until approval.
type CreditGrant struct {
	ID            int64             `db:"id"`
	FromAccountID string            `db:"from_account_id"`
	ToAccountID   string            `db:"to_account_id"`
	Amount        decimal.Decimal   `db:"amount"`
	Status        CreditGrantStatus `db:"status"`
	Description   string            `db:"description"`
	ApprovedBy    *string           `db:"approved_by"`
	ApprovedAt    *time.Time        `db:"approved_at"`
	CreatedAt     time.Time         `db:"created_at"`
}

// IsPending returns true while the grant can still be approved or cancelled
func (g *CreditGrant) IsPending() bool {
	return g.Status == CreditGrantStatusPending
}

// IsTerminal returns true once the grant reached paid or cancelled
func (g *CreditGrant) IsTerminal() bool {
	return g.Status == CreditGrantStatusPaid || g.Status == CreditGrantStatusCancelled
}

// Validate performs basic validation on the grant
func (g *CreditGrant) Validate() error {
	if g.FromAccountID == "" || g.ToAccountID == "" {
		return errors.New("grant must reference both accounts")
	}
	if !g.Amount.IsPositive() {
		return errors.New("grant amount must be positive")
	}
	if g.Status == CreditGrantStatusPaid && g.ApprovedBy == nil {
		return errors.New("paid grant must record its approver")
	}
	return nil
}
