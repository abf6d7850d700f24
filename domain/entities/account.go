package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Role represents the tier of an account in the hierarchy
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAgent      Role = "agent"
	RolePlayer     Role = "player"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Valid reports whether the role is one of the three known tiers.
func (r Role) Valid() bool {
	return r == RoleSuperAdmin || r == RoleAgent || r == RolePlayer
}

// Account represents a principal in the ledger hierarchy.
// ParentID is a weak back-reference used for lookups and authorization only;
// an account never owns its children's lifecycle.
type Account struct {
	ID        string          `db:"id"`
	Role      Role            `db:"role"`
	ParentID  *string         `db:"parent_id"`
	Balance   decimal.Decimal `db:"balance"`
	Credit    decimal.Decimal `db:"credit"`
	IsBanned  bool            `db:"is_banned"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// IsDirectChildOf reports whether the account's parent reference points at
// the given account. This is the single hierarchy predicate used by all
// role-flow checks.
func (a *Account) IsDirectChildOf(parent *Account) bool {
	if a.ParentID == nil || parent == nil {
		return false
	}
	return *a.ParentID == parent.ID
}

// CanTransferTo implements the role-flow rule: SuperAdmin may target any
// agent or player, an agent only its own players, a player nobody.
func (a *Account) CanTransferTo(target *Account) bool {
	switch a.Role {
	case RoleSuperAdmin:
		return target.Role == RoleAgent || target.Role == RolePlayer
	case RoleAgent:
		return target.Role == RolePlayer && target.IsDirectChildOf(a)
	default:
		return false
	}
}

// HasSufficientBalance checks if the account can cover an amount from balance
func (a *Account) HasSufficientBalance(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// HasSufficientCredit checks if the account can cover an amount from credit
func (a *Account) HasSufficientCredit(amount decimal.Decimal) bool {
	return a.Credit.GreaterThanOrEqual(amount)
}

// Validate performs basic consistency checks on the account
func (a *Account) Validate() error {
	if a.ID == "" {
		return errors.New("account id must not be empty")
	}
	if !a.Role.Valid() {
		return errors.New("unknown account role")
	}
	if a.Role == RoleSuperAdmin && a.ParentID != nil {
		return errors.New("super admin must not have a parent")
	}
	if a.Balance.IsNegative() {
		return errors.New("balance must not be negative")
	}
	if a.Credit.IsNegative() {
		return errors.New("credit must not be negative")
	}
	return nil
}
