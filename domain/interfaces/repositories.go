package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bookie/domain/entities"
	"bookie/domain/events"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its ID, nil when not found
	GetByID(ctx context.Context, id string) (*entities.Account, error)

	// GetForUpdate retrieves an account holding a row lock for the duration
	// of the surrounding unit of work, nil when not found
	GetForUpdate(ctx context.Context, id string) (*entities.Account, error)

	// Create creates a new account record (external provisioning entry point)
	Create(ctx context.Context, account *entities.Account) error

	// ApplyDelta applies a balance and credit delta in a single atomic
	// read-modify-write. With floorBalance set the balance is clamped at
	// zero instead of failing the constraint.
	ApplyDelta(ctx context.Context, id string, balanceDelta, creditDelta decimal.Decimal, floorBalance bool) (*entities.Account, error)

	// SetBanned flips the soft ban flag
	SetBanned(ctx context.Context, id string, banned bool) error

	// ListChildren returns all accounts whose parent reference is agentID
	ListChildren(ctx context.Context, agentID string) ([]*entities.Account, error)
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Append inserts a new ledger entry; entries are never updated or deleted
	Append(ctx context.Context, transaction *entities.Transaction) error

	// GetByAccount returns ledger entries for one account, newest first
	GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.Transaction, error)

	// GetByAgent returns ledger entries for an agent chain, newest first
	GetByAgent(ctx context.Context, agentID string, limit int) ([]*entities.Transaction, error)

	// GetAll returns ledger entries across all accounts, newest first
	GetAll(ctx context.Context, limit int) ([]*entities.Transaction, error)

	// SumByAccount returns the signed sum of all entry amounts for an account
	SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// CreditGrantRepository defines the interface for credit grant data access
type CreditGrantRepository interface {
	// Create inserts a new pending grant
	Create(ctx context.Context, grant *entities.CreditGrant) error

	// GetByID retrieves a grant by its ID, nil when not found
	GetByID(ctx context.Context, id int64) (*entities.CreditGrant, error)

	// GetPendingByAccount returns pending grants targeting an account
	GetPendingByAccount(ctx context.Context, toAccountID string) ([]*entities.CreditGrant, error)

	// MarkPaid transitions a pending grant to paid. Returns false when the
	// grant was not pending, without modifying it.
	MarkPaid(ctx context.Context, id int64, approvedBy string, approvedAt time.Time) (bool, error)

	// MarkCancelled transitions a pending grant to cancelled. Returns false
	// when the grant was not pending.
	MarkCancelled(ctx context.Context, id int64) (bool, error)
}

// CouponRepository defines the interface for coupon data access
type CouponRepository interface {
	// Create inserts a new pending coupon
	Create(ctx context.Context, coupon *entities.Coupon) error

	// GetByID retrieves a coupon by its ID, nil when not found
	GetByID(ctx context.Context, id int64) (*entities.Coupon, error)

	// GetByUniqueID retrieves a coupon by its display code, nil when not found
	GetByUniqueID(ctx context.Context, uniqueID string) (*entities.Coupon, error)

	// GetByPlayer returns coupons for a player, newest first
	GetByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.Coupon, error)

	// MarkSettled transitions a pending coupon to won or lost. Returns false
	// when the coupon was already settled, without modifying it.
	MarkSettled(ctx context.Context, id int64, status entities.CouponStatus, settledAt time.Time) (bool, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events during a unit of work and
// publishes them only after a successful commit
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes all buffered events; called after commit
	Flush(ctx context.Context) error

	// Discard drops all buffered events; called on rollback
	Discard()
}

// UnitOfWork represents one atomic ledger operation: every repository access
// through it runs inside the same database transaction.
type UnitOfWork interface {
	// Begin starts the transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes buffered events
	Commit() error

	// Rollback rolls back the transaction and discards buffered events.
	// Calling it after Commit is a no-op.
	Rollback() error

	Accounts() AccountRepository
	Ledger() TransactionRepository
	CreditGrants() CreditGrantRepository
	Coupons() CouponRepository

	// EventBus returns the transaction-scoped event publisher
	EventBus() EventPublisher
}

// UnitOfWorkFactory creates units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
