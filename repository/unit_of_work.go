package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"bookie/database"
	"bookie/domain/interfaces"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db              *database.DB
	tx              pgx.Tx
	ctx             context.Context
	publisher       interfaces.TransactionalEventPublisher
	accountRepo     interfaces.AccountRepository
	transactionRepo interfaces.TransactionRepository
	creditGrantRepo interfaces.CreditGrantRepository
	couponRepo      interfaces.CouponRepository
}

type unitOfWorkFactory struct {
	db           *database.DB
	newPublisher func() interfaces.TransactionalEventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory. newPublisher is
// called once per unit of work to produce its transaction-scoped event
// buffer.
func NewUnitOfWorkFactory(db *database.DB, newPublisher func() interfaces.TransactionalEventPublisher) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:           db,
		newPublisher: newPublisher,
	}
}

// Create creates a new UnitOfWork
func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		db:        f.db,
		publisher: f.newPublisher(),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", translateError(err))
	}

	u.tx = tx
	u.ctx = ctx

	// Bind repositories to the transaction
	u.accountRepo = newAccountRepository(tx)
	u.transactionRepo = newTransactionRepository(tx)
	u.creditGrantRepo = newCreditGrantRepository(tx)
	u.couponRepo = newCouponRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", translateError(err))
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.publisher != nil {
		u.publisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.publisher != nil {
		u.publisher.Discard()
	}

	return nil
}

// Accounts returns the account repository for this unit of work
func (u *unitOfWork) Accounts() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// Ledger returns the transaction repository for this unit of work
func (u *unitOfWork) Ledger() interfaces.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

// CreditGrants returns the credit grant repository for this unit of work
func (u *unitOfWork) CreditGrants() interfaces.CreditGrantRepository {
	if u.creditGrantRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.creditGrantRepo
}

// Coupons returns the coupon repository for this unit of work
func (u *unitOfWork) Coupons() interfaces.CouponRepository {
	if u.couponRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.couponRepo
}

// EventBus returns the transaction-scoped event publisher
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.publisher
}
