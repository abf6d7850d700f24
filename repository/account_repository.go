package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bookie/database"
	"bookie/domain/entities"
)

// AccountRepository implements the AccountRepository interface
type AccountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *database.DB) *AccountRepository {
	return &AccountRepository{q: db.Pool}
}

// newAccountRepository creates a new account repository bound to a transaction
func newAccountRepository(tx Queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

const accountColumns = `id, role, parent_id, balance, credit, is_banned, created_at, updated_at`

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	err := row.Scan(
		&account.ID,
		&account.Role,
		&account.ParentID,
		&account.Balance,
		&account.Credit,
		&account.IsBanned,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", id, translateError(err))
	}
	return account, nil
}

// GetForUpdate retrieves an account holding a row lock until the surrounding
// transaction ends
func (r *AccountRepository) GetForUpdate(ctx context.Context, id string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	account, err := scanAccount(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account %s: %w", id, translateError(err))
	}
	return account, nil
}

// Create inserts a new account record
func (r *AccountRepository) Create(ctx context.Context, account *entities.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("invalid account: %w", err)
	}

	query := `
		INSERT INTO accounts (id, role, parent_id, balance, credit, is_banned)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		account.ID,
		account.Role,
		account.ParentID,
		account.Balance,
		account.Credit,
		account.IsBanned,
	).Scan(&account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account %s: %w", account.ID, translateError(err))
	}
	return nil
}

// ApplyDelta applies a balance and credit delta in a single atomic statement.
// With floorBalance set the balance is clamped at zero so removing more than
// the account holds never fails the non-negative constraint.
func (r *AccountRepository) ApplyDelta(ctx context.Context, id string, balanceDelta, creditDelta decimal.Decimal, floorBalance bool) (*entities.Account, error) {
	balanceExpr := `balance + $1`
	if floorBalance {
		balanceExpr = `GREATEST(balance + $1, 0)`
	}

	query := `
		UPDATE accounts
		SET balance = ` + balanceExpr + `,
		    credit = credit + $2,
		    updated_at = NOW()
		WHERE id = $3
		RETURNING ` + accountColumns

	account, err := scanAccount(r.q.QueryRow(ctx, query, balanceDelta, creditDelta, id))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("account %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply delta to account %s: %w", id, translateError(err))
	}
	return account, nil
}

// SetBanned flips the soft ban flag
func (r *AccountRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	query := `UPDATE accounts SET is_banned = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.q.Exec(ctx, query, banned, id)
	if err != nil {
		return fmt.Errorf("failed to set ban flag on account %s: %w", id, translateError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s not found", id)
	}
	return nil
}

// ListChildren returns all accounts whose parent reference is agentID
func (r *AccountRepository) ListChildren(ctx context.Context, agentID string) ([]*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE parent_id = $1 ORDER BY created_at`

	rows, err := r.q.Query(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children of %s: %w", agentID, translateError(err))
	}
	defer rows.Close()

	var accounts []*entities.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}
	return accounts, nil
}
