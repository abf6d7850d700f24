package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"bookie/database"
	"bookie/domain/entities"
)

// defaultQueryLimit caps unbounded ledger listings
const defaultQueryLimit = 500

// TransactionRepository implements the TransactionRepository interface.
// The transactions table is append-only: this repository never issues an
// UPDATE or DELETE.
type TransactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{q: db.Pool}
}

// newTransactionRepository creates a new transaction repository bound to a transaction
func newTransactionRepository(tx Queryable) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

const transactionColumns = `id, account_id, related_agent_id, kind, amount, description, related_coupon_id, created_at`

func scanTransaction(row pgx.Row) (*entities.Transaction, error) {
	var transaction entities.Transaction
	err := row.Scan(
		&transaction.ID,
		&transaction.AccountID,
		&transaction.RelatedAgentID,
		&transaction.Kind,
		&transaction.Amount,
		&transaction.Description,
		&transaction.RelatedCouponID,
		&transaction.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// Append inserts a new ledger entry
func (r *TransactionRepository) Append(ctx context.Context, transaction *entities.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, related_agent_id, kind, amount, description, related_coupon_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		transaction.AccountID,
		transaction.RelatedAgentID,
		transaction.Kind,
		transaction.Amount,
		transaction.Description,
		transaction.RelatedCouponID,
	).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for %s: %w", transaction.AccountID, translateError(err))
	}
	return nil
}

// GetByAccount returns ledger entries for one account, newest first
func (r *TransactionRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
	return r.queryTransactions(ctx, query, accountID, clampLimit(limit))
}

// GetByAgent returns ledger entries touching an agent's chain: the agent's
// own entries plus entries of accounts referencing it, newest first
func (r *TransactionRepository) GetByAgent(ctx context.Context, agentID string, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 OR related_agent_id = $1
		ORDER BY id DESC
		LIMIT $2
	`
	return r.queryTransactions(ctx, query, agentID, clampLimit(limit))
}

// GetAll returns ledger entries across all accounts, newest first
func (r *TransactionRepository) GetAll(ctx context.Context, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY id DESC
		LIMIT $1
	`
	return r.queryTransactions(ctx, query, clampLimit(limit))
}

// SumByAccount returns the signed sum of all entry amounts for an account
func (r *TransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE account_id = $1`

	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger for %s: %w", accountID, translateError(err))
	}
	return sum, nil
}

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*entities.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger: %w", translateError(err))
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}
	return transactions, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > defaultQueryLimit {
		return defaultQueryLimit
	}
	return limit
}
