package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"bookie/database"
	"bookie/domain/entities"
)

// CreditGrantRepository implements the CreditGrantRepository interface
type CreditGrantRepository struct {
	q Queryable
}

// NewCreditGrantRepository creates a new credit grant repository
func NewCreditGrantRepository(db *database.DB) *CreditGrantRepository {
	return &CreditGrantRepository{q: db.Pool}
}

// newCreditGrantRepository creates a new credit grant repository bound to a transaction
func newCreditGrantRepository(tx Queryable) *CreditGrantRepository {
	return &CreditGrantRepository{q: tx}
}

const creditGrantColumns = `id, from_account_id, to_account_id, amount, status, description, approved_by, approved_at, created_at`

func scanCreditGrant(row pgx.Row) (*entities.CreditGrant, error) {
	var grant entities.CreditGrant
	err := row.Scan(
		&grant.ID,
		&grant.FromAccountID,
		&grant.ToAccountID,
		&grant.Amount,
		&grant.Status,
		&grant.Description,
		&grant.ApprovedBy,
		&grant.ApprovedAt,
		&grant.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &grant, nil
}

// Create inserts a new pending grant
func (r *CreditGrantRepository) Create(ctx context.Context, grant *entities.CreditGrant) error {
	query := `
		INSERT INTO credit_grants (from_account_id, to_account_id, amount, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		grant.FromAccountID,
		grant.ToAccountID,
		grant.Amount,
		grant.Status,
		grant.Description,
	).Scan(&grant.ID, &grant.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create credit grant: %w", translateError(err))
	}
	return nil
}

// GetByID retrieves a grant by its ID
func (r *CreditGrantRepository) GetByID(ctx context.Context, id int64) (*entities.CreditGrant, error) {
	query := `SELECT ` + creditGrantColumns + ` FROM credit_grants WHERE id = $1`

	grant, err := scanCreditGrant(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credit grant %d: %w", id, translateError(err))
	}
	return grant, nil
}

// GetPendingByAccount returns pending grants targeting an account, oldest first
func (r *CreditGrantRepository) GetPendingByAccount(ctx context.Context, toAccountID string) ([]*entities.CreditGrant, error) {
	query := `
		SELECT ` + creditGrantColumns + `
		FROM credit_grants
		WHERE to_account_id = $1 AND status = $2
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, query, toAccountID, entities.CreditGrantStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending grants for %s: %w", toAccountID, translateError(err))
	}
	defer rows.Close()

	var grants []*entities.CreditGrant
	for rows.Next() {
		grant, err := scanCreditGrant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan credit grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate credit grants: %w", err)
	}
	return grants, nil
}

// MarkPaid transitions a pending grant to paid. The status guard in the WHERE
// clause makes the transition at-most-once: a second caller sees zero rows
// affected and gets false back.
func (r *CreditGrantRepository) MarkPaid(ctx context.Context, id int64, approvedBy string, approvedAt time.Time) (bool, error) {
	query := `
		UPDATE credit_grants
		SET status = $1, approved_by = $2, approved_at = $3
		WHERE id = $4 AND status = $5
	`

	tag, err := r.q.Exec(ctx, query,
		entities.CreditGrantStatusPaid,
		approvedBy,
		approvedAt,
		id,
		entities.CreditGrantStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark credit grant %d paid: %w", id, translateError(err))
	}
	return tag.RowsAffected() == 1, nil
}

// MarkCancelled transitions a pending grant to cancelled
func (r *CreditGrantRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE credit_grants
		SET status = $1
		WHERE id = $2 AND status = $3
	`

	tag, err := r.q.Exec(ctx, query,
		entities.CreditGrantStatusCancelled,
		id,
		entities.CreditGrantStatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to cancel credit grant %d: %w", id, translateError(err))
	}
	return tag.RowsAffected() == 1, nil
}
