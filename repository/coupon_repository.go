package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"bookie/database"
	"bookie/domain/entities"
)

// CouponRepository implements the CouponRepository interface
type CouponRepository struct {
	q Queryable
}

// NewCouponRepository creates a new coupon repository
func NewCouponRepository(db *database.DB) *CouponRepository {
	return &CouponRepository{q: db.Pool}
}

// newCouponRepository creates a new coupon repository bound to a transaction
func newCouponRepository(tx Queryable) *CouponRepository {
	return &CouponRepository{q: tx}
}

const couponColumns = `id, unique_id, player_id, agent_id, selections, stake, total_odds, potential_win, status, created_at, settled_at`

func scanCoupon(row pgx.Row) (*entities.Coupon, error) {
	var coupon entities.Coupon
	var selections []byte
	err := row.Scan(
		&coupon.ID,
		&coupon.UniqueID,
		&coupon.PlayerID,
		&coupon.AgentID,
		&selections,
		&coupon.Stake,
		&coupon.TotalOdds,
		&coupon.PotentialWin,
		&coupon.Status,
		&coupon.CreatedAt,
		&coupon.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(selections, &coupon.Selections); err != nil {
		return nil, fmt.Errorf("failed to decode selections: %w", err)
	}
	return &coupon, nil
}

// Create inserts a new pending coupon
func (r *CouponRepository) Create(ctx context.Context, coupon *entities.Coupon) error {
	selections, err := json.Marshal(coupon.Selections)
	if err != nil {
		return fmt.Errorf("failed to encode selections: %w", err)
	}

	query := `
		INSERT INTO coupons (unique_id, player_id, agent_id, selections, stake, total_odds, potential_win, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		coupon.UniqueID,
		coupon.PlayerID,
		coupon.AgentID,
		selections,
		coupon.Stake,
		coupon.TotalOdds,
		coupon.PotentialWin,
		coupon.Status,
	).Scan(&coupon.ID, &coupon.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create coupon %s: %w", coupon.UniqueID, translateError(err))
	}
	return nil
}

// GetByID retrieves a coupon by its ID
func (r *CouponRepository) GetByID(ctx context.Context, id int64) (*entities.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE id = $1`

	coupon, err := scanCoupon(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon %d: %w", id, translateError(err))
	}
	return coupon, nil
}

// GetByUniqueID retrieves a coupon by its display code
func (r *CouponRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*entities.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE unique_id = $1`

	coupon, err := scanCoupon(r.q.QueryRow(ctx, query, uniqueID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon %s: %w", uniqueID, translateError(err))
	}
	return coupon, nil
}

// GetByPlayer returns coupons for a player, newest first
func (r *CouponRepository) GetByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.Coupon, error) {
	query := `
		SELECT ` + couponColumns + `
		FROM coupons
		WHERE player_id = $1
		ORDER BY id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, playerID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query coupons for %s: %w", playerID, translateError(err))
	}
	defer rows.Close()

	var coupons []*entities.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, coupon)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate coupons: %w", err)
	}
	return coupons, nil
}

// MarkSettled transitions a pending coupon to won or lost. The status guard
// makes settlement at-most-once: a concurrent second settle sees zero rows
// affected and gets false back.
func (r *CouponRepository) MarkSettled(ctx context.Context, id int64, status entities.CouponStatus, settledAt time.Time) (bool, error) {
	query := `
		UPDATE coupons
		SET status = $1, settled_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := r.q.Exec(ctx, query, status, settledAt, id, entities.CouponStatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to settle coupon %d: %w", id, translateError(err))
	}
	return tag.RowsAffected() == 1, nil
}
