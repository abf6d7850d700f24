package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// CouponStatus represents the settlement state of a bet slip
type CouponStatus string

const (
	CouponStatusPending CouponStatus = "pending"
	CouponStatusWon     CouponStatus = "won"
	CouponStatusLost    CouponStatus = "lost"
)

// Selection is one picked outcome on a coupon
type Selection struct {
	MatchID    string          `json:"match_id"`
	MarketName string          `json:"market_name"`
	Option     string          `json:"option"`
	Odds       decimal.Decimal `json:"odds"`
}

// Coupon represents a placed bet slip. It is created pending together with
// the stake debit and transitions exactly once to won or lost.
type Coupon struct {
	ID           int64           `db:"id"`
	UniqueID     string          `db:"unique_id"`
	PlayerID     string          `db:"player_id"`
	AgentID      *string         `db:"agent_id"`
	Selections   []Selection     `db:"selections"`
	Stake        decimal.Decimal `db:"stake"`
	TotalOdds    decimal.Decimal `db:"total_odds"`
	PotentialWin decimal.Decimal `db:"potential_win"`
	Status       CouponStatus    `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
	SettledAt    *time.Time      `db:"settled_at"`
}

// TotalOddsOf multiplies selection odds at full precision
func TotalOddsOf(selections []Selection) decimal.Decimal {
	total := decimal.NewFromInt(1)
	for _, sel := range selections {
		total = total.Mul(sel.Odds)
	}
	return total
}

// IsPending returns true while the coupon can still be settled
func (c *Coupon) IsPending() bool {
	return c.Status == CouponStatusPending
}

// PayoutSplit divides the potential win into the player's net win and the
// agent's commission. The two parts always sum to the potential win exactly.
func (c *Coupon) PayoutSplit(commissionRate decimal.Decimal) (netWin, commission decimal.Decimal) {
	commission = c.PotentialWin.Mul(commissionRate)
	netWin = c.PotentialWin.Sub(commission)
	return netWin, commission
}

// Validate performs placement-time validation on the coupon
func (c *Coupon) Validate() error {
	if c.PlayerID == "" {
		return errors.New("coupon must reference a player")
	}
	if len(c.Selections) == 0 {
		return errors.New("coupon must have at least one selection")
	}
	one := decimal.NewFromInt(1)
	for _, sel := range c.Selections {
		if !sel.Odds.GreaterThan(one) {
			return errors.New("selection odds must be greater than 1.0")
		}
	}
	if !c.Stake.IsPositive() {
		return errors.New("stake must be positive")
	}
	if !c.PotentialWin.Equal(c.Stake.Mul(c.TotalOdds)) {
		return errors.New("potential win is inconsistent with stake and odds")
	}
	return nil
}
