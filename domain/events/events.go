package events

import (
	"time"

	"github.com/shopspring/decimal"

	"bookie/domain/entities"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeTransactionRecorded EventType = "transaction_recorded"
	EventTypeCouponPlaced        EventType = "coupon_placed"
	EventTypeCouponSettled       EventType = "coupon_settled"
	EventTypeCreditGrantApproved EventType = "credit_grant_approved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// TransactionRecordedEvent represents a ledger append that occurred
type TransactionRecordedEvent struct {
	TransactionID int64                    `json:"transaction_id"`
	AccountID     string                   `json:"account_id"`
	Kind          entities.TransactionKind `json:"kind"`
	Amount        decimal.Decimal          `json:"amount"`
	NewBalance    decimal.Decimal          `json:"new_balance"`
}

func (e TransactionRecordedEvent) Type() EventType {
	return EventTypeTransactionRecorded
}

// CouponPlacedEvent represents a bet slip that was placed
type CouponPlacedEvent struct {
	CouponID     int64           `json:"coupon_id"`
	UniqueID     string          `json:"unique_id"`
	PlayerID     string          `json:"player_id"`
	Stake        decimal.Decimal `json:"stake"`
	PotentialWin decimal.Decimal `json:"potential_win"`
}

func (e CouponPlacedEvent) Type() EventType {
	return EventTypeCouponPlaced
}

// CouponSettledEvent represents a coupon settlement outcome
type CouponSettledEvent struct {
	CouponID   int64                 `json:"coupon_id"`
	PlayerID   string                `json:"player_id"`
	Outcome    entities.CouponStatus `json:"outcome"`
	NetWin     decimal.Decimal       `json:"net_win"`
	Commission decimal.Decimal       `json:"commission"`
	SettledAt  time.Time             `json:"settled_at"`
}

func (e CouponSettledEvent) Type() EventType {
	return EventTypeCouponSettled
}

// CreditGrantApprovedEvent represents a credit grant moving to paid
type CreditGrantApprovedEvent struct {
	GrantID     int64           `json:"grant_id"`
	ToAccountID string          `json:"to_account_id"`
	Amount      decimal.Decimal `json:"amount"`
	ApprovedBy  string          `json:"approved_by"`
}

func (e CreditGrantApprovedEvent) Type() EventType {
	return EventTypeCreditGrantApproved
}
