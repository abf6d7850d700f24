package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionKind_Classification(t *testing.T) {
	assert.True(t, TransactionKindBetStake.IsCouponRelated())
	assert.True(t, TransactionKindWin.IsCouponRelated())
	assert.True(t, TransactionKindCommission.IsCouponRelated())
	assert.False(t, TransactionKindBalanceAdd.IsCouponRelated())

	assert.True(t, TransactionKindCreditAdd.IsCreditRelated())
	assert.True(t, TransactionKindCreditRemove.IsCreditRelated())
	assert.False(t, TransactionKindWin.IsCreditRelated())

	assert.True(t, TransactionKindBetStake.IsDebit())
	assert.True(t, TransactionKindCreditRemove.IsDebit())
	assert.True(t, TransactionKindBalanceRemove.IsDebit())
	assert.False(t, TransactionKindWin.IsDebit())
	assert.False(t, TransactionKindCommission.IsDebit())
}

func TestTransaction_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{
			name: "valid stake debit",
			tx:   Transaction{AccountID: "p", Kind: TransactionKindBetStake, Amount: decimal.NewFromInt(-50)},
		},
		{
			name: "valid win credit",
			tx:   Transaction{AccountID: "p", Kind: TransactionKindWin, Amount: decimal.NewFromInt(120)},
		},
		{
			name:    "missing account",
			tx:      Transaction{Kind: TransactionKindWin, Amount: decimal.NewFromInt(10)},
			wantErr: true,
		},
		{
			name:    "zero amount",
			tx:      Transaction{AccountID: "p", Kind: TransactionKindWin, Amount: decimal.Zero},
			wantErr: true,
		},
		{
			name:    "debit with positive amount",
			tx:      Transaction{AccountID: "p", Kind: TransactionKindBetStake, Amount: decimal.NewFromInt(50)},
			wantErr: true,
		},
		{
			name:    "credit with negative amount",
			tx:      Transaction{AccountID: "p", Kind: TransactionKindCommission, Amount: decimal.NewFromInt(-30)},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReconciliationReport_Consistent(t *testing.T) {
	consistent := &ReconciliationReport{Drift: decimal.Zero}
	assert.True(t, consistent.Consistent())

	drifted := &ReconciliationReport{Drift: decimal.NewFromInt(30)}
	assert.False(t, drifted.Consistent())
}
