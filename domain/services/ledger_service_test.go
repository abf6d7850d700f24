package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookie/domain"
	"bookie/domain/entities"
)

func TestLedgerService_Reconcile_Consistent(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.Factory)

	player := testPlayer("player-p", "agent-a", "170", "0")
	mocks.Accounts.On("GetByID", ctx, "player-p").Return(player, nil)
	mocks.Ledger.On("SumByAccount", ctx, "player-p").Return(dec("170"), nil)
	mocks.ExpectCommit()

	report, err := service.Reconcile(ctx, "player-p")

	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.True(t, report.Drift.IsZero())
	assert.True(t, report.Balance.Equal(dec("170")))
	assert.True(t, report.LedgerSum.Equal(dec("170")))
}

func TestLedgerService_Reconcile_Drift(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.Factory)

	player := testPlayer("player-p", "agent-a", "200", "0")
	mocks.Accounts.On("GetByID", ctx, "player-p").Return(player, nil)
	mocks.Ledger.On("SumByAccount", ctx, "player-p").Return(dec("170"), nil)
	mocks.ExpectCommit()

	report, err := service.Reconcile(ctx, "player-p")

	require.NoError(t, err)
	assert.False(t, report.Consistent())
	assert.True(t, report.Drift.Equal(dec("30")))
}

func TestLedgerService_Reconcile_NotFound(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewLedgerService(mocks.Factory)

	mocks.Accounts.On("GetByID", ctx, "ghost").Return(nil, nil)

	report, err := service.Reconcile(ctx, "ghost")

	assert.Nil(t, report)
	assert.True(t, domain.IsKind(err, domain.ErrKindNotFound))
}

func TestLedgerService_Projections(t *testing.T) {
	ctx := context.Background()
	transactions := []*entities.Transaction{
		{ID: 2, AccountID: "player-p", Kind: entities.TransactionKindWin, Amount: dec("120")},
		{ID: 1, AccountID: "player-p", Kind: entities.TransactionKindBetStake, Amount: dec("-50")},
	}

	t.Run("for account", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewLedgerService(mocks.Factory)
		mocks.Ledger.On("GetByAccount", ctx, "player-p", 10).Return(transactions, nil)
		mocks.ExpectCommit()

		result, err := service.TransactionsForAccount(ctx, "player-p", 10)
		require.NoError(t, err)
		assert.Equal(t, transactions, result)
	})

	t.Run("for agent", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewLedgerService(mocks.Factory)
		mocks.Ledger.On("GetByAgent", ctx, "agent-a", 10).Return(transactions, nil)
		mocks.ExpectCommit()

		result, err := service.TransactionsForAgent(ctx, "agent-a", 10)
		require.NoError(t, err)
		assert.Equal(t, transactions, result)
	})

	t.Run("all", func(t *testing.T) {
		mocks := NewTestMocks()
		service := NewLedgerService(mocks.Factory)
		mocks.Ledger.On("GetAll", ctx, 10).Return(transactions, nil)
		mocks.ExpectCommit()

		result, err := service.AllTransactions(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, transactions, result)
	})
}
