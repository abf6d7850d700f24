package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookie/domain"
	"bookie/domain/entities"
)

func TestBalanceService_AddBalance_Success(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewBalanceService(mocks.Factory)

	superAdmin := testSuperAdmin("root")
	agent := testAgent("agent-a", "root", "1000", "5000")
	updated := testAgent("agent-a", "root", "1500", "5000")

	mocks.Accounts.On("GetByID", ctx, "root").Return(superAdmin, nil)
	mocks.Accounts.On("GetForUpdate", ctx, "agent-a").Return(agent, nil)
	mocks.Accounts.On("ApplyDelta", ctx, "agent-a", decEq("500"), decEq("0"), false).Return(updated, nil)
	mocks.Ledger.On("Append", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
	mocks.Events.On("Publish", mock.AnythingOfType("events.TransactionRecordedEvent")).Return(nil)
	mocks.ExpectCommit()

	result, err := service.AddBalance(ctx, "root", "agent-a", dec("500"), "topup")

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(dec("1500")))

	// The ledger entry carries the positive delta and the agent's own id
	appended := mocks.Ledger.Calls[0].Arguments.Get(1).(*entities.Transaction)
	assert.Equal(t, entities.TransactionKindBalanceAdd, appended.Kind)
	assert.True(t, appended.Amount.Equal(dec("500")))
	require.NotNil(t, appended.RelatedAgentID)
	assert.Equal(t, "agent-a", *appended.RelatedAgentID)

	mocks.AssertAllExpectations(t)
}

func TestBalanceService_RemoveBalance_Success(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewBalanceService(mocks.Factory)

	agent := testAgent("agent-a", "root", "1000", "5000")
	player := testPlayer("player-p", "agent-a", "300", "0")
	updated := testPlayer("player-p", "agent-a", "100", "0")

	mocks.Accounts.On("GetByID", ctx, "agent-a").Return(agent, nil)
	mocks.Accounts.On("GetForUpdate", ctx, "player-p").Return(player, nil)
	mocks.Accounts.On("ApplyDelta", ctx, "player-p", decEq("-200"), decEq("0"), false).Return(updated, nil)
	mocks.Ledger.On("Append", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
	mocks.Events.On("Publish", mock.AnythingOfType("events.TransactionRecordedEvent")).Return(nil)
	mocks.ExpectCommit()

	result, err := service.RemoveBalance(ctx, "agent-a", "player-p", dec("200"), "withdrawal")

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(dec("100")))

	appended := mocks.Ledger.Calls[0].Arguments.Get(1).(*entities.Transaction)
	assert.Equal(t, entities.TransactionKindBalanceRemove, appended.Kind)
	assert.True(t, appended.Amount.Equal(dec("-200")))

	mocks.AssertAllExpectations(t)
}

func TestBalanceService_RemoveBalance_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewBalanceService(mocks.Factory)

	agent := testAgent("agent-a", "root", "1000", "5000")
	player := testPlayer("player-p", "agent-a", "50", "0")

	mocks.Accounts.On("GetByID", ctx, "agent-a").Return(agent, nil)
	mocks.Accounts.On("GetForUpdate", ctx, "player-p").Return(player, nil)

	result, err := service.RemoveBalance(ctx, "agent-a", "player-p", dec("100"), "withdrawal")

	assert.Nil(t, result)
	assert.True(t, domain.IsKind(err, domain.ErrKindInsufficientBalance))
	mocks.Accounts.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mocks.Ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestBalanceService_AddBalance_RoleFlow(t *testing.T) {
	testCases := []struct {
		name string
		from *entities.Account
		to   *entities.Account
	}{
		{
			name: "player may not transfer",
			from: testPlayer("player-p", "agent-a", "500", "0"),
			to:   testAgent("agent-a", "root", "1000", "5000"),
		},
		{
			name: "agent may not fund a foreign player",
			from: testAgent("agent-a", "root", "1000", "5000"),
			to:   testPlayer("player-x", "agent-b", "0", "0"),
		},
		{
			name: "agent may not fund another agent",
			from: testAgent("agent-a", "root", "1000", "5000"),
			to:   testAgent("agent-b", "root", "1000", "5000"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			mocks := NewTestMocks()
			service := NewBalanceService(mocks.Factory)

			mocks.Accounts.On("GetByID", ctx, tc.from.ID).Return(tc.from, nil)
			mocks.Accounts.On("GetForUpdate", ctx, tc.to.ID).Return(tc.to, nil)

			result, err := service.AddBalance(ctx, tc.from.ID, tc.to.ID, dec("100"), "transfer")

			assert.Nil(t, result)
			assert.True(t, domain.IsKind(err, domain.ErrKindUnauthorized))
			mocks.Accounts.AssertNotCalled(t, "ApplyDelta", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestBalanceService_AddBalance_BannedTarget(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewBalanceService(mocks.Factory)

	agent := testAgent("agent-a", "root", "1000", "5000")
	player := testPlayer("player-p", "agent-a", "300", "0")
	player.IsBanned = true

	mocks.Accounts.On("GetByID", ctx, "agent-a").Return(agent, nil)
	mocks.Accounts.On("GetForUpdate", ctx, "player-p").Return(player, nil)

	result, err := service.AddBalance(ctx, "agent-a", "player-p", dec("100"), "topup")

	assert.Nil(t, result)
	assert.True(t, domain.IsKind(err, domain.ErrKindBannedAccount))
}

func TestBalanceService_AddBalance_InvalidAmount(t *testing.T) {
	for _, amount := range []string{"0", "-25"} {
		t.Run("amount "+amount, func(t *testing.T) {
			ctx := context.Background()
			mocks := NewTestMocks()
			service := NewBalanceService(mocks.Factory)

			result, err := service.AddBalance(ctx, "root", "agent-a", dec(amount), "topup")

			assert.Nil(t, result)
			assert.True(t, domain.IsKind(err, domain.ErrKindInvalidAmount))
			mocks.Accounts.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestBalanceService_GetAccount_NotFound(t *testing.T) {
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewBalanceService(mocks.Factory)

	mocks.Accounts.On("GetByID", ctx, "ghost").Return(nil, nil)

	result, err := service.GetAccount(ctx, "ghost")

	assert.Nil(t, result)
	assert.True(t, domain.IsKind(err, domain.ErrKindNotFound))
}

func TestBalanceService_AddBalance_NoEventOnPublishFailure(t *testing.T) {
	// A failing event publish must not fail the transfer itself
	ctx := context.Background()
	mocks := NewTestMocks()
	service := NewBalanceService(mocks.Factory)

	superAdmin := testSuperAdmin("root")
	agent := testAgent("agent-a", "root", "1000", "5000")
	updated := testAgent("agent-a", "root", "1100", "5000")

	mocks.Accounts.On("GetByID", ctx, "root").Return(superAdmin, nil)
	mocks.Accounts.On("GetForUpdate", ctx, "agent-a").Return(agent, nil)
	mocks.Accounts.On("ApplyDelta", ctx, "agent-a", decEq("100"), decEq("0"), false).Return(updated, nil)
	mocks.Ledger.On("Append", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
	mocks.Events.On("Publish", mock.AnythingOfType("events.TransactionRecordedEvent")).Return(assert.AnError)
	mocks.ExpectCommit()

	result, err := service.AddBalance(ctx, "root", "agent-a", dec("100"), "topup")

	require.NoError(t, err)
	assert.True(t, result.Balance.Equal(dec("1100")))
	mocks.AssertAllExpectations(t)
}
