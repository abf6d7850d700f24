package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookie/repository/testutil"
)

func TestAccountRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("account not found", func(t *testing.T) {
		account, err := repo.GetByID(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("account found", func(t *testing.T) {
		superAdmin := testutil.CreateTestSuperAdmin("root")
		require.NoError(t, repo.Create(ctx, superAdmin))

		account, err := repo.GetByID(ctx, "root")
		require.NoError(t, err)
		require.NotNil(t, account)

		assert.Equal(t, superAdmin.ID, account.ID)
		assert.Equal(t, superAdmin.Role, account.Role)
		assert.Nil(t, account.ParentID)
		assert.True(t, account.Balance.Equal(superAdmin.Balance))
		assert.True(t, account.Credit.Equal(superAdmin.Credit))
		assert.False(t, account.IsBanned)
		assert.False(t, account.CreatedAt.IsZero())
	})
}

func TestAccountRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.CreateTestSuperAdmin("root")))

	t.Run("hierarchy roundtrip", func(t *testing.T) {
		agent := testutil.CreateTestAgent("agent-a", "root")
		require.NoError(t, repo.Create(ctx, agent))
		assert.False(t, agent.CreatedAt.IsZero())

		loaded, err := repo.GetByID(ctx, "agent-a")
		require.NoError(t, err)
		require.NotNil(t, loaded.ParentID)
		assert.Equal(t, "root", *loaded.ParentID)
	})

	t.Run("invalid account rejected", func(t *testing.T) {
		invalid := testutil.CreateTestSuperAdmin("")
		assert.Error(t, repo.Create(ctx, invalid))
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		assert.Error(t, repo.Create(ctx, testutil.CreateTestSuperAdmin("root")))
	})
}

func TestAccountRepository_ApplyDelta(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.CreateTestSuperAdmin("root")))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestAgent("agent-a", "root")))

	t.Run("applies balance and credit together", func(t *testing.T) {
		player := testutil.CreateTestPlayerWithBalance("player-1", "agent-a", 100, 50)
		require.NoError(t, repo.Create(ctx, player))

		updated, err := repo.ApplyDelta(ctx, "player-1", decimal.NewFromInt(40), decimal.NewFromInt(10), false)
		require.NoError(t, err)
		assert.True(t, updated.Balance.Equal(decimal.NewFromInt(140)))
		assert.True(t, updated.Credit.Equal(decimal.NewFromInt(60)))
	})

	t.Run("negative balance fails the constraint", func(t *testing.T) {
		player := testutil.CreateTestPlayerWithBalance("player-2", "agent-a", 100, 0)
		require.NoError(t, repo.Create(ctx, player))

		_, err := repo.ApplyDelta(ctx, "player-2", decimal.NewFromInt(-150), decimal.Zero, false)
		assert.Error(t, err)
	})

	t.Run("floor clamps the balance at zero", func(t *testing.T) {
		player := testutil.CreateTestPlayerWithBalance("player-3", "agent-a", 100, 500)
		require.NoError(t, repo.Create(ctx, player))

		updated, err := repo.ApplyDelta(ctx, "player-3", decimal.NewFromInt(-300), decimal.NewFromInt(-300), true)
		require.NoError(t, err)
		assert.True(t, updated.Balance.IsZero())
		assert.True(t, updated.Credit.Equal(decimal.NewFromInt(200)))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := repo.ApplyDelta(ctx, "ghost", decimal.NewFromInt(1), decimal.Zero, false)
		assert.Error(t, err)
	})
}

func TestAccountRepository_SetBanned(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.CreateTestSuperAdmin("root")))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestAgent("agent-a", "root")))

	require.NoError(t, repo.SetBanned(ctx, "agent-a", true))
	account, err := repo.GetByID(ctx, "agent-a")
	require.NoError(t, err)
	assert.True(t, account.IsBanned)

	require.NoError(t, repo.SetBanned(ctx, "agent-a", false))
	account, err = repo.GetByID(ctx, "agent-a")
	require.NoError(t, err)
	assert.False(t, account.IsBanned)

	assert.Error(t, repo.SetBanned(ctx, "ghost", true))
}

func TestAccountRepository_ListChildren(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.CreateTestSuperAdmin("root")))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestAgent("agent-a", "root")))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestAgent("agent-b", "root")))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestPlayer("player-1", "agent-a")))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestPlayer("player-2", "agent-a")))
	require.NoError(t, repo.Create(ctx, testutil.CreateTestPlayer("player-3", "agent-b")))

	children, err := repo.ListChildren(ctx, "agent-a")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "player-1", children[0].ID)
	assert.Equal(t, "player-2", children[1].ID)

	empty, err := repo.ListChildren(ctx, "player-1")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAccountRepository_GetForUpdate(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	repo := NewAccountRepository(testDB.DB)
	require.NoError(t, repo.Create(ctx, testutil.CreateTestSuperAdmin("root")))

	t.Run("not found", func(t *testing.T) {
		tx, err := testDB.DB.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		account, err := newAccountRepository(tx).GetForUpdate(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, account)
	})

	t.Run("locks the row inside a transaction", func(t *testing.T) {
		tx, err := testDB.DB.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		account, err := newAccountRepository(tx).GetForUpdate(ctx, "root")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, "root", account.ID)
	})
}
