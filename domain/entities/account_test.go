package entities

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestAccount_CanTransferTo(t *testing.T) {
	superAdmin := &Account{ID: "root", Role: RoleSuperAdmin}
	agentA := &Account{ID: "agent-a", Role: RoleAgent, ParentID: strPtr("root")}
	agentB := &Account{ID: "agent-b", Role: RoleAgent, ParentID: strPtr("root")}
	playerOfA := &Account{ID: "player-a1", Role: RolePlayer, ParentID: strPtr("agent-a")}
	playerOfB := &Account{ID: "player-b1", Role: RolePlayer, ParentID: strPtr("agent-b")}

	testCases := []struct {
		name    string
		from    *Account
		to      *Account
		allowed bool
	}{
		{"super admin to agent", superAdmin, agentA, true},
		{"super admin to player", superAdmin, playerOfA, true},
		{"super admin to super admin", superAdmin, superAdmin, false},
		{"agent to own player", agentA, playerOfA, true},
		{"agent to foreign player", agentA, playerOfB, false},
		{"agent to agent", agentA, agentB, false},
		{"agent to super admin", agentA, superAdmin, false},
		{"player to anyone", playerOfA, agentA, false},
		{"player to player", playerOfA, playerOfB, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransferTo(tc.to))
		})
	}
}

func TestAccount_Validate(t *testing.T) {
	t.Run("valid agent", func(t *testing.T) {
		agent := &Account{ID: "agent-a", Role: RoleAgent, ParentID: strPtr("root")}
		assert.NoError(t, agent.Validate())
	})

	t.Run("missing id", func(t *testing.T) {
		account := &Account{Role: RolePlayer}
		assert.Error(t, account.Validate())
	})

	t.Run("unknown role", func(t *testing.T) {
		account := &Account{ID: "x", Role: Role("mascot")}
		assert.Error(t, account.Validate())
	})

	t.Run("super admin with parent", func(t *testing.T) {
		account := &Account{ID: "root", Role: RoleSuperAdmin, ParentID: strPtr("other")}
		assert.Error(t, account.Validate())
	})

	t.Run("negative balance", func(t *testing.T) {
		account := &Account{ID: "x", Role: RolePlayer, Balance: decimal.NewFromInt(-1)}
		assert.Error(t, account.Validate())
	})
}

func TestAccount_SufficiencyChecks(t *testing.T) {
	account := &Account{
		ID:      "player-p",
		Role:    RolePlayer,
		Balance: decimal.NewFromInt(100),
		Credit:  decimal.NewFromInt(50),
	}

	assert.True(t, account.HasSufficientBalance(decimal.NewFromInt(100)))
	assert.False(t, account.HasSufficientBalance(decimal.NewFromInt(101)))
	assert.True(t, account.HasSufficientCredit(decimal.NewFromInt(50)))
	assert.False(t, account.HasSufficientCredit(decimal.NewFromInt(51)))
}
