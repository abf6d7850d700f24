package testutil

import (
	"github.com/shopspring/decimal"

	"bookie/domain/entities"
)

// CreateTestSuperAdmin creates a super admin account with a large balance
func CreateTestSuperAdmin(id string) *entities.Account {
	return &entities.Account{
		ID:      id,
		Role:    entities.RoleSuperAdmin,
		Balance: decimal.NewFromInt(1000000),
		Credit:  decimal.NewFromInt(1000000),
	}
}

// CreateTestAgent creates an agent account under the given super admin
func CreateTestAgent(id, superAdminID string) *entities.Account {
	return &entities.Account{
		ID:       id,
		Role:     entities.RoleAgent,
		ParentID: &superAdminID,
		Balance:  decimal.NewFromInt(10000),
		Credit:   decimal.NewFromInt(10000),
	}
}

// CreateTestPlayer creates a player account under the given agent
func CreateTestPlayer(id, agentID string) *entities.Account {
	return &entities.Account{
		ID:       id,
		Role:     entities.RolePlayer,
		ParentID: &agentID,
		Balance:  decimal.NewFromInt(1000),
		Credit:   decimal.NewFromInt(1000),
	}
}

// CreateTestPlayerWithBalance creates a player with a specific balance and credit
func CreateTestPlayerWithBalance(id, agentID string, balance, credit int64) *entities.Account {
	player := CreateTestPlayer(id, agentID)
	player.Balance = decimal.NewFromInt(balance)
	player.Credit = decimal.NewFromInt(credit)
	return player
}

// CreateTestGrant creates a pending credit grant between two accounts
func CreateTestGrant(fromID, toID string, amount int64) *entities.CreditGrant {
	return &entities.CreditGrant{
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        decimal.NewFromInt(amount),
		Status:        entities.CreditGrantStatusPending,
		Description:   "test grant",
	}
}

// CreateTestSelections creates a single-selection slip with the given odds
func CreateTestSelections(odds string) []entities.Selection {
	return []entities.Selection{
		{
			MatchID:    "match-1",
			MarketName: "1X2",
			Option:     "1",
			Odds:       decimal.RequireFromString(odds),
		},
	}
}

// CreateTestCoupon creates a pending coupon for a player
func CreateTestCoupon(uniqueID, playerID string, agentID *string, stake int64, odds string) *entities.Coupon {
	selections := CreateTestSelections(odds)
	totalOdds := entities.TotalOddsOf(selections)
	stakeDec := decimal.NewFromInt(stake)
	return &entities.Coupon{
		UniqueID:     uniqueID,
		PlayerID:     playerID,
		AgentID:      agentID,
		Selections:   selections,
		Stake:        stakeDec,
		TotalOdds:    totalOdds,
		PotentialWin: stakeDec.Mul(totalOdds),
		Status:       entities.CouponStatusPending,
	}
}
