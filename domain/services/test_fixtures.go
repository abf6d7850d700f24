package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"bookie/domain/entities"
	"bookie/domain/testhelpers"
)

// TestMocks bundles all repository mocks behind a single mock unit of work
type TestMocks struct {
	Factory  *testhelpers.MockUnitOfWorkFactory
	UoW      *testhelpers.MockUnitOfWork
	Accounts *testhelpers.MockAccountRepository
	Ledger   *testhelpers.MockTransactionRepository
	Grants   *testhelpers.MockCreditGrantRepository
	Coupons  *testhelpers.MockCouponRepository
	Events   *testhelpers.MockEventPublisher
}

// NewTestMocks creates a fully wired set of mocks. Begin and Rollback always
// succeed; a successful path additionally needs ExpectCommit.
func NewTestMocks() *TestMocks {
	m := &TestMocks{
		Factory:  new(testhelpers.MockUnitOfWorkFactory),
		UoW:      new(testhelpers.MockUnitOfWork),
		Accounts: new(testhelpers.MockAccountRepository),
		Ledger:   new(testhelpers.MockTransactionRepository),
		Grants:   new(testhelpers.MockCreditGrantRepository),
		Coupons:  new(testhelpers.MockCouponRepository),
		Events:   new(testhelpers.MockEventPublisher),
	}
	m.UoW.SetRepositories(m.Accounts, m.Ledger, m.Grants, m.Coupons, m.Events)
	m.Factory.On("Create").Return(m.UoW)
	m.UoW.On("Begin", mock.Anything).Return(nil)
	m.UoW.On("Rollback").Return(nil)
	return m
}

// ExpectCommit makes the unit of work commit successfully
func (m *TestMocks) ExpectCommit() {
	m.UoW.On("Commit").Return(nil)
}

// AssertAllExpectations verifies every mock in the bundle
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.Factory.AssertExpectations(t)
	m.UoW.AssertExpectations(t)
	m.Accounts.AssertExpectations(t)
	m.Ledger.AssertExpectations(t)
	m.Grants.AssertExpectations(t)
	m.Coupons.AssertExpectations(t)
	m.Events.AssertExpectations(t)
}

// dec parses a decimal literal for test data
func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

// decEq matches a decimal argument by numeric equality rather than
// representation, so 50 and 50.00 compare equal
func decEq(v string) interface{} {
	want := decimal.RequireFromString(v)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(want)
	})
}

// Account builders shared across service tests

func testSuperAdmin(id string) *entities.Account {
	return &entities.Account{
		ID:      id,
		Role:    entities.RoleSuperAdmin,
		Balance: dec("1000000"),
		Credit:  dec("1000000"),
	}
}

func testAgent(id, parentID string, balance, credit string) *entities.Account {
	return &entities.Account{
		ID:       id,
		Role:     entities.RoleAgent,
		ParentID: &parentID,
		Balance:  dec(balance),
		Credit:   dec(credit),
	}
}

func testPlayer(id, agentID string, balance, credit string) *entities.Account {
	return &entities.Account{
		ID:       id,
		Role:     entities.RolePlayer,
		ParentID: &agentID,
		Balance:  dec(balance),
		Credit:   dec(credit),
	}
}
