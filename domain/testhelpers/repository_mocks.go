package testhelpers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"bookie/domain/entities"
	"bookie/domain/events"
	"bookie/domain/interfaces"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetForUpdate(ctx context.Context, id string) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) ApplyDelta(ctx context.Context, id string, balanceDelta, creditDelta decimal.Decimal, floorBalance bool) (*entities.Account, error) {
	args := m.Called(ctx, id, balanceDelta, creditDelta, floorBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	args := m.Called(ctx, id, banned)
	return args.Error(0)
}

func (m *MockAccountRepository) ListChildren(ctx context.Context, agentID string) ([]*entities.Account, error) {
	args := m.Called(ctx, agentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Account), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, transaction *entities.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByAccount(ctx context.Context, accountID string, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetByAgent(ctx context.Context, agentID string, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, agentID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) GetAll(ctx context.Context, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockCreditGrantRepository is a mock implementation of CreditGrantRepository
type MockCreditGrantRepository struct {
	mock.Mock
}

func (m *MockCreditGrantRepository) Create(ctx context.Context, grant *entities.CreditGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockCreditGrantRepository) GetByID(ctx context.Context, id int64) (*entities.CreditGrant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreditGrant), args.Error(1)
}

func (m *MockCreditGrantRepository) GetPendingByAccount(ctx context.Context, toAccountID string) ([]*entities.CreditGrant, error) {
	args := m.Called(ctx, toAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CreditGrant), args.Error(1)
}

func (m *MockCreditGrantRepository) MarkPaid(ctx context.Context, id int64, approvedBy string, approvedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, approvedBy, approvedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockCreditGrantRepository) MarkCancelled(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCouponRepository is a mock implementation of CouponRepository
type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) Create(ctx context.Context, coupon *entities.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) GetByID(ctx context.Context, id int64) (*entities.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByUniqueID(ctx context.Context, uniqueID string) (*entities.Coupon, error) {
	args := m.Called(ctx, uniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Coupon), args.Error(1)
}

func (m *MockCouponRepository) GetByPlayer(ctx context.Context, playerID string, limit int) ([]*entities.Coupon, error) {
	args := m.Called(ctx, playerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Coupon), args.Error(1)
}

func (m *MockCouponRepository) MarkSettled(ctx context.Context, id int64, status entities.CouponStatus, settledAt time.Time) (bool, error) {
	args := m.Called(ctx, id, status, settledAt)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockUnitOfWork is a mock unit of work that hands out the repository mocks
// configured via SetRepositories
type MockUnitOfWork struct {
	mock.Mock

	accountRepo     *MockAccountRepository
	transactionRepo *MockTransactionRepository
	creditGrantRepo *MockCreditGrantRepository
	couponRepo      *MockCouponRepository
	eventPublisher  *MockEventPublisher
}

// SetRepositories wires the repository mocks returned by the getters
func (m *MockUnitOfWork) SetRepositories(accounts *MockAccountRepository, ledger *MockTransactionRepository, grants *MockCreditGrantRepository, coupons *MockCouponRepository, publisher *MockEventPublisher) {
	m.accountRepo = accounts
	m.transactionRepo = ledger
	m.creditGrantRepo = grants
	m.couponRepo = coupons
	m.eventPublisher = publisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Accounts() interfaces.AccountRepository {
	return m.accountRepo
}

func (m *MockUnitOfWork) Ledger() interfaces.TransactionRepository {
	return m.transactionRepo
}

func (m *MockUnitOfWork) CreditGrants() interfaces.CreditGrantRepository {
	return m.creditGrantRepo
}

func (m *MockUnitOfWork) Coupons() interfaces.CouponRepository {
	return m.couponRepo
}

func (m *MockUnitOfWork) EventBus() interfaces.EventPublisher {
	return m.eventPublisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() interfaces.UnitOfWork {
	args := m.Called()
	return args.Get(0).(interfaces.UnitOfWork)
}
