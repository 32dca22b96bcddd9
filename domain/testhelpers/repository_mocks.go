package testhelpers

import (
	"context"
	"time"

	"betshop/domain/entities"
	"betshop/domain/events"

	"github.com/stretchr/testify/mock"
)

// MockMarketRepository is a mock implementation of MarketRepository
type MockMarketRepository struct {
	mock.Mock
}

func (m *MockMarketRepository) CreateWithOptions(ctx context.Context, market *entities.Market, options []*entities.Option) error {
	args := m.Called(ctx, market, options)
	return args.Error(0)
}

func (m *MockMarketRepository) GetByID(ctx context.Context, id int64) (*entities.Market, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Market), args.Error(1)
}

func (m *MockMarketRepository) Update(ctx context.Context, market *entities.Market) error {
	args := m.Called(ctx, market)
	return args.Error(0)
}

func (m *MockMarketRepository) GetOptions(ctx context.Context, marketID int64) ([]*entities.Option, error) {
	args := m.Called(ctx, marketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Option), args.Error(1)
}

func (m *MockMarketRepository) GetOption(ctx context.Context, id int64) (*entities.Option, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Option), args.Error(1)
}

func (m *MockMarketRepository) IncrementOptionTotal(ctx context.Context, optionID int64, amount int64) error {
	args := m.Called(ctx, optionID, amount)
	return args.Error(0)
}

func (m *MockMarketRepository) UpdateOptionOdd(ctx context.Context, optionID int64, odd float64) error {
	args := m.Called(ctx, optionID, odd)
	return args.Error(0)
}

func (m *MockMarketRepository) RecordOddUpdate(ctx context.Context, update *entities.OddUpdate) error {
	args := m.Called(ctx, update)
	return args.Error(0)
}

func (m *MockMarketRepository) GetOddUpdatesByOption(ctx context.Context, optionID int64, limit int) ([]*entities.OddUpdate, error) {
	args := m.Called(ctx, optionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.OddUpdate), args.Error(1)
}

// MockTicketRepository is a mock implementation of TicketRepository
type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	args := m.Called(ctx, ticket)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByID(ctx context.Context, id int64) (*entities.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetByCode(ctx context.Context, code string) (*entities.Ticket, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) UpdateState(ctx context.Context, id int64, state entities.TicketState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockTicketRepository) GetByMarket(ctx context.Context, marketID int64) ([]*entities.Ticket, error) {
	args := m.Called(ctx, marketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

func (m *MockTicketRepository) GetInWindow(ctx context.Context, workerID, franchiseID int64, start, end time.Time) ([]*entities.Ticket, error) {
	args := m.Called(ctx, workerID, franchiseID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Ticket), args.Error(1)
}

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *entities.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByTicketID(ctx context.Context, ticketID int64) (*entities.Payment, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetInWindow(ctx context.Context, workerID, franchiseID int64, start, end time.Time) ([]*entities.Payment, error) {
	args := m.Called(ctx, workerID, franchiseID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Payment), args.Error(1)
}

// MockBettorRepository is a mock implementation of BettorRepository
type MockBettorRepository struct {
	mock.Mock
}

func (m *MockBettorRepository) GetByAlias(ctx context.Context, alias string) (*entities.Bettor, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bettor), args.Error(1)
}

func (m *MockBettorRepository) Create(ctx context.Context, alias string, rankID int64) (*entities.Bettor, error) {
	args := m.Called(ctx, alias, rankID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bettor), args.Error(1)
}

func (m *MockBettorRepository) Update(ctx context.Context, bettor *entities.Bettor) error {
	args := m.Called(ctx, bettor)
	return args.Error(0)
}

func (m *MockBettorRepository) RecordPromotion(ctx context.Context, promotion *entities.RankPromotion) error {
	args := m.Called(ctx, promotion)
	return args.Error(0)
}

// MockRankRepository is a mock implementation of RankRepository
type MockRankRepository struct {
	mock.Mock
}

func (m *MockRankRepository) GetByID(ctx context.Context, id int64) (*entities.RankRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.RankRule), args.Error(1)
}

func (m *MockRankRepository) GetLadder(ctx context.Context) ([]*entities.RankRule, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.RankRule), args.Error(1)
}

// MockCashSessionRepository is a mock implementation of CashSessionRepository
type MockCashSessionRepository struct {
	mock.Mock
}

func (m *MockCashSessionRepository) Create(ctx context.Context, session *entities.CashSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockCashSessionRepository) GetByID(ctx context.Context, id int64) (*entities.CashSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CashSession), args.Error(1)
}

func (m *MockCashSessionRepository) GetActiveByWorker(ctx context.Context, workerID int64) (*entities.CashSession, error) {
	args := m.Called(ctx, workerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CashSession), args.Error(1)
}

func (m *MockCashSessionRepository) Update(ctx context.Context, session *entities.CashSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockCashSessionRepository) RecordMovement(ctx context.Context, movement *entities.CashMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockCashSessionRepository) ListMovements(ctx context.Context, sessionID int64) ([]*entities.CashMovement, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.CashMovement), args.Error(1)
}

func (m *MockCashSessionRepository) SumMovements(ctx context.Context, sessionID int64) (int64, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCashSessionRepository) GetNextSessionStart(ctx context.Context, workerID int64, after time.Time) (*time.Time, error) {
	args := m.Called(ctx, workerID, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

// MockAuditRepository is a mock implementation of AuditRepository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Record(ctx context.Context, entry *entities.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
