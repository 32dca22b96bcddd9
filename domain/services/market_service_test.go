package services

import (
	"context"
	"testing"

	"betshop/domain/entities"
	"betshop/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMarketService_CreateMarket_OddsMarket(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{
		Name:            "Derby final",
		Type:            entities.MarketTypeOdds,
		RecalcThreshold: 100000,
	}
	options := []*entities.Option{
		{Name: "Home", InitialOdd: floatPtr(2.0)},
		{Name: "Away", InitialOdd: floatPtr(1.8)},
	}

	mockMarketRepo.On("CreateWithOptions", ctx, market, options).Return(nil)

	created, err := service.CreateMarket(ctx, market, options)

	assert.NoError(t, err)
	assert.Equal(t, entities.MarketStateOpen, created.State)
	mockMarketRepo.AssertExpectations(t)
}

func TestMarketService_CreateMarket_OddsRequiresInitialOdd(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{Name: "Derby final", Type: entities.MarketTypeOdds}
	options := []*entities.Option{
		{Name: "Home", InitialOdd: floatPtr(2.0)},
		{Name: "Away"},
	}

	_, err := service.CreateMarket(ctx, market, options)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "needs an initial odd")
	mockMarketRepo.AssertNotCalled(t, "CreateWithOptions", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarketService_CreateMarket_OddsOutsideClamp(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{Name: "Derby final", Type: entities.MarketTypeOdds}
	options := []*entities.Option{
		{Name: "Home", InitialOdd: floatPtr(6.5)},
		{Name: "Away", InitialOdd: floatPtr(2.0)},
	}

	_, err := service.CreateMarket(ctx, market, options)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "outside")
}

func TestMarketService_CreateMarket_PoolRejectsOdds(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{Name: "Raffle", Type: entities.MarketTypePool, FeePct: 12}
	options := []*entities.Option{
		{Name: "Red", InitialOdd: floatPtr(2.0)},
		{Name: "Blue"},
	}

	_, err := service.CreateMarket(ctx, market, options)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot carry odds")
}

func TestMarketService_CreateMarket_NeedsTwoOptions(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{Name: "Raffle", Type: entities.MarketTypePool}
	options := []*entities.Option{{Name: "Only"}}

	_, err := service.CreateMarket(ctx, market, options)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least two options")
}

func TestMarketService_UpdateStatus_SuspendAndReopen(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{ID: 1, State: entities.MarketStateOpen}
	mockMarketRepo.On("GetByID", ctx, int64(1)).Return(market, nil)
	mockMarketRepo.On("Update", ctx, market).Return(nil)

	updated, err := service.UpdateStatus(ctx, 1, entities.MarketStateSuspended, nil)
	assert.NoError(t, err)
	assert.Equal(t, entities.MarketStateSuspended, updated.State)

	updated, err = service.UpdateStatus(ctx, 1, entities.MarketStateOpen, nil)
	assert.NoError(t, err)
	assert.Equal(t, entities.MarketStateOpen, updated.State)

	mockMarketRepo.AssertExpectations(t)
}

func TestMarketService_UpdateStatus_CloseRequiresWinner(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{ID: 1, State: entities.MarketStateOpen}
	mockMarketRepo.On("GetByID", ctx, int64(1)).Return(market, nil)

	_, err := service.UpdateStatus(ctx, 1, entities.MarketStateClosed, nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires a winning option")
}

func TestMarketService_UpdateStatus_Close(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{ID: 1, State: entities.MarketStateOpen}
	options := []*entities.Option{
		{ID: 10, MarketID: 1, Name: "Home"},
		{ID: 11, MarketID: 1, Name: "Away"},
	}
	winner := int64(10)

	mockMarketRepo.On("GetByID", ctx, int64(1)).Return(market, nil)
	mockMarketRepo.On("GetOptions", ctx, int64(1)).Return(options, nil)
	mockMarketRepo.On("Update", ctx, mock.MatchedBy(func(m *entities.Market) bool {
		return m.State == entities.MarketStateClosed &&
			m.WinningOptionID != nil && *m.WinningOptionID == 10 &&
			m.ClosedAt != nil
	})).Return(nil)

	updated, err := service.UpdateStatus(ctx, 1, entities.MarketStateClosed, &winner)

	assert.NoError(t, err)
	assert.Equal(t, entities.MarketStateClosed, updated.State)
	mockMarketRepo.AssertExpectations(t)
}

func TestMarketService_UpdateStatus_CloseForeignOptionRejected(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	market := &entities.Market{ID: 1, State: entities.MarketStateOpen}
	options := []*entities.Option{
		{ID: 10, MarketID: 1, Name: "Home"},
		{ID: 11, MarketID: 1, Name: "Away"},
	}
	foreign := int64(99)

	mockMarketRepo.On("GetByID", ctx, int64(1)).Return(market, nil)
	mockMarketRepo.On("GetOptions", ctx, int64(1)).Return(options, nil)

	_, err := service.UpdateStatus(ctx, 1, entities.MarketStateClosed, &foreign)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestMarketService_AdjustOptionOdds(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	option := &entities.Option{ID: 10, MarketID: 1, InitialOdd: floatPtr(2.0)}
	market := &entities.Market{ID: 1, Type: entities.MarketTypeOdds, State: entities.MarketStateOpen}

	mockMarketRepo.On("GetOption", ctx, int64(10)).Return(option, nil)
	mockMarketRepo.On("GetByID", ctx, int64(1)).Return(market, nil)
	mockMarketRepo.On("UpdateOptionOdd", ctx, int64(10), 3.1).Return(nil)
	mockMarketRepo.On("RecordOddUpdate", ctx, mock.MatchedBy(func(u *entities.OddUpdate) bool {
		return u.OptionID == 10 &&
			u.Reason == entities.OddUpdateReasonManual &&
			u.OddBefore != nil && *u.OddBefore == 2.0 &&
			u.OddAfter == 3.1 &&
			u.ActorID != nil && *u.ActorID == 99
	})).Return(nil)

	updated, err := service.AdjustOptionOdds(ctx, 99, 10, 3.1)

	assert.NoError(t, err)
	assert.Equal(t, 3.1, *updated.CurrentOdd)
	mockMarketRepo.AssertExpectations(t)
}

func TestMarketService_AdjustOptionOdds_OutsideClamp(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	_, err := service.AdjustOptionOdds(ctx, 99, 10, 5.5)

	assert.Error(t, err)
	mockMarketRepo.AssertNotCalled(t, "UpdateOptionOdd", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarketService_AdjustOptionOdds_ClosedMarket(t *testing.T) {
	ctx := context.Background()
	mockMarketRepo := new(testhelpers.MockMarketRepository)
	service := NewMarketService(mockMarketRepo)

	option := &entities.Option{ID: 10, MarketID: 1, InitialOdd: floatPtr(2.0)}
	market := &entities.Market{ID: 1, Type: entities.MarketTypeOdds, State: entities.MarketStateClosed}

	mockMarketRepo.On("GetOption", ctx, int64(10)).Return(option, nil)
	mockMarketRepo.On("GetByID", ctx, int64(1)).Return(market, nil)

	_, err := service.AdjustOptionOdds(ctx, 99, 10, 3.1)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}
