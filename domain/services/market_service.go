package services

import (
	"context"
	"fmt"
	"time"

	"betshop/domain/entities"
	"betshop/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

type marketService struct {
	marketRepo interfaces.MarketRepository
}

// NewMarketService creates a new market service
func NewMarketService(marketRepo interfaces.MarketRepository) interfaces.MarketService {
	return &marketService{marketRepo: marketRepo}
}

// CreateMarket creates a market together with its options.
func (s *marketService) CreateMarket(ctx context.Context, market *entities.Market, options []*entities.Option) (*entities.Market, error) {
	if market.Name == "" {
		return nil, fmt.Errorf("market name cannot be empty")
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("market needs at least two options")
	}
	if market.Type != entities.MarketTypePool && market.Type != entities.MarketTypeOdds {
		return nil, fmt.Errorf("unknown market type %q", market.Type)
	}
	if market.FeePct < 0 || market.FeePct >= 100 {
		return nil, fmt.Errorf("fee percentage must be in [0, 100)")
	}

	for _, o := range options {
		switch market.Type {
		case entities.MarketTypePool:
			// Pool markets carry no odds at all
			if o.InitialOdd != nil || o.CurrentOdd != nil {
				return nil, fmt.Errorf("pool market option %q cannot carry odds", o.Name)
			}
		case entities.MarketTypeOdds:
			if o.InitialOdd == nil {
				return nil, fmt.Errorf("odds market option %q needs an initial odd", o.Name)
			}
			if *o.InitialOdd < entities.MinOdd || *o.InitialOdd > entities.MaxOdd {
				return nil, fmt.Errorf("initial odd %.2f for option %q outside [%.1f, %.1f]",
					*o.InitialOdd, o.Name, entities.MinOdd, entities.MaxOdd)
			}
		}
	}

	market.State = entities.MarketStateOpen
	if err := s.marketRepo.CreateWithOptions(ctx, market, options); err != nil {
		return nil, fmt.Errorf("failed to create market: %w", err)
	}

	return market, nil
}

// UpdateStatus applies a market state transition. Closing requires the
// winning option, which must belong to the market.
func (s *marketService) UpdateStatus(ctx context.Context, marketID int64, newState entities.MarketState, winningOptionID *int64) (*entities.Market, error) {
	market, err := s.marketRepo.GetByID(ctx, marketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if market == nil {
		return nil, fmt.Errorf("market not found")
	}

	switch newState {
	case entities.MarketStateSuspended:
		if err := market.Suspend(); err != nil {
			return nil, err
		}
	case entities.MarketStateOpen:
		if err := market.Reopen(); err != nil {
			return nil, err
		}
	case entities.MarketStateClosed:
		if winningOptionID == nil {
			return nil, fmt.Errorf("closing a market requires a winning option")
		}
		options, err := s.marketRepo.GetOptions(ctx, marketID)
		if err != nil {
			return nil, fmt.Errorf("failed to get options: %w", err)
		}
		var found bool
		for _, o := range options {
			if o.ID == *winningOptionID {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("winning option %d does not belong to market %d", *winningOptionID, marketID)
		}
		if err := market.Close(*winningOptionID, time.Now()); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown market state %q", newState)
	}

	if err := s.marketRepo.Update(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to update market: %w", err)
	}

	log.WithFields(log.Fields{
		"marketID": market.ID,
		"state":    market.State,
	}).Info("Market state updated")

	return market, nil
}

// AdjustOptionOdds applies a manual odds edit. The edit bypasses the bias
// formula but still stays inside the odd clamp and appends an OddUpdate
// with reason MANUAL.
func (s *marketService) AdjustOptionOdds(ctx context.Context, actorID, optionID int64, newOdd float64) (*entities.Option, error) {
	if newOdd < entities.MinOdd || newOdd > entities.MaxOdd {
		return nil, fmt.Errorf("odd %.2f outside [%.1f, %.1f]", newOdd, entities.MinOdd, entities.MaxOdd)
	}

	option, err := s.marketRepo.GetOption(ctx, optionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get option: %w", err)
	}
	if option == nil {
		return nil, fmt.Errorf("option not found")
	}

	market, err := s.marketRepo.GetByID(ctx, option.MarketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if market.Type != entities.MarketTypeOdds {
		return nil, fmt.Errorf("option %d belongs to a pool market and carries no odds", optionID)
	}
	if market.State == entities.MarketStateClosed {
		return nil, fmt.Errorf("market %d is closed", market.ID)
	}

	before := option.EffectiveOdd()
	if err := s.marketRepo.UpdateOptionOdd(ctx, optionID, newOdd); err != nil {
		return nil, fmt.Errorf("failed to update option odd: %w", err)
	}

	update := &entities.OddUpdate{
		OptionID:  optionID,
		OddBefore: before,
		OddAfter:  newOdd,
		Reason:    entities.OddUpdateReasonManual,
		ActorID:   &actorID,
	}
	if err := s.marketRepo.RecordOddUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to record odd update: %w", err)
	}

	option.CurrentOdd = &newOdd
	return option, nil
}

// OddsHistory returns the odds-change audit trail for an option.
func (s *marketService) OddsHistory(ctx context.Context, optionID int64, limit int) ([]*entities.OddUpdate, error) {
	updates, err := s.marketRepo.GetOddUpdatesByOption(ctx, optionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get odd updates: %w", err)
	}
	return updates, nil
}
