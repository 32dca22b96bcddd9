package services

import (
	"context"
	"fmt"
	"time"

	"betshop/config"
	"betshop/domain/entities"
	"betshop/domain/events"
	"betshop/domain/interfaces"
	"betshop/domain/utils"

	log "github.com/sirupsen/logrus"
)

// paymentCommissionPct is the flat commission withheld from every gross
// payout at the counter.
const paymentCommissionPct = 5

type ticketService struct {
	marketRepo     interfaces.MarketRepository
	ticketRepo     interfaces.TicketRepository
	paymentRepo    interfaces.PaymentRepository
	bettorRepo     interfaces.BettorRepository
	rankRepo       interfaces.RankRepository
	sessionRepo    interfaces.CashSessionRepository
	eventPublisher interfaces.EventPublisher
}

// NewTicketService creates a new ticket settlement service
func NewTicketService(
	marketRepo interfaces.MarketRepository,
	ticketRepo interfaces.TicketRepository,
	paymentRepo interfaces.PaymentRepository,
	bettorRepo interfaces.BettorRepository,
	rankRepo interfaces.RankRepository,
	sessionRepo interfaces.CashSessionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.TicketService {
	return &ticketService{
		marketRepo:     marketRepo,
		ticketRepo:     ticketRepo,
		paymentRepo:    paymentRepo,
		bettorRepo:     bettorRepo,
		rankRepo:       rankRepo,
		sessionRepo:    sessionRepo,
		eventPublisher: eventPublisher,
	}
}

// Sell runs the sale protocol inside the caller's transaction. The market
// state is whatever the transaction sees, so re-invoking after a
// NeedsConfirmation naturally re-validates against fresh aggregates.
func (s *ticketService) Sell(ctx context.Context, operator entities.Operator, req entities.SaleRequest) (*entities.SaleResult, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("wager amount must be positive")
	}
	alias := entities.NormalizeAlias(req.BettorAlias)
	if alias == "" {
		return nil, fmt.Errorf("bettor alias cannot be empty")
	}

	market, err := s.marketRepo.GetByID(ctx, req.MarketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if market == nil {
		return nil, fmt.Errorf("market not found")
	}
	if !market.IsOpen() {
		return nil, fmt.Errorf("market %d is not open for sales", market.ID)
	}

	options, err := s.marketRepo.GetOptions(ctx, market.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	var selected *entities.Option
	for _, o := range options {
		if o.ID == req.OptionID {
			selected = o
			break
		}
	}
	if selected == nil {
		return nil, fmt.Errorf("option %d does not belong to market %d", req.OptionID, market.ID)
	}
	if market.Type == entities.MarketTypeOdds && selected.EffectiveOdd() == nil {
		return nil, fmt.Errorf("option %d has no configured odd", selected.ID)
	}

	session, err := s.sessionRepo.GetActiveByWorker(ctx, operator.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cash session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("worker has no open cash session")
	}
	if !market.AcceptsFranchise(session.FranchiseID) {
		return nil, fmt.Errorf("market %d is not available to franchise %d", market.ID, session.FranchiseID)
	}

	// Evaluate the recalculation against the aggregates this transaction
	// sees. If odds would move and the caller has not confirmed the exact
	// update set, hand the proposal back without mutating anything. A
	// concurrent sale that changed the odds in between shows up here as a
	// mismatch and restarts the confirmation round-trip.
	eval := EvaluateRecalc(market, options, selected.ID, req.Amount)
	if eval.Triggered && len(eval.Changes) > 0 {
		if !req.Confirm || !ChangesMatch(eval.Changes, req.Expected) {
			return &entities.SaleResult{
				NeedsConfirmation: &entities.RecalcProposal{
					MarketID: market.ID,
					Changes:  eval.Changes,
				},
			}, nil
		}
	}

	bettor, err := s.resolveBettor(ctx, alias)
	if err != nil {
		return nil, err
	}
	rank, err := s.rankRepo.GetByID(ctx, bettor.RankID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank: %w", err)
	}
	if !rank.Allows(req.Amount) {
		return nil, fmt.Errorf("amount %s outside rank %s bounds [%s, %s]",
			utils.FormatShortNotation(req.Amount), rank.Name,
			utils.FormatShortNotation(rank.MinAmount), utils.FormatShortNotation(rank.MaxAmount))
	}

	if err := s.applyBettorCounters(ctx, bettor, rank); err != nil {
		return nil, err
	}

	if err := s.marketRepo.IncrementOptionTotal(ctx, selected.ID, req.Amount); err != nil {
		return nil, fmt.Errorf("failed to increment option total: %w", err)
	}
	if eval.Triggered {
		for _, c := range eval.Changes {
			if err := s.marketRepo.UpdateOptionOdd(ctx, c.OptionID, c.After); err != nil {
				return nil, fmt.Errorf("failed to update option odd: %w", err)
			}
			if err := s.marketRepo.RecordOddUpdate(ctx, &entities.OddUpdate{
				OptionID:  c.OptionID,
				Bias:      c.Bias,
				OddBefore: c.Before,
				OddAfter:  c.After,
				Reason:    entities.OddUpdateReasonAutomatic,
			}); err != nil {
				return nil, fmt.Errorf("failed to record odd update: %w", err)
			}
		}
	}
	market.Accumulated = eval.NewAccumulated
	if err := s.marketRepo.Update(ctx, market); err != nil {
		return nil, fmt.Errorf("failed to update market accumulator: %w", err)
	}

	ticket := &entities.Ticket{
		Code:        utils.NewTicketCode(),
		MarketID:    market.ID,
		OptionID:    selected.ID,
		BettorID:    bettor.ID,
		WorkerID:    operator.UserID,
		FranchiseID: session.FranchiseID,
		Amount:      req.Amount,
		State:       entities.TicketStateActive,
	}
	if market.Type == entities.MarketTypeOdds {
		odd := *selected.EffectiveOdd()
		for _, c := range eval.Changes {
			if c.OptionID == selected.ID {
				odd = c.After
			}
		}
		snapshot := ClampOdd(odd)
		ticket.FixedOdd = &snapshot
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	if err := s.sessionRepo.RecordMovement(ctx, &entities.CashMovement{
		SessionID: session.ID,
		Type:      entities.CashMovementIncome,
		Amount:    req.Amount,
		TicketID:  &ticket.ID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record cash movement: %w", err)
	}
	session.SalesTotal += req.Amount
	session.SalesCount++
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update cash session: %w", err)
	}

	if eval.Triggered {
		if err := s.eventPublisher.Publish(events.MarketOddsThresholdEvent{
			MarketID: market.ID,
			Changes:  toEventChanges(eval.Changes),
		}); err != nil {
			log.WithError(err).Error("Failed to publish odds threshold event")
		}
	}

	log.WithFields(log.Fields{
		"ticketCode": ticket.Code,
		"marketID":   market.ID,
		"optionID":   selected.ID,
		"amount":     req.Amount,
		"recalc":     eval.Triggered,
	}).Info("Ticket sold")

	return &entities.SaleResult{Ticket: ticket, RecalcApplied: eval.Triggered}, nil
}

// resolveBettor finds or creates the bettor for a normalized alias. New
// bettors start at the bottom of the rank ladder.
func (s *ticketService) resolveBettor(ctx context.Context, alias string) (*entities.Bettor, error) {
	bettor, err := s.bettorRepo.GetByAlias(ctx, alias)
	if err != nil {
		return nil, fmt.Errorf("failed to get bettor: %w", err)
	}
	if bettor != nil {
		return bettor, nil
	}

	ladder, err := s.rankRepo.GetLadder(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rank ladder: %w", err)
	}
	if len(ladder) == 0 {
		return nil, fmt.Errorf("rank ladder is not configured")
	}
	bettor, err = s.bettorRepo.Create(ctx, alias, ladder[0].ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create bettor: %w", err)
	}
	return bettor, nil
}

// applyBettorCounters increments the bettor's counters and applies the rank
// promotion when auto-promotion is enabled.
func (s *ticketService) applyBettorCounters(ctx context.Context, bettor *entities.Bettor, rank *entities.RankRule) error {
	bettor.LifetimeBets++

	if !bettor.AutoPromote {
		bettor.AccumulatedBets++
		if err := s.bettorRepo.Update(ctx, bettor); err != nil {
			return fmt.Errorf("failed to update bettor: %w", err)
		}
		return nil
	}

	ladder, err := s.rankRepo.GetLadder(ctx)
	if err != nil {
		return fmt.Errorf("failed to get rank ladder: %w", err)
	}
	outcome := ApplyPromotion(rank, ladder, bettor.AccumulatedBets, config.Get().PromotionThreshold)

	previousID := bettor.RankID
	for _, step := range outcome.Path {
		if err := s.bettorRepo.RecordPromotion(ctx, &entities.RankPromotion{
			BettorID:   bettor.ID,
			FromRankID: previousID,
			ToRankID:   step.ID,
		}); err != nil {
			return fmt.Errorf("failed to record promotion: %w", err)
		}
		previousID = step.ID
	}

	bettor.RankID = outcome.NewRank.ID
	bettor.AccumulatedBets = outcome.RemainingBets
	if err := s.bettorRepo.Update(ctx, bettor); err != nil {
		return fmt.Errorf("failed to update bettor: %w", err)
	}
	return nil
}

// Pay settles a winning ticket from the worker's cash float.
func (s *ticketService) Pay(ctx context.Context, operator entities.Operator, ticketID int64) (*entities.PaymentResult, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket not found")
	}
	if !ticket.IsActive() {
		return nil, fmt.Errorf("ticket %s is %s and cannot be paid", ticket.Code, ticket.State)
	}

	existing, err := s.paymentRepo.GetByTicketID(ctx, ticket.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payment: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("ticket %s is already paid", ticket.Code)
	}

	market, err := s.marketRepo.GetByID(ctx, ticket.MarketID)
	if err != nil {
		return nil, fmt.Errorf("failed to get market: %w", err)
	}
	if market.State != entities.MarketStateClosed || market.WinningOptionID == nil {
		return nil, fmt.Errorf("market %d is not settled yet", market.ID)
	}
	if *market.WinningOptionID != ticket.OptionID {
		return nil, fmt.Errorf("ticket %s is not a winner", ticket.Code)
	}

	session, err := s.sessionRepo.GetActiveByWorker(ctx, operator.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cash session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("worker has no open cash session")
	}
	if !market.AcceptsFranchise(session.FranchiseID) {
		return nil, fmt.Errorf("market %d is not available to franchise %d", market.ID, session.FranchiseID)
	}

	// Expiry is evaluated lazily, at payment time. A stale ticket flips to
	// EXPIRED and the float absorbs the liability; that transition must
	// still commit, so it is a result, not an error.
	grace := time.Duration(config.Get().TicketExpiryDays) * 24 * time.Hour
	if time.Now().After(ticket.EffectiveExpiry(*market.ClosedAt, grace)) {
		if err := s.ticketRepo.UpdateState(ctx, ticket.ID, entities.TicketStateExpired); err != nil {
			return nil, fmt.Errorf("failed to expire ticket: %w", err)
		}
		ticket.State = entities.TicketStateExpired
		log.WithField("ticketCode", ticket.Code).Info("Ticket expired at payment attempt")
		return &entities.PaymentResult{Ticket: ticket, Expired: true}, nil
	}

	gross, err := s.grossPayout(ctx, market, ticket)
	if err != nil {
		return nil, err
	}
	fee := gross * paymentCommissionPct / 100
	net := gross - fee
	if net < 0 {
		net = 0
	}

	if available := session.Available(); net > available {
		return nil, fmt.Errorf("insufficient balance: till has %s, payout needs %s - refer to another till",
			utils.FormatShortNotation(available), utils.FormatShortNotation(net))
	}

	if err := s.ticketRepo.UpdateState(ctx, ticket.ID, entities.TicketStatePaid); err != nil {
		return nil, fmt.Errorf("failed to mark ticket paid: %w", err)
	}
	ticket.State = entities.TicketStatePaid

	payment := &entities.Payment{
		TicketID:    ticket.ID,
		WorkerID:    operator.UserID,
		FranchiseID: session.FranchiseID,
		NetAmount:   net,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if err := s.sessionRepo.RecordMovement(ctx, &entities.CashMovement{
		SessionID: session.ID,
		Type:      entities.CashMovementExpense,
		Amount:    net,
		PaymentID: &payment.ID,
	}); err != nil {
		return nil, fmt.Errorf("failed to record cash movement: %w", err)
	}
	session.PaymentsTotal += net
	session.PaymentsCount++
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update cash session: %w", err)
	}

	if gross >= config.Get().HighPayoutThreshold {
		if err := s.eventPublisher.Publish(events.HighPayoutEvent{
			TicketID:    ticket.ID,
			MarketID:    market.ID,
			WorkerID:    operator.UserID,
			GrossAmount: gross,
			NetAmount:   net,
		}); err != nil {
			log.WithError(err).Error("Failed to publish high payout event")
		}
	}

	log.WithFields(log.Fields{
		"ticketCode": ticket.Code,
		"gross":      gross,
		"net":        net,
	}).Info("Ticket paid")

	return &entities.PaymentResult{
		Ticket:  ticket,
		Payment: payment,
		Gross:   gross,
		Fee:     fee,
		Net:     net,
	}, nil
}

// grossPayout computes the payout before commission. ODDS tickets use the
// odd snapshotted at sale time; POOL tickets take their share of the live
// pool over all tickets still counting toward it.
func (s *ticketService) grossPayout(ctx context.Context, market *entities.Market, ticket *entities.Ticket) (int64, error) {
	if market.Type == entities.MarketTypeOdds {
		if ticket.FixedOdd == nil {
			return 0, fmt.Errorf("ticket %s has no odd snapshot", ticket.Code)
		}
		return OddsPayout(ticket.Amount, *ticket.FixedOdd), nil
	}

	tickets, err := s.ticketRepo.GetByMarket(ctx, market.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to get market tickets: %w", err)
	}
	var totalWagered, winningTotal int64
	for _, t := range tickets {
		if !t.CountsTowardPool() {
			continue
		}
		totalWagered += t.Amount
		if t.OptionID == *market.WinningOptionID {
			winningTotal += t.Amount
		}
	}
	return PoolPayout(totalWagered, market.FeePct, winningTotal, ticket.Amount), nil
}

// GetTicketByCode resolves a ticket from its human-readable code.
func (s *ticketService) GetTicketByCode(ctx context.Context, code string) (*entities.Ticket, error) {
	ticket, err := s.ticketRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket by code: %w", err)
	}
	return ticket, nil
}

func toEventChanges(changes []entities.OddChange) []events.OddsChange {
	out := make([]events.OddsChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, events.OddsChange{OptionID: c.OptionID, Before: c.Before, After: c.After})
	}
	return out
}
