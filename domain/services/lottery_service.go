package services

import (
	"context"
	"fmt"
	"time"

	"skullbot/domain/entities"
	"skullbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// lotteryService implements lottery lifecycle and participation logic
type lotteryService struct {
	registry      *LotteryRegistry
	ledger        interfaces.Ledger
	selector      interfaces.WinnerSelector
	metrics       interfaces.MetricsRecorder
	refundOnLeave bool
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	registry *LotteryRegistry,
	ledger interfaces.Ledger,
	selector interfaces.WinnerSelector,
	metrics interfaces.MetricsRecorder,
	refundOnLeave bool,
) interfaces.LotteryService {
	return &lotteryService{
		registry:      registry,
		ledger:        ledger,
		selector:      selector,
		metrics:       metrics,
		refundOnLeave: refundOnLeave,
	}
}

// Create registers a new pending lottery
func (s *lotteryService) Create(cfg entities.LotteryConfig) (*entities.Lottery, error) {
	lottery, err := entities.NewLottery(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create lottery: %w", err)
	}
	s.registry.Add(lottery)

	log.WithFields(log.Fields{
		"lottery_id":   lottery.ID,
		"prize":        lottery.Prize,
		"winner_count": lottery.WinnerCount,
		"ticket_price": lottery.TicketPrice,
	}).Info("Lottery created")
	return lottery, nil
}

// Get looks up a lottery by ID
func (s *lotteryService) Get(id string) (*entities.Lottery, error) {
	lottery := s.registry.Get(id)
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}
	return lottery, nil
}

// SetDrawMode configures auto or manual drawing during setup
func (s *lotteryService) SetDrawMode(id string, mode entities.DrawMode) error {
	lottery, err := s.Get(id)
	if err != nil {
		return err
	}
	return lottery.SetDrawMode(mode)
}

// Activate moves a configured lottery to active and fixes its end time
func (s *lotteryService) Activate(id string) (*entities.Lottery, error) {
	lottery, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := lottery.Activate(time.Now().UTC()); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"end_time":   lottery.EndTime(),
		"draw_mode":  lottery.Mode().String(),
	}).Info("Lottery activated")
	return lottery, nil
}

// Cancel terminates a pending or active lottery by operator action
func (s *lotteryService) Cancel(id string) (*entities.Lottery, error) {
	lottery, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := lottery.Cancel(); err != nil {
		return nil, err
	}

	log.WithField("lottery_id", lottery.ID).Info("Lottery cancelled by operator")
	return lottery, nil
}

// Join enters an account into an active lottery. Free lotteries register a
// single non-incrementing ticket. Paid lotteries debit the full cost up
// front and refund it if registration fails afterwards, so a failed join
// never absorbs currency.
func (s *lotteryService) Join(ctx context.Context, id, account string, tickets int) (*entities.Lottery, error) {
	lottery, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if lottery.TicketPrice == 0 {
		if err := lottery.Join(account, 1); err != nil {
			return nil, err
		}
		if s.metrics != nil {
			s.metrics.RecordJoin(ctx, false)
		}
		log.WithFields(log.Fields{
			"lottery_id": lottery.ID,
			"account":    account,
		}).Info("Account joined free lottery")
		return lottery, nil
	}

	if tickets < 1 {
		return nil, fmt.Errorf("ticket count must be positive")
	}
	if tickets > lottery.MaxTicketsPerUser {
		return nil, entities.ErrCapacityExceeded
	}
	if !lottery.IsActive() {
		return nil, entities.ErrLotteryNotActive
	}

	cost := int64(tickets) * lottery.TicketPrice
	if err := s.ledger.RemoveFunds(ctx, account, cost); err != nil {
		return nil, err
	}

	if err := lottery.Join(account, tickets); err != nil {
		// Compensating refund: the debit must not outlive a failed join
		if _, refundErr := s.ledger.AddFunds(ctx, account, cost); refundErr != nil {
			log.WithError(refundErr).WithFields(log.Fields{
				"lottery_id": lottery.ID,
				"account":    account,
				"amount":     cost,
			}).Error("Failed to refund debit after failed join")
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordJoin(ctx, true)
		s.metrics.RecordTicketPurchase(ctx, tickets)
	}
	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"account":    account,
		"tickets":    tickets,
		"cost":       cost,
	}).Info("Account purchased lottery tickets")
	return lottery, nil
}

// Leave withdraws an account from an active lottery. Whether paid tickets
// are refunded is a configured policy, not inferred behavior.
func (s *lotteryService) Leave(ctx context.Context, id, account string) (*entities.Lottery, error) {
	lottery, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	tickets, err := lottery.Leave(account)
	if err != nil {
		return nil, err
	}

	if s.refundOnLeave && lottery.TicketPrice > 0 {
		refund := int64(tickets) * lottery.TicketPrice
		if _, err := s.ledger.AddFunds(ctx, account, refund); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"lottery_id": lottery.ID,
				"account":    account,
				"amount":     refund,
			}).Error("Failed to refund tickets on leave")
		}
	}

	if s.metrics != nil {
		s.metrics.RecordLeave(ctx)
	}
	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"account":    account,
	}).Info("Account left lottery")
	return lottery, nil
}

// MaxPurchasable returns how many tickets the account can afford for the
// lottery, capped by the per-user limit. Free lotteries always return 1.
func (s *lotteryService) MaxPurchasable(id, account string) (int, error) {
	lottery, err := s.Get(id)
	if err != nil {
		return 0, err
	}
	if !lottery.IsActive() {
		return 0, entities.ErrLotteryNotActive
	}
	if lottery.TicketPrice == 0 {
		return 1, nil
	}

	affordable := s.ledger.Balance(account) / lottery.TicketPrice
	if affordable > int64(lottery.MaxTicketsPerUser) {
		return lottery.MaxTicketsPerUser, nil
	}
	return int(affordable), nil
}

// ListParticipants returns the participant map of a lottery
func (s *lotteryService) ListParticipants(id string) (map[string]int, error) {
	lottery, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return lottery.Participants(), nil
}

// Expire runs the terminal transition for an active lottery
func (s *lotteryService) Expire(ctx context.Context, id string) (*interfaces.ExpiryOutcome, error) {
	lottery, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	pool, draw, err := lottery.Expire()
	if err != nil {
		return nil, err
	}

	outcome := &interfaces.ExpiryOutcome{Lottery: lottery, Drawn: draw}
	if draw {
		outcome.Winners = s.selector.Select(pool, lottery.WinnerCount)
	}

	if s.metrics != nil {
		s.metrics.RecordDraw(ctx, len(outcome.Winners))
	}
	log.WithFields(log.Fields{
		"lottery_id":   lottery.ID,
		"drawn":        draw,
		"participants": len(pool),
		"winners":      len(outcome.Winners),
	}).Info("Lottery expired")
	return outcome, nil
}

// Retire removes a terminated lottery from the registry
func (s *lotteryService) Retire(id string) {
	lottery := s.registry.Get(id)
	if lottery == nil {
		return
	}
	if !lottery.IsTerminal() {
		log.WithField("lottery_id", id).Warn("Refusing to retire a lottery that has not ended")
		return
	}
	s.registry.Remove(id)
}

// ListActive returns all currently active lotteries
func (s *lotteryService) ListActive() []*entities.Lottery {
	return s.registry.ListActive()
}
