package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"skullbot/domain/entities"
	"skullbot/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// DrawScheduler owns the countdown of every active lottery. Each attached
// lottery gets a self-rescheduling refresh loop whose cadence shrinks as the
// deadline approaches, plus a one-shot expiry timer armed at activation.
type DrawScheduler struct {
	lotteryService interfaces.LotteryService
	renderer       interfaces.Renderer
	notifier       interfaces.Notifier

	mu     sync.Mutex
	active map[string]chan struct{}
}

// NewDrawScheduler creates a new draw scheduler
func NewDrawScheduler(
	lotteryService interfaces.LotteryService,
	renderer interfaces.Renderer,
	notifier interfaces.Notifier,
) *DrawScheduler {
	return &DrawScheduler{
		lotteryService: lotteryService,
		renderer:       renderer,
		notifier:       notifier,
		active:         make(map[string]chan struct{}),
	}
}

// refreshCadence maps remaining time to the snapshot refresh interval, so
// the countdown display updates more often as urgency increases without
// polling long-running lotteries at high frequency
func refreshCadence(remaining time.Duration) time.Duration {
	switch {
	case remaining <= time.Minute:
		return time.Second
	case remaining <= 5*time.Minute:
		return 5 * time.Second
	case remaining <= time.Hour:
		return 15 * time.Second
	default:
		return 30 * time.Second
	}
}

// Attach starts the refresh loop and expiry timer for an active lottery.
// Attaching an already-attached lottery is a no-op.
func (s *DrawScheduler) Attach(ctx context.Context, lottery *entities.Lottery) {
	s.mu.Lock()
	if _, ok := s.active[lottery.ID]; ok {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.active[lottery.ID] = stop
	s.mu.Unlock()

	go s.refreshLoop(ctx, lottery, stop)
	if lottery.Mode() == entities.DrawModeAuto {
		go s.expiryTimer(ctx, lottery, stop)
	}

	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"end_time":   lottery.EndTime(),
		"draw_mode":  lottery.Mode().String(),
	}).Info("Draw scheduler attached")
}

// Detach stops the lottery's timers. Idempotent; called on every terminal
// transition so no callback outlives a retired lottery.
func (s *DrawScheduler) Detach(lotteryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stop, ok := s.active[lotteryID]; ok {
		close(stop)
		delete(s.active, lotteryID)
	}
}

// refreshLoop re-renders the lottery's status snapshot on a cadence that is
// re-evaluated every tick from the remaining time
func (s *DrawScheduler) refreshLoop(ctx context.Context, lottery *entities.Lottery, stop <-chan struct{}) {
	for {
		cadence := refreshCadence(lottery.Remaining(time.Now()))

		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-time.After(cadence):
		}

		if !lottery.IsActive() {
			return
		}
		if err := s.renderer.RenderSnapshot(ctx, lottery); err != nil {
			// The render target is gone; a broken target is not retried
			log.WithError(err).WithField("lottery_id", lottery.ID).Warn("Snapshot render failed, stopping refresh loop")
			return
		}
	}
}

// expiryTimer fires once at the lottery's end time and triggers expiry
// handling, guarded against a lottery already ended by external cancellation
func (s *DrawScheduler) expiryTimer(ctx context.Context, lottery *entities.Lottery, stop <-chan struct{}) {
	if wait := time.Until(lottery.EndTime()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-timer.C:
		}
	}

	if err := s.ExpireNow(ctx, lottery.ID); err != nil && !errors.Is(err, entities.ErrLotteryNotActive) {
		log.WithError(err).WithField("lottery_id", lottery.ID).Error("Expiry handling failed")
	}
}

// ExpireNow runs the terminal transition for a lottery immediately: the
// scheduled path calls it at the end time, and a manual draw calls it early.
// The service's status guard makes the transition exactly-once, so a timer
// racing an external cancellation or a manual draw is harmless.
func (s *DrawScheduler) ExpireNow(ctx context.Context, lotteryID string) error {
	outcome, err := s.lotteryService.Expire(ctx, lotteryID)
	if err != nil {
		if errors.Is(err, entities.ErrLotteryNotActive) {
			log.WithField("lottery_id", lotteryID).Debug("Expiry fired for already-ended lottery")
		}
		return err
	}
	defer s.Detach(lotteryID)

	lottery := outcome.Lottery
	if err := s.renderer.RenderFinal(ctx, lottery, false); err != nil {
		log.WithError(err).WithField("lottery_id", lottery.ID).Warn("Failed to render final lottery snapshot")
	}

	if !outcome.Drawn {
		if err := s.notifier.AnnounceInsufficientParticipants(ctx, lottery); err != nil {
			log.WithError(err).WithField("lottery_id", lottery.ID).Warn("Failed to announce insufficient participation")
		}
	} else {
		// Winner notifications are best-effort with per-winner error
		// capture; one failed delivery never blocks the rest of the batch
		for _, winner := range outcome.Winners {
			if err := s.notifier.NotifyWinner(ctx, winner, lottery); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"lottery_id": lottery.ID,
					"account":    winner,
				}).Warn("Failed to notify lottery winner")
			}
		}
		if err := s.notifier.AnnounceResult(ctx, lottery, outcome.Winners); err != nil {
			log.WithError(err).WithField("lottery_id", lottery.ID).Warn("Failed to announce lottery result")
		}
	}

	s.lotteryService.Retire(lottery.ID)
	return nil
}
