package entities

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// LotteryStatus represents the lifecycle state of a lottery
type LotteryStatus string

const (
	LotteryStatusPending   LotteryStatus = "pending"
	LotteryStatusActive    LotteryStatus = "active"
	LotteryStatusCompleted LotteryStatus = "completed"
	LotteryStatusCancelled LotteryStatus = "cancelled"
)

// DrawMode controls how a lottery's winners are drawn. The zero value means
// the operator has not picked a mode yet, which blocks activation.
type DrawMode int

const (
	DrawModeUnset DrawMode = iota
	DrawModeAuto
	DrawModeManual
)

// String returns a human-readable draw mode label
func (m DrawMode) String() string {
	switch m {
	case DrawModeAuto:
		return "auto"
	case DrawModeManual:
		return "manual"
	default:
		return "unset"
	}
}

// LotteryConfig holds the operator-supplied parameters for a new lottery
type LotteryConfig struct {
	Prize             string
	Duration          time.Duration
	WinnerCount       int
	TicketPrice       int64
	MaxTicketsPerUser int
	MinParticipants   int
}

// Lottery represents a timed prize draw with a participant pool.
//
// Configuration fields are immutable after creation. Lifecycle state
// (status, draw mode, end time, participants, message tracking) is guarded
// by the entity's mutex so that mutations from interaction handlers and the
// draw scheduler never interleave partially.
type Lottery struct {
	ID                string
	Prize             string
	Duration          time.Duration
	WinnerCount       int
	TicketPrice       int64
	MaxTicketsPerUser int
	MinParticipants   int
	CreatedAt         time.Time

	mu           sync.Mutex
	status       LotteryStatus
	drawMode     DrawMode
	endTime      time.Time
	participants map[string]int
	channelID    string
	messageID    string
}

// NewLottery creates a lottery in the pending state
func NewLottery(cfg LotteryConfig) (*Lottery, error) {
	if cfg.Prize == "" {
		return nil, fmt.Errorf("prize is required")
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive")
	}
	if cfg.WinnerCount <= 0 {
		return nil, fmt.Errorf("winner count must be positive")
	}
	if cfg.TicketPrice < 0 {
		return nil, fmt.Errorf("ticket price cannot be negative")
	}
	if cfg.MinParticipants < 0 {
		return nil, fmt.Errorf("minimum participants cannot be negative")
	}
	maxTickets := cfg.MaxTicketsPerUser
	if maxTickets <= 0 {
		maxTickets = 1
	}

	return &Lottery{
		ID:                uuid.NewString(),
		Prize:             cfg.Prize,
		Duration:          cfg.Duration,
		WinnerCount:       cfg.WinnerCount,
		TicketPrice:       cfg.TicketPrice,
		MaxTicketsPerUser: maxTickets,
		MinParticipants:   cfg.MinParticipants,
		CreatedAt:         time.Now().UTC(),
		status:            LotteryStatusPending,
		drawMode:          DrawModeUnset,
		participants:      make(map[string]int),
	}, nil
}

// Status returns the current lifecycle status
func (l *Lottery) Status() LotteryStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// IsActive reports whether the lottery is accepting entries
func (l *Lottery) IsActive() bool {
	return l.Status() == LotteryStatusActive
}

// IsTerminal reports whether the lottery has ended
func (l *Lottery) IsTerminal() bool {
	s := l.Status()
	return s == LotteryStatusCompleted || s == LotteryStatusCancelled
}

// Mode returns the configured draw mode
func (l *Lottery) Mode() DrawMode {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.drawMode
}

// SetDrawMode selects auto or manual drawing. Only allowed during setup.
func (l *Lottery) SetDrawMode(mode DrawMode) error {
	if mode != DrawModeAuto && mode != DrawModeManual {
		return fmt.Errorf("invalid draw mode")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != LotteryStatusPending {
		return ErrInvalidState
	}
	l.drawMode = mode
	return nil
}

// Activate transitions the lottery from pending to active and fixes the end
// time at now + Duration. Activation requires a configured draw mode.
func (l *Lottery) Activate(now time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != LotteryStatusPending {
		return ErrInvalidState
	}
	if l.drawMode == DrawModeUnset {
		return ErrDrawModeUnset
	}
	l.status = LotteryStatusActive
	l.endTime = now.Add(l.Duration)
	return nil
}

// EndTime returns the countdown target. Zero until activation.
func (l *Lottery) EndTime() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.endTime
}

// Remaining returns the time left until expiry, clamped at zero
func (l *Lottery) Remaining(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.endTime.IsZero() || !now.Before(l.endTime) {
		return 0
	}
	return l.endTime.Sub(now)
}

// Join records an entry for account with the given ticket count
func (l *Lottery) Join(account string, tickets int) error {
	if tickets < 1 {
		return fmt.Errorf("ticket count must be positive")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != LotteryStatusActive {
		return ErrLotteryNotActive
	}
	if tickets > l.MaxTicketsPerUser {
		return ErrCapacityExceeded
	}
	if _, ok := l.participants[account]; ok {
		return ErrAlreadyJoined
	}
	l.participants[account] = tickets
	return nil
}

// Leave removes the account's entry. Returns the ticket count it held.
func (l *Lottery) Leave(account string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != LotteryStatusActive {
		return 0, ErrLotteryNotActive
	}
	tickets, ok := l.participants[account]
	if !ok {
		return 0, ErrNotJoined
	}
	delete(l.participants, account)
	return tickets, nil
}

// Tickets returns the ticket count held by account, if any
func (l *Lottery) Tickets(account string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.participants[account]
	return n, ok
}

// Participants returns a copy of the participant map
func (l *Lottery) Participants() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.participants))
	for account, tickets := range l.participants {
		out[account] = tickets
	}
	return out
}

// ParticipantCount returns the number of distinct participants
func (l *Lottery) ParticipantCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.participants)
}

// Expire atomically ends an active lottery, deciding between a winner draw
// and a cancellation for insufficient participation. It returns a snapshot
// of the participant pool taken at the moment of the transition; draw
// reports whether winners should be selected.
//
// The status guard makes expiry exactly-once: a second caller, or an expiry
// racing an external cancellation, observes a non-active status and gets
// ErrLotteryNotActive.
func (l *Lottery) Expire() (pool map[string]int, draw bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != LotteryStatusActive {
		return nil, false, ErrLotteryNotActive
	}

	pool = make(map[string]int, len(l.participants))
	for account, tickets := range l.participants {
		pool[account] = tickets
	}

	if l.MinParticipants > 0 && len(l.participants) < l.MinParticipants {
		l.status = LotteryStatusCancelled
		return pool, false, nil
	}
	l.status = LotteryStatusCompleted
	return pool, true, nil
}

// Cancel terminates the lottery by operator action
func (l *Lottery) Cancel() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.status != LotteryStatusPending && l.status != LotteryStatusActive {
		return ErrInvalidState
	}
	l.status = LotteryStatusCancelled
	return nil
}

// SetMessage records the rendered status message once the lottery is active
func (l *Lottery) SetMessage(channelID, messageID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.channelID = channelID
	l.messageID = messageID
}

// MessageRef returns the tracked status message, if set
func (l *Lottery) MessageRef() (channelID, messageID string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.channelID, l.messageID, l.channelID != "" && l.messageID != ""
}
