package entities

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLottery(t *testing.T, cfg LotteryConfig) *Lottery {
	t.Helper()
	if cfg.Prize == "" {
		cfg.Prize = "Nitro"
	}
	if cfg.Duration == 0 {
		cfg.Duration = time.Hour
	}
	if cfg.WinnerCount == 0 {
		cfg.WinnerCount = 1
	}
	lottery, err := NewLottery(cfg)
	require.NoError(t, err)
	return lottery
}

func activate(t *testing.T, lottery *Lottery) {
	t.Helper()
	require.NoError(t, lottery.SetDrawMode(DrawModeAuto))
	require.NoError(t, lottery.Activate(time.Now()))
}

func TestNewLottery_Validation(t *testing.T) {
	_, err := NewLottery(LotteryConfig{Duration: time.Hour, WinnerCount: 1})
	assert.Error(t, err, "missing prize must be rejected")

	_, err = NewLottery(LotteryConfig{Prize: "Nitro", WinnerCount: 1})
	assert.Error(t, err, "zero duration must be rejected")

	_, err = NewLottery(LotteryConfig{Prize: "Nitro", Duration: time.Hour})
	assert.Error(t, err, "zero winner count must be rejected")

	_, err = NewLottery(LotteryConfig{Prize: "Nitro", Duration: time.Hour, WinnerCount: 1, TicketPrice: -5})
	assert.Error(t, err, "negative ticket price must be rejected")
}

func TestNewLottery_Defaults(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})

	assert.NotEmpty(t, lottery.ID)
	assert.Equal(t, LotteryStatusPending, lottery.Status())
	assert.Equal(t, DrawModeUnset, lottery.Mode())
	assert.Equal(t, 1, lottery.MaxTicketsPerUser)
	assert.True(t, lottery.EndTime().IsZero(), "end time is fixed at activation, not creation")
}

func TestLottery_ActivateRequiresDrawMode(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})

	err := lottery.Activate(time.Now())
	assert.ErrorIs(t, err, ErrDrawModeUnset)

	require.NoError(t, lottery.SetDrawMode(DrawModeManual))
	now := time.Now()
	require.NoError(t, lottery.Activate(now))

	assert.Equal(t, LotteryStatusActive, lottery.Status())
	assert.Equal(t, now.Add(lottery.Duration), lottery.EndTime())

	// Activation is one-way
	assert.ErrorIs(t, lottery.Activate(now), ErrInvalidState)
	// Draw mode is locked once setup ends
	assert.ErrorIs(t, lottery.SetDrawMode(DrawModeAuto), ErrInvalidState)
}

func TestLottery_JoinBeforeActivation(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})

	err := lottery.Join("100", 1)
	assert.ErrorIs(t, err, ErrLotteryNotActive)
}

func TestLottery_JoinDuplicate(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})
	activate(t, lottery)

	require.NoError(t, lottery.Join("100", 1))
	err := lottery.Join("100", 1)
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	tickets, ok := lottery.Tickets("100")
	assert.True(t, ok)
	assert.Equal(t, 1, tickets, "a duplicate join must not change the ticket count")
}

func TestLottery_JoinCapacity(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{TicketPrice: 10, MaxTicketsPerUser: 3})
	activate(t, lottery)

	assert.ErrorIs(t, lottery.Join("100", 4), ErrCapacityExceeded)
	assert.NoError(t, lottery.Join("100", 3))
}

func TestLottery_LeaveAndRejoin(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{TicketPrice: 10, MaxTicketsPerUser: 5})
	activate(t, lottery)

	_, err := lottery.Leave("100")
	assert.ErrorIs(t, err, ErrNotJoined)

	require.NoError(t, lottery.Join("100", 4))
	tickets, err := lottery.Leave("100")
	require.NoError(t, err)
	assert.Equal(t, 4, tickets)
	assert.Equal(t, 0, lottery.ParticipantCount())

	// Leaving frees the slot for a fresh entry
	assert.NoError(t, lottery.Join("100", 2))
}

func TestLottery_Remaining(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{Duration: time.Hour})

	assert.Equal(t, time.Duration(0), lottery.Remaining(time.Now()), "pending lottery has no countdown")

	require.NoError(t, lottery.SetDrawMode(DrawModeAuto))
	now := time.Now()
	require.NoError(t, lottery.Activate(now))

	assert.Equal(t, time.Hour, lottery.Remaining(now))
	assert.Equal(t, 30*time.Minute, lottery.Remaining(now.Add(30*time.Minute)))
	assert.Equal(t, time.Duration(0), lottery.Remaining(now.Add(2*time.Hour)), "remaining clamps at zero")
}

func TestLottery_ExpireDraws(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})
	activate(t, lottery)
	require.NoError(t, lottery.Join("100", 1))
	require.NoError(t, lottery.Join("200", 1))

	pool, draw, err := lottery.Expire()
	require.NoError(t, err)
	assert.True(t, draw)
	assert.Equal(t, map[string]int{"100": 1, "200": 1}, pool)
	assert.Equal(t, LotteryStatusCompleted, lottery.Status())
}

func TestLottery_ExpireBelowMinimumCancels(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{MinParticipants: 3})
	activate(t, lottery)
	require.NoError(t, lottery.Join("100", 1))
	require.NoError(t, lottery.Join("200", 1))

	_, draw, err := lottery.Expire()
	require.NoError(t, err)
	assert.False(t, draw)
	assert.Equal(t, LotteryStatusCancelled, lottery.Status())
}

func TestLottery_ExpireExactlyOnce(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})
	activate(t, lottery)
	require.NoError(t, lottery.Join("100", 1))

	var mu sync.Mutex
	var succeeded, notActive int

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := lottery.Expire()
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				succeeded++
			} else if err == ErrLotteryNotActive {
				notActive++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded, "exactly one caller wins the terminal transition")
	assert.Equal(t, 15, notActive)
}

func TestLottery_CancelBlocksExpiry(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})
	activate(t, lottery)

	require.NoError(t, lottery.Cancel())
	assert.Equal(t, LotteryStatusCancelled, lottery.Status())

	_, _, err := lottery.Expire()
	assert.ErrorIs(t, err, ErrLotteryNotActive)

	// Terminal states reject further transitions
	assert.ErrorIs(t, lottery.Cancel(), ErrInvalidState)
	assert.ErrorIs(t, lottery.Join("100", 1), ErrLotteryNotActive)
}

func TestLottery_ParticipantsReturnsCopy(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})
	activate(t, lottery)
	require.NoError(t, lottery.Join("100", 1))

	participants := lottery.Participants()
	participants["999"] = 42

	assert.Equal(t, 1, lottery.ParticipantCount())
}

func TestLottery_MessageRef(t *testing.T) {
	lottery := newTestLottery(t, LotteryConfig{})

	_, _, ok := lottery.MessageRef()
	assert.False(t, ok)

	lottery.SetMessage("chan-1", "msg-1")
	channelID, messageID, ok := lottery.MessageRef()
	assert.True(t, ok)
	assert.Equal(t, "chan-1", channelID)
	assert.Equal(t, "msg-1", messageID)
}
