package services

import (
	"context"
	"testing"
	"time"

	"skullbot/domain/entities"
	"skullbot/domain/interfaces"
	"skullbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lotteryFixture struct {
	service interfaces.LotteryService
	ledger  interfaces.Ledger
}

func newLotteryFixture(t *testing.T, refundOnLeave bool) *lotteryFixture {
	t.Helper()
	ledger := NewLedgerService(context.Background(), testhelpers.NewMemorySnapshotStore(), nil, testhelpers.NoopMetrics{}, 0)
	service := NewLotteryService(NewLotteryRegistry(), ledger, NewSeededWinnerSelector(1), testhelpers.NoopMetrics{}, refundOnLeave)
	return &lotteryFixture{service: service, ledger: ledger}
}

func (f *lotteryFixture) startLottery(t *testing.T, cfg entities.LotteryConfig) *entities.Lottery {
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
	lottery, err := f.service.Create(cfg)
	require.NoError(t, err)
	require.NoError(t, f.service.SetDrawMode(lottery.ID, entities.DrawModeAuto))
	_, err = f.service.Activate(lottery.ID)
	require.NoError(t, err)
	return lottery
}

func TestLotteryService_FreeJoinIsSingleTicket(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{})
	ctx := context.Background()

	_, err := f.service.Join(ctx, lottery.ID, "100", 1)
	require.NoError(t, err)

	// A second join attempt must not add a ticket
	_, err = f.service.Join(ctx, lottery.ID, "100", 1)
	assert.ErrorIs(t, err, entities.ErrAlreadyJoined)

	tickets, ok := lottery.Tickets("100")
	assert.True(t, ok)
	assert.Equal(t, 1, tickets)
}

func TestLotteryService_PaidJoinDebitsCost(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{TicketPrice: 10, MaxTicketsPerUser: 3})
	ctx := context.Background()

	_, err := f.ledger.AddFunds(ctx, "100", 25)
	require.NoError(t, err)

	// With 25 skulls at 10 per ticket the cap is 2, not the per-user limit
	max, err := f.service.MaxPurchasable(lottery.ID, "100")
	require.NoError(t, err)
	assert.Equal(t, 2, max)

	_, err = f.service.Join(ctx, lottery.ID, "100", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.ledger.Balance("100"))

	tickets, _ := lottery.Tickets("100")
	assert.Equal(t, 2, tickets)
}

func TestLotteryService_PaidJoinInsufficientFunds(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{TicketPrice: 10, MaxTicketsPerUser: 3})
	ctx := context.Background()

	_, err := f.ledger.AddFunds(ctx, "100", 9)
	require.NoError(t, err)

	_, err = f.service.Join(ctx, lottery.ID, "100", 1)
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
	assert.Equal(t, int64(9), f.ledger.Balance("100"), "a rejected join must not debit")
	assert.Equal(t, 0, lottery.ParticipantCount())
}

func TestLotteryService_PaidJoinRefundsOnFailedRegistration(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{TicketPrice: 10, MaxTicketsPerUser: 3})
	ctx := context.Background()

	_, err := f.ledger.AddFunds(ctx, "100", 50)
	require.NoError(t, err)

	_, err = f.service.Join(ctx, lottery.ID, "100", 2)
	require.NoError(t, err)
	require.Equal(t, int64(30), f.ledger.Balance("100"))

	// Already joined: the debit taken for this attempt must be refunded
	_, err = f.service.Join(ctx, lottery.ID, "100", 1)
	assert.ErrorIs(t, err, entities.ErrAlreadyJoined)
	assert.Equal(t, int64(30), f.ledger.Balance("100"))
}

func TestLotteryService_PaidJoinCapacity(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{TicketPrice: 10, MaxTicketsPerUser: 3})
	ctx := context.Background()

	_, err := f.ledger.AddFunds(ctx, "100", 1000)
	require.NoError(t, err)

	_, err = f.service.Join(ctx, lottery.ID, "100", 4)
	assert.ErrorIs(t, err, entities.ErrCapacityExceeded)
	assert.Equal(t, int64(1000), f.ledger.Balance("100"))

	// A large balance is still capped by the per-user limit
	max, err := f.service.MaxPurchasable(lottery.ID, "100")
	require.NoError(t, err)
	assert.Equal(t, 3, max)
}

func TestLotteryService_LeaveWithoutRefund(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{TicketPrice: 10, MaxTicketsPerUser: 3})
	ctx := context.Background()

	_, err := f.ledger.AddFunds(ctx, "100", 30)
	require.NoError(t, err)
	_, err = f.service.Join(ctx, lottery.ID, "100", 3)
	require.NoError(t, err)

	_, err = f.service.Leave(ctx, lottery.ID, "100")
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.ledger.Balance("100"), "spent tickets stay spent by default")
	assert.Equal(t, 0, lottery.ParticipantCount())
}

func TestLotteryService_LeaveWithRefund(t *testing.T) {
	f := newLotteryFixture(t, true)
	lottery := f.startLottery(t, entities.LotteryConfig{TicketPrice: 10, MaxTicketsPerUser: 3})
	ctx := context.Background()

	_, err := f.ledger.AddFunds(ctx, "100", 30)
	require.NoError(t, err)
	_, err = f.service.Join(ctx, lottery.ID, "100", 3)
	require.NoError(t, err)

	_, err = f.service.Leave(ctx, lottery.ID, "100")
	require.NoError(t, err)
	assert.Equal(t, int64(30), f.ledger.Balance("100"))
}

func TestLotteryService_ExpireDrawsWinners(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{WinnerCount: 2})
	ctx := context.Background()

	for _, account := range []string{"100", "200", "300"} {
		_, err := f.service.Join(ctx, lottery.ID, account, 1)
		require.NoError(t, err)
	}

	outcome, err := f.service.Expire(ctx, lottery.ID)
	require.NoError(t, err)
	assert.True(t, outcome.Drawn)
	assert.Len(t, outcome.Winners, 2)
	assert.NotEqual(t, outcome.Winners[0], outcome.Winners[1], "winners are distinct")

	// Second expiry is rejected
	_, err = f.service.Expire(ctx, lottery.ID)
	assert.ErrorIs(t, err, entities.ErrLotteryNotActive)
}

func TestLotteryService_ExpireBelowMinimum(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{MinParticipants: 3})
	ctx := context.Background()

	_, err := f.service.Join(ctx, lottery.ID, "100", 1)
	require.NoError(t, err)

	outcome, err := f.service.Expire(ctx, lottery.ID)
	require.NoError(t, err)
	assert.False(t, outcome.Drawn)
	assert.Empty(t, outcome.Winners)
	assert.Equal(t, entities.LotteryStatusCancelled, lottery.Status())
}

func TestLotteryService_RetireOnlyTerminal(t *testing.T) {
	f := newLotteryFixture(t, false)
	lottery := f.startLottery(t, entities.LotteryConfig{})

	f.service.Retire(lottery.ID)
	_, err := f.service.Get(lottery.ID)
	assert.NoError(t, err, "an active lottery cannot be retired")

	_, err = f.service.Expire(context.Background(), lottery.ID)
	require.NoError(t, err)
	f.service.Retire(lottery.ID)

	_, err = f.service.Get(lottery.ID)
	assert.ErrorIs(t, err, entities.ErrLotteryNotFound)
}

func TestLotteryService_ListActive(t *testing.T) {
	f := newLotteryFixture(t, false)

	pending, err := f.service.Create(entities.LotteryConfig{Prize: "Nitro", Duration: time.Hour, WinnerCount: 1})
	require.NoError(t, err)
	active := f.startLottery(t, entities.LotteryConfig{})

	ids := make([]string, 0)
	for _, l := range f.service.ListActive() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{active.ID}, ids)
	assert.NotContains(t, ids, pending.ID)
}

func TestLotteryService_UnknownLottery(t *testing.T) {
	f := newLotteryFixture(t, false)
	ctx := context.Background()

	_, err := f.service.Get("missing")
	assert.ErrorIs(t, err, entities.ErrLotteryNotFound)
	_, err = f.service.Join(ctx, "missing", "100", 1)
	assert.ErrorIs(t, err, entities.ErrLotteryNotFound)
	_, err = f.service.Expire(ctx, "missing")
	assert.ErrorIs(t, err, entities.ErrLotteryNotFound)
}
