package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"skullbot/domain/entities"
	"skullbot/domain/interfaces"
	"skullbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, startingBalance int64) (interfaces.Ledger, *testhelpers.MemorySnapshotStore) {
	t.Helper()
	store := testhelpers.NewMemorySnapshotStore()
	ledger := NewLedgerService(context.Background(), store, nil, testhelpers.NoopMetrics{}, startingBalance)
	return ledger, store
}

func TestLedgerService_StartingBalance(t *testing.T) {
	ledger, _ := newTestLedger(t, 100)

	assert.Equal(t, int64(100), ledger.Balance("100"), "unknown accounts open with the starting balance")

	require.NoError(t, ledger.RemoveFunds(context.Background(), "100", 30))
	assert.Equal(t, int64(70), ledger.Balance("100"))
}

func TestLedgerService_AddFunds(t *testing.T) {
	ledger, _ := newTestLedger(t, 0)
	ctx := context.Background()

	newBalance, err := ledger.AddFunds(ctx, "100", 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), newBalance)

	newBalance, err = ledger.AddFunds(ctx, "100", 25)
	require.NoError(t, err)
	assert.Equal(t, int64(75), newBalance)

	_, err = ledger.AddFunds(ctx, "100", 0)
	assert.Error(t, err, "non-positive credits must be rejected")
	_, err = ledger.AddFunds(ctx, "100", -10)
	assert.Error(t, err)
}

func TestLedgerService_RemoveFundsAllOrNothing(t *testing.T) {
	ledger, _ := newTestLedger(t, 0)
	ctx := context.Background()

	_, err := ledger.AddFunds(ctx, "100", 40)
	require.NoError(t, err)

	err = ledger.RemoveFunds(ctx, "100", 50)
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
	assert.Equal(t, int64(40), ledger.Balance("100"), "a failed debit leaves the balance unchanged")

	require.NoError(t, ledger.RemoveFunds(ctx, "100", 40))
	assert.Equal(t, int64(0), ledger.Balance("100"))

	err = ledger.RemoveFunds(ctx, "100", 1)
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds, "balances never go negative")
}

func TestLedgerService_HasFunds(t *testing.T) {
	ledger, _ := newTestLedger(t, 0)

	_, err := ledger.AddFunds(context.Background(), "100", 30)
	require.NoError(t, err)

	assert.True(t, ledger.HasFunds("100", 30))
	assert.False(t, ledger.HasFunds("100", 31))
	assert.True(t, ledger.HasFunds("unknown", 0))
}

func TestLedgerService_Transfer(t *testing.T) {
	ledger, _ := newTestLedger(t, 0)
	ctx := context.Background()

	_, err := ledger.AddFunds(ctx, "100", 80)
	require.NoError(t, err)

	require.NoError(t, ledger.Transfer(ctx, "100", "200", 30))
	assert.Equal(t, int64(50), ledger.Balance("100"))
	assert.Equal(t, int64(30), ledger.Balance("200"))

	err = ledger.Transfer(ctx, "100", "200", 51)
	assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
	assert.Equal(t, int64(50), ledger.Balance("100"), "a failed transfer has no partial effect")
	assert.Equal(t, int64(30), ledger.Balance("200"))

	assert.Error(t, ledger.Transfer(ctx, "100", "100", 10))
	assert.Error(t, ledger.Transfer(ctx, "100", "200", 0))
}

func TestLedgerService_ConcurrentTransfersConserveTotal(t *testing.T) {
	ledger, _ := newTestLedger(t, 0)
	ctx := context.Background()

	accounts := []string{"a", "b", "c", "d"}
	for _, account := range accounts {
		_, err := ledger.AddFunds(ctx, account, 1000)
		require.NoError(t, err)
	}

	// Hammer transfers in both directions between every pair, including the
	// opposing lock orders that would deadlock without ordered locking
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, from := range accounts {
			for _, to := range accounts {
				if from == to {
					continue
				}
				wg.Add(1)
				go func(from, to string) {
					defer wg.Done()
					_ = ledger.Transfer(ctx, from, to, 7)
				}(from, to)
			}
		}
	}
	wg.Wait()

	var total int64
	for _, account := range accounts {
		balance := ledger.Balance(account)
		assert.GreaterOrEqual(t, balance, int64(0))
		total += balance
	}
	assert.Equal(t, int64(4000), total, "transfers conserve the currency supply")
}

func TestLedgerService_SnapshotRoundTrip(t *testing.T) {
	ledger, _ := newTestLedger(t, 0)
	ctx := context.Background()

	_, err := ledger.AddFunds(ctx, "100", 10)
	require.NoError(t, err)
	_, err = ledger.AddFunds(ctx, "200", 20)
	require.NoError(t, err)

	data, err := ledger.Snapshot()
	require.NoError(t, err)

	restored, _ := newTestLedger(t, 0)
	require.NoError(t, restored.Restore(data))
	assert.Equal(t, int64(10), restored.Balance("100"))
	assert.Equal(t, int64(20), restored.Balance("200"))
}

func TestLedgerService_RestoreRejectsNegativeBalances(t *testing.T) {
	ledger, _ := newTestLedger(t, 0)

	data, err := json.Marshal(map[string]int64{"100": -5})
	require.NoError(t, err)
	assert.Error(t, ledger.Restore(data))
	assert.Error(t, ledger.Restore([]byte("not json")))
}

func TestLedgerService_PersistsEveryMutation(t *testing.T) {
	ledger, store := newTestLedger(t, 0)
	ctx := context.Background()

	_, err := ledger.AddFunds(ctx, "100", 42)
	require.NoError(t, err)

	data, ok, err := store.Load(LedgerSnapshotKey)
	require.NoError(t, err)
	require.True(t, ok, "mutations write through to the snapshot store")

	var balances map[string]int64
	require.NoError(t, json.Unmarshal(data, &balances))
	assert.Equal(t, int64(42), balances["100"])
}

func TestNewLedgerService_RestoresFromStores(t *testing.T) {
	ctx := context.Background()

	local := testhelpers.NewMemorySnapshotStore()
	localData, _ := json.Marshal(map[string]int64{"100": 5})
	require.NoError(t, local.Save(LedgerSnapshotKey, localData))

	// Without an authoritative store the local snapshot wins
	ledger := NewLedgerService(ctx, local, nil, testhelpers.NoopMetrics{}, 0)
	assert.Equal(t, int64(5), ledger.Balance("100"))

	// An authoritative snapshot takes precedence over the local one
	authData, _ := json.Marshal(map[string]int64{"100": 99})
	authoritative := new(testhelpers.MockAuthoritativeStore)
	authoritative.On("Pull", ctx).Return(authData, nil)

	ledger = NewLedgerService(ctx, local, authoritative, testhelpers.NoopMetrics{}, 0)
	assert.Equal(t, int64(99), ledger.Balance("100"))
	authoritative.AssertExpectations(t)
}

func TestNewLedgerService_FailedPullKeepsLocalState(t *testing.T) {
	ctx := context.Background()

	local := testhelpers.NewMemorySnapshotStore()
	localData, _ := json.Marshal(map[string]int64{"100": 5})
	require.NoError(t, local.Save(LedgerSnapshotKey, localData))

	authoritative := new(testhelpers.MockAuthoritativeStore)
	authoritative.On("Pull", ctx).Return(nil, assert.AnError)

	ledger := NewLedgerService(ctx, local, authoritative, testhelpers.NoopMetrics{}, 0)
	assert.Equal(t, int64(5), ledger.Balance("100"), "a failed pull falls back to the local snapshot")
	authoritative.AssertExpectations(t)
}
