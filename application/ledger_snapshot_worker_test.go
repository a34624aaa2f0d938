package application

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"skullbot/domain/services"
	"skullbot/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLedgerSnapshotWorker_SavesAndPushes(t *testing.T) {
	ctx := context.Background()
	localStore := testhelpers.NewMemorySnapshotStore()
	ledger := services.NewLedgerService(ctx, testhelpers.NewMemorySnapshotStore(), nil, testhelpers.NoopMetrics{}, 0)

	_, err := ledger.AddFunds(ctx, "100", 42)
	require.NoError(t, err)

	authoritative := new(testhelpers.MockAuthoritativeStore)
	authoritative.On("Push", mock.Anything, mock.AnythingOfType("[]uint8")).Return(nil)

	worker := NewLedgerSnapshotWorker(ledger, localStore, authoritative, 20*time.Millisecond)
	stop := worker.Start(ctx)
	defer stop()

	require.Eventually(t, func() bool {
		_, ok, _ := localStore.Load(services.LedgerSnapshotKey)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	data, ok, err := localStore.Load(services.LedgerSnapshotKey)
	require.NoError(t, err)
	require.True(t, ok)

	var balances map[string]int64
	require.NoError(t, json.Unmarshal(data, &balances))
	assert.Equal(t, int64(42), balances["100"])

	// Each tick pushes upstream right after the local save, so the push has
	// already happened by the time the local snapshot is visible
	authoritative.AssertExpectations(t)
}

func TestLedgerSnapshotWorker_StopEndsLoop(t *testing.T) {
	ctx := context.Background()
	localStore := testhelpers.NewMemorySnapshotStore()
	ledger := services.NewLedgerService(ctx, testhelpers.NewMemorySnapshotStore(), nil, testhelpers.NoopMetrics{}, 0)

	worker := NewLedgerSnapshotWorker(ledger, localStore, nil, 10*time.Millisecond)
	stop := worker.Start(ctx)

	require.Eventually(t, func() bool {
		_, ok, _ := localStore.Load(services.LedgerSnapshotKey)
		return ok
	}, 2*time.Second, 5*time.Millisecond)

	stop()

	// After stopping, mutations no longer reach the worker's store
	time.Sleep(30 * time.Millisecond)
	_, err := ledger.AddFunds(ctx, "100", 1)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	data, ok, err := localStore.Load(services.LedgerSnapshotKey)
	require.NoError(t, err)
	require.True(t, ok)

	var balances map[string]int64
	require.NoError(t, json.Unmarshal(data, &balances))
	assert.NotContains(t, balances, "100")
}
