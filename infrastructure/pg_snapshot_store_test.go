package infrastructure

import (
	"context"
	"testing"

	"skullbot/infrastructure/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSnapshotStore_PushPull(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	store := NewPostgresSnapshotStore(testDB.DB)
	ctx := context.Background()

	_, err := store.Pull(ctx)
	assert.Error(t, err, "an empty store has nothing to pull")

	require.NoError(t, store.Push(ctx, []byte(`{"100":10}`)))
	require.NoError(t, store.Push(ctx, []byte(`{"100":25}`)))

	data, err := store.Pull(ctx)
	require.NoError(t, err)
	// The jsonb column canonicalizes whitespace, so compare as JSON
	assert.JSONEq(t, `{"100":25}`, string(data), "pull returns the newest snapshot")
}
