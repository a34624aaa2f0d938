package infrastructure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSnapshotStore_RoundTrip(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	_, ok, err := store.Load("skulls.json")
	require.NoError(t, err)
	assert.False(t, ok, "a never-saved key loads as absent, not as an error")

	require.NoError(t, store.Save("skulls.json", []byte(`{"100":5}`)))

	data, ok, err := store.Load("skulls.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"100":5}`), data)
}

func TestFileSnapshotStore_SaveOverwrites(t *testing.T) {
	store, err := NewFileSnapshotStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("skulls.json", []byte("old")))
	require.NoError(t, store.Save("skulls.json", []byte("new")))

	data, ok, err := store.Load("skulls.json")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), data)
}

func TestFileSnapshotStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("skulls.json", []byte("data")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "skulls.json", entries[0].Name())
}

func TestNewFileSnapshotStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := NewFileSnapshotStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
