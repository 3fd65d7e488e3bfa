package scores

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var knownGames = []string{"Speed Chase", "Simon Says", "Piano"}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]int{"Piano": 120}))

	loaded := LoadOrDefault(ctx, store, knownGames)
	assert.Equal(t, 120, loaded["Piano"])
	assert.Equal(t, 0, loaded["Speed Chase"])
	assert.Equal(t, 0, loaded["Simon Says"])
}

func TestLoadOrDefault_MissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	loaded := LoadOrDefault(context.Background(), store, knownGames)
	assert.Len(t, loaded, len(knownGames))
	for _, name := range knownGames {
		assert.Equal(t, 0, loaded[name])
	}
}

func TestLoadOrDefault_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	loaded := LoadOrDefault(context.Background(), NewFileStore(path), knownGames)
	for _, name := range knownGames {
		assert.Equal(t, 0, loaded[name])
	}
}

func TestLoadOrDefault_IgnoresUnknownAndNegative(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	store := NewFileStore(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]int{
		"Piano":      50,
		"Unreleased": 9000,
		"Simon Says": -3,
	}))

	loaded := LoadOrDefault(ctx, store, knownGames)
	assert.Equal(t, 50, loaded["Piano"])
	assert.Equal(t, 0, loaded["Simon Says"])
	_, ok := loaded["Unreleased"]
	assert.False(t, ok)
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer store.Close(ctx)

	require.NoError(t, store.Save(ctx, map[string]int{"Piano": 120, "Simon Says": 7}))
	require.NoError(t, store.Save(ctx, map[string]int{"Piano": 150}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 150, loaded["Piano"])
	assert.Equal(t, 7, loaded["Simon Says"])
}
