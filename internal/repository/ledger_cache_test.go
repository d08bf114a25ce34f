package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/voicegenapp/api-voicegen/internal/model"
)

func TestLedgerCache_RoundTrip(t *testing.T) {
	cache := NewLedgerCache(openTestKV(t))

	rec := model.NewLedgerRecord("dev-1", "alice")
	rec.Credits = 42
	rec.PrependGeneration(model.GenerationEntry{ID: 7, Text: "hello", Voice: "nova", Timestamp: "2025-06-01T12:00:00Z"})
	require.NoError(t, cache.Store(rec))

	loaded, err := cache.Load("dev-1")
	require.NoError(t, err)
	assert.Equal(t, 42, loaded.Credits)
	assert.Equal(t, "alice", loaded.Username)
	require.Len(t, loaded.GenerationHistory, 1)
	assert.Equal(t, "hello", loaded.GenerationHistory[0].Text)
}

func TestLedgerCache_MissIsNotFound(t *testing.T) {
	cache := NewLedgerCache(openTestKV(t))

	_, err := cache.Load("dev-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedgerCache_CorruptMirrorTreatedAsAbsent(t *testing.T) {
	kv := openTestKV(t)
	cache := NewLedgerCache(kv)

	require.NoError(t, kv.Set("ledger_dev-1", "{not json"))

	_, err := cache.Load("dev-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLedgerCache_StoreOverwrites(t *testing.T) {
	cache := NewLedgerCache(openTestKV(t))

	rec := model.NewLedgerRecord("dev-1", "alice")
	require.NoError(t, cache.Store(rec))

	rec.Credits = 5
	require.NoError(t, cache.Store(rec))

	loaded, err := cache.Load("dev-1")
	require.NoError(t, err)
	assert.Equal(t, 5, loaded.Credits)
}

func TestLedgerCache_Delete(t *testing.T) {
	cache := NewLedgerCache(openTestKV(t))

	require.NoError(t, cache.Store(model.NewLedgerRecord("dev-1", "alice")))
	require.NoError(t, cache.Delete("dev-1"))

	_, err := cache.Load("dev-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
