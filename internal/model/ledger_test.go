package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLedgerRecord_Defaults(t *testing.T) {
	rec := NewLedgerRecord("dev-1", "alice")

	assert.Equal(t, "dev-1", rec.DeviceID)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, InitialCredits, rec.Credits)
	assert.Equal(t, Today(), rec.DailyAdsWatched.Date)
	assert.Zero(t, rec.DailyAdsWatched.Rewarded)
	assert.Zero(t, rec.DailyAdsWatched.Interstitial)
	assert.Empty(t, rec.GenerationHistory)
	assert.False(t, rec.HasUsedFreeGeneration)
}

func TestDailyAdQuota_ForDate_SameDay(t *testing.T) {
	q := DailyAdQuota{Date: "2025-06-01", Rewarded: 2, Interstitial: 4}
	w := q.ForDate("2025-06-01")

	assert.Equal(t, 2, w.Rewarded)
	assert.Equal(t, 4, w.Interstitial)
}

func TestDailyAdQuota_ForDate_Rollover(t *testing.T) {
	q := DailyAdQuota{Date: "2025-06-01", Rewarded: 3, Interstitial: 5}
	w := q.ForDate("2025-06-02")

	assert.Equal(t, "2025-06-02", w.Date)
	assert.Zero(t, w.Rewarded)
	assert.Zero(t, w.Interstitial)
	// the stored quota is not mutated
	assert.Equal(t, 3, q.Rewarded)
}

func TestDailyAdQuota_Remaining(t *testing.T) {
	q := DailyAdQuota{Date: "2025-06-01", Rewarded: 1, Interstitial: 5}

	assert.Equal(t, 2, q.Remaining(AdRewarded, "2025-06-01"))
	assert.Equal(t, 0, q.Remaining(AdInterstitial, "2025-06-01"))
	// new day restores the full allowance
	assert.Equal(t, RewardedDailyCap, q.Remaining(AdRewarded, "2025-06-02"))
	assert.Equal(t, InterstitialDailyCap, q.Remaining(AdInterstitial, "2025-06-02"))
}

func TestPrependGeneration_NewestFirst(t *testing.T) {
	rec := NewLedgerRecord("dev-1", "alice")
	rec.PrependGeneration(GenerationEntry{ID: 1, Text: "first"})
	rec.PrependGeneration(GenerationEntry{ID: 2, Text: "second"})

	require.Len(t, rec.GenerationHistory, 2)
	assert.Equal(t, int64(2), rec.GenerationHistory[0].ID)
	assert.Equal(t, int64(1), rec.GenerationHistory[1].ID)
}

func TestPrependGeneration_CapDropsTail(t *testing.T) {
	rec := NewLedgerRecord("dev-1", "alice")
	for i := 1; i <= HistoryLimit+1; i++ {
		rec.PrependGeneration(GenerationEntry{ID: int64(i), Text: fmt.Sprintf("entry %d", i)})
	}

	require.Len(t, rec.GenerationHistory, HistoryLimit)
	// the 51st insert sits at the front
	assert.Equal(t, int64(HistoryLimit+1), rec.GenerationHistory[0].ID)
	// the original oldest entry is gone
	for _, e := range rec.GenerationHistory {
		assert.NotEqual(t, int64(1), e.ID)
	}
}

func TestClone_Independent(t *testing.T) {
	rec := NewLedgerRecord("dev-1", "alice")
	rec.PrependGeneration(GenerationEntry{ID: 1})

	cp := rec.Clone()
	cp.Credits = 0
	cp.GenerationHistory[0].Text = "changed"

	assert.Equal(t, InitialCredits, rec.Credits)
	assert.Empty(t, rec.GenerationHistory[0].Text)
}

func TestGenerationCostFor(t *testing.T) {
	rec := NewLedgerRecord("dev-1", "alice")
	assert.Zero(t, rec.GenerationCostFor())

	rec.HasUsedFreeGeneration = true
	assert.Equal(t, GenerationCost, rec.GenerationCostFor())
}

func TestIsValidVoice(t *testing.T) {
	assert.True(t, IsValidVoice("alloy"))
	assert.True(t, IsValidVoice("elan"))
	assert.False(t, IsValidVoice("robotic"))
}
