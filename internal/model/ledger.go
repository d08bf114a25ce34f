package model

import "time"

const (
	// InitialCredits is granted once at registration.
	InitialCredits = 30

	// GenerationCost is charged per speech generation after the free one.
	GenerationCost = 10

	// HistoryLimit caps the generation history, newest first.
	HistoryLimit = 50
)

// AdKind identifies the ad format the user watched
type AdKind string

const (
	AdRewarded     AdKind = "rewarded"
	AdInterstitial AdKind = "interstitial"
)

// Valid reports whether the kind is one of the known ad formats
func (k AdKind) Valid() bool {
	return k == AdRewarded || k == AdInterstitial
}

// Per-day ad caps and rewards
const (
	RewardedDailyCap     = 3
	InterstitialDailyCap = 5
	RewardedCredits      = 20
	InterstitialCredits  = 10
)

// DateLayout is the calendar-date key used for the daily ad quota
// (local clock, matching the stored data layout)
const DateLayout = "2006-01-02"

// Today returns the current local calendar date as a quota key
func Today() string {
	return time.Now().Format(DateLayout)
}

// DailyAdQuota tracks reward-granting ad views for one calendar date.
// When Date differs from today the counters are logically zero; storage
// is only rewritten on the next granting write.
type DailyAdQuota struct {
	Date         string `json:"date" firestore:"date"`
	Rewarded     int    `json:"rewarded" firestore:"rewarded"`
	Interstitial int    `json:"interstitial" firestore:"interstitial"`
}

// ForDate returns the quota as it counts for the given date: unchanged
// if the stored date matches, zeroed otherwise. The receiver is not
// mutated.
func (q DailyAdQuota) ForDate(date string) DailyAdQuota {
	if q.Date == date {
		return q
	}
	return DailyAdQuota{Date: date}
}

// Remaining returns how many ads of the given kind may still be
// rewarded today.
func (q DailyAdQuota) Remaining(kind AdKind, date string) int {
	w := q.ForDate(date)
	switch kind {
	case AdRewarded:
		return RewardedDailyCap - w.Rewarded
	case AdInterstitial:
		return InterstitialDailyCap - w.Interstitial
	}
	return 0
}

// GenerationEntry is one item of the generation history. The ID is a
// wall-clock millisecond timestamp; it is advisory ordering only and
// carries no financial meaning.
type GenerationEntry struct {
	ID        int64  `json:"id" firestore:"id"`
	Text      string `json:"text" firestore:"text"`
	Voice     string `json:"voice" firestore:"voice"`
	Timestamp string `json:"timestamp" firestore:"timestamp"`
}

// LedgerRecord is the per-identity account entity, keyed by device id.
// The JSON/Firestore shape matches the data already stored under the
// "users" collection, so field names are fixed.
type LedgerRecord struct {
	DeviceID              string            `json:"deviceId" firestore:"deviceId"`
	Username              string            `json:"username" firestore:"username"`
	Credits               int               `json:"credits" firestore:"credits"`
	DailyAdsWatched       DailyAdQuota      `json:"dailyAdsWatched" firestore:"dailyAdsWatched"`
	GenerationHistory     []GenerationEntry `json:"generationHistory" firestore:"generationHistory"`
	HasUsedFreeGeneration bool              `json:"hasUsedFreeGeneration" firestore:"hasUsedFreeGeneration"`
}

// NewLedgerRecord builds a fresh record for registration.
func NewLedgerRecord(deviceID, username string) *LedgerRecord {
	return &LedgerRecord{
		DeviceID: deviceID,
		Username: username,
		Credits:  InitialCredits,
		DailyAdsWatched: DailyAdQuota{
			Date: Today(),
		},
		GenerationHistory: []GenerationEntry{},
	}
}

// Clone returns a deep copy, so an in-flight mutation never aliases the
// last-known-good record.
func (r *LedgerRecord) Clone() *LedgerRecord {
	cp := *r
	cp.GenerationHistory = make([]GenerationEntry, len(r.GenerationHistory))
	copy(cp.GenerationHistory, r.GenerationHistory)
	return &cp
}

// PrependGeneration inserts an entry at the front and drops overflow
// from the tail, keeping at most HistoryLimit entries.
func (r *LedgerRecord) PrependGeneration(e GenerationEntry) {
	history := append([]GenerationEntry{e}, r.GenerationHistory...)
	if len(history) > HistoryLimit {
		history = history[:HistoryLimit]
	}
	r.GenerationHistory = history
}

// GenerationCostFor returns what the next generation costs for this
// record. The first generation is free.
func (r *LedgerRecord) GenerationCostFor() int {
	if !r.HasUsedFreeGeneration {
		return 0
	}
	return GenerationCost
}
