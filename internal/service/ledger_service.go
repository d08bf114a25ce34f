package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/voicegenapp/api-voicegen/internal/device"
	"github.com/voicegenapp/api-voicegen/internal/metrics"
	"github.com/voicegenapp/api-voicegen/internal/model"
	"github.com/voicegenapp/api-voicegen/internal/repository"
)

var (
	// ErrNoAccount means no ledger record exists for the current
	// device id (the anonymous state). Not a failure for reads.
	ErrNoAccount = errors.New("no account for this device")

	// ErrInsufficientCredits rejects a spend larger than the balance.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrRemoteRequired rejects operations that must not go local-only
	// (registration, ad rewards) while the store is unreachable.
	ErrRemoteRequired = errors.New("remote store must be reachable")

	// ErrIdentityConflict rejects a transfer onto a device id that
	// already owns a record.
	ErrIdentityConflict = errors.New("target device already has an account")

	// ErrInvalidAmount rejects non-positive spend amounts.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidAdKind rejects unknown ad formats.
	ErrInvalidAdKind = errors.New("unknown ad kind")
)

// RemoteStore is the remote document store scoped to ledger records.
// Implemented by repository.RemoteLedger.
type RemoteStore interface {
	Create(ctx context.Context, rec *model.LedgerRecord) error
	Read(ctx context.Context, deviceID string) (*model.LedgerRecord, error)
	Patch(ctx context.Context, deviceID string, fields map[string]interface{}) error
	Remove(ctx context.Context, deviceID string) error
	Online(ctx context.Context) bool
}

// LocalMirror is the offline fallback copy of the ledger. Implemented
// by repository.LedgerCache.
type LocalMirror interface {
	Load(deviceID string) (*model.LedgerRecord, error)
	Store(rec *model.LedgerRecord) error
	Delete(deviceID string) error
}

// LedgerService owns reconciliation between the remote store and the
// local mirror and enforces the credit and quota rules. Reconciliation
// is remote-authoritative: a successful remote read always replaces
// the mirror, never merges with it.
type LedgerService struct {
	mu       sync.Mutex
	identity *device.Identity
	remote   RemoteStore
	cache    LocalMirror

	current *model.LedgerRecord // last successfully loaded/mutated record
	offline bool                // current was served from the mirror

	now func() time.Time
}

func NewLedgerService(identity *device.Identity, remote RemoteStore, cache LocalMirror) *LedgerService {
	return &LedgerService{
		identity: identity,
		remote:   remote,
		cache:    cache,
		now:      time.Now,
	}
}

// Initialize resolves the device id and loads its record. The remote
// store wins whenever reachable, regardless of how new the mirror is;
// on unreachable remote the mirror is served instead. Neither present
// means ErrNoAccount.
func (s *LedgerService) Initialize(ctx context.Context) (*model.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.identity.Resolve()

	rec, err := s.remote.Read(ctx, id)
	switch {
	case err == nil:
		if cerr := s.cache.Store(rec); cerr != nil {
			log.Printf("⚠️  Failed to mirror ledger locally: %v", cerr)
		}
		s.current = rec
		s.offline = false
		return rec.Clone(), nil

	case errors.Is(err, repository.ErrNotFound):
		// The store answered: the record is gone. Drop any stale
		// mirror so a later offline start cannot resurrect it.
		if cerr := s.cache.Delete(id); cerr != nil {
			log.Printf("⚠️  Failed to drop stale ledger mirror: %v", cerr)
		}
		s.current = nil
		return nil, ErrNoAccount

	default:
		cached, cerr := s.cache.Load(id)
		if cerr != nil {
			s.current = nil
			return nil, ErrNoAccount
		}
		log.Printf("⚠️  Remote store unreachable, serving cached ledger for %s", id)
		s.current = cached
		s.offline = true
		return cached.Clone(), nil
	}
}

// Register creates a fresh ledger for this device. It refuses to go
// local-only: an unreachable store would orphan the identity.
func (s *LedgerService) Register(ctx context.Context, username, deviceIDOverride string) (*model.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.remote.Online(ctx) {
		return nil, ErrRemoteRequired
	}

	// Persist the override only once the store is reachable, so a
	// failed registration cannot switch the durable device id.
	if deviceIDOverride != "" {
		s.identity.Override(deviceIDOverride)
	}
	id := s.identity.Resolve()

	rec := model.NewLedgerRecord(id, username)
	if err := s.remote.Create(ctx, rec); err != nil {
		return nil, err
	}
	if err := s.cache.Store(rec); err != nil {
		log.Printf("⚠️  Failed to mirror new ledger locally: %v", err)
	}
	s.identity.MarkRegistered()
	s.current = rec
	s.offline = false
	return rec.Clone(), nil
}

// SpendCredits deducts amount from the balance. The write is
// best-effort: if the store is unreachable the spend lands only in the
// local mirror and is overwritten by the next successful remote read
// (accepted lossy-offline tradeoff).
func (s *LedgerService) SpendCredits(ctx context.Context, amount int) (*model.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if s.current == nil {
		return nil, ErrNoAccount
	}
	if s.current.Credits < amount {
		return nil, ErrInsufficientCredits
	}

	next := s.current.Clone()
	next.Credits -= amount

	if err := s.remote.Patch(ctx, next.DeviceID, map[string]interface{}{
		"credits": next.Credits,
	}); err != nil {
		log.Printf("⚠️  Spend not confirmed remotely, applied to local mirror only: %v", err)
		s.offline = true
	} else {
		s.offline = false
	}

	s.commit(next)
	metrics.CreditsSpent.Add(float64(amount))
	return next.Clone(), nil
}

// EarnFromAd grants the fixed reward for a watched ad if today's quota
// allows it. At the cap it reports granted=false without writing.
// Rewards require remote confirmation: an unreachable store fails the
// call and nothing is granted locally.
func (s *LedgerService) EarnFromAd(ctx context.Context, kind model.AdKind) (granted bool, newBalance int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !kind.Valid() {
		return false, 0, ErrInvalidAdKind
	}
	if s.current == nil {
		return false, 0, ErrNoAccount
	}

	today := s.now().Format(model.DateLayout)
	quota := s.current.DailyAdsWatched.ForDate(today)

	var reward int
	switch kind {
	case model.AdRewarded:
		if quota.Rewarded >= model.RewardedDailyCap {
			return false, s.current.Credits, nil
		}
		quota.Rewarded++
		reward = model.RewardedCredits
	case model.AdInterstitial:
		if quota.Interstitial >= model.InterstitialDailyCap {
			return false, s.current.Credits, nil
		}
		quota.Interstitial++
		reward = model.InterstitialCredits
	}

	next := s.current.Clone()
	next.DailyAdsWatched = quota
	next.Credits += reward

	// Quota and balance move in one patch so a partial write cannot
	// grant credits without consuming quota.
	if err := s.remote.Patch(ctx, next.DeviceID, map[string]interface{}{
		"dailyAdsWatched": quota,
		"credits":         next.Credits,
	}); err != nil {
		return false, s.current.Credits, err
	}

	s.offline = false
	s.commit(next)
	metrics.CreditsEarned.Add(float64(reward))
	metrics.AdsGranted.WithLabelValues(string(kind)).Inc()
	return true, next.Credits, nil
}

// AppendGeneration prepends a history entry and truncates to the cap.
// Best-effort: a failed remote write degrades to the local mirror so
// the user keeps their visible history.
func (s *LedgerService) AppendGeneration(ctx context.Context, text, voice string) (model.GenerationEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return model.GenerationEntry{}, ErrNoAccount
	}

	now := s.now()
	entry := model.GenerationEntry{
		ID:        now.UnixMilli(),
		Text:      text,
		Voice:     voice,
		Timestamp: now.Format(time.RFC3339),
	}

	next := s.current.Clone()
	next.PrependGeneration(entry)

	if err := s.remote.Patch(ctx, next.DeviceID, map[string]interface{}{
		"generationHistory": next.GenerationHistory,
	}); err != nil {
		log.Printf("⚠️  History not written remotely, keeping local copy: %v", err)
		s.offline = true
	}

	s.commit(next)
	return entry, nil
}

// UpdateUsername renames the account. Best-effort write.
func (s *LedgerService) UpdateUsername(ctx context.Context, username string) (*model.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoAccount
	}

	next := s.current.Clone()
	next.Username = username

	if err := s.remote.Patch(ctx, next.DeviceID, map[string]interface{}{
		"username": username,
	}); err != nil {
		log.Printf("⚠️  Username not written remotely, keeping local copy: %v", err)
		s.offline = true
	}

	s.commit(next)
	return next.Clone(), nil
}

// MarkFreeGenerationUsed records that the one free generation has been
// consumed, with the same persist discipline as other fields.
func (s *LedgerService) MarkFreeGenerationUsed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNoAccount
	}
	if s.current.HasUsedFreeGeneration {
		return nil
	}

	next := s.current.Clone()
	next.HasUsedFreeGeneration = true

	if err := s.remote.Patch(ctx, next.DeviceID, map[string]interface{}{
		"hasUsedFreeGeneration": true,
	}); err != nil {
		log.Printf("⚠️  Free-generation flag not written remotely: %v", err)
		s.offline = true
	}

	s.commit(next)
	return nil
}

// DeleteAccount removes the remote record, clears the mirror and
// unregisters the device. The remote delete must be confirmed; an
// absent record counts as deleted.
func (s *LedgerService) DeleteAccount(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.identity.Resolve()

	if err := s.remote.Remove(ctx, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err := s.cache.Delete(id); err != nil {
		log.Printf("⚠️  Failed to clear local ledger mirror: %v", err)
	}
	s.identity.MarkUnregistered()
	s.current = nil
	s.offline = false
	return nil
}

// TransferIdentity copies the current record under newDeviceID and
// switches this installation to it. The source record is removed only
// when deleteSource is set; the conflict check keeps one identity
// mapped to exactly one ledger.
func (s *LedgerService) TransferIdentity(ctx context.Context, newDeviceID string, deleteSource bool) (*model.LedgerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNoAccount
	}
	oldID := s.current.DeviceID
	if newDeviceID == oldID {
		return s.current.Clone(), nil
	}

	_, err := s.remote.Read(ctx, newDeviceID)
	switch {
	case err == nil:
		return nil, ErrIdentityConflict
	case errors.Is(err, repository.ErrNotFound):
		// target is free
	default:
		return nil, err
	}

	moved := s.current.Clone()
	moved.DeviceID = newDeviceID
	if err := s.remote.Create(ctx, moved); err != nil {
		return nil, err
	}

	if deleteSource {
		if err := s.remote.Remove(ctx, oldID); err != nil {
			// The new record is already in place; an orphaned source
			// is recoverable, so don't fail the transfer.
			log.Printf("⚠️  Failed to remove source record %s: %v", oldID, err)
		}
	}
	if err := s.cache.Delete(oldID); err != nil {
		log.Printf("⚠️  Failed to drop old ledger mirror: %v", err)
	}

	s.identity.Override(newDeviceID)
	s.identity.MarkRegistered()
	s.offline = false
	s.commit(moved)
	return moved.Clone(), nil
}

// Reset drops the in-memory session state without touching storage.
// Used by logout: the remote record stays, the device is simply no
// longer attached to it.
func (s *LedgerService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.offline = false
}

// Current returns the last known record, whether it came from the
// mirror, and whether one is loaded at all.
func (s *LedgerService) Current() (*model.LedgerRecord, bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil, false, false
	}
	return s.current.Clone(), s.offline, true
}

// commit installs next as the last known record and mirrors it.
// Callers hold s.mu.
func (s *LedgerService) commit(next *model.LedgerRecord) {
	s.current = next
	if err := s.cache.Store(next); err != nil {
		log.Printf("⚠️  Failed to mirror ledger locally: %v", err)
	}
}
