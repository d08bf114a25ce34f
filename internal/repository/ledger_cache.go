package repository

import (
	"log"

	"github.com/goccy/go-json"
	"github.com/voicegenapp/api-voicegen/internal/model"
)

// LedgerCache mirrors the last known LedgerRecord in the local KV
// store. It is not authoritative: a successful remote read always
// overwrites it, and it is only consulted when the remote store is
// unreachable.
type LedgerCache struct {
	kv *KVStore
}

func NewLedgerCache(kv *KVStore) *LedgerCache {
	return &LedgerCache{kv: kv}
}

func ledgerKey(deviceID string) string {
	return "ledger_" + deviceID
}

// Load returns the cached mirror for deviceID, or ErrNotFound.
func (c *LedgerCache) Load(deviceID string) (*model.LedgerRecord, error) {
	raw, ok := c.kv.Get(ledgerKey(deviceID))
	if !ok {
		return nil, ErrNotFound
	}
	var rec model.LedgerRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		// A corrupt mirror is treated as absent; the next successful
		// remote read rewrites it.
		log.Printf("⚠️  Discarding corrupt ledger mirror for %s: %v", deviceID, err)
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Store overwrites the mirror for the record's device id.
func (c *LedgerCache) Store(rec *model.LedgerRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return c.kv.Set(ledgerKey(rec.DeviceID), string(raw))
}

// Delete removes the mirror for deviceID.
func (c *LedgerCache) Delete(deviceID string) error {
	return c.kv.Delete(ledgerKey(deviceID))
}
