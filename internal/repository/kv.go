package repository

import (
	"errors"
	"log"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// CacheEntry is one row of the installation-local key-value store.
type CacheEntry struct {
	Key   string `gorm:"primaryKey;size:255"`
	Value string
}

// KVStore is durable key-value string storage scoped to this
// installation, backed by an embedded SQLite file. It holds the device
// identity, the registered flag and the ledger mirror.
type KVStore struct {
	db *gorm.DB
}

// OpenKV opens (and migrates) the local store under dataDir.
func OpenKV(dataDir string) (*KVStore, error) {
	path := filepath.Join(dataDir, "voicegen.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&CacheEntry{}); err != nil {
		return nil, err
	}
	return &KVStore{db: db}, nil
}

// Get returns the value for key. A miss is not an error; storage
// failures are logged and reported as a miss so callers can degrade.
func (s *KVStore) Get(key string) (string, bool) {
	var entry CacheEntry
	err := s.db.Where("key = ?", key).First(&entry).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️  Local cache read failed for %q: %v", key, err)
		}
		return "", false
	}
	return entry.Value, true
}

// Set upserts the value for key (whole-value overwrite, last writer
// wins).
func (s *KVStore) Set(key, value string) error {
	entry := CacheEntry{Key: key, Value: value}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"value": value}),
	}).Create(&entry).Error
}

// Delete removes key if present.
func (s *KVStore) Delete(key string) error {
	return s.db.Where("key = ?", key).Delete(&CacheEntry{}).Error
}
