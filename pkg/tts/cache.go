package tts

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/voicegenapp/api-voicegen/internal/metrics"
)

// Cached wraps a Synthesizer with a Redis cache keyed by voice and
// text hash, so regenerating the same clip skips the upstream call.
// Cache failures only log; they never fail a generation.
type Cached struct {
	next Synthesizer
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCached(next Synthesizer, rdb *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(text, voice string) string {
	return fmt.Sprintf("tts:%s:%x", voice, sha256.Sum256([]byte(text)))
}

func (c *Cached) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	key := cacheKey(text, voice)

	if data, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		metrics.SynthCacheHits.Inc()
		return data, nil
	}
	metrics.SynthCacheMisses.Inc()

	data, err := c.next.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, err
	}

	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("⚠️  Failed to cache synthesized audio: %v", err)
	}
	return data, nil
}
