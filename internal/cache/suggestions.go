package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campuspulse/campuspulse/pkg/logger"
)

// SuggestionCache keeps ranked suggestion lists for a short TTL so repeated
// loads of the same feed skip the scoring pass. A nil cache (redis disabled)
// is safe to use and always misses.
type SuggestionCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSuggestionCache(addr, password string, db int, ttl time.Duration) (*SuggestionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 3,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	return &SuggestionCache{client: client, ttl: ttl}, nil
}

func key(viewerID, fingerprint string) string {
	return fmt.Sprintf("suggestions:%s:%s", viewerID, fingerprint)
}

// Get returns the cached payload for the viewer and filter fingerprint, or
// (false) on a miss. Cache errors count as misses.
func (c *SuggestionCache) Get(ctx context.Context, viewerID, fingerprint string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}

	raw, err := c.client.Get(ctx, key(viewerID, fingerprint)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("suggestion cache read failed", "viewer_id", viewerID, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		logger.Warn("suggestion cache payload corrupt", "viewer_id", viewerID, "error", err)
		return false
	}

	return true
}

// Set stores a payload best-effort; failures are logged and ignored.
func (c *SuggestionCache) Set(ctx context.Context, viewerID, fingerprint string, payload interface{}) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Warn("suggestion cache marshal failed", "viewer_id", viewerID, "error", err)
		return
	}

	if err := c.client.Set(ctx, key(viewerID, fingerprint), raw, c.ttl).Err(); err != nil {
		logger.Warn("suggestion cache write failed", "viewer_id", viewerID, "error", err)
	}
}

func (c *SuggestionCache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
