// Package cache is a read-through redis cache for served predictions. It is
// disabled when no redis address is configured, in which case every call is a
// no-op miss.
package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"intent/internal/logging"
	"intent/internal/util"
)

type Config struct {
	Addr     string        `envconfig:"INTENT_CACHE_ADDR"`
	Password string        `envconfig:"INTENT_CACHE_PASSWORD"`
	DB       int           `envconfig:"INTENT_CACHE_DB"`
	TTL      time.Duration `envconfig:"INTENT_CACHE_TTL" default:"5m"`
}

type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFromEnv builds the prediction cache. A nil *Cache and a Cache with no
// configured address are both valid and behave as a permanent miss.
func NewFromEnv(ctx context.Context, cfg *Config) (*Cache, error) {
	if cfg.Addr == "" {
		return &Cache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable connect to redis %s: %w", cfg.Addr, err)
	}
	logging.FromContext(ctx).Infof("prediction cache connected to %s", cfg.Addr)

	return &Cache{client: client, ttl: cfg.TTL}, nil
}

func (c *Cache) Enabled() bool {
	return c != nil && c.client != nil
}

// Key derives the cache key for a prediction request. The revision component
// makes keys from superseded training sets unreachable.
func Key(entityID, algorithm string, k int, revision uint64, f1, f2 float64) string {
	sum := util.HashVector([]float64{f1, f2})
	return fmt.Sprintf("prediction:%s:%s:%d:%d:%s", entityID, algorithm, k, revision, hex.EncodeToString(sum[:8]))
}

// Get reports whether the key was present and decodes it into dst when it was.
func (c *Cache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, key string, val interface{}) error {
	if !c.Enabled() {
		return nil
	}
	bytes, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, bytes, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}
