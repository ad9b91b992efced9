// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zyromarketplace/zyro-backend/utils"
)

// ErrCacheMiss is returned when a key is absent or its entry has lapsed
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is a small JSON cache over redis. Every entry is stored inside
// an envelope carrying its write time and expiration, so staleness is
// decided on read as well as by the redis TTL.
type CacheStore interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type cacheEnvelope struct {
	Data       json.RawMessage `json:"data"`
	Timestamp  int64           `json:"timestamp"`
	Expiration int64           `json:"expiration"` // 0 = no expiry
}

// stale reports whether the envelope's recorded expiration has passed
func (e cacheEnvelope) stale(now time.Time) bool {
	return e.Expiration > 0 && now.UnixMilli() > e.Expiration
}

func newCacheEnvelope(data json.RawMessage, now time.Time, ttl time.Duration) cacheEnvelope {
	envelope := cacheEnvelope{
		Data:      data,
		Timestamp: now.UnixMilli(),
	}
	if ttl > 0 {
		envelope.Expiration = now.Add(ttl).UnixMilli()
	}
	return envelope
}

// RedisCacheStore implements CacheStore on a redis client
type RedisCacheStore struct {
	rc     *redis.Client
	prefix string
}

// NewRedisCacheStore creates a cache store with a key prefix
func NewRedisCacheStore(rc *redis.Client, prefix string) *RedisCacheStore {
	return &RedisCacheStore{rc: rc, prefix: prefix}
}

func (s *RedisCacheStore) key(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + ":" + key
}

// Get reads a key and unmarshals the envelope payload into dst. Entries past
// their recorded expiration are removed lazily and reported as a miss.
func (s *RedisCacheStore) Get(ctx context.Context, key string, dst any) error {
	if s.rc == nil {
		return ErrCacheMiss
	}

	bs, err := s.rc.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("cache read failed: %w", err)
	}

	var envelope cacheEnvelope
	if err := json.Unmarshal(bs, &envelope); err != nil {
		return fmt.Errorf("corrupt cache entry %q: %w", key, err)
	}

	if envelope.stale(utils.UTCNow()) {
		_ = s.rc.Del(ctx, s.key(key)).Err()
		return ErrCacheMiss
	}

	return json.Unmarshal(envelope.Data, dst)
}

// Set writes a value wrapped in an envelope. The redis TTL mirrors the
// envelope expiration when one is given.
func (s *RedisCacheStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if s.rc == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	envelope := newCacheEnvelope(data, utils.UTCNow(), ttl)

	bs, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return s.rc.Set(ctx, s.key(key), bs, ttl).Err()
}

// Delete removes a key
func (s *RedisCacheStore) Delete(ctx context.Context, key string) error {
	if s.rc == nil {
		return nil
	}
	return s.rc.Del(ctx, s.key(key)).Err()
}
