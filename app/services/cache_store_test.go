// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheEnvelopeStaleness(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	ttl := 2 * time.Minute

	envelope := newCacheEnvelope(json.RawMessage(`{"total":3}`), now, ttl)
	assert.Equal(t, now.UnixMilli(), envelope.Timestamp)
	assert.Equal(t, now.Add(ttl).UnixMilli(), envelope.Expiration)

	assert.False(t, envelope.stale(now), "fresh entry must be readable immediately")
	assert.False(t, envelope.stale(now.Add(ttl)), "entry is still valid at the expiration instant")
	assert.True(t, envelope.stale(now.Add(ttl+time.Millisecond)), "entry past its expiration is a miss")
}

func TestCacheEnvelopeWithoutTTLNeverExpires(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	envelope := newCacheEnvelope(json.RawMessage(`"v"`), now, 0)
	assert.Zero(t, envelope.Expiration)
	assert.False(t, envelope.stale(now.Add(100*365*24*time.Hour)))
}

func TestCacheEnvelopeRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	envelope := newCacheEnvelope(json.RawMessage(`{"name":"Zyro"}`), now, time.Minute)
	bs, err := json.Marshal(envelope)
	require.NoError(t, err)

	var decoded cacheEnvelope
	require.NoError(t, json.Unmarshal(bs, &decoded))
	assert.Equal(t, envelope.Expiration, decoded.Expiration)

	var payload struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(decoded.Data, &payload))
	assert.Equal(t, "Zyro", payload.Name)
}

func TestRedisCacheStoreWithoutClient(t *testing.T) {
	store := NewRedisCacheStore(nil, "zyro")
	ctx := context.Background()

	var dst string
	require.ErrorIs(t, store.Get(ctx, "k", &dst), ErrCacheMiss)
	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))
	require.NoError(t, store.Delete(ctx, "k"))
}

func TestRedisCacheStoreKeyPrefix(t *testing.T) {
	prefixed := NewRedisCacheStore(nil, "zyro")
	assert.Equal(t, "zyro:campaigns:active", prefixed.key("campaigns:active"))

	bare := NewRedisCacheStore(nil, "")
	assert.Equal(t, "campaigns:active", bare.key("campaigns:active"))
}
