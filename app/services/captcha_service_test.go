// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRotateProducesChallenge(t *testing.T) {
	svc, err := NewCaptchaServiceRotate(time.Minute, 10, 220)
	require.NoError(t, err)

	// A successful generation always yields a usable challenge, never a
	// nil challenge with a nil error.
	ch, err := svc.GenerateRotate(context.Background())
	require.NoError(t, err)
	require.NotNil(t, ch)
	assert.NotEmpty(t, ch.ID)
	assert.NotEmpty(t, ch.MasterImageBase64)
	assert.NotEmpty(t, ch.ThumbImageBase64)
}

func TestChallengeStoreTakeIsSingleUse(t *testing.T) {
	store := newChallengeStore(time.Minute)
	store.Put("ch-1", 120)

	angle, ok := store.Take("ch-1")
	assert.True(t, ok)
	assert.Equal(t, 120, angle)

	// Second take misses; the challenge was consumed
	_, ok = store.Take("ch-1")
	assert.False(t, ok)
}

func TestChallengeStoreUnknownID(t *testing.T) {
	store := newChallengeStore(time.Minute)

	_, ok := store.Take("never-put")
	assert.False(t, ok)
}

func TestChallengeStoreExpiry(t *testing.T) {
	store := newChallengeStore(10 * time.Millisecond)
	store.Put("ch-2", 45)

	time.Sleep(30 * time.Millisecond)

	_, ok := store.Take("ch-2")
	assert.False(t, ok)
}
