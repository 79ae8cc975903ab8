package cache

import (
	"context"
	"testing"
	"time"

	"github.com/phishdefender/phish-defender/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMemoryCache_SetGet(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	ctx := context.Background()
	result := &core.AnalysisResult{Kind: core.AnalysisURL, Input: "https://example.com"}

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", result, time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Same(t, result, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), time.Hour)
	defer c.Stop()

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "short", &core.AnalysisResult{}, time.Second))
	require.NoError(t, c.Set(ctx, "long", &core.AnalysisResult{}, time.Hour))

	now = now.Add(2 * time.Second)

	_, err := c.Get(ctx, "short")
	assert.ErrorIs(t, err, ErrExpired)

	require.NoError(t, c.Cleanup(ctx))
	assert.Equal(t, 1, c.Len())

	_, err = c.Get(ctx, "long")
	assert.NoError(t, err)
}

func TestMemoryCache_StopIsIdempotent(t *testing.T) {
	c := NewMemoryCache(zap.NewNop(), 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	c.Stop()
	c.Stop()
}

func TestMemoryCache_NonPositiveCleanupFrequency(t *testing.T) {
	for _, freq := range []time.Duration{0, -time.Second} {
		c := NewMemoryCache(zap.NewNop(), freq)
		assert.Equal(t, DefaultCleanupFrequency, c.cleanupFreq)
		c.Stop()
	}
}
