package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter_WindowResets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewMemoryRateLimiter()
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "u1", 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}

	ok, err := l.Allow(ctx, "u1", 5, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "u2", 5, time.Hour)
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Hour)
	ok, _ = l.Allow(ctx, "u1", 5, time.Hour)
	assert.True(t, ok, "window expired")
}

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "wallet:user:42", GenerateKey("wallet", "user", 42))
}
