package mem

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryOtpStoreCodeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOtpStore()

	require.NoError(t, s.SaveOtp(ctx, "a@b.c", "123456", time.Minute))

	ok, err := s.ConsumeOtp(ctx, "a@b.c", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, _ = s.ConsumeOtp(ctx, "a@b.c", "123456")
	assert.True(t, ok)

	ok, _ = s.ConsumeOtp(ctx, "a@b.c", "123456")
	assert.False(t, ok)
}

func TestMemoryOtpStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOtpStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.SaveOtp(ctx, "k", "111111", 5*time.Minute))
	require.NoError(t, s.MarkVerified(ctx, "v", time.Minute))

	now = now.Add(6 * time.Minute)

	ok, _ := s.ConsumeOtp(ctx, "k", "111111")
	assert.False(t, ok)
	ok, _ = s.ConsumeVerified(ctx, "v")
	assert.False(t, ok)
}

func TestMemoryOtpStoreCooldown(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOtpStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	ok, _ := s.AcquireCooldown(ctx, "k", time.Minute)
	assert.True(t, ok)
	ok, _ = s.AcquireCooldown(ctx, "k", time.Minute)
	assert.False(t, ok)

	now = now.Add(61 * time.Second)
	ok, _ = s.AcquireCooldown(ctx, "k", time.Minute)
	assert.True(t, ok)
}

func TestMemoryOtpStoreVerifiedMarkIsConsumed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryOtpStore()

	require.NoError(t, s.MarkVerified(ctx, "k", time.Minute))
	ok, _ := s.ConsumeVerified(ctx, "k")
	assert.True(t, ok)
	ok, _ = s.ConsumeVerified(ctx, "k")
	assert.False(t, ok)
}
