package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGateHasAccess(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no subscription", func(t *testing.T) {
		users := newFakeUserStore()
		g := NewGate(users)
		g.now = fixedClock(now)

		ok, err := g.HasAccess(ctx, 100)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("active subscription", func(t *testing.T) {
		users := newFakeUserStore()
		require.NoError(t, users.UpsertSubscription(ctx, 100, now.Add(time.Hour)))
		g := NewGate(users)
		g.now = fixedClock(now)

		ok, err := g.HasAccess(ctx, 100)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired subscription", func(t *testing.T) {
		users := newFakeUserStore()
		require.NoError(t, users.UpsertSubscription(ctx, 100, now.Add(-time.Minute)))
		g := NewGate(users)
		g.now = fixedClock(now)

		ok, err := g.HasAccess(ctx, 100)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("admin bypasses subscription", func(t *testing.T) {
		users := newFakeUserStore()
		require.NoError(t, users.AddAdmin(ctx, 100))
		g := NewGate(users)
		g.now = fixedClock(now)

		ok, err := g.HasAccess(ctx, 100)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestGateGrant(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh grant starts now", func(t *testing.T) {
		users := newFakeUserStore()
		g := NewGate(users)
		g.now = fixedClock(now)

		until, err := g.Grant(ctx, 100, 1)
		require.NoError(t, err)
		assert.Equal(t, now.Add(30*24*time.Hour), until)
	})

	t.Run("unexpired term extends from expiry", func(t *testing.T) {
		users := newFakeUserStore()
		expiry := now.Add(10 * 24 * time.Hour)
		require.NoError(t, users.UpsertSubscription(ctx, 100, expiry))
		g := NewGate(users)
		g.now = fixedClock(now)

		until, err := g.Grant(ctx, 100, 2)
		require.NoError(t, err)
		assert.Equal(t, expiry.Add(60*24*time.Hour), until)
	})

	t.Run("expired term restarts from now", func(t *testing.T) {
		users := newFakeUserStore()
		require.NoError(t, users.UpsertSubscription(ctx, 100, now.Add(-24*time.Hour)))
		g := NewGate(users)
		g.now = fixedClock(now)

		until, err := g.Grant(ctx, 100, 3)
		require.NoError(t, err)
		assert.Equal(t, now.Add(90*24*time.Hour), until)
	})

	t.Run("grant persists the new expiry", func(t *testing.T) {
		users := newFakeUserStore()
		g := NewGate(users)
		g.now = fixedClock(now)

		until, err := g.Grant(ctx, 100, 1)
		require.NoError(t, err)

		sub, err := users.GetSubscription(ctx, 100)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, until, sub.ExpiresAt)
	})
}

func TestGateRevoke(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	users := newFakeUserStore()
	require.NoError(t, users.UpsertSubscription(ctx, 100, now.Add(time.Hour)))
	g := NewGate(users)
	g.now = fixedClock(now)

	require.NoError(t, g.Revoke(ctx, 100))
	ok, err := g.HasAccess(ctx, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	// Revoking again is a no-op.
	require.NoError(t, g.Revoke(ctx, 100))
}
