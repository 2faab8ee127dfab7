package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/anvrv/business-keeper/types"
)

// A subscription month is a fixed 30-day term.
const monthTerm = 30 * 24 * time.Hour

// Gate decides whether an owner currently holds archival privileges.
// Administrators pass unconditionally; everyone else needs an unexpired
// subscription. The check runs fresh on every gated event, so a lapse takes
// effect immediately.
type Gate struct {
	users types.UserStore
	now   func() time.Time
}

func NewGate(users types.UserStore) *Gate {
	return &Gate{users: users, now: time.Now}
}

func (g *Gate) HasAccess(ctx context.Context, ownerID int64) (bool, error) {
	admin, err := g.users.IsAdmin(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("admin check for %d: %w", ownerID, err)
	}
	if admin {
		return true, nil
	}

	sub, err := g.users.GetSubscription(ctx, ownerID)
	if err != nil {
		return false, fmt.Errorf("subscription check for %d: %w", ownerID, err)
	}
	if sub == nil {
		return false, nil
	}
	return sub.ExpiresAt.After(g.now()), nil
}

// Grant adds months to an owner's subscription. An unexpired term is
// extended from its current expiry; otherwise the new term starts now.
func (g *Gate) Grant(ctx context.Context, ownerID int64, months int) (time.Time, error) {
	now := g.now()
	base := now
	sub, err := g.users.GetSubscription(ctx, ownerID)
	if err != nil {
		return time.Time{}, fmt.Errorf("grant lookup for %d: %w", ownerID, err)
	}
	if sub != nil && sub.ExpiresAt.After(now) {
		base = sub.ExpiresAt
	}

	expiresAt := base.Add(time.Duration(months) * monthTerm)
	if err := g.users.UpsertSubscription(ctx, ownerID, expiresAt); err != nil {
		return time.Time{}, fmt.Errorf("grant upsert for %d: %w", ownerID, err)
	}
	return expiresAt, nil
}

// Revoke deletes the owner's subscription row. Revoking an owner without a
// subscription is a no-op.
func (g *Gate) Revoke(ctx context.Context, ownerID int64) error {
	return g.users.DeleteSubscription(ctx, ownerID)
}
