package archive

import (
	"context"
	"fmt"

	"github.com/anvrv/business-keeper/types"
)

// Directory maps a business connection id to its owner account, creating the
// mapping lazily on the first observed event. The owner upsert is a single
// statement, so two near-simultaneous events for a brand-new connection
// settle on whichever wrote last.
type Directory struct {
	users types.UserStore
}

func NewDirectory(users types.UserStore) *Directory {
	return &Directory{users: users}
}

// Lookup resolves a connection id without creating anything.
func (d *Directory) Lookup(ctx context.Context, connectionID string) (*types.Owner, error) {
	return d.users.GetOwnerByConnection(ctx, connectionID)
}

// ResolveOrCreate returns the owner bound to connectionID, binding the
// candidate identity when the connection has never been seen.
func (d *Directory) ResolveOrCreate(ctx context.Context, connectionID string, candidateID int64, username, firstName string) (*types.Owner, error) {
	owner, err := d.users.GetOwnerByConnection(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("lookup connection %s: %w", connectionID, err)
	}
	if owner != nil {
		return owner, nil
	}

	owner = &types.Owner{
		UserID:       candidateID,
		Username:     username,
		FirstName:    firstName,
		ConnectionID: connectionID,
		IsActive:     true,
	}
	if err := d.users.UpsertOwner(ctx, *owner); err != nil {
		return nil, fmt.Errorf("create owner %d: %w", candidateID, err)
	}
	return owner, nil
}
