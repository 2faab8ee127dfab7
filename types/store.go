package types

import (
	"context"
	"time"
)

// UserStore persists owners, subscriptions, admins and payments.
type UserStore interface {
	UpsertOwner(ctx context.Context, owner Owner) error
	GetOwnerByConnection(ctx context.Context, connectionID string) (*Owner, error)
	DeactivateOwnerByConnection(ctx context.Context, connectionID string) error
	ListOwners(ctx context.Context, limit int) ([]Owner, error)

	GetSubscription(ctx context.Context, userID int64) (*Subscription, error)
	UpsertSubscription(ctx context.Context, userID int64, expiresAt time.Time) error
	DeleteSubscription(ctx context.Context, userID int64) error

	IsAdmin(ctx context.Context, userID int64) (bool, error)
	AddAdmin(ctx context.Context, userID int64) error
	RemoveAdmin(ctx context.Context, userID int64) error

	RecordPayment(ctx context.Context, p Payment) (inserted bool, err error)

	OwnerStats(ctx context.Context, ownerID int64) (*OwnerStats, error)
	TotalStats(ctx context.Context) (*TotalStats, error)
}

// ArchiveStore persists archived message snapshots.
type ArchiveStore interface {
	// SaveMessage inserts a snapshot. It reports false when a row for the
	// same (owner, chat, message id) already exists.
	SaveMessage(ctx context.Context, m ArchivedMessage) (inserted bool, err error)

	// ListUndeleted returns archived rows for the given ids that have not
	// been marked deleted yet, in insertion order.
	ListUndeleted(ctx context.Context, ownerID, chatID int64, messageIDs []int) ([]ArchivedMessage, error)

	MarkDeleted(ctx context.Context, ownerID, chatID int64, messageIDs []int) error
}

// StateStore keeps short-lived conversational state: admin prompts and
// outstanding invoice tokens.
type StateStore interface {
	SetAdminState(adminID int64, action AdminAction) error
	GetAdminState(adminID int64) (*AdminState, error)
	ClearAdminState(adminID int64) error

	PutInvoiceToken(t InvoiceToken) error
	GetInvoiceToken(token string) (*InvoiceToken, error)
	DeleteInvoiceToken(token string) error
}
