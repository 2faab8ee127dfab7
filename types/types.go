package types

import "time"

// Owner is a subscriber whose business chats are being archived. The
// connection id column is overwritten on reconnection, so only the most
// recent connection resolves to the owner.
type Owner struct {
	UserID       int64
	Username     string
	FirstName    string
	ConnectionID string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ArchivedMessage is an immutable snapshot of one inbound business message.
// Only IsDeleted ever changes after insert, and only from false to true.
type ArchivedMessage struct {
	ID            int64
	OwnerID       int64
	ChatID        int64
	MessageID     int
	FromUserID    int64
	FromUsername  string
	FromFirstName string
	Text          string
	Caption       string
	MediaKind     MediaKind
	MediaPath     string
	IsDeleted     bool
	IsProtected   bool
	CreatedAt     time.Time
}

type Subscription struct {
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Payment struct {
	UserID    int64
	Amount    int64
	Months    int
	PaymentID string
	Status    string
	CreatedAt time.Time
}

// OwnerStats is the per-owner archive breakdown shown in the stats menu.
type OwnerStats struct {
	Total     int64
	Deleted   int64
	Media     int64
	Protected int64
}

// TotalStats is the aggregate view for the admin panel.
type TotalStats struct {
	Owners     int64
	ActiveSubs int64
	Messages   int64
	Revenue    int64
}

// AdminState is the pending free-text prompt for one administrator.
type AdminState struct {
	AdminID   int64       `json:"admin_id"`
	Action    AdminAction `json:"action"`
	CreatedAt time.Time   `json:"created_at"`
}

// InvoiceToken ties an issued invoice payload to the user and term it was
// created for, so pre-checkout can reject payloads the bot never issued.
type InvoiceToken struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	Months    int       `json:"months"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}
