package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/anvrv/business-keeper/migrations"
	"github.com/anvrv/business-keeper/types"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		dsn = buildPostgresDSNFromEnv()
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func buildPostgresDSNFromEnv() string {
	host := strings.TrimSpace(os.Getenv("POSTGRES_HOST"))
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(os.Getenv("POSTGRES_PORT"))
	if port == "" {
		port = "5432"
	}
	db := strings.TrimSpace(os.Getenv("POSTGRES_DB"))
	if db == "" {
		db = "business_keeper"
	}
	user := strings.TrimSpace(os.Getenv("POSTGRES_USER"))
	if user == "" {
		user = "business_keeper"
	}
	pass := os.Getenv("POSTGRES_PASSWORD")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", urlEscape(user), urlEscape(pass), host, port, db)
}

func urlEscape(s string) string {
	r := strings.NewReplacer(
		"%", "%25",
		":", "%3A",
		"/", "%2F",
		"@", "%40",
		"?", "%3F",
		"#", "%23",
		"[", "%5B",
		"]", "%5D",
	)
	return r.Replace(s)
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()

	goose.SetBaseFS(migrations.Files)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, 5*time.Second)
}

func (s *PostgresStore) UpsertOwner(ctx context.Context, owner types.Owner) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO owners (user_id, username, first_name, business_connection_id, is_active)
VALUES ($1, $2, $3, $4, TRUE)
ON CONFLICT (user_id) DO UPDATE SET
  username = EXCLUDED.username,
  first_name = EXCLUDED.first_name,
  business_connection_id = EXCLUDED.business_connection_id,
  is_active = TRUE,
  updated_at = NOW();
`, owner.UserID, strings.TrimSpace(owner.Username), strings.TrimSpace(owner.FirstName), strings.TrimSpace(owner.ConnectionID))
	return err
}

func (s *PostgresStore) GetOwnerByConnection(ctx context.Context, connectionID string) (*types.Owner, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var o types.Owner
	err := s.pool.QueryRow(ctx, `
SELECT user_id, username, first_name, business_connection_id, is_active, created_at, updated_at
FROM owners
WHERE business_connection_id = $1
`, connectionID).Scan(&o.UserID, &o.Username, &o.FirstName, &o.ConnectionID, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *PostgresStore) DeactivateOwnerByConnection(ctx context.Context, connectionID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
UPDATE owners SET is_active = FALSE, updated_at = NOW()
WHERE business_connection_id = $1
`, connectionID)
	return err
}

func (s *PostgresStore) ListOwners(ctx context.Context, limit int) ([]types.Owner, error) {
	if limit <= 0 {
		limit = 10
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, `
SELECT user_id, username, first_name, business_connection_id, is_active, created_at, updated_at
FROM owners
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var owners []types.Owner
	for rows.Next() {
		var o types.Owner
		if err := rows.Scan(&o.UserID, &o.Username, &o.FirstName, &o.ConnectionID, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		owners = append(owners, o)
	}
	return owners, rows.Err()
}

func (s *PostgresStore) SaveMessage(ctx context.Context, m types.ArchivedMessage) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `
INSERT INTO archived_messages (
  owner_id, chat_id, message_id, from_user_id, from_username,
  from_first_name, text, caption, media_kind, media_path, is_protected
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (owner_id, chat_id, message_id) DO NOTHING
`, m.OwnerID, m.ChatID, m.MessageID, m.FromUserID, strings.TrimSpace(m.FromUsername),
		strings.TrimSpace(m.FromFirstName), m.Text, m.Caption, string(m.MediaKind), m.MediaPath, m.IsProtected)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListUndeleted(ctx context.Context, ownerID, chatID int64, messageIDs []int) ([]types.ArchivedMessage, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	rows, err := s.pool.Query(ctx, `
SELECT id, owner_id, chat_id, message_id, from_user_id, from_username,
       from_first_name, text, caption, media_kind, media_path, is_deleted,
       is_protected, created_at
FROM archived_messages
WHERE owner_id = $1 AND chat_id = $2 AND message_id = ANY($3) AND is_deleted = FALSE
ORDER BY id
`, ownerID, chatID, toInt64s(messageIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []types.ArchivedMessage
	for rows.Next() {
		var m types.ArchivedMessage
		var kind string
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.ChatID, &m.MessageID, &m.FromUserID, &m.FromUsername,
			&m.FromFirstName, &m.Text, &m.Caption, &kind, &m.MediaPath, &m.IsDeleted,
			&m.IsProtected, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.MediaKind = types.MediaKind(kind)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (s *PostgresStore) MarkDeleted(ctx context.Context, ownerID, chatID int64, messageIDs []int) error {
	if len(messageIDs) == 0 {
		return nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
UPDATE archived_messages SET is_deleted = TRUE
WHERE owner_id = $1 AND chat_id = $2 AND message_id = ANY($3)
`, ownerID, chatID, toInt64s(messageIDs))
	return err
}

func toInt64s(ids []int) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		out = append(out, int64(id))
	}
	return out
}

func (s *PostgresStore) GetSubscription(ctx context.Context, userID int64) (*types.Subscription, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var sub types.Subscription
	err := s.pool.QueryRow(ctx, `
SELECT user_id, expires_at, created_at, updated_at
FROM subscriptions
WHERE user_id = $1
`, userID).Scan(&sub.UserID, &sub.ExpiresAt, &sub.CreatedAt, &sub.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *PostgresStore) UpsertSubscription(ctx context.Context, userID int64, expiresAt time.Time) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO subscriptions (user_id, expires_at)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET
  expires_at = EXCLUDED.expires_at,
  updated_at = NOW();
`, userID, expiresAt)
	return err
}

func (s *PostgresStore) DeleteSubscription(ctx context.Context, userID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.pool.Exec(ctx, `DELETE FROM subscriptions WHERE user_id = $1`, userID)
	return err
}

func (s *PostgresStore) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var ok bool
	err := s.pool.QueryRow(ctx, `
SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = $1)
`, userID).Scan(&ok)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (s *PostgresStore) AddAdmin(ctx context.Context, userID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO admins (user_id) VALUES ($1)
ON CONFLICT (user_id) DO NOTHING
`, userID)
	return err
}

func (s *PostgresStore) RemoveAdmin(ctx context.Context, userID int64) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	_, err := s.pool.Exec(ctx, `DELETE FROM admins WHERE user_id = $1`, userID)
	return err
}

func (s *PostgresStore) RecordPayment(ctx context.Context, p types.Payment) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	tag, err := s.pool.Exec(ctx, `
INSERT INTO payments (user_id, amount, months, payment_id, status)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (payment_id) DO NOTHING
`, p.UserID, p.Amount, p.Months, strings.TrimSpace(p.PaymentID), strings.TrimSpace(p.Status))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) OwnerStats(ctx context.Context, ownerID int64) (*types.OwnerStats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var st types.OwnerStats
	err := s.pool.QueryRow(ctx, `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE is_deleted),
       COUNT(*) FILTER (WHERE media_kind <> ''),
       COUNT(*) FILTER (WHERE is_protected)
FROM archived_messages
WHERE owner_id = $1
`, ownerID).Scan(&st.Total, &st.Deleted, &st.Media, &st.Protected)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *PostgresStore) TotalStats(ctx context.Context) (*types.TotalStats, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	var st types.TotalStats
	err := s.pool.QueryRow(ctx, `
SELECT (SELECT COUNT(*) FROM owners),
       (SELECT COUNT(*) FROM subscriptions WHERE expires_at > NOW()),
       (SELECT COUNT(*) FROM archived_messages),
       (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status = 'paid')
`).Scan(&st.Owners, &st.ActiveSubs, &st.Messages, &st.Revenue)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
