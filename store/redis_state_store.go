package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/anvrv/business-keeper/types"
)

// RedisStateStore keeps the short-lived pieces of conversational state:
// which admin is awaiting a free-text reply, and which invoice tokens are
// outstanding. Both expire on their own so an abandoned prompt or an unpaid
// invoice never needs cleanup.
type RedisStateStore struct {
	client *RedisClient
	ttl    time.Duration
}

func NewRedisStateStore(redisClient *RedisClient, ttlHours int) *RedisStateStore {
	ttl := time.Duration(ttlHours) * time.Hour
	if ttlHours <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStateStore{
		client: redisClient,
		ttl:    ttl,
	}
}

func (s *RedisStateStore) SetAdminState(adminID int64, action types.AdminAction) error {
	key := s.client.generateKey("admin_state", fmt.Sprintf("%d", adminID))
	return s.client.Set(key, types.AdminState{
		AdminID:   adminID,
		Action:    action,
		CreatedAt: time.Now().UTC(),
	}, s.ttl)
}

func (s *RedisStateStore) GetAdminState(adminID int64) (*types.AdminState, error) {
	key := s.client.generateKey("admin_state", fmt.Sprintf("%d", adminID))
	var st types.AdminState
	if err := s.client.Get(key, &st); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (s *RedisStateStore) ClearAdminState(adminID int64) error {
	key := s.client.generateKey("admin_state", fmt.Sprintf("%d", adminID))
	return s.client.Del(key)
}

func (s *RedisStateStore) PutInvoiceToken(t types.InvoiceToken) error {
	key := s.client.generateKey("invoice", t.Token)
	return s.client.Set(key, t, s.ttl)
}

func (s *RedisStateStore) GetInvoiceToken(token string) (*types.InvoiceToken, error) {
	key := s.client.generateKey("invoice", token)
	var t types.InvoiceToken
	if err := s.client.Get(key, &t); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *RedisStateStore) DeleteInvoiceToken(token string) error {
	key := s.client.generateKey("invoice", token)
	return s.client.Del(key)
}
