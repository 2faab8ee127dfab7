package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/anvrv/business-keeper/internal/metrics"
	"github.com/anvrv/business-keeper/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *metrics.Metrics {
	return metrics.Registry("test")
}

type fakeUserStore struct {
	mu     sync.Mutex
	owners map[string]types.Owner
	subs   map[int64]time.Time
	admins map[int64]bool
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		owners: make(map[string]types.Owner),
		subs:   make(map[int64]time.Time),
		admins: make(map[int64]bool),
	}
}

func (s *fakeUserStore) UpsertOwner(_ context.Context, owner types.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners[owner.ConnectionID] = owner
	return nil
}

func (s *fakeUserStore) GetOwnerByConnection(_ context.Context, connectionID string) (*types.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.owners[connectionID]
	if !ok {
		return nil, nil
	}
	return &owner, nil
}

func (s *fakeUserStore) DeactivateOwnerByConnection(_ context.Context, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if owner, ok := s.owners[connectionID]; ok {
		owner.IsActive = false
		s.owners[connectionID] = owner
	}
	return nil
}

func (s *fakeUserStore) ListOwners(_ context.Context, limit int) ([]types.Owner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Owner, 0, len(s.owners))
	for _, o := range s.owners {
		out = append(out, o)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeUserStore) GetSubscription(_ context.Context, userID int64) (*types.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expiresAt, ok := s.subs[userID]
	if !ok {
		return nil, nil
	}
	return &types.Subscription{UserID: userID, ExpiresAt: expiresAt}, nil
}

func (s *fakeUserStore) UpsertSubscription(_ context.Context, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[userID] = expiresAt
	return nil
}

func (s *fakeUserStore) DeleteSubscription(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, userID)
	return nil
}

func (s *fakeUserStore) IsAdmin(_ context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admins[userID], nil
}

func (s *fakeUserStore) AddAdmin(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admins[userID] = true
	return nil
}

func (s *fakeUserStore) RemoveAdmin(_ context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.admins, userID)
	return nil
}

func (s *fakeUserStore) RecordPayment(_ context.Context, _ types.Payment) (bool, error) {
	return true, nil
}

func (s *fakeUserStore) OwnerStats(_ context.Context, _ int64) (*types.OwnerStats, error) {
	return &types.OwnerStats{}, nil
}

func (s *fakeUserStore) TotalStats(_ context.Context) (*types.TotalStats, error) {
	return &types.TotalStats{}, nil
}

type archiveKey struct {
	ownerID   int64
	chatID    int64
	messageID int
}

type fakeArchiveStore struct {
	mu   sync.Mutex
	rows []types.ArchivedMessage
	seen map[archiveKey]int
}

func newFakeArchiveStore() *fakeArchiveStore {
	return &fakeArchiveStore{seen: make(map[archiveKey]int)}
}

func (s *fakeArchiveStore) SaveMessage(_ context.Context, m types.ArchivedMessage) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := archiveKey{m.OwnerID, m.ChatID, m.MessageID}
	if _, ok := s.seen[key]; ok {
		return false, nil
	}
	s.seen[key] = len(s.rows)
	s.rows = append(s.rows, m)
	return true, nil
}

func (s *fakeArchiveStore) ListUndeleted(_ context.Context, ownerID, chatID int64, messageIDs []int) ([]types.ArchivedMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := make(map[int]bool, len(messageIDs))
	for _, id := range messageIDs {
		wanted[id] = true
	}
	var out []types.ArchivedMessage
	for _, row := range s.rows {
		if row.OwnerID == ownerID && row.ChatID == chatID && wanted[row.MessageID] && !row.IsDeleted {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *fakeArchiveStore) MarkDeleted(_ context.Context, ownerID, chatID int64, messageIDs []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range messageIDs {
		if idx, ok := s.seen[archiveKey{ownerID, chatID, id}]; ok {
			s.rows[idx].IsDeleted = true
		}
	}
	return nil
}

type sentText struct {
	chatID int64
	text   string
}

type sentFile struct {
	chatID  int64
	path    string
	caption string
}

type fakeTransport struct {
	mu        sync.Mutex
	texts     []sentText
	photos    []sentFile
	videos    []sentFile
	downloads []string

	failDownload bool
	failText     bool
}

func (t *fakeTransport) DownloadFile(_ context.Context, fileID, destPath string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failDownload {
		return errors.New("file revoked")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(destPath, []byte(fileID), 0o644); err != nil {
		return err
	}
	t.downloads = append(t.downloads, destPath)
	return nil
}

func (t *fakeTransport) SendText(_ context.Context, chatID int64, text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.failText {
		return fmt.Errorf("send to %d failed", chatID)
	}
	t.texts = append(t.texts, sentText{chatID: chatID, text: text})
	return nil
}

func (t *fakeTransport) SendPhotoFile(_ context.Context, chatID int64, path, caption string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.photos = append(t.photos, sentFile{chatID: chatID, path: path, caption: caption})
	return nil
}

func (t *fakeTransport) SendVideoFile(_ context.Context, chatID int64, path, caption string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.videos = append(t.videos, sentFile{chatID: chatID, path: path, caption: caption})
	return nil
}
