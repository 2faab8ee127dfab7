package archive

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvrv/business-keeper/types"
)

type engineEnv struct {
	users  *fakeUserStore
	rows   *fakeArchiveStore
	tg     *fakeTransport
	engine *Engine
}

func newEngineEnv(t *testing.T) *engineEnv {
	t.Helper()
	users := newFakeUserStore()
	rows := newFakeArchiveStore()
	tg := &fakeTransport{}

	gate := NewGate(users)
	gate.now = fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	media := NewMediaStore(t.TempDir(), tg, testLogger(), testMetrics())
	engine := NewEngine(NewDirectory(users), gate, media, rows, tg, testLogger(), testMetrics())

	return &engineEnv{users: users, rows: rows, tg: tg, engine: engine}
}

// subscribeOwner binds connection "conn-1" to owner 42 with an active term.
func (env *engineEnv) subscribeOwner(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, env.users.UpsertOwner(ctx, types.Owner{
		UserID: 42, ConnectionID: "conn-1", FirstName: "Alice", IsActive: true,
	}))
	require.NoError(t, env.users.UpsertSubscription(ctx, 42, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)))
}

func inboundText(id int, text string) *models.Message {
	return &models.Message{
		ID:                   id,
		BusinessConnectionID: "conn-1",
		Chat:                 models.Chat{ID: 555, FirstName: "Bob"},
		From:                 &models.User{ID: 900, Username: "bob", FirstName: "Bob"},
		Text:                 text,
	}
}

func TestEngineOnMessageUnauthorized(t *testing.T) {
	env := newEngineEnv(t)
	// Connection resolves lazily; the candidate has no subscription.
	env.engine.OnMessage(context.Background(), inboundText(1, "hello"))

	assert.Empty(t, env.rows.rows)
	assert.Empty(t, env.tg.texts)
}

func TestEngineOnMessageArchivesText(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)

	env.engine.OnMessage(context.Background(), inboundText(1, "hello"))

	require.Len(t, env.rows.rows, 1)
	row := env.rows.rows[0]
	assert.Equal(t, int64(42), row.OwnerID)
	assert.Equal(t, int64(555), row.ChatID)
	assert.Equal(t, 1, row.MessageID)
	assert.Equal(t, "hello", row.Text)
	assert.Equal(t, "Bob", row.FromFirstName)
	assert.Equal(t, types.MediaNone, row.MediaKind)
	assert.False(t, row.IsProtected)
}

func TestEngineOnMessageArchivesPhoto(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)

	msg := inboundText(2, "")
	msg.Caption = "look"
	msg.Photo = []models.PhotoSize{{FileID: "photo-1", FileSize: 100}}
	env.engine.OnMessage(context.Background(), msg)

	require.Len(t, env.rows.rows, 1)
	row := env.rows.rows[0]
	assert.Equal(t, types.MediaPhoto, row.MediaKind)
	assert.NotEmpty(t, row.MediaPath)
	assert.Equal(t, "look", row.Caption)
	assert.Len(t, env.tg.downloads, 1)
}

func TestEngineOnMessageProtectedMetadataOnly(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)

	msg := inboundText(3, "")
	msg.HasProtectedContent = true
	msg.Photo = []models.PhotoSize{{FileID: "photo-1", FileSize: 100}}
	env.engine.OnMessage(context.Background(), msg)

	require.Len(t, env.rows.rows, 1)
	row := env.rows.rows[0]
	assert.True(t, row.IsProtected)
	assert.Equal(t, types.MediaNone, row.MediaKind)
	assert.Empty(t, row.MediaPath)
	assert.Empty(t, env.tg.downloads)
}

func TestEngineOnMessageDuplicateDelivery(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)

	env.engine.OnMessage(context.Background(), inboundText(4, "once"))
	env.engine.OnMessage(context.Background(), inboundText(4, "once"))

	assert.Len(t, env.rows.rows, 1)
}

func TestEngineReplyRescue(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)

	reply := &models.Message{
		ID:                  10,
		HasProtectedContent: true,
		From:                &models.User{ID: 900, Username: "bob", FirstName: "Bob"},
		Photo:               []models.PhotoSize{{FileID: "secret", FileSize: 100}},
	}
	msg := inboundText(11, "")
	msg.From = &models.User{ID: 42, Username: "alice", FirstName: "Alice"}
	msg.ReplyToMessage = reply
	env.engine.OnMessage(context.Background(), msg)

	// The row is keyed by the referenced message, not the reply itself.
	require.Len(t, env.rows.rows, 1)
	row := env.rows.rows[0]
	assert.Equal(t, 10, row.MessageID)
	assert.True(t, row.IsProtected)
	assert.Equal(t, types.MediaPhoto, row.MediaKind)
	assert.NotEmpty(t, row.MediaPath)

	require.Len(t, env.tg.texts, 1)
	assert.Equal(t, int64(42), env.tg.texts[0].chatID)
	require.Len(t, env.tg.photos, 1)
	assert.Equal(t, row.MediaPath, env.tg.photos[0].path)
}

func TestEngineReplyRescueDownloadFailure(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)
	env.tg.failDownload = true

	reply := &models.Message{
		ID:                  10,
		HasProtectedContent: true,
		Photo:               []models.PhotoSize{{FileID: "secret", FileSize: 100}},
	}
	msg := inboundText(11, "saw it too late")
	msg.ReplyToMessage = reply
	env.engine.OnMessage(context.Background(), msg)

	// The rescue could not capture anything, so the reply itself is archived.
	require.Len(t, env.rows.rows, 1)
	assert.Equal(t, 11, env.rows.rows[0].MessageID)
	assert.Empty(t, env.tg.photos)
}

func TestEngineReplyToUnprotectedIsAmbient(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)

	reply := &models.Message{
		ID:    10,
		Photo: []models.PhotoSize{{FileID: "regular", FileSize: 100}},
	}
	msg := inboundText(11, "nice photo")
	msg.ReplyToMessage = reply
	env.engine.OnMessage(context.Background(), msg)

	require.Len(t, env.rows.rows, 1)
	assert.Equal(t, 11, env.rows.rows[0].MessageID)
}
