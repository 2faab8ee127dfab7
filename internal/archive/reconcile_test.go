package archive

import (
	"context"
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deletedEvent(ids ...int) *models.BusinessMessagesDeleted {
	return &models.BusinessMessagesDeleted{
		BusinessConnectionID: "conn-1",
		Chat:                 models.Chat{ID: 555, FirstName: "Bob"},
		MessageIDs:           ids,
	}
}

func TestOnDeletedUnknownConnection(t *testing.T) {
	env := newEngineEnv(t)

	env.engine.OnDeleted(context.Background(), deletedEvent(1, 2))

	assert.Empty(t, env.tg.texts)
}

func TestOnDeletedNeverArchived(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)

	// Nothing was archived for these ids, so the owner hears nothing.
	env.engine.OnDeleted(context.Background(), deletedEvent(1, 2, 3))

	assert.Empty(t, env.tg.texts)
}

func TestOnDeletedReplaysArchivedSubset(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)
	ctx := context.Background()

	env.engine.OnMessage(ctx, inboundText(1, "first"))
	env.engine.OnMessage(ctx, inboundText(2, "second"))
	env.engine.OnMessage(ctx, inboundText(3, "third"))

	// id 99 was never archived; ids 1 and 3 were.
	env.engine.OnDeleted(ctx, deletedEvent(1, 3, 99))

	// Summary plus one replay per archived row.
	require.Len(t, env.tg.texts, 3)
	assert.Contains(t, env.tg.texts[0].text, "2")
	assert.Contains(t, env.tg.texts[1].text, "first")
	assert.Contains(t, env.tg.texts[2].text, "third")

	// The marked rows are gone from a second reconciliation.
	env.tg.texts = nil
	env.engine.OnDeleted(ctx, deletedEvent(1, 3))
	assert.Empty(t, env.tg.texts)
}

func TestOnDeletedReplaysMedia(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)
	ctx := context.Background()

	msg := inboundText(5, "")
	msg.Photo = []models.PhotoSize{{FileID: "pic", FileSize: 100}}
	env.engine.OnMessage(ctx, msg)
	require.Len(t, env.tg.downloads, 1)

	env.engine.OnDeleted(ctx, deletedEvent(5))

	require.Len(t, env.tg.photos, 1)
	assert.Equal(t, env.tg.downloads[0], env.tg.photos[0].path)
	assert.Equal(t, int64(42), env.tg.photos[0].chatID)
}

func TestOnDeletedSendFailureDoesNotAbortBatch(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)
	ctx := context.Background()

	msg := inboundText(6, "")
	msg.Photo = []models.PhotoSize{{FileID: "pic", FileSize: 100}}
	env.engine.OnMessage(ctx, msg)
	env.engine.OnMessage(ctx, inboundText(7, "text"))

	env.tg.failText = true
	env.engine.OnDeleted(ctx, deletedEvent(6, 7))

	// Text sends failed, but the media replay still went out.
	assert.Len(t, env.tg.photos, 1)
}

func TestOnDeletedChunksLongText(t *testing.T) {
	env := newEngineEnv(t)
	env.subscribeOwner(t)
	ctx := context.Background()

	long := strings.Repeat("ж", replayChunkSize+1)
	env.engine.OnMessage(ctx, inboundText(8, long))

	env.engine.OnDeleted(ctx, deletedEvent(8))

	// Summary, then two chunk messages.
	require.Len(t, env.tg.texts, 3)
	assert.Contains(t, env.tg.texts[1].text, "[1/2]")
	assert.Contains(t, env.tg.texts[2].text, "[2/2]")
}

func TestChunkText(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello"}, chunkText("hello", 10))
	})

	t.Run("exact boundary", func(t *testing.T) {
		assert.Equal(t, []string{"abcd"}, chunkText("abcd", 4))
	})

	t.Run("splits on rune boundaries", func(t *testing.T) {
		chunks := chunkText("привет", 4)
		require.Len(t, chunks, 2)
		assert.Equal(t, "прив", chunks[0])
		assert.Equal(t, "ет", chunks[1])
	})

	t.Run("uneven tail", func(t *testing.T) {
		assert.Equal(t, []string{"ab", "cd", "e"}, chunkText("abcde", 2))
	})
}
