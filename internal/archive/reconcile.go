package archive

import (
	"context"
	"os"

	"github.com/go-telegram/bot/models"

	"github.com/anvrv/business-keeper/internal/messages"
	"github.com/anvrv/business-keeper/types"
)

// Outbound texts are split into segments of at most this many runes.
const replayChunkSize = 4000

// OnDeleted reconciles a batch deletion notification: previously archived
// rows among the deleted ids are marked deleted and their content is
// replayed to the owner. Deletions of messages never archived produce no
// notification at all.
func (e *Engine) OnDeleted(ctx context.Context, ev *models.BusinessMessagesDeleted) {
	if ev == nil || len(ev.MessageIDs) == 0 {
		return
	}

	owner, err := e.directory.Lookup(ctx, ev.BusinessConnectionID)
	if err != nil {
		e.log.Error("owner lookup failed", "connection_id", ev.BusinessConnectionID, "error", err)
		e.metrics.DroppedEvents.WithLabelValues("store_error").Inc()
		return
	}
	if owner == nil {
		e.metrics.DroppedEvents.WithLabelValues("unknown_connection").Inc()
		return
	}

	ok, err := e.gate.HasAccess(ctx, owner.UserID)
	if err != nil {
		e.log.Error("access check failed", "owner_id", owner.UserID, "error", err)
		e.metrics.DroppedEvents.WithLabelValues("store_error").Inc()
		return
	}
	if !ok {
		e.metrics.DroppedEvents.WithLabelValues("unauthorized").Inc()
		return
	}

	deleted, err := e.archive.ListUndeleted(ctx, owner.UserID, ev.Chat.ID, ev.MessageIDs)
	if err != nil {
		e.log.Error("deleted lookup failed", "owner_id", owner.UserID, "chat_id", ev.Chat.ID, "error", err)
		return
	}
	if err := e.archive.MarkDeleted(ctx, owner.UserID, ev.Chat.ID, ev.MessageIDs); err != nil {
		e.log.Error("mark deleted failed", "owner_id", owner.UserID, "chat_id", ev.Chat.ID, "error", err)
		return
	}
	if len(deleted) == 0 {
		return
	}

	e.metrics.DeletionsMarked.Add(float64(len(deleted)))

	if err := e.tg.SendText(ctx, owner.UserID, messages.DeletedSummary(len(deleted), ev.Chat.FirstName)); err != nil {
		e.log.Warn("deletion summary send failed", "owner_id", owner.UserID, "error", err)
	}

	for _, msg := range deleted {
		e.replayRow(ctx, owner.UserID, msg)
	}
}

// replayRow re-emits one archived row. Send failures are logged and skipped
// so one bad row never aborts the rest of the batch.
func (e *Engine) replayRow(ctx context.Context, ownerID int64, msg types.ArchivedMessage) {
	if msg.Text != "" {
		chunks := chunkText(msg.Text, replayChunkSize)
		if len(chunks) == 1 {
			if err := e.tg.SendText(ctx, ownerID, messages.DeletedText(msg.FromFirstName, msg.Text)); err != nil {
				e.log.Warn("text replay failed", "owner_id", ownerID, "message_id", msg.MessageID, "error", err)
			}
		} else {
			for i, chunk := range chunks {
				if err := e.tg.SendText(ctx, ownerID, messages.DeletedTextChunk(msg.FromFirstName, chunk, i+1, len(chunks))); err != nil {
					e.log.Warn("text replay failed", "owner_id", ownerID, "message_id", msg.MessageID, "chunk", i+1, "error", err)
				}
			}
		}
		e.metrics.ReplayedMessages.WithLabelValues("text").Inc()
	}

	if msg.MediaPath == "" {
		return
	}
	if _, err := os.Stat(msg.MediaPath); err != nil {
		e.log.Warn("replay media missing", "owner_id", ownerID, "path", msg.MediaPath)
		return
	}

	caption := messages.DeletedMediaCaption(msg.FromFirstName)
	var err error
	switch msg.MediaKind {
	case types.MediaPhoto:
		err = e.tg.SendPhotoFile(ctx, ownerID, msg.MediaPath, caption)
	case types.MediaVideo:
		err = e.tg.SendVideoFile(ctx, ownerID, msg.MediaPath, caption)
	default:
		return
	}
	if err != nil {
		e.log.Warn("media replay failed", "owner_id", ownerID, "message_id", msg.MessageID, "error", err)
		return
	}
	e.metrics.ReplayedMessages.WithLabelValues("media").Inc()
}

// chunkText splits s into rune-safe segments of at most size runes.
func chunkText(s string, size int) []string {
	runes := []rune(s)
	if len(runes) <= size {
		return []string{s}
	}
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
