package archive

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot/models"

	"github.com/anvrv/business-keeper/internal/messages"
	"github.com/anvrv/business-keeper/internal/metrics"
	"github.com/anvrv/business-keeper/types"
)

// Engine archives inbound business messages and reconciles deletions.
type Engine struct {
	directory *Directory
	gate      *Gate
	media     *MediaStore
	archive   types.ArchiveStore
	tg        Transport
	log       *slog.Logger
	metrics   *metrics.Metrics
}

func NewEngine(directory *Directory, gate *Gate, media *MediaStore, archiveStore types.ArchiveStore, tg Transport, logger *slog.Logger, m *metrics.Metrics) *Engine {
	return &Engine{
		directory: directory,
		gate:      gate,
		media:     media,
		archive:   archiveStore,
		tg:        tg,
		log:       logger.With("component", "engine"),
		metrics:   m,
	}
}

// OnMessage handles one inbound business message: resolve the owner, check
// access, then either rescue one-time media the owner replied to or archive
// the message itself.
func (e *Engine) OnMessage(ctx context.Context, msg *models.Message) {
	if msg == nil || msg.BusinessConnectionID == "" {
		return
	}

	candidateID := msg.Chat.ID
	username, firstName := "", msg.Chat.FirstName
	if msg.From != nil {
		candidateID = msg.From.ID
		username = msg.From.Username
		firstName = msg.From.FirstName
	}

	owner, err := e.directory.ResolveOrCreate(ctx, msg.BusinessConnectionID, candidateID, username, firstName)
	if err != nil {
		e.log.Error("owner resolution failed", "connection_id", msg.BusinessConnectionID, "error", err)
		e.metrics.DroppedEvents.WithLabelValues("store_error").Inc()
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

	if e.captureRepliedProtected(ctx, owner.UserID, msg) {
		return
	}

	e.archiveAmbient(ctx, owner.UserID, msg)
}

// captureRepliedProtected rescues one-time media when the owner replies to a
// protected message carrying a photo or video. The archive row is keyed by
// the referenced message; the reply itself is not archived. Reports whether
// the rescue path consumed the event.
func (e *Engine) captureRepliedProtected(ctx context.Context, ownerID int64, msg *models.Message) bool {
	reply := msg.ReplyToMessage
	if reply == nil || !reply.HasProtectedContent {
		return false
	}
	if len(reply.Photo) == 0 && reply.Video == nil {
		return false
	}

	kind, path := e.media.Capture(ctx, reply, ownerID)
	if path == "" {
		// Download failed or was revoked; fall back to archiving the reply.
		return false
	}

	senderID, senderUsername := int64(0), ""
	senderName := msg.Chat.FirstName
	if reply.From != nil {
		senderID = reply.From.ID
		senderUsername = reply.From.Username
		senderName = reply.From.FirstName
	}

	inserted, err := e.archive.SaveMessage(ctx, types.ArchivedMessage{
		OwnerID:       ownerID,
		ChatID:        msg.Chat.ID,
		MessageID:     reply.ID,
		FromUserID:    senderID,
		FromUsername:  senderUsername,
		FromFirstName: senderName,
		Caption:       reply.Caption,
		MediaKind:     kind,
		MediaPath:     path,
		IsProtected:   true,
	})
	if err != nil {
		e.log.Error("protected capture save failed", "owner_id", ownerID, "message_id", reply.ID, "error", err)
		return true
	}
	if !inserted {
		e.log.Debug("protected capture already archived", "owner_id", ownerID, "message_id", reply.ID)
		return true
	}

	e.metrics.ProtectedCaptures.Inc()
	e.metrics.ArchivedMessages.WithLabelValues(string(kind)).Inc()

	if err := e.tg.SendText(ctx, ownerID, messages.ProtectedCaptured(kind, senderName, msg.Chat.FirstName)); err != nil {
		e.log.Warn("capture notification failed", "owner_id", ownerID, "error", err)
	}

	caption := messages.CapturedMediaCaption(senderName)
	switch kind {
	case types.MediaPhoto:
		err = e.tg.SendPhotoFile(ctx, ownerID, path, caption)
	case types.MediaVideo:
		err = e.tg.SendVideoFile(ctx, ownerID, path, caption)
	}
	if err != nil {
		e.log.Warn("captured media redelivery failed", "owner_id", ownerID, "error", err)
	}
	return true
}

// archiveAmbient persists the message itself. Media is only downloaded for
// unprotected content; protected messages are archived as metadata, since
// capturing ephemeral media without the reply gesture is out of scope.
func (e *Engine) archiveAmbient(ctx context.Context, ownerID int64, msg *models.Message) {
	protected := msg.HasProtectedContent

	kind, path := types.MediaNone, ""
	if !protected {
		kind, path = e.media.Capture(ctx, msg, ownerID)
	}

	senderID, senderUsername := int64(0), ""
	senderName := msg.Chat.FirstName
	if msg.From != nil {
		senderID = msg.From.ID
		senderUsername = msg.From.Username
		senderName = msg.From.FirstName
	}

	inserted, err := e.archive.SaveMessage(ctx, types.ArchivedMessage{
		OwnerID:       ownerID,
		ChatID:        msg.Chat.ID,
		MessageID:     msg.ID,
		FromUserID:    senderID,
		FromUsername:  senderUsername,
		FromFirstName: senderName,
		Text:          msg.Text,
		Caption:       msg.Caption,
		MediaKind:     kind,
		MediaPath:     path,
		IsProtected:   protected,
	})
	if err != nil {
		e.log.Error("archive save failed", "owner_id", ownerID, "chat_id", msg.Chat.ID, "message_id", msg.ID, "error", err)
		return
	}
	if !inserted {
		e.log.Debug("duplicate delivery ignored", "owner_id", ownerID, "chat_id", msg.Chat.ID, "message_id", msg.ID)
		return
	}

	e.metrics.ArchivedMessages.WithLabelValues(kindLabel(kind)).Inc()
}

func kindLabel(kind types.MediaKind) string {
	if kind == types.MediaNone {
		return "none"
	}
	return string(kind)
}
