package archive

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/anvrv/business-keeper/internal/metrics"
	"github.com/anvrv/business-keeper/types"
)

// MediaStore downloads message media into an owner-scoped directory. File
// names embed kind, chat id, message id and a capture timestamp so repeated
// captures after an id-space reset never collide.
type MediaStore struct {
	dir     string
	tg      Transport
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewMediaStore(dir string, tg Transport, logger *slog.Logger, m *metrics.Metrics) *MediaStore {
	return &MediaStore{
		dir:     dir,
		tg:      tg,
		log:     logger.With("component", "media"),
		metrics: m,
		now:     time.Now,
	}
}

// classifyMedia picks the single capture-eligible attachment of a message.
// Photos use the largest available variant.
func classifyMedia(msg *models.Message) (types.MediaKind, string) {
	switch {
	case len(msg.Photo) > 0:
		best := msg.Photo[0]
		for i := 1; i < len(msg.Photo); i++ {
			if msg.Photo[i].FileSize > best.FileSize {
				best = msg.Photo[i]
			}
		}
		return types.MediaPhoto, best.FileID
	case msg.Video != nil:
		return types.MediaVideo, msg.Video.FileID
	case msg.VideoNote != nil:
		return types.MediaVideoNote, msg.VideoNote.FileID
	case msg.Voice != nil:
		return types.MediaVoice, msg.Voice.FileID
	default:
		return types.MediaNone, ""
	}
}

// Capture downloads the message's media into the owner's storage area.
// A message without eligible media, or any download failure, yields
// (MediaNone, ""): a partial archive beats dropping the event.
func (m *MediaStore) Capture(ctx context.Context, msg *models.Message, ownerID int64) (types.MediaKind, string) {
	kind, fileID := classifyMedia(msg)
	if kind == types.MediaNone {
		return types.MediaNone, ""
	}

	fileName := fmt.Sprintf("%s_%d_%d_%d%s", kind, msg.Chat.ID, msg.ID, m.now().Unix(), kind.Ext())
	destPath := filepath.Join(m.dir, strconv.FormatInt(ownerID, 10), fileName)

	start := time.Now()
	if err := m.tg.DownloadFile(ctx, fileID, destPath); err != nil {
		m.metrics.MediaDownload.WithLabelValues("error").Observe(time.Since(start).Seconds())
		m.log.Warn("media download failed",
			"owner_id", ownerID, "chat_id", msg.Chat.ID, "message_id", msg.ID,
			"kind", kind, "error", err)
		return types.MediaNone, ""
	}
	m.metrics.MediaDownload.WithLabelValues("ok").Observe(time.Since(start).Seconds())

	return kind, destPath
}
