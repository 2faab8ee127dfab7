package archive

import "context"

// Transport is the slice of the messaging platform the archival core uses.
// The production implementation wraps the Telegram bot client; tests use a
// fake that records sends and fabricates downloads.
type Transport interface {
	DownloadFile(ctx context.Context, fileID, destPath string) error
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhotoFile(ctx context.Context, chatID int64, path, caption string) error
	SendVideoFile(ctx context.Context, chatID int64, path, caption string) error
}
