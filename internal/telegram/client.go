package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const ParseModeHTML = "HTML"

// Client adapts *bot.Bot to the narrow transport surface the archival core
// needs: download a file by id, send text and media to the owner.
type Client struct {
	b    *bot.Bot
	http *http.Client
}

func NewClient(b *bot.Bot) *Client {
	return &Client{
		b: b,
		http: &http.Client{
			Timeout: 2 * time.Minute,
		},
	}
}

// DownloadFile resolves a Telegram file id and streams its bytes to destPath.
// An expired or revoked file reference surfaces as an error from GetFile.
func (c *Client) DownloadFile(ctx context.Context, fileID, destPath string) error {
	fileInfo, err := c.b.GetFile(ctx, &bot.GetFileParams{
		FileID: fileID,
	})
	if err != nil {
		return fmt.Errorf("get file: %w", err)
	}
	if fileInfo.FilePath == "" {
		return fmt.Errorf("empty file path for %s", fileID)
	}

	fileURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", c.b.Token(), fileInfo.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = os.Remove(destPath)
		return err
	}
	return nil
}

func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := c.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: ParseModeHTML,
	})
	return err
}

func (c *Client) SendPhotoFile(ctx context.Context, chatID int64, path, caption string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = c.b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: filepath.Base(path),
			Data:     f,
		},
		Caption:   caption,
		ParseMode: ParseModeHTML,
	})
	return err
}

func (c *Client) SendVideoFile(ctx context.Context, chatID int64, path, caption string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = c.b.SendVideo(ctx, &bot.SendVideoParams{
		ChatID: chatID,
		Video: &models.InputFileUpload{
			Filename: filepath.Base(path),
			Data:     f,
		},
		Caption:   caption,
		ParseMode: ParseModeHTML,
	})
	return err
}
