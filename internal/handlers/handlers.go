package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvrv/business-keeper/internal/archive"
	"github.com/anvrv/business-keeper/internal/messages"
	"github.com/anvrv/business-keeper/internal/metrics"
	"github.com/anvrv/business-keeper/types"
)

// Handlers serves the non-business surface: commands, menu callbacks,
// payments and the admin panel. The business-update pipeline lives in the
// archive engine.
type Handlers struct {
	users     types.UserStore
	state     types.StateStore
	gate      *archive.Gate
	directory *archive.Directory
	log       *slog.Logger
	metrics   *metrics.Metrics
}

func NewHandlers(users types.UserStore, state types.StateStore, gate *archive.Gate, directory *archive.Directory, logger *slog.Logger, m *metrics.Metrics) *Handlers {
	return &Handlers{
		users:     users,
		state:     state,
		gate:      gate,
		directory: directory,
		log:       logger.With("component", "handlers"),
		metrics:   m,
	}
}

// OnMessage handles direct (non-business) messages: payment confirmations,
// commands and pending admin prompts.
func (h *Handlers) OnMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.SuccessfulPayment != nil {
		h.handleSuccessfulPayment(ctx, b, msg)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		h.handleCommand(ctx, b, msg, text)
		return
	}

	h.handleAdminInput(ctx, b, msg, text)
}

func (h *Handlers) handleCommand(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	cmd := strings.Fields(text)[0]
	if i := strings.Index(cmd, "@"); i >= 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start":
		isAdmin, _ := h.users.IsAdmin(ctx, msg.From.ID)
		hasAccess, _ := h.gate.HasAccess(ctx, msg.From.ID)
		h.sendHTML(ctx, b, msg.Chat.ID, messages.StartWelcome(hasAccess, isAdmin), h.mainMenuKeyboard(isAdmin))
	case "/menu":
		isAdmin, _ := h.users.IsAdmin(ctx, msg.From.ID)
		h.sendHTML(ctx, b, msg.Chat.ID, messages.MainMenu(), h.mainMenuKeyboard(isAdmin))
	default:
		h.sendHTML(ctx, b, msg.Chat.ID, messages.ErrorUnknownCommand(), nil)
	}
}

func (h *Handlers) sendHTML(ctx context.Context, b *bot.Bot, chatID int64, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.log.Warn("send failed", "chat_id", chatID, "error", err)
	}
}

func (h *Handlers) answerCallback(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		h.log.Warn("answer callback failed", "error", err)
	}
}

func (h *Handlers) answerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID, text string) {
	_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
	if err != nil {
		h.log.Warn("answer callback failed", "error", err)
	}
}

func (h *Handlers) editHTML(ctx context.Context, b *bot.Bot, msg *models.Message, text string, keyboard *models.InlineKeyboardMarkup) {
	params := &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	}
	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.log.Warn("edit failed", "chat_id", msg.Chat.ID, "error", err)
	}
}
