package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvrv/business-keeper/internal/messages"
	"github.com/anvrv/business-keeper/internal/pricing"
	"github.com/anvrv/business-keeper/internal/utils"
)

func (h *Handlers) mainMenuKeyboard(isAdmin bool) *models.InlineKeyboardMarkup {
	rows := [][]utils.Button{
		{
			{Text: "💎 Моя подписка", CallbackData: "my_subscription"},
			{Text: "🛒 Купить подписку", CallbackData: "buy_subscription"},
		},
		{
			{Text: "📊 Статистика", CallbackData: "my_stats"},
			{Text: "ℹ️ Помощь", CallbackData: "help"},
		},
	}
	if isAdmin {
		rows = append(rows, []utils.Button{
			{Text: "👑 Админ-панель", CallbackData: "admin_panel"},
		})
	}
	kb := utils.BuildInlineKeyboard(rows)
	return &kb
}

func (h *Handlers) plansKeyboard() *models.InlineKeyboardMarkup {
	rows := make([][]utils.Button, 0, len(pricing.Plans())+1)
	for _, p := range pricing.Plans() {
		rows = append(rows, []utils.Button{{
			Text:         fmt.Sprintf("📦 %d %s — %d⭐", p.Months, messages.MonthsWord(p.Months), p.Stars),
			CallbackData: fmt.Sprintf("buy_%d", p.Months),
		}})
	}
	rows = append(rows, []utils.Button{{Text: "◀️ Назад", CallbackData: "back_to_menu"}})
	kb := utils.BuildInlineKeyboard(rows)
	return &kb
}

func (h *Handlers) backKeyboard() *models.InlineKeyboardMarkup {
	kb := utils.BuildInlineKeyboard([][]utils.Button{
		{{Text: "◀️ Назад в меню", CallbackData: "back_to_menu"}},
	})
	return &kb
}

// OnCallback dispatches inline keyboard presses.
func (h *Handlers) OnCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	if cb == nil {
		return
	}
	msg := cb.Message.Message
	if msg == nil {
		h.answerCallback(ctx, b, cb.ID, "")
		return
	}
	userID := cb.From.ID

	switch cb.Data {
	case "back_to_menu":
		isAdmin, _ := h.users.IsAdmin(ctx, userID)
		h.editHTML(ctx, b, msg, messages.MainMenu(), h.mainMenuKeyboard(isAdmin))
		h.answerCallback(ctx, b, cb.ID, "")
	case "my_subscription":
		h.showSubscription(ctx, b, msg, cb, userID)
	case "buy_subscription":
		h.editHTML(ctx, b, msg, messages.PlansList(), h.plansKeyboard())
		h.answerCallback(ctx, b, cb.ID, "")
	case "buy_1", "buy_2", "buy_3":
		h.sendPlanInvoice(ctx, b, cb)
	case "my_stats":
		h.showOwnerStats(ctx, b, msg, cb, userID)
	case "help":
		h.editHTML(ctx, b, msg, messages.Help(), h.backKeyboard())
		h.answerCallback(ctx, b, cb.ID, "")
	default:
		h.onAdminCallback(ctx, b, update)
	}
}

func (h *Handlers) showSubscription(ctx context.Context, b *bot.Bot, msg *models.Message, cb *models.CallbackQuery, userID int64) {
	isAdmin, err := h.users.IsAdmin(ctx, userID)
	if err != nil {
		h.answerCallbackAlert(ctx, b, cb.ID, messages.ErrorDefault())
		return
	}

	var text string
	switch {
	case isAdmin:
		text = messages.SubscriptionAdmin()
	default:
		sub, err := h.users.GetSubscription(ctx, userID)
		if err != nil {
			h.answerCallbackAlert(ctx, b, cb.ID, messages.ErrorDefault())
			return
		}
		switch {
		case sub == nil:
			text = messages.SubscriptionNone()
		case sub.ExpiresAt.After(time.Now()):
			text = messages.SubscriptionActive(sub.ExpiresAt, time.Now())
		default:
			text = messages.SubscriptionExpired(sub.ExpiresAt)
		}
	}

	h.editHTML(ctx, b, msg, text, h.backKeyboard())
	h.answerCallback(ctx, b, cb.ID, "")
}

func (h *Handlers) showOwnerStats(ctx context.Context, b *bot.Bot, msg *models.Message, cb *models.CallbackQuery, userID int64) {
	st, err := h.users.OwnerStats(ctx, userID)
	if err != nil {
		h.answerCallbackAlert(ctx, b, cb.ID, messages.ErrorDefault())
		return
	}
	h.editHTML(ctx, b, msg, messages.OwnerStats(st), h.backKeyboard())
	h.answerCallback(ctx, b, cb.ID, "")
}
