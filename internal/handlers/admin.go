package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvrv/business-keeper/internal/messages"
	"github.com/anvrv/business-keeper/internal/utils"
	"github.com/anvrv/business-keeper/types"
)

func (h *Handlers) adminPanelKeyboard() *models.InlineKeyboardMarkup {
	kb := utils.BuildInlineKeyboard([][]utils.Button{
		{
			{Text: "📊 Статистика", CallbackData: "admin_stats"},
			{Text: "👥 Пользователи", CallbackData: "admin_users"},
		},
		{
			{Text: "➕ Выдать подписку", CallbackData: "admin_give_sub"},
			{Text: "➖ Забрать подписку", CallbackData: "admin_remove_sub"},
		},
		{
			{Text: "👑 Добавить админа", CallbackData: "admin_add_admin"},
			{Text: "🗑 Удалить админа", CallbackData: "admin_remove_admin"},
		},
		{
			{Text: "◀️ Назад", CallbackData: "back_to_menu"},
		},
	})
	return &kb
}

func (h *Handlers) onAdminCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	cb := update.CallbackQuery
	msg := cb.Message.Message
	userID := cb.From.ID

	isAdmin, err := h.users.IsAdmin(ctx, userID)
	if err != nil || !isAdmin {
		h.answerCallbackAlert(ctx, b, cb.ID, messages.AdminDenied())
		return
	}

	switch cb.Data {
	case "admin_panel":
		h.editHTML(ctx, b, msg, messages.AdminPanel(), h.adminPanelKeyboard())
	case "admin_stats":
		st, err := h.users.TotalStats(ctx)
		if err != nil {
			h.answerCallbackAlert(ctx, b, cb.ID, messages.ErrorDefault())
			return
		}
		h.editHTML(ctx, b, msg, messages.TotalStats(st), h.backKeyboard())
	case "admin_users":
		h.showOwnerList(ctx, b, msg, cb)
	case "admin_give_sub":
		h.startAdminPrompt(ctx, b, msg, userID, types.AdminActionGrantSub, messages.AdminPromptGrant())
	case "admin_remove_sub":
		h.startAdminPrompt(ctx, b, msg, userID, types.AdminActionRevokeSub, messages.AdminPromptRevoke())
	case "admin_add_admin":
		h.startAdminPrompt(ctx, b, msg, userID, types.AdminActionAddAdmin, messages.AdminPromptAddAdmin())
	case "admin_remove_admin":
		h.startAdminPrompt(ctx, b, msg, userID, types.AdminActionRemoveAdmin, messages.AdminPromptRemoveAdmin())
	default:
		h.answerCallback(ctx, b, cb.ID, "")
		return
	}
	h.answerCallback(ctx, b, cb.ID, "")
}

func (h *Handlers) showOwnerList(ctx context.Context, b *bot.Bot, msg *models.Message, cb *models.CallbackQuery) {
	owners, err := h.users.ListOwners(ctx, 10)
	if err != nil {
		h.answerCallbackAlert(ctx, b, cb.ID, messages.ErrorDefault())
		return
	}

	var sb strings.Builder
	sb.WriteString(messages.AdminUsersHeader())
	for _, o := range owners {
		hasSub, _ := h.gate.HasAccess(ctx, o.UserID)
		sb.WriteString(messages.AdminUserLine(o.FirstName, o.UserID, hasSub))
	}
	h.editHTML(ctx, b, msg, sb.String(), h.backKeyboard())
}

func (h *Handlers) startAdminPrompt(ctx context.Context, b *bot.Bot, msg *models.Message, adminID int64, action types.AdminAction, prompt string) {
	if err := h.state.SetAdminState(adminID, action); err != nil {
		h.log.Error("admin state store failed", "admin_id", adminID, "error", err)
		return
	}
	h.editHTML(ctx, b, msg, prompt, h.backKeyboard())
}

// handleAdminInput consumes the free-text reply to a pending admin prompt.
func (h *Handlers) handleAdminInput(ctx context.Context, b *bot.Bot, msg *models.Message, text string) {
	userID := msg.From.ID

	st, err := h.state.GetAdminState(userID)
	if err != nil {
		h.log.Error("admin state lookup failed", "admin_id", userID, "error", err)
		return
	}
	if st == nil {
		return
	}

	isAdmin, err := h.users.IsAdmin(ctx, userID)
	if err != nil || !isAdmin {
		_ = h.state.ClearAdminState(userID)
		return
	}

	switch st.Action {
	case types.AdminActionGrantSub:
		fields := strings.Fields(text)
		if len(fields) != 2 {
			h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminBadFormat(), nil)
			return
		}
		targetID, err1 := strconv.ParseInt(fields[0], 10, 64)
		months, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || months <= 0 {
			h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminBadFormat(), nil)
			return
		}
		until, err := h.gate.Grant(ctx, targetID, months)
		if err != nil {
			h.log.Error("manual grant failed", "target_id", targetID, "error", err)
			h.sendHTML(ctx, b, msg.Chat.ID, messages.ErrorDefault(), nil)
			return
		}
		h.log.Info("subscription granted manually", "admin_id", userID, "target_id", targetID, "months", months, "until", until)
		h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminGranted(targetID, months, until), nil)

	case types.AdminActionRevokeSub:
		targetID, ok := parseUserID(text)
		if !ok {
			h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminBadID(), nil)
			return
		}
		if err := h.gate.Revoke(ctx, targetID); err != nil {
			h.log.Error("manual revoke failed", "target_id", targetID, "error", err)
			h.sendHTML(ctx, b, msg.Chat.ID, messages.ErrorDefault(), nil)
			return
		}
		h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminRevoked(targetID), nil)

	case types.AdminActionAddAdmin:
		targetID, ok := parseUserID(text)
		if !ok {
			h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminBadID(), nil)
			return
		}
		if err := h.users.AddAdmin(ctx, targetID); err != nil {
			h.log.Error("add admin failed", "target_id", targetID, "error", err)
			h.sendHTML(ctx, b, msg.Chat.ID, messages.ErrorDefault(), nil)
			return
		}
		h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminAdded(targetID), nil)

	case types.AdminActionRemoveAdmin:
		targetID, ok := parseUserID(text)
		if !ok {
			h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminBadID(), nil)
			return
		}
		if err := h.users.RemoveAdmin(ctx, targetID); err != nil {
			h.log.Error("remove admin failed", "target_id", targetID, "error", err)
			h.sendHTML(ctx, b, msg.Chat.ID, messages.ErrorDefault(), nil)
			return
		}
		h.sendHTML(ctx, b, msg.Chat.ID, messages.AdminRemoved(targetID), nil)
	}

	if err := h.state.ClearAdminState(userID); err != nil {
		h.log.Warn("admin state clear failed", "admin_id", userID, "error", err)
	}
}

func parseUserID(text string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
