package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/anvrv/business-keeper/internal/messages"
)

// OnBusinessConnection greets a newly connected owner, or deactivates the
// owner row when the connection is disabled.
func (h *Handlers) OnBusinessConnection(ctx context.Context, b *bot.Bot, update *models.Update) {
	ev := update.BusinessConnection
	if ev == nil {
		return
	}

	if !ev.IsEnabled {
		if err := h.users.DeactivateOwnerByConnection(ctx, ev.ID); err != nil {
			h.log.Error("owner deactivation failed", "connection_id", ev.ID, "error", err)
		}
		return
	}

	owner, err := h.directory.ResolveOrCreate(ctx, ev.ID, ev.User.ID, ev.User.Username, ev.User.FirstName)
	if err != nil {
		h.log.Error("connection owner resolution failed", "connection_id", ev.ID, "error", err)
		return
	}
	h.log.Info("business connection established", "owner_id", owner.UserID, "connection_id", ev.ID)

	isAdmin, _ := h.users.IsAdmin(ctx, owner.UserID)
	hasAccess, err := h.gate.HasAccess(ctx, owner.UserID)
	if err != nil {
		h.log.Error("access check failed", "owner_id", owner.UserID, "error", err)
		return
	}

	if !hasAccess {
		h.sendHTML(ctx, b, ev.User.ID, messages.ConnectedNeedSubscription(), h.mainMenuKeyboard(false))
		return
	}

	var expiresAt *time.Time
	if !isAdmin {
		if sub, err := h.users.GetSubscription(ctx, owner.UserID); err == nil && sub != nil {
			expiresAt = &sub.ExpiresAt
		}
	}
	h.sendHTML(ctx, b, ev.User.ID, messages.ConnectedActive(expiresAt), h.mainMenuKeyboard(isAdmin))
}
