package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"

	"github.com/anvrv/business-keeper/internal/messages"
	"github.com/anvrv/business-keeper/internal/pricing"
	"github.com/anvrv/business-keeper/types"
)

const payloadPrefix = "sub"

func encodeInvoicePayload(months int, token string) string {
	return fmt.Sprintf("%s:%d:%s", payloadPrefix, months, token)
}

func parseInvoicePayload(payload string) (months int, token string, err error) {
	parts := strings.Split(strings.TrimSpace(payload), ":")
	if len(parts) != 3 || parts[0] != payloadPrefix {
		return 0, "", fmt.Errorf("malformed invoice payload %q", payload)
	}
	months, err = strconv.Atoi(parts[1])
	if err != nil || months <= 0 {
		return 0, "", fmt.Errorf("malformed invoice payload %q", payload)
	}
	return months, parts[2], nil
}

// sendPlanInvoice issues a Stars invoice for the chosen plan. The payload
// carries a fresh token remembered in the state store, so pre-checkout can
// reject payloads the bot never issued.
func (h *Handlers) sendPlanInvoice(ctx context.Context, b *bot.Bot, cb *models.CallbackQuery) {
	months, err := strconv.Atoi(strings.TrimPrefix(cb.Data, "buy_"))
	if err != nil {
		h.answerCallback(ctx, b, cb.ID, "")
		return
	}
	plan, ok := pricing.ByMonths(months)
	if !ok {
		h.answerCallback(ctx, b, cb.ID, "")
		return
	}

	token := uuid.NewString()
	err = h.state.PutInvoiceToken(types.InvoiceToken{
		Token:     token,
		UserID:    cb.From.ID,
		Months:    plan.Months,
		Amount:    int64(plan.Stars),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		h.log.Error("invoice token store failed", "user_id", cb.From.ID, "error", err)
		h.answerCallbackAlert(ctx, b, cb.ID, messages.ErrorDefault())
		return
	}

	_, err = b.SendInvoice(ctx, &bot.SendInvoiceParams{
		ChatID:      cb.From.ID,
		Title:       messages.InvoiceTitle(plan.Months),
		Description: messages.InvoiceDescription(plan.Months),
		Payload:     encodeInvoicePayload(plan.Months, token),
		Currency:    "XTR",
		Prices: []models.LabeledPrice{
			{Label: messages.InvoiceTitle(plan.Months), Amount: plan.Stars},
		},
	})
	if err != nil {
		h.log.Error("send invoice failed", "user_id", cb.From.ID, "error", err)
		h.answerCallbackAlert(ctx, b, cb.ID, messages.ErrorDefault())
		return
	}
	h.answerCallback(ctx, b, cb.ID, "✅ Счёт отправлен")
}

// OnPreCheckout approves a pending payment iff its payload token was issued
// by this bot for this user.
func (h *Handlers) OnPreCheckout(ctx context.Context, b *bot.Bot, update *models.Update) {
	q := update.PreCheckoutQuery
	if q == nil {
		return
	}

	ok := false
	if _, token, err := parseInvoicePayload(q.InvoicePayload); err == nil {
		stored, err := h.state.GetInvoiceToken(token)
		if err != nil {
			h.log.Error("invoice token lookup failed", "error", err)
		}
		ok = stored != nil && stored.UserID == q.From.ID
	}

	errMsg := ""
	if !ok {
		errMsg = messages.PaymentInvalid()
	}
	_, err := b.AnswerPreCheckoutQuery(ctx, &bot.AnswerPreCheckoutQueryParams{
		PreCheckoutQueryID: q.ID,
		OK:                 ok,
		ErrorMessage:       errMsg,
	})
	if err != nil {
		h.log.Warn("answer pre-checkout failed", "error", err)
	}
}

func (h *Handlers) handleSuccessfulPayment(ctx context.Context, b *bot.Bot, msg *models.Message) {
	p := msg.SuccessfulPayment
	userID := msg.From.ID

	months, token, err := parseInvoicePayload(p.InvoicePayload)
	if err != nil {
		h.log.Error("successful payment with malformed payload", "user_id", userID, "payload", p.InvoicePayload)
		return
	}
	stored, err := h.state.GetInvoiceToken(token)
	if err != nil {
		h.log.Error("invoice token lookup failed", "user_id", userID, "error", err)
	}
	if stored == nil {
		// The charge already went through; honor the term encoded in the
		// payload even when the token expired before delivery.
		h.log.Warn("payment with unknown invoice token", "user_id", userID, "months", months)
	}
	_ = h.state.DeleteInvoiceToken(token)

	inserted, err := h.users.RecordPayment(ctx, types.Payment{
		UserID:    userID,
		Amount:    int64(p.TotalAmount),
		Months:    months,
		PaymentID: p.TelegramPaymentChargeID,
		Status:    "paid",
	})
	if err != nil {
		h.log.Error("payment record failed", "user_id", userID, "error", err)
		return
	}
	if !inserted {
		h.sendHTML(ctx, b, msg.Chat.ID, messages.PaymentAlreadyProcessed(), nil)
		return
	}

	until, err := h.gate.Grant(ctx, userID, months)
	if err != nil {
		h.log.Error("payment grant failed", "user_id", userID, "months", months, "error", err)
		return
	}

	h.metrics.Payments.Inc()
	h.log.Info("subscription purchased", "user_id", userID, "months", months, "until", until)
	h.sendHTML(ctx, b, msg.Chat.ID, messages.PaymentSucceeded(months, until), nil)
}
