package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandlePending обрабатывает /pending
func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	pending, err := h.reservationService.Pending(ctx, user)
	if err != nil {
		h.logger.Error("Failed to list pending reservations", zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text, kb := admin.PendingScreen(ctx, h.deps, pending, 0)
	h.sendMessage(ctx, b, chatID, text, kb)
}

// HandleApprove обрабатывает /approve <id>
func (h *Handlers) HandleApprove(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		h.sendMessage(ctx, b, chatID, "✅ Формат: /approve &lt;id заявки&gt;\n\nСписок заявок: /pending", nil)
		return
	}

	booking, err := h.reservationService.Approve(ctx, user, args[0])
	if err != nil {
		h.logger.Warn("Failed to approve reservation", zap.String("booking_id", args[0]), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	common.NotifyDecision(ctx, b, h.deps, booking)
	h.sendMessage(ctx, b, chatID, "✅ Заявка одобрена\n\n"+formatting.FormatReservation(*booking), nil)
}

// HandleReject обрабатывает /reject <id> [причина]
func (h *Handlers) HandleReject(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireAdmin(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) == 0 {
		h.sendMessage(ctx, b, chatID, "🚫 Формат: /reject &lt;id заявки&gt; [причина]\n\nСписок заявок: /pending", nil)
		return
	}

	h.rejectReservation(ctx, b, chatID, user, args[0], strings.Join(args[1:], " "))
}

func (h *Handlers) rejectReservation(ctx context.Context, b *bot.Bot, chatID int64, user *model.User, bookingID, reason string) {
	booking, err := h.reservationService.Reject(ctx, user, bookingID, reason)
	if err != nil {
		h.logger.Warn("Failed to reject reservation", zap.String("booking_id", bookingID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	common.NotifyDecision(ctx, b, h.deps, booking)
	h.sendMessage(ctx, b, chatID, "🚫 Заявка отклонена\n\n"+formatting.FormatReservation(*booking), nil)
}

// HandleAutoReject обрабатывает /autoreject: внеочередной прогон авто-отклонения
func (h *Handlers) HandleAutoReject(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireAdmin(ctx, b, update); !ok {
		return
	}
	chatID := update.Message.Chat.ID

	result, err := h.autoReject(ctx)
	text := fmt.Sprintf("🧹 Просроченных заявок: %d\nОтклонено: %d", result.Found, result.Rejected)
	if err != nil {
		h.logger.Error("Manual auto-reject failed", zap.Error(err))
		text += fmt.Sprintf("\n⚠️ Ошибок: %d", max(result.Errors, 1))
	}

	h.sendMessage(ctx, b, chatID, text, nil)
}
