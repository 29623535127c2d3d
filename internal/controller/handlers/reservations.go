package handlers

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleMyReservations обрабатывает /myreservations
func (h *Handlers) HandleMyReservations(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	book := h.sessions.Book(user)
	bookings, err := book.Load(ctx)
	if err != nil {
		h.logger.Error("Failed to load reservations", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text, kb := common.BuildReservationsScreen(bookings, book.FromCache())
	h.sendMessage(ctx, b, chatID, text, kb)
}

// HandleStats обрабатывает /stats: одобренные часы текущей недели
func (h *Handlers) HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	stats, err := h.reservationService.WeeklyHours(ctx, user, h.today())
	if err != nil {
		h.logger.Error("Failed to compute weekly hours", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, common.ErrorMessage(err))
		return
	}

	text := fmt.Sprintf("📊 <b>Брони за неделю</b>\n%s - %s\n\n⏱ Одобрено: <b>%s</b>",
		formatting.FormatDate(stats.WeekStart),
		formatting.FormatDate(stats.WeekEnd),
		stats.Summary)
	if stats.FromCache {
		text += "\n\n⚠️ Сервис недоступен, посчитано по сохранённым данным."
	}

	h.sendMessage(ctx, b, chatID, text, nil)
}
