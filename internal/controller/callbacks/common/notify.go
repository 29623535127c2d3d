package common

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// LoadRequesters авторы заявок по внутреннему ID. Ошибки только логируются.
func LoadRequesters(ctx context.Context, h *callbacktypes.Handler, bookings []model.Booking) map[int64]*model.User {
	requesters := make(map[int64]*model.User)
	for _, b := range bookings {
		if _, ok := requesters[b.UserID]; ok {
			continue
		}
		user, err := h.UserService.GetByID(ctx, b.UserID)
		if err != nil {
			h.Logger.Warn("Failed to load requester",
				zap.Int64("user_id", b.UserID),
				zap.Error(err))
			continue
		}
		requesters[b.UserID] = user
	}
	return requesters
}

// NotifyDecision сообщает автору заявки о решении администратора
func NotifyDecision(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, booking *model.Booking) {
	user, err := h.UserService.GetByID(ctx, booking.UserID)
	if err != nil || user == nil {
		h.Logger.Warn("Requester not found for decision notice",
			zap.String("booking_id", booking.ID),
			zap.Int64("user_id", booking.UserID),
			zap.Error(err))
		return
	}

	var header string
	switch booking.Status {
	case model.BookingStatusApproved:
		header = "✅ <b>Ваша бронь одобрена</b>"
	case model.BookingStatusRejected:
		header = "🚫 <b>Ваша заявка отклонена</b>"
	default:
		return
	}

	text := fmt.Sprintf("%s\n\n%s", header, formatting.FormatReservation(*booking))
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    user.TelegramID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}); err != nil {
		h.Logger.Warn("Failed to notify requester",
			zap.Int64("telegram_id", user.TelegramID),
			zap.Error(err))
	}
}
