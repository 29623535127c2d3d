package callbacks

import (
	"context"
	"strings"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/admin"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/reservations"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/rooms"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Route распределяет callback query по обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	case data == common.Noop:
		common.AnswerCallback(ctx, b, callback.ID, "")

	// ===== Поиск и бронирование =====
	case strings.HasPrefix(data, common.BookRoomPrefix):
		rooms.HandleBookRoom(ctx, b, callback, h)

	// ===== Мои брони =====
	case strings.HasPrefix(data, common.CancelReservationPrefix):
		reservations.HandleCancelReservation(ctx, b, callback, h)
	case strings.HasPrefix(data, common.ConfirmCancelPrefix):
		reservations.HandleConfirmCancel(ctx, b, callback, h)
	case data == common.KeepReservations:
		reservations.HandleKeepReservations(ctx, b, callback, h)

	// ===== Расписание =====
	case data == common.TimetableImage:
		timetable.HandleTimetableImage(ctx, b, callback, h)

	// ===== Администратор =====
	case strings.HasPrefix(data, common.ApprovePrefix):
		admin.HandleApprove(ctx, b, callback, h)
	case strings.HasPrefix(data, common.RejectNoReasonPrefix):
		admin.HandleRejectNow(ctx, b, callback, h)
	case strings.HasPrefix(data, common.RejectPrefix):
		admin.HandleReject(ctx, b, callback, h)
	case strings.HasPrefix(data, common.PendingPagePrefix):
		admin.HandlePendingPage(ctx, b, callback, h)

	default:
		h.Logger.Warn("Unknown callback", zap.String("data", data))
		common.AnswerCallback(ctx, b, callback.ID, "❓ Неизвестное действие")
	}
}
