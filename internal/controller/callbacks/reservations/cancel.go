package reservations

import (
	"context"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleCancelReservation первый шаг отмены: показывает бронь и просит подтверждение
func HandleCancelReservation(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseArg(callback.Data, common.CancelReservationPrefix)
		if err != nil {
			common.HandleError(hc, err, "parse_cancel_reservation")
			return
		}

		booking, ok := findBooking(hc, bookingID)
		if !ok {
			hc.AnswerAlert(common.ErrorMessage(service.ErrBookingNotFound))
			return
		}

		text, kb := common.BuildCancelConfirmScreen(booking)
		if err := hc.EditMessage(text, kb); err != nil {
			common.HandleError(hc, err, "show_cancel_confirm")
			return
		}
		hc.Answer("")
	})
}

// HandleConfirmCancel отменяет бронь после подтверждения и обновляет список
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseArg(callback.Data, common.ConfirmCancelPrefix)
		if err != nil {
			common.HandleError(hc, err, "parse_confirm_cancel")
			return
		}

		book := h.Books.Book(hc.User)
		if _, ok := findBooking(hc, bookingID); !ok {
			hc.AnswerAlert(common.ErrorMessage(service.ErrBookingNotFound))
			return
		}

		cancelled, err := book.Cancel(hc.Ctx, bookingID, true)
		if err != nil {
			common.HandleError(hc, err, "cancel_reservation")
			return
		}

		h.Logger.Info("Reservation cancelled",
			zap.Int64("user_id", hc.User.ID),
			zap.String("booking_id", cancelled.ID))

		hc.Answer("✅ Бронь отменена")
		showReservations(hc, book)
	})
}

// HandleKeepReservations возврат к списку без отмены
func HandleKeepReservations(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		hc.Answer("")
		showReservations(hc, h.Books.Book(hc.User))
	})
}

// findBooking ищет бронь в книге пользователя, при необходимости перечитывая её
func findBooking(hc *common.HandlerContext, id string) (model.Booking, bool) {
	book := hc.Handler.Books.Book(hc.User)
	if booking, ok := book.Find(id); ok {
		return booking, true
	}

	if _, err := book.Load(hc.Ctx); err != nil {
		hc.Handler.Logger.Warn("Failed to reload reservations",
			zap.Int64("user_id", hc.User.ID),
			zap.Error(err))
		return model.Booking{}, false
	}
	return book.Find(id)
}

func showReservations(hc *common.HandlerContext, book *service.ReservationBook) {
	text, kb := common.BuildReservationsScreen(book.Bookings(), book.FromCache() || !book.Authoritative())
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show reservations",
			zap.Int64("user_id", hc.User.ID),
			zap.Error(err))
	}
}
