package admin

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/state"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleApprove одобряет заявку
func HandleApprove(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseArg(callback.Data, common.ApprovePrefix)
		if err != nil {
			common.HandleError(hc, err, "parse_approve")
			return
		}

		booking, err := h.ReservationService.Approve(hc.Ctx, hc.User, bookingID)
		if err != nil {
			common.HandleError(hc, err, "approve_reservation")
			return
		}

		h.Logger.Info("Reservation approved",
			zap.Int64("admin_id", hc.User.ID),
			zap.String("booking_id", booking.ID))

		hc.Answer("✅ Одобрено")
		common.NotifyDecision(hc.Ctx, hc.Bot, h, booking)
		ShowPending(hc, 0)
	})
}

// HandleReject спрашивает причину отклонения. Без причины: кнопка reject_now.
func HandleReject(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseArg(callback.Data, common.RejectPrefix)
		if err != nil {
			common.HandleError(hc, err, "parse_reject")
			return
		}

		hc.SetData(state.KeyRejectBooking, bookingID)
		hc.SetState(callbacktypes.UserState(state.StateEnteringRejectReason))

		kb := keyboard.NewBuilder().
			Row(keyboard.Button("🚫 Отклонить без причины", common.RejectNoReasonPrefix+bookingID)).
			Build()

		hc.Answer("")
		if err := hc.SendMessage("✏️ Напишите причину отклонения одним сообщением.\n\nПередумали? /cancel", kb); err != nil {
			common.HandleError(hc, err, "ask_reject_reason")
		}
	})
}

// HandleRejectNow отклоняет заявку без указания причины
func HandleRejectNow(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		bookingID, err := common.ParseArg(callback.Data, common.RejectNoReasonPrefix)
		if err != nil {
			common.HandleError(hc, err, "parse_reject_now")
			return
		}

		hc.ClearState()

		booking, err := h.ReservationService.Reject(hc.Ctx, hc.User, bookingID, "")
		if err != nil {
			common.HandleError(hc, err, "reject_reservation")
			return
		}

		h.Logger.Info("Reservation rejected",
			zap.Int64("admin_id", hc.User.ID),
			zap.String("booking_id", booking.ID))

		hc.Answer("🚫 Отклонено")
		common.NotifyDecision(hc.Ctx, hc.Bot, h, booking)
		if err := hc.EditMessage(fmt.Sprintf("🚫 Заявка отклонена\n\n%s", formatting.FormatReservation(*booking)), nil); err != nil {
			h.Logger.Warn("Failed to update reject prompt", zap.Error(err))
		}
	})
}

// HandlePendingPage листает список заявок
func HandlePendingPage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithAdmin(ctx, b, callback, h, func(hc *common.HandlerContext) {
		arg, err := common.ParseArg(callback.Data, common.PendingPagePrefix)
		if err != nil {
			common.HandleError(hc, err, "parse_pending_page")
			return
		}
		page, err := strconv.Atoi(arg)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		hc.Answer("")
		ShowPending(hc, page)
	})
}

// ShowPending перерисовывает сообщение со списком заявок
func ShowPending(hc *common.HandlerContext, page int) {
	pending, err := hc.Handler.ReservationService.Pending(hc.Ctx, hc.User)
	if err != nil {
		common.HandleError(hc, err, "list_pending")
		return
	}

	text, kb := PendingScreen(hc.Ctx, hc.Handler, pending, page)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show pending reservations",
			zap.Int64("admin_id", hc.User.ID),
			zap.Error(err))
	}
}

// PendingScreen экран заявок с именами авторов
func PendingScreen(ctx context.Context, h *callbacktypes.Handler, pending []model.Booking, page int) (string, *models.InlineKeyboardMarkup) {
	return common.BuildPendingScreen(pending, common.LoadRequesters(ctx, h, pending), page)
}
