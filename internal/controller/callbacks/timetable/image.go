package timetable

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/render"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/service"
	engine "github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleTimetableImage присылает недельную сетку картинкой
func HandleTimetableImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		view := h.TimetableService.Last(hc.User.ID)
		if view == nil {
			loaded, err := h.TimetableService.Week(hc.Ctx, hc.User)
			if err != nil {
				common.HandleError(hc, err, "load_timetable")
				return
			}
			view = loaded
		}

		hc.Answer("🖼 Рисую расписание...")
		if err := SendWeekImage(hc.Ctx, hc.Bot, h, hc.ChatID, hc.User, view); err != nil {
			common.HandleError(hc, err, "send_timetable_image")
		}
	})
}

// SendWeekImage рисует сетку текущей недели и отправляет её в чат
func SendWeekImage(ctx context.Context, b *bot.Bot, h *callbacktypes.Handler, chatID int64, user *model.User, view *service.WeekView) error {
	now := time.Now().In(h.Location)
	weekStart, _ := engine.WeekBounds(now)

	data, err := render.WeekImage(view.Grid, weekStart, now)
	if err != nil {
		return fmt.Errorf("render week image: %w", err)
	}

	caption := fmt.Sprintf("📅 Неделя с %s", weekStart.Format("02.01.2006"))
	if view.FromCache {
		caption += "\n⚠️ Показано сохранённое расписание"
	}

	if err := common.SendPhoto(ctx, b, chatID, "timetable.png", data, caption); err != nil {
		return fmt.Errorf("send week image: %w", err)
	}

	h.Logger.Debug("Timetable image sent",
		zap.Int64("user_id", user.ID),
		zap.Int("bytes", len(data)))
	return nil
}
