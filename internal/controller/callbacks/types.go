package callbacks

import (
	"context"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Handler обёртка над callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

func NewHandler(deps *callbacktypes.Handler) *Handler {
	return &Handler{Handler: deps}
}

// HandleCallbackQuery точка входа для нажатий на inline-кнопки
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	h.Logger.Debug("Callback received",
		zap.String("data", update.CallbackQuery.Data),
		zap.Int64("user_id", update.CallbackQuery.From.ID),
	)

	Route(ctx, b, update.CallbackQuery, h.Handler)
}
