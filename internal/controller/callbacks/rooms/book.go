package rooms

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/state"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// HandleBookRoom выбор аудитории из результатов поиска: дальше ждём цель брони
func HandleBookRoom(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	common.WithUser(ctx, b, callback, h, func(hc *common.HandlerContext) {
		arg, err := common.ParseArg(callback.Data, common.BookRoomPrefix)
		if err != nil {
			common.HandleError(hc, err, "parse_book_room")
			return
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(common.ErrInvalidFormat))
			return
		}

		room, err := SelectRoom(hc.Handler.StateManager, hc.TelegramID, n)
		if err != nil {
			hc.AnswerAlert(common.ErrorMessage(err))
			return
		}

		hc.Answer("")
		if err := hc.SendMessage(PurposePrompt(room), nil); err != nil {
			common.HandleError(hc, err, "ask_purpose")
		}
	})
}

// SelectRoom берёт n-ю (с единицы) аудиторию последнего поиска и переводит
// диалог в ожидание цели брони
func SelectRoom(sm callbacktypes.StateManager, telegramID int64, n int) (model.Room, error) {
	raw, ok := sm.GetData(telegramID, state.KeySearchResults)
	if !ok {
		return model.Room{}, common.ErrNoSearch
	}
	found, ok := raw.([]model.Room)
	if !ok || len(found) == 0 {
		return model.Room{}, common.ErrNoSearch
	}
	if n < 1 || n > len(found) {
		return model.Room{}, fmt.Errorf("%w: room %d of %d", common.ErrInvalidFormat, n, len(found))
	}

	room := found[n-1]
	sm.SetData(telegramID, state.KeyBookingRoom, room)
	sm.SetState(telegramID, callbacktypes.UserState(state.StateEnteringPurpose))
	return room, nil
}

// PurposePrompt просьба указать цель брони
func PurposePrompt(room model.Room) string {
	return fmt.Sprintf("📌 Аудитория <b>%s</b> (%s).\n\n"+
		"✏️ Напишите цель брони одним сообщением, например: <i>Консультация по курсовой</i>\n\n"+
		"Передумали? /cancel",
		room.RoomNumber, formatting.CountOf(room.Capacity, formatting.PluralizeSeats))
}
