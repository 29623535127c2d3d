package callbacktypes

import (
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"go.uber.org/zap"
)

// UserState текущий шаг диалога пользователя
type UserState string

// StateManager интерфейс хранилища диалогов
type StateManager interface {
	ClearState(telegramID int64)
	GetState(telegramID int64) UserState
	SetState(telegramID int64, state UserState)
	SetData(telegramID int64, key string, value any)
	GetData(telegramID int64, key string) (any, bool)
	GetAllData(telegramID int64) map[string]any
}

// BookProvider выдаёт книгу броней пользователя
type BookProvider interface {
	Book(user *model.User) *service.ReservationBook
}

// Handler общие зависимости callback-обработчиков
type Handler struct {
	UserService        *service.UserService
	ReservationService *service.ReservationService
	TimetableService   *service.TimetableService
	Books              BookProvider
	StateManager       StateManager
	Location           *time.Location
	Logger             *zap.Logger
}
