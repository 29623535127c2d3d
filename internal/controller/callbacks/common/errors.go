package common

import (
	"errors"

	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNotAdmin      = errors.New("user is not an admin")
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoSearch      = errors.New("no search results in session")
)

// ErrorMessage текст для пользователя по ошибке сервиса или обработчика
func ErrorMessage(err error) string {
	var verr *timetable.ValidationError

	switch {
	case errors.As(err, &verr):
		return validationMessage(verr)
	case errors.Is(err, ErrUserNotFound), errors.Is(err, service.ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNotAdmin):
		return "❌ Эта функция доступна только администраторам"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrNoSearch):
		return "❌ Сначала найдите аудиторию через /search"
	case errors.Is(err, service.ErrRoomNotFound):
		return "❌ Аудитория не найдена"
	case errors.Is(err, service.ErrRoomUnavailable):
		return "❌ Аудитория уже занята в это время. Выполните /search ещё раз."
	case errors.Is(err, service.ErrBookingNotFound):
		return "❌ Бронь не найдена"
	case errors.Is(err, service.ErrForbidden):
		return "❌ Нет доступа"
	case errors.Is(err, service.ErrNotCancellable):
		return "❌ Эту бронь уже нельзя отменить"
	case errors.Is(err, service.ErrConfirmationRequired):
		return "⚠️ Подтвердите отмену брони"
	case errors.Is(err, service.ErrBookingChanged), errors.Is(err, timetable.ErrInvalidTransition):
		return "⚠️ Статус брони уже изменился. Обновите список."
	case errors.Is(err, service.ErrInvalidEntry):
		return "❌ Неверные данные занятия. Формат: /addclass Понедельник 09:00 10:30 Название"
	case errors.Is(err, service.ErrEntryNotFound):
		return "❌ Занятие не найдено. Список ID: /removeclass"
	case errors.Is(err, service.ErrInvalidRole):
		return "❌ Доступные роли: student, professor"
	default:
		return "❌ Сервис временно недоступен. Попробуйте позже."
	}
}

func validationMessage(err *timetable.ValidationError) string {
	switch err.Field {
	case "date":
		if err.Reason == "must not be in the past" {
			return "❌ Нельзя бронировать на прошедшую дату"
		}
		return "❌ Укажите дату в формате ДД.ММ.ГГГГ"
	case "startTime":
		return "❌ Неверное время начала. Формат ЧЧ:ММ"
	case "endTime":
		if err.Reason == "must be after start time" {
			return "❌ Время окончания должно быть позже начала"
		}
		return "❌ Неверное время окончания. Формат ЧЧ:ММ"
	case "minCapacity":
		return "❌ Вместимость должна быть положительным числом"
	default:
		return "❌ Неверный запрос: " + err.Error()
	}
}
