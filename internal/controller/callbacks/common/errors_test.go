package common

import (
	"fmt"
	"testing"

	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"wrapped unavailable", fmt.Errorf("create: %w", service.ErrRoomUnavailable), "❌ Аудитория уже занята в это время. Выполните /search ещё раз."},
		{"capacity", &timetable.ValidationError{Field: "minCapacity", Reason: "must be a positive number"}, "❌ Вместимость должна быть положительным числом"},
		{"inverted range", &timetable.ValidationError{Field: "endTime", Reason: "must be after start time"}, "❌ Время окончания должно быть позже начала"},
		{"past date", &timetable.ValidationError{Field: "date", Reason: "must not be in the past"}, "❌ Нельзя бронировать на прошедшую дату"},
		{"bad date", &timetable.ValidationError{Field: "date", Reason: "expected DD.MM.YYYY"}, "❌ Укажите дату в формате ДД.ММ.ГГГГ"},
		{"transition", fmt.Errorf("%w: APPROVED -> APPROVED", timetable.ErrInvalidTransition), "⚠️ Статус брони уже изменился. Обновите список."},
		{"unknown", fmt.Errorf("dial tcp: refused"), "❌ Сервис временно недоступен. Попробуйте позже."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestParseArg(t *testing.T) {
	arg, err := ParseArg("cancel_reservation:abc", "cancel_reservation:")
	assert.NoError(t, err)
	assert.Equal(t, "abc", arg)

	_, err = ParseArg("cancel_reservation:", "cancel_reservation:")
	assert.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ParseArg("other:abc", "cancel_reservation:")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
