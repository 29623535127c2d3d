package timetable

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
)

// ErrInvalidTransition переход статуса брони запрещён
var ErrInvalidTransition = errors.New("invalid status transition")

// Разрешённые переходы. REJECTED и CANCELLED терминальные.
// PENDING -> APPROVED/REJECTED выполняет только сервер (администратор или авто-отклонение),
// отмену инициирует пользователь.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.BookingStatusPending:  {model.BookingStatusApproved, model.BookingStatusRejected, model.BookingStatusCancelled},
	model.BookingStatusApproved: {model.BookingStatusCancelled},
}

// CanTransition разрешён ли переход from -> to
func CanTransition(from, to model.BookingStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanCancel можно ли предложить пользователю отмену брони
func CanCancel(status model.BookingStatus) bool {
	return CanTransition(status, model.BookingStatusCancelled)
}

// ServerAuthoritative переход, который клиент только наблюдает
func ServerAuthoritative(to model.BookingStatus) bool {
	return to == model.BookingStatusApproved || to == model.BookingStatusRejected
}

// Transition возвращает копию брони с новым статусом
func Transition(b model.Booking, to model.BookingStatus) (model.Booking, error) {
	if !CanTransition(b.Status, to) {
		return b, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	b.Status = to
	return b, nil
}
