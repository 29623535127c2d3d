// Package notify публикует события жизненного цикла броней для внешнего
// сервиса уведомлений (почта, пуш). Сам бот письма не отправляет.
package notify

import (
	"context"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
)

type EventType string

const (
	EventReservationCreated      EventType = "reservation.created"
	EventReservationCancelled    EventType = "reservation.cancelled"
	EventReservationApproved     EventType = "reservation.approved"
	EventReservationRejected     EventType = "reservation.rejected"
	EventReservationAutoRejected EventType = "reservation.auto_rejected"
)

// Event сообщение о смене состояния брони. Routing key = Type.
type Event struct {
	Type       EventType           `json:"type"`
	BookingID  string              `json:"booking_id"`
	UserID     int64               `json:"user_id"`
	Role       model.Role          `json:"role"`
	RoomID     string              `json:"classroom"`
	Date       string              `json:"date"`
	StartTime  string              `json:"start_time"`
	EndTime    string              `json:"end_time"`
	Status     model.BookingStatus `json:"status"`
	Notes      string              `json:"notes,omitempty"`
	OccurredAt time.Time           `json:"occurred_at"`
}

// NewEvent собирает событие по брони
func NewEvent(t EventType, b model.Booking, at time.Time) Event {
	return Event{
		Type:       t,
		BookingID:  b.ID,
		UserID:     b.UserID,
		Role:       b.Role,
		RoomID:     b.RoomID,
		Date:       b.Date.Format(time.DateOnly),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     b.Status,
		Notes:      b.Notes,
		OccurredAt: at.UTC(),
	}
}

// Publisher отправляет события
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher используется, когда брокер не настроен
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
