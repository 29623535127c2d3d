package model

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"   // Ожидает решения администратора
	BookingStatusApproved  BookingStatus = "APPROVED"  // Одобрено
	BookingStatusRejected  BookingStatus = "REJECTED"  // Отклонено
	BookingStatusCancelled BookingStatus = "CANCELLED" // Отменено пользователем
)

// IsActive возвращает true для статусов, которые занимают аудиторию
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusApproved
}

// IsTerminal возвращает true для статусов, из которых нет переходов
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCancelled
}

type Booking struct {
	ID        string        `json:"id"`
	RoomID    string        `json:"classroom"` // ID аудитории или её номер
	UserID    int64         `json:"user_id"`
	Role      Role          `json:"role"`
	Date      time.Time     `json:"date"`                 // только календарная дата
	StartTime string        `json:"start_time,omitempty"` // HH:MM
	EndTime   string        `json:"end_time,omitempty"`   // HH:MM
	Time      string        `json:"time,omitempty"`       // "HH:MM - HH:MM" для старых записей
	Status    BookingStatus `json:"status"`
	Purpose   string        `json:"purpose"`
	Notes     string        `json:"notes"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Room *Room `json:"room,omitempty"`
}

// ParseBookingStatus приводит статус из внешнего источника к BookingStatus.
// Старые клиенты присылают статусы в нижнем регистре.
func ParseBookingStatus(s string) (BookingStatus, bool) {
	status := BookingStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case BookingStatusPending, BookingStatusApproved, BookingStatusRejected, BookingStatusCancelled:
		return status, true
	case "CANCELED":
		return BookingStatusCancelled, true
	}
	return "", false
}
