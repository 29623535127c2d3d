package state

import "time"

// UserState текущий шаг диалога пользователя
type UserState string

const (
	StateNone UserState = "" // Нет активного диалога

	// Бронирование: ждём цель брони после выбора аудитории
	StateEnteringPurpose UserState = "entering_purpose"

	// Администратор: ждём причину отклонения
	StateEnteringRejectReason UserState = "entering_reject_reason"
)

// Ключи данных диалога
const (
	KeySearchQuery   = "search_query"   // timetable.Query последнего поиска
	KeySearchResults = "search_results" // []model.Room последнего поиска
	KeyBookingRoom   = "booking_room"   // model.Room, выбранная для брони
	KeyRejectBooking = "reject_booking" // ID заявки, которую отклоняет администратор
)

// UserData данные диалога пользователя
type UserData struct {
	State     UserState
	Data      map[string]any
	UpdatedAt time.Time
}
