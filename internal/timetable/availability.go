package timetable

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/go-playground/validator/v10"
)

// ErrValidation базовая ошибка для некорректного поискового запроса
var ErrValidation = errors.New("validation failed")

// ValidationError поле запроса не прошло проверку. Поиск при этом не выполняется.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Query параметры поиска свободной аудитории
type Query struct {
	Date        time.Time `json:"date" validate:"required"`
	StartTime   string    `json:"startTime" validate:"required"`
	EndTime     string    `json:"endTime" validate:"required"`
	MinCapacity int       `json:"minCapacity" validate:"gt=0"`
	Type        string    `json:"type"`
}

type searchConfig struct {
	entries []model.ScheduleEntry
}

// SearchOption дополнительные условия поиска
type SearchOption func(*searchConfig)

// WithTimetable учитывает постоянное расписание: аудитория занята,
// если в день недели запроса в ней идёт занятие.
func WithTimetable(entries []model.ScheduleEntry) SearchOption {
	return func(c *searchConfig) {
		c.entries = entries
	}
}

// ValidateQuery проверяет запрос до поиска
func (e *Engine) ValidateQuery(q Query) error {
	if err := e.validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ValidationError{Field: verrs[0].Field(), Reason: reasonFor(verrs[0])}
		}
		return fmt.Errorf("validate query: %w", err)
	}

	start, err := ParseClock(q.StartTime)
	if err != nil {
		return &ValidationError{Field: "startTime", Reason: "expected HH:MM"}
	}
	end, err := ParseClock(q.EndTime)
	if err != nil {
		return &ValidationError{Field: "endTime", Reason: "expected HH:MM"}
	}
	if start >= end {
		return &ValidationError{Field: "endTime", Reason: "must be after start time"}
	}

	return nil
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be a positive number"
	default:
		return fe.Tag()
	}
}

// Search возвращает аудитории, подходящие по вместимости и типу и свободные
// в интервале [StartTime, EndTime) на дату запроса. Порядок совпадает с входным.
func (e *Engine) Search(rooms []model.Room, bookings []model.Booking, q Query, opts ...SearchOption) ([]model.Room, error) {
	if err := e.ValidateQuery(q); err != nil {
		return nil, err
	}

	var cfg searchConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	start, _ := ParseClock(q.StartTime)
	end, _ := ParseClock(q.EndTime)

	var dayEntries []model.ScheduleEntry
	if day, ok := dayOf(q.Date); ok {
		for _, entry := range cfg.entries {
			if d, ok := ParseDay(string(entry.Day)); ok && d == day {
				dayEntries = append(dayEntries, entry)
			}
		}
	}

	result := make([]model.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Capacity < q.MinCapacity {
			continue
		}
		if q.Type != "" && foldKey(string(room.Type)) != foldKey(q.Type) {
			continue
		}
		if e.bookedDuring(room, bookings, q.Date, start, end) {
			continue
		}
		if e.scheduledDuring(room, dayEntries, start, end) {
			continue
		}
		result = append(result, room)
	}

	return result, nil
}

// IsAvailable свободна ли конкретная аудитория (без проверки вместимости и типа)
func (e *Engine) IsAvailable(room model.Room, bookings []model.Booking, date time.Time, startTime, endTime string) bool {
	start, err := ParseClock(startTime)
	if err != nil {
		return false
	}
	end, err := ParseClock(endTime)
	if err != nil || end <= start {
		return false
	}
	return !e.bookedDuring(room, bookings, date, start, end)
}

func (e *Engine) bookedDuring(room model.Room, bookings []model.Booking, date time.Time, start, end int) bool {
	for _, b := range bookings {
		if b.Status.IsTerminal() {
			continue
		}
		if !MatchesRoom(room, b.RoomID) || !sameDate(b.Date, date) {
			continue
		}
		bStart, bEnd, ok := e.bookingWindow(b)
		if !ok {
			continue
		}
		if overlaps(bStart, bEnd, start, end) {
			return true
		}
	}
	return false
}

func (e *Engine) scheduledDuring(room model.Room, dayEntries []model.ScheduleEntry, start, end int) bool {
	for _, entry := range dayEntries {
		if !MatchesRoom(room, entry.Location) {
			continue
		}
		if overlaps(e.ToMinutes(entry.StartTime), e.ToMinutes(entry.EndTime), start, end) {
			return true
		}
	}
	return false
}

// bookingWindow интервал брони в минутах суток: сначала StartTime/EndTime,
// затем строка вида "HH:MM - HH:MM". ok = false, если ни то ни другое не задано.
func (e *Engine) bookingWindow(b model.Booking) (start, end int, ok bool) {
	if b.StartTime != "" && b.EndTime != "" {
		return e.ToMinutes(b.StartTime), e.ToMinutes(b.EndTime), true
	}

	from, to, found := strings.Cut(b.Time, " - ")
	if !found {
		from, to, found = strings.Cut(b.Time, "-")
	}
	if !found {
		return 0, 0, false
	}

	return e.ToMinutes(strings.TrimSpace(from)), e.ToMinutes(strings.TrimSpace(to)), true
}

// MatchesRoom ссылка на аудиторию совпадает с её ID или номером (без учёта регистра)
func MatchesRoom(room model.Room, ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return false
	}
	if ref == room.ID {
		return true
	}
	return room.RoomNumber != "" && foldKey(room.RoomNumber) == foldKey(ref)
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

func sameDate(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func dayOf(date time.Time) (model.Day, bool) {
	switch date.Weekday() {
	case time.Monday:
		return model.Monday, true
	case time.Tuesday:
		return model.Tuesday, true
	case time.Wednesday:
		return model.Wednesday, true
	case time.Thursday:
		return model.Thursday, true
	case time.Friday:
		return model.Friday, true
	default:
		return "", false
	}
}
