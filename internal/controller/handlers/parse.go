package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
)

// ErrUsage у команды не хватает аргументов
var ErrUsage = errors.New("invalid command arguments")

var dateLayouts = []string{"02.01.2006", "2006-01-02", "02.01.06"}

// Русские и короткие названия типов аудиторий
var roomTypeAliases = map[string]model.RoomType{
	"лекционная":   model.RoomTypeLectureHall,
	"лекция":       model.RoomTypeLectureHall,
	"lecture":      model.RoomTypeLectureHall,
	"аудитория":    model.RoomTypeClassroom,
	"класс":        model.RoomTypeClassroom,
	"лаборатория":  model.RoomTypeLab,
	"лаба":         model.RoomTypeLab,
	"переговорная": model.RoomTypeConferenceRoom,
	"conference":   model.RoomTypeConferenceRoom,
	"читальная":    model.RoomTypeStudyRoom,
	"study":        model.RoomTypeStudyRoom,
}

// commandArgs аргументы после команды: "/search a b" -> [a b]
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}

// ParseDate понимает ДД.ММ.ГГГГ, ГГГГ-ММ-ДД, ДД.ММ (текущий год) и
// слова сегодня/завтра. Результат - календарная дата как полночь UTC.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "сегодня", "today":
		return dateOnly(now), nil
	case "завтра", "tomorrow":
		return dateOnly(now.AddDate(0, 0, 1)), nil
	case "послезавтра":
		return dateOnly(now.AddDate(0, 0, 2)), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if t, err := time.Parse("02.01", s); err == nil {
		return time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, &timetable.ValidationError{Field: "date", Reason: "expected DD.MM.YYYY"}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseSearchArgs разбирает /search <дата> <начало> <конец> <вместимость> [тип]
func ParseSearchArgs(args []string, now time.Time) (timetable.Query, error) {
	if len(args) < 4 {
		return timetable.Query{}, fmt.Errorf("%w: need date, start, end and capacity", ErrUsage)
	}

	date, err := ParseDate(args[0], now)
	if err != nil {
		return timetable.Query{}, err
	}

	capacity, err := strconv.Atoi(args[3])
	if err != nil {
		return timetable.Query{}, &timetable.ValidationError{Field: "minCapacity", Reason: "must be a positive number"}
	}

	q := timetable.Query{
		Date:        date,
		StartTime:   args[1],
		EndTime:     args[2],
		MinCapacity: capacity,
	}
	if len(args) > 4 {
		q.Type = parseRoomType(strings.Join(args[4:], " "))
	}

	return q, nil
}

func parseRoomType(s string) string {
	if t, ok := roomTypeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return string(t)
	}
	return strings.TrimSpace(s)
}

// ParseClassArgs разбирает /addclass <день> <начало> <конец> <название> [@ <аудитория>]
func ParseClassArgs(args []string) (model.RawScheduleEntry, error) {
	if len(args) < 4 {
		return model.RawScheduleEntry{}, fmt.Errorf("%w: need day, start, end and name", ErrUsage)
	}

	day, ok := formatting.ParseDayName(args[0])
	if !ok {
		day, ok = timetable.ParseDay(args[0])
	}
	if !ok {
		return model.RawScheduleEntry{}, fmt.Errorf("%w: unknown weekday %q", ErrUsage, args[0])
	}

	name, location, _ := strings.Cut(strings.Join(args[3:], " "), "@")

	return model.RawScheduleEntry{
		Day:       string(day),
		StartTime: args[1],
		EndTime:   args[2],
		Name:      strings.TrimSpace(name),
		Location:  strings.TrimSpace(location),
	}, nil
}
