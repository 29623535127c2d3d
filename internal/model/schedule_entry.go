package model

import (
	"fmt"
	"strings"
)

// Day день учебной недели. Суббота и воскресенье не поддерживаются.
type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
)

// Weekdays учебные дни в порядке отображения
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// Значения по умолчанию для пустых полей занятия
const (
	DefaultEntryName       = "Unnamed Course"
	DefaultEntryLocation   = "TBD"
	DefaultEntryType       = "Lecture"
	DefaultEntryInstructor = "No instructor assigned"
	DefaultEntryColor      = "#6366f1"
)

// RawScheduleEntry занятие в том виде, в котором его отдаёт источник данных.
// StartTime/EndTime могут быть строкой в любом формате, time.Time или nil.
type RawScheduleEntry struct {
	ID          string `json:"id"`
	Day         string `json:"day"`
	StartTime   any    `json:"startTime"`
	EndTime     any    `json:"endTime"`
	Name        string `json:"name"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Instructor  string `json:"instructor"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// ScheduleEntry нормализованное занятие расписания
type ScheduleEntry struct {
	ID          string `json:"id"`
	Day         Day    `json:"day"`
	StartTime   string `json:"startTime"` // HH:MM
	EndTime     string `json:"endTime"`   // HH:MM
	Name        string `json:"name"`
	Location    string `json:"location"`
	Type        string `json:"type"`
	Instructor  string `json:"instructor"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// TimeSlot часовая ячейка сетки расписания
type TimeSlot struct {
	StartHour int
	EndHour   int
}

// Label возвращает подпись слота, например "8:00 - 9:00"
func (s TimeSlot) Label() string {
	return fmt.Sprintf("%d:00 - %d:00", s.StartHour, s.EndHour)
}

// ParseTimeSlot разбирает подпись вида "8:00 - 9:00"
func ParseTimeSlot(label string) (TimeSlot, error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 {
		return TimeSlot{}, fmt.Errorf("invalid slot label %q", label)
	}

	var slot TimeSlot
	var startMin, endMin int
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[0]), "%d:%d", &slot.StartHour, &startMin); err != nil {
		return TimeSlot{}, fmt.Errorf("parse slot start %q: %w", label, err)
	}
	if _, err := fmt.Sscanf(strings.TrimSpace(parts[1]), "%d:%d", &slot.EndHour, &endMin); err != nil {
		return TimeSlot{}, fmt.Errorf("parse slot end %q: %w", label, err)
	}
	if slot.EndHour <= slot.StartHour {
		return TimeSlot{}, fmt.Errorf("slot %q ends before it starts", label)
	}

	return slot, nil
}

// DefaultTimeSlots рабочий день 8:00-18:00 по часу
func DefaultTimeSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, 10)
	for h := 8; h < 18; h++ {
		slots = append(slots, TimeSlot{StartHour: h, EndHour: h + 1})
	}
	return slots
}
