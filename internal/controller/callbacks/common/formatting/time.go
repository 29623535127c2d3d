package formatting

import (
	"strings"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
)

func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}

func FormatDateTime(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// FormatDateWithWeekday "04.03.2024 (Пн)"
func FormatDateWithWeekday(t time.Time) string {
	return t.Format("02.01.2006") + " (" + GetWeekdayShort(t.Weekday()) + ")"
}

func GetWeekdayShort(weekday time.Weekday) string {
	names := [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	return names[weekday]
}

// GetDayName название учебного дня на русском
func GetDayName(day model.Day) string {
	names := map[model.Day]string{
		model.Monday:    "Понедельник",
		model.Tuesday:   "Вторник",
		model.Wednesday: "Среда",
		model.Thursday:  "Четверг",
		model.Friday:    "Пятница",
	}
	if name, ok := names[day]; ok {
		return name
	}
	return string(day)
}

// ParseDayName понимает русские названия дней: "понедельник", "пн"
func ParseDayName(s string) (model.Day, bool) {
	names := map[string]model.Day{
		"понедельник": model.Monday, "пн": model.Monday,
		"вторник": model.Tuesday, "вт": model.Tuesday,
		"среда": model.Wednesday, "ср": model.Wednesday,
		"четверг": model.Thursday, "чт": model.Thursday,
		"пятница": model.Friday, "пт": model.Friday,
	}
	day, ok := names[lower(s)]
	return day, ok
}

func GetMonthName(month time.Month) string {
	names := map[time.Month]string{
		time.January:   "Январь",
		time.February:  "Февраль",
		time.March:     "Март",
		time.April:     "Апрель",
		time.May:       "Май",
		time.June:      "Июнь",
		time.July:      "Июль",
		time.August:    "Август",
		time.September: "Сентябрь",
		time.October:   "Октябрь",
		time.November:  "Ноябрь",
		time.December:  "Декабрь",
	}
	return names[month]
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
