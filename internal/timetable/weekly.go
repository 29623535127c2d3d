package timetable

import (
	"fmt"
	"math"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
)

// WeekBounds границы недели, в которую попадает ref: понедельник 00:00:00 -
// воскресенье 23:59:59.999 в часовом поясе ref.
func WeekBounds(ref time.Time) (start, end time.Time) {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())

	daysSinceMonday := int(day.Weekday()) - 1
	if day.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start = day.AddDate(0, 0, -daysSinceMonday)
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// WeeklyHours сумма длительностей одобренных броней недели ref в часах.
// Считается заново при каждом вызове; бронь с непонятным временем даёт 0.
func (e *Engine) WeeklyHours(bookings []model.Booking, ref time.Time) float64 {
	start, end := WeekBounds(ref)

	total := 0.0
	for _, b := range bookings {
		if b.Status != model.BookingStatusApproved || b.Date.IsZero() {
			continue
		}

		// Дата брони - календарный день, переносим его в пояс ref без сдвига
		date := time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), 0, 0, 0, 0, ref.Location())
		if date.Before(start) || date.After(end) {
			continue
		}

		total += e.bookingHours(b)
	}

	return total
}

// WeeklySummary WeeklyHours в формате "00h 00min"
func (e *Engine) WeeklySummary(bookings []model.Booking, ref time.Time) string {
	return FormatHours(e.WeeklyHours(bookings, ref))
}

func (e *Engine) bookingHours(b model.Booking) float64 {
	start, end, ok := e.bookingWindow(b)
	if !ok || end <= start {
		return 0
	}
	return float64(end-start) / 60
}

// FormatHours форматирует часы как "%02dh %02dmin". Минуты округляются,
// 59.5 минуты превращаются в следующий час, а не в "60min".
func FormatHours(hours float64) string {
	if hours < 0 || math.IsNaN(hours) {
		hours = 0
	}
	total := int(math.Round(hours * 60))
	return fmt.Sprintf("%02dh %02dmin", total/60, total%60)
}
