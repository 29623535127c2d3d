package formatting

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
)

// Метки ячеек текстовой сетки
const (
	cellEmpty        = "·"
	cellStart        = "■"
	cellContinuation = "│"
	cellStacked      = "▣" // в ячейке начинается несколько занятий
)

// FormatGrid компактная сетка недели моноширинным текстом: строки - часовые слоты,
// столбцы - будние дни.
func FormatGrid(grid timetable.Grid) string {
	var sb strings.Builder

	sb.WriteString("<pre>")
	sb.WriteString("       ")
	for _, day := range model.Weekdays {
		sb.WriteString(" " + GetWeekdayShort(Weekday(day)))
	}
	sb.WriteString("\n")

	for _, row := range grid.Table() {
		fmt.Fprintf(&sb, "%5d:00", row.Slot.StartHour)
		for _, cell := range row.Cells {
			mark := cellEmpty
			switch {
			case cell.Suppressed:
				mark = cellContinuation
			case len(cell.Entries) > 1:
				mark = cellStacked
			case len(cell.Entries) == 1:
				mark = cellStart
			}
			sb.WriteString("  " + mark)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("</pre>")

	return sb.String()
}

// FormatDay занятия дня по времени начала
func FormatDay(day model.Day, entries []model.ScheduleEntry, role model.Role) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s</b>\n", GetDayName(day))

	if len(entries) == 0 {
		sb.WriteString("   Занятий нет\n")
		return sb.String()
	}

	label := InstructorLabel(role)
	for _, e := range timetable.SortByStart(entries) {
		fmt.Fprintf(&sb, "   %s-%s %s (%s)\n", e.StartTime, e.EndTime, html.EscapeString(e.Name), html.EscapeString(e.Type))
		fmt.Fprintf(&sb, "      📍 %s · %s: %s\n", html.EscapeString(e.Location), label, html.EscapeString(e.Instructor))
	}

	return sb.String()
}

// FormatWeek полное текстовое расписание
func FormatWeek(grid timetable.Grid, role model.Role) string {
	if grid.Empty() {
		return "📭 В расписании пока нет занятий.\n\nДобавить: /addclass Понедельник 09:00 10:30 Название"
	}

	var sb strings.Builder
	sb.WriteString("🗓 <b>Расписание на неделю</b>\n\n")
	sb.WriteString(FormatGrid(grid))
	sb.WriteString("\n\n")
	for _, day := range model.Weekdays {
		sb.WriteString(FormatDay(day, grid.Entries(day), role))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Weekday день недели time.Weekday для учебного дня
func Weekday(day model.Day) time.Weekday {
	for i, d := range model.Weekdays {
		if d == day {
			return time.Weekday(i + 1)
		}
	}
	return time.Sunday
}
