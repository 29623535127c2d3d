package formatting

import (
	"fmt"
	"html"
	"strings"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
)

// FormatRoom строка аудитории для результатов поиска
func FormatRoom(room model.Room, index int) string {
	text := fmt.Sprintf("%d. <b>%s</b> · %s · до %d чел.",
		index, html.EscapeString(room.RoomNumber), html.EscapeString(string(room.Type)), room.Capacity)
	if len(room.Features) > 0 {
		text += "\n   🔧 " + html.EscapeString(strings.Join(room.Features, ", "))
	}
	return text
}

// TimeRange интервал брони для отображения
func TimeRange(b model.Booking) string {
	if b.StartTime != "" && b.EndTime != "" {
		return b.StartTime + " - " + b.EndTime
	}
	return b.Time
}

// FormatReservation карточка брони
func FormatReservation(b model.Booking) string {
	display := GetBookingStatusDisplay(b.Status)

	room := b.RoomID
	if b.Room != nil {
		room = b.Room.RoomNumber
	}

	text := fmt.Sprintf(
		"%s <b>%s</b>, %s, %s\n"+
			"📊 %s",
		display.Emoji,
		html.EscapeString(room),
		FormatDateWithWeekday(b.Date),
		TimeRange(b),
		display.Text,
	)

	if b.Purpose != "" {
		text += "\n🎯 " + html.EscapeString(b.Purpose)
	}
	if b.Notes != "" {
		text += "\n📝 " + html.EscapeString(b.Notes)
	}

	return text
}

// FormatPendingReservation заявка для администратора
func FormatPendingReservation(b model.Booking, requester *model.User) string {
	who := fmt.Sprintf("#%d", b.UserID)
	if requester != nil {
		who = html.EscapeString(strings.TrimSpace(requester.FirstName + " " + requester.LastName))
		if requester.Username != "" {
			who += " (@" + html.EscapeString(requester.Username) + ")"
		}
	}

	return fmt.Sprintf("%s\n👤 %s, %s\n🆔 <code>%s</code>",
		FormatReservation(b), who, strings.ToLower(GetRoleName(b.Role)), b.ID)
}
