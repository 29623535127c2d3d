package common

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/common/keyboard"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/go-telegram/bot/models"
)

// Префиксы callback data, общие для экранов и роутера
const (
	CancelReservationPrefix = "cancel_reservation:" // cancel_reservation:<booking_id>
	ConfirmCancelPrefix     = "confirm_cancel:"     // confirm_cancel:<booking_id>
	KeepReservations        = "keep_reservations"
	BookRoomPrefix          = "book_room:" // book_room:<номер в результатах поиска>
	ApprovePrefix           = "approve:"   // approve:<booking_id>
	RejectPrefix            = "reject:"    // reject:<booking_id>, спросить причину
	RejectNoReasonPrefix    = "reject_now:"
	PendingPagePrefix       = "pending_page:"
	TimetableImage          = "timetable_image"
	Noop                    = "noop"
)

const (
	staleNotice        = "\n\n⚠️ Сервис недоступен, показаны сохранённые данные."
	pendingPerPage     = 5
	maxRoomButtons     = 8
	maxCancelButtonLen = 40
)

// BuildReservationsScreen список броней пользователя. Кнопка отмены есть
// только у броней, которые ещё можно отменить.
func BuildReservationsScreen(bookings []model.Booking, fromCache bool) (string, *models.InlineKeyboardMarkup) {
	if len(bookings) == 0 {
		text := "📭 У вас пока нет броней.\n\nНайти свободную аудиторию: /search"
		if fromCache {
			text += staleNotice
		}
		return text, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 <b>Мои брони</b> (%s)\n\n", formatting.CountOf(len(bookings), formatting.PluralizeReservations))

	kb := keyboard.NewBuilder()
	for i, b := range bookings {
		fmt.Fprintf(&sb, "%d. %s\n\n", i+1, formatting.FormatReservation(b))

		if timetable.CanCancel(b.Status) {
			label := fmt.Sprintf("❌ Отменить №%d (%s %s)", i+1, b.Date.Format("02.01"), formatting.TimeRange(b))
			if len([]rune(label)) > maxCancelButtonLen {
				label = fmt.Sprintf("❌ Отменить №%d", i+1)
			}
			kb.Row(keyboard.Button(label, CancelReservationPrefix+b.ID))
		}
	}

	text := strings.TrimRight(sb.String(), "\n")
	if fromCache {
		text += staleNotice
	}

	return text, kb.Build()
}

// BuildCancelConfirmScreen второй шаг отмены
func BuildCancelConfirmScreen(b model.Booking) (string, *models.InlineKeyboardMarkup) {
	text := "⚠️ <b>Отменить бронь?</b>\n\n" + formatting.FormatReservation(b)
	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelRow(ConfirmCancelPrefix+b.ID, KeepReservations)...)
	return text, kb.Build()
}

// BuildSearchResultsScreen найденные аудитории с кнопками брони
func BuildSearchResultsScreen(q timetable.Query, rooms []model.Room, fromCache bool) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔎 <b>%s, %s - %s</b>, от %d чел.",
		formatting.FormatDateWithWeekday(q.Date), q.StartTime, q.EndTime, q.MinCapacity)
	if q.Type != "" {
		fmt.Fprintf(&sb, ", тип: %s", q.Type)
	}
	sb.WriteString("\n\n")

	if len(rooms) == 0 {
		sb.WriteString("😔 Нет аудиторий, подходящих под запрос. Попробуйте другое время или вместимость.")
		if fromCache {
			sb.WriteString(staleNotice)
		}
		return sb.String(), nil
	}

	fmt.Fprintf(&sb, "Свободно: %s\n\n", formatting.CountOf(len(rooms), formatting.PluralizeRooms))

	kb := keyboard.NewBuilder()
	var row []models.InlineKeyboardButton
	for i, room := range rooms {
		sb.WriteString(formatting.FormatRoom(room, i+1))
		sb.WriteString("\n")

		if i < maxRoomButtons {
			row = append(row, keyboard.Button(fmt.Sprintf("📌 %s", room.RoomNumber), fmt.Sprintf("%s%d", BookRoomPrefix, i+1)))
			if len(row) == 2 {
				kb.Row(row...)
				row = nil
			}
		}
	}
	kb.Row(row...)

	sb.WriteString("\nЗабронировать: кнопка ниже или /book &lt;номер&gt;")
	if fromCache {
		sb.WriteString(staleNotice)
	}

	return sb.String(), kb.Build()
}

// BuildPendingScreen страница заявок для администратора
func BuildPendingScreen(bookings []model.Booking, requesters map[int64]*model.User, page int) (string, *models.InlineKeyboardMarkup) {
	if len(bookings) == 0 {
		return "✅ Нет заявок, ожидающих решения.", nil
	}

	start, end, pages := keyboard.Page(len(bookings), page, pendingPerPage)
	page = start / pendingPerPage

	var sb strings.Builder
	fmt.Fprintf(&sb, "📥 <b>Заявки на рассмотрении</b>: %d\n\n", len(bookings))

	kb := keyboard.NewBuilder()
	for i, b := range bookings[start:end] {
		n := start + i + 1
		fmt.Fprintf(&sb, "%d. %s\n\n", n, formatting.FormatPendingReservation(b, requesters[b.UserID]))
		kb.Row(
			keyboard.Button(fmt.Sprintf("✅ №%d", n), ApprovePrefix+b.ID),
			keyboard.Button(fmt.Sprintf("🚫 №%d", n), RejectPrefix+b.ID),
		)
	}
	kb.AddPagination(PendingPagePrefix, page, pages)

	return strings.TrimRight(sb.String(), "\n"), kb.Build()
}
