package common

import (
	"testing"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func TestReservationsScreenOffersCancelOnlyForActive(t *testing.T) {
	bookings := []model.Booking{
		{ID: "p", RoomID: "A-101", Date: monday, StartTime: "09:00", EndTime: "10:00", Status: model.BookingStatusPending},
		{ID: "r", RoomID: "A-102", Date: monday, StartTime: "11:00", EndTime: "12:00", Status: model.BookingStatusRejected},
		{ID: "a", RoomID: "A-103", Date: monday, StartTime: "13:00", EndTime: "14:00", Status: model.BookingStatusApproved},
	}

	text, kb := BuildReservationsScreen(bookings, true)

	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, CancelReservationPrefix+"p", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, CancelReservationPrefix+"a", kb.InlineKeyboard[1][0].CallbackData)
	assert.Contains(t, text, "3 брони")
	assert.Contains(t, text, "сохранённые данные")
}

func TestReservationsScreenEmpty(t *testing.T) {
	text, kb := BuildReservationsScreen(nil, false)

	assert.Nil(t, kb)
	assert.Contains(t, text, "нет броней")
}

func TestSearchResultsScreen(t *testing.T) {
	q := timetable.Query{Date: monday, StartTime: "09:00", EndTime: "10:00", MinCapacity: 3}
	rooms := []model.Room{
		{ID: "r1", RoomNumber: "A-101", Capacity: 4, Type: model.RoomTypeClassroom},
		{ID: "r2", RoomNumber: "A-102", Capacity: 6, Type: model.RoomTypeClassroom},
		{ID: "r3", RoomNumber: "B-201", Capacity: 60, Type: model.RoomTypeLectureHall},
	}

	text, kb := BuildSearchResultsScreen(q, rooms, false)

	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Equal(t, BookRoomPrefix+"3", kb.InlineKeyboard[1][0].CallbackData)
	assert.Contains(t, text, "3 аудитории")
}

func TestSearchResultsScreenEmpty(t *testing.T) {
	q := timetable.Query{Date: monday, StartTime: "09:00", EndTime: "10:00", MinCapacity: 3}

	text, kb := BuildSearchResultsScreen(q, nil, false)

	assert.Nil(t, kb)
	assert.Contains(t, text, "Нет аудиторий")
}

func TestPendingScreenPagination(t *testing.T) {
	var bookings []model.Booking
	for i := 0; i < 7; i++ {
		bookings = append(bookings, model.Booking{ID: string(rune('a' + i)), Date: monday, Status: model.BookingStatusPending})
	}

	_, kb := BuildPendingScreen(bookings, nil, 1)

	require.NotNil(t, kb)
	// две заявки на второй странице и ряд пагинации
	require.Len(t, kb.InlineKeyboard, 3)
	assert.Equal(t, ApprovePrefix+"f", kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, PendingPagePrefix+"0", kb.InlineKeyboard[2][0].CallbackData)
}
