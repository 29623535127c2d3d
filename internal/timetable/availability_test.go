package timetable

import (
	"testing"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 4 марта 2024 - понедельник
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

func rooms() []model.Room {
	return []model.Room{
		{ID: "r1", RoomNumber: "A-101", Capacity: 2, Type: model.RoomTypeStudyRoom},
		{ID: "r2", RoomNumber: "A-102", Capacity: 4, Type: model.RoomTypeClassroom},
		{ID: "r3", RoomNumber: "B-201", Capacity: 30, Type: model.RoomTypeLectureHall},
	}
}

func query(start, end string, capacity int) Query {
	return Query{Date: monday, StartTime: start, EndTime: end, MinCapacity: capacity}
}

func roomIDs(rooms []model.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.ID)
	}
	return out
}

func TestSearchFiltersByCapacity(t *testing.T) {
	got, err := New().Search(rooms()[:2], nil, query("09:00", "10:00", 3))

	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, roomIDs(got))
}

func TestSearchFiltersByType(t *testing.T) {
	q := query("09:00", "10:00", 1)
	q.Type = "lecture hall"

	got, err := New().Search(rooms(), nil, q)

	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, roomIDs(got))
}

func TestSearchExcludesOverlappingBookings(t *testing.T) {
	bookings := []model.Booking{
		{ID: "b1", RoomID: "r2", Date: monday, StartTime: "09:30", EndTime: "10:30", Status: model.BookingStatusApproved},
		{ID: "b2", RoomID: "b-201", Date: monday, StartTime: "08:00", EndTime: "09:15", Status: model.BookingStatusPending},
	}

	got, err := New().Search(rooms(), bookings, query("09:00", "10:00", 1))

	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, roomIDs(got))
}

func TestSearchIgnoresTerminalBookings(t *testing.T) {
	bookings := []model.Booking{
		{RoomID: "r1", Date: monday, StartTime: "09:00", EndTime: "10:00", Status: model.BookingStatusRejected},
		{RoomID: "r2", Date: monday, StartTime: "09:00", EndTime: "10:00", Status: model.BookingStatusCancelled},
	}

	got, err := New().Search(rooms(), bookings, query("09:00", "10:00", 1))

	require.NoError(t, err)
	assert.Equal(t, []string{"r1", "r2", "r3"}, roomIDs(got))
}

func TestSearchTouchingIntervalsDoNotOverlap(t *testing.T) {
	bookings := []model.Booking{
		{RoomID: "r1", Date: monday, StartTime: "08:00", EndTime: "09:00", Status: model.BookingStatusApproved},
		{RoomID: "r1", Date: monday, StartTime: "10:00", EndTime: "11:00", Status: model.BookingStatusApproved},
	}

	got, err := New().Search(rooms()[:1], bookings, query("09:00", "10:00", 1))

	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, roomIDs(got))
}

func TestSearchOtherDateDoesNotBlock(t *testing.T) {
	bookings := []model.Booking{
		{RoomID: "r1", Date: monday.AddDate(0, 0, 1), StartTime: "09:00", EndTime: "10:00", Status: model.BookingStatusApproved},
	}

	got, err := New().Search(rooms()[:1], bookings, query("09:00", "10:00", 1))

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSearchLegacyTimeString(t *testing.T) {
	bookings := []model.Booking{
		{RoomID: "r1", Date: monday, Time: "09:00 - 10:00", Status: model.BookingStatusPending},
		{RoomID: "r2", Date: monday, Time: "9:30-11:00", Status: model.BookingStatusPending},
	}

	got, err := New().Search(rooms(), bookings, query("09:45", "10:15", 1))

	require.NoError(t, err)
	assert.Equal(t, []string{"r3"}, roomIDs(got))
}

func TestSearchWithTimetable(t *testing.T) {
	entries := []model.ScheduleEntry{
		{Day: model.Monday, StartTime: "09:00", EndTime: "10:30", Location: "a-101"},
		{Day: model.Tuesday, StartTime: "09:00", EndTime: "10:30", Location: "A-102"},
	}

	got, err := New().Search(rooms(), nil, query("10:00", "11:00", 1), WithTimetable(entries))

	require.NoError(t, err)
	assert.Equal(t, []string{"r2", "r3"}, roomIDs(got))
}

func TestSearchNoMatchesReturnsEmptySlice(t *testing.T) {
	got, err := New().Search(rooms(), nil, query("09:00", "10:00", 500))

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchValidation(t *testing.T) {
	tests := []struct {
		name  string
		q     Query
		field string
	}{
		{name: "zero capacity", q: query("09:00", "10:00", 0), field: "minCapacity"},
		{name: "negative capacity", q: query("09:00", "10:00", -2), field: "minCapacity"},
		{name: "missing date", q: Query{StartTime: "09:00", EndTime: "10:00", MinCapacity: 1}, field: "date"},
		{name: "missing start", q: query("", "10:00", 1), field: "startTime"},
		{name: "malformed end", q: query("09:00", "ten", 1), field: "endTime"},
		{name: "end before start", q: query("11:00", "10:00", 1), field: "endTime"},
		{name: "empty interval", q: query("10:00", "10:00", 1), field: "endTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := New().Search(rooms(), nil, tt.q)

			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Nil(t, got)
		})
	}
}

func TestIsAvailable(t *testing.T) {
	room := rooms()[0]
	bookings := []model.Booking{
		{RoomID: "A-101", Date: monday, StartTime: "12:00", EndTime: "13:00", Status: model.BookingStatusApproved},
	}
	e := New()

	assert.False(t, e.IsAvailable(room, bookings, monday, "12:30", "13:30"))
	assert.True(t, e.IsAvailable(room, bookings, monday, "13:00", "14:00"))
	assert.False(t, e.IsAvailable(room, bookings, monday, "14:00", "13:00"))
}

func TestMatchesRoom(t *testing.T) {
	room := model.Room{ID: "42", RoomNumber: "Lab-3"}

	assert.True(t, MatchesRoom(room, "42"))
	assert.True(t, MatchesRoom(room, "lab-3"))
	assert.False(t, MatchesRoom(room, ""))
	assert.False(t, MatchesRoom(room, "Lab-4"))
}
