package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/notify"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 4 марта 2024 - понедельник
var monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

var (
	student = &model.User{ID: 1, TelegramID: 101, Role: model.RoleStudent}
	other   = &model.User{ID: 2, TelegramID: 102, Role: model.RoleProfessor}
	admin   = &model.User{ID: 3, TelegramID: 103, Role: model.RoleAdmin}
)

type reservationFixture struct {
	rooms     *fakeRooms
	bookings  *fakeBookings
	timetable *fakeTimetable
	snapshots *fakeSnapshots
	publisher *fakePublisher
	svc       *ReservationService
}

func newReservationFixture(bookings ...model.Booking) *reservationFixture {
	f := &reservationFixture{
		rooms: &fakeRooms{rooms: []model.Room{
			{ID: "r1", RoomNumber: "A-101", Capacity: 2, Type: model.RoomTypeStudyRoom},
			{ID: "r2", RoomNumber: "A-102", Capacity: 4, Type: model.RoomTypeClassroom},
		}},
		bookings:  newFakeBookings(bookings...),
		timetable: newFakeTimetable(),
		snapshots: newFakeSnapshots(),
		publisher: &fakePublisher{},
	}
	f.svc = NewReservationService(
		f.rooms, f.bookings, f.timetable, f.snapshots, f.publisher,
		timetable.New(timetable.WithLocation(time.UTC)),
		zap.NewNop(),
		WithClock(func() time.Time { return monday.Add(10 * time.Hour) }),
		WithLocation(time.UTC),
		WithFetchTimeout(time.Second),
	)
	return f
}

func searchQuery(start, end string, capacity int) timetable.Query {
	return timetable.Query{Date: monday, StartTime: start, EndTime: end, MinCapacity: capacity}
}

func ids(rooms []model.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.ID)
	}
	return out
}

func TestSearchRoomsAppliesBookingsAndTimetable(t *testing.T) {
	f := newReservationFixture(model.Booking{
		ID: "b1", RoomID: "r2", Date: monday, StartTime: "09:00", EndTime: "10:00", Status: model.BookingStatusPending,
	})
	f.timetable.entries[other.ID] = []model.RawScheduleEntry{
		{ID: "e1", Day: "Monday", StartTime: "09:30", EndTime: "10:30", Location: "a-101"},
	}
	ctx := context.Background()

	busy, err := f.svc.SearchRooms(ctx, searchQuery("09:00", "10:00", 1))
	require.NoError(t, err)
	assert.Empty(t, busy.Rooms)

	free, err := f.svc.SearchRooms(ctx, searchQuery("10:30", "11:30", 1))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids(free.Rooms))
	assert.False(t, free.FromCache)
	assert.Len(t, f.snapshots.rooms, 2)
}

func TestSearchRoomsUsesRoomSnapshot(t *testing.T) {
	f := newReservationFixture()
	f.snapshots.rooms = []model.Room{{ID: "cached", RoomNumber: "C-1", Capacity: 10}}
	f.rooms.err = errUnavailable

	res, err := f.svc.SearchRooms(context.Background(), searchQuery("09:00", "10:00", 3))

	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, []string{"cached"}, ids(res.Rooms))
}

func TestSearchRoomsErrors(t *testing.T) {
	t.Run("validation runs before fetch", func(t *testing.T) {
		f := newReservationFixture()
		f.rooms.err = errUnavailable

		_, err := f.svc.SearchRooms(context.Background(), searchQuery("10:00", "09:00", 1))

		assert.ErrorIs(t, err, timetable.ErrValidation)
	})

	t.Run("no rooms and no snapshot", func(t *testing.T) {
		f := newReservationFixture()
		f.rooms.err = errUnavailable

		_, err := f.svc.SearchRooms(context.Background(), searchQuery("09:00", "10:00", 1))

		assert.ErrorIs(t, err, errUnavailable)
	})
}

func TestCreateReservation(t *testing.T) {
	f := newReservationFixture()

	booking, err := f.svc.Create(context.Background(), student, "a-102", searchQuery("9:00", "10:30", 3), " Семинар ")

	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "r2", booking.RoomID)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
	assert.Equal(t, "09:00 - 10:30", booking.Time)
	assert.Equal(t, "Семинар", booking.Purpose)
	assert.Equal(t, model.RoleStudent, booking.Role)
	assert.Equal(t, model.BookingStatusPending, f.bookings.status(booking.ID))
	assert.Equal(t, []notify.EventType{notify.EventReservationCreated}, f.publisher.types())
}

func TestCreateReservationRejected(t *testing.T) {
	existing := model.Booking{ID: "b1", RoomID: "r2", Date: monday, Time: "09:00 - 10:00", Status: model.BookingStatusApproved}
	ctx := context.Background()

	tests := []struct {
		name string
		room string
		q    timetable.Query
		want error
	}{
		{"overlap", "r2", searchQuery("09:30", "10:30", 1), ErrRoomUnavailable},
		{"too small", "r1", searchQuery("11:00", "12:00", 3), ErrRoomUnavailable},
		{"unknown room", "Z-999", searchQuery("11:00", "12:00", 1), ErrRoomNotFound},
		{"past date", "r2", timetable.Query{Date: monday.AddDate(0, 0, -1), StartTime: "11:00", EndTime: "12:00", MinCapacity: 1}, timetable.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newReservationFixture(existing)

			_, err := f.svc.Create(ctx, student, tt.room, tt.q, "")

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.publisher.types())
		})
	}
}

func TestCreateReservationSerializesConflicts(t *testing.T) {
	f := newReservationFixture()
	q := searchQuery("12:00", "13:00", 1)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Create(context.Background(), student, "r1", q, ""); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
}

func TestCancelReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cancels approved booking", func(t *testing.T) {
		f := newReservationFixture(model.Booking{ID: "b1", UserID: student.ID, Date: monday, Status: model.BookingStatusApproved})

		cancelled, err := f.svc.Cancel(ctx, student, "b1")

		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusCancelled, cancelled.Status)
		assert.Equal(t, model.BookingStatusCancelled, f.bookings.status("b1"))
		assert.Equal(t, []notify.EventType{notify.EventReservationCancelled}, f.publisher.types())
	})

	t.Run("foreign booking", func(t *testing.T) {
		f := newReservationFixture(model.Booking{ID: "b1", UserID: other.ID, Status: model.BookingStatusPending})

		_, err := f.svc.Cancel(ctx, student, "b1")

		assert.ErrorIs(t, err, ErrForbidden)
		assert.Equal(t, model.BookingStatusPending, f.bookings.status("b1"))
	})

	t.Run("terminal booking", func(t *testing.T) {
		f := newReservationFixture(model.Booking{ID: "b1", UserID: student.ID, Status: model.BookingStatusRejected})

		_, err := f.svc.Cancel(ctx, student, "b1")

		assert.ErrorIs(t, err, ErrNotCancellable)
		assert.ErrorIs(t, err, timetable.ErrInvalidTransition)
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newReservationFixture()

		_, err := f.svc.Cancel(ctx, student, "nope")

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestApproveAndReject(t *testing.T) {
	ctx := context.Background()

	t.Run("only admins decide", func(t *testing.T) {
		f := newReservationFixture(model.Booking{ID: "b1", Status: model.BookingStatusPending})

		_, err := f.svc.Approve(ctx, student, "b1")
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = f.svc.Pending(ctx, student)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("approve pending", func(t *testing.T) {
		f := newReservationFixture(model.Booking{ID: "b1", Status: model.BookingStatusPending})

		pending, err := f.svc.Pending(ctx, admin)
		require.NoError(t, err)
		require.Len(t, pending, 1)

		approved, err := f.svc.Approve(ctx, admin, "b1")
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusApproved, approved.Status)

		_, err = f.svc.Approve(ctx, admin, "b1")
		assert.ErrorIs(t, err, timetable.ErrInvalidTransition)
		assert.Equal(t, []notify.EventType{notify.EventReservationApproved}, f.publisher.types())
	})

	t.Run("reject keeps notes", func(t *testing.T) {
		f := newReservationFixture(model.Booking{ID: "b1", Status: model.BookingStatusPending, Notes: "Нужен проектор"})

		rejected, err := f.svc.Reject(ctx, admin, "b1", "Аудитория на ремонте")

		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusRejected, rejected.Status)
		assert.Equal(t, "Нужен проектор | Аудитория на ремонте", rejected.Notes)
		assert.Equal(t, []notify.EventType{notify.EventReservationRejected}, f.publisher.types())
	})
}

func TestAutoRejectExpired(t *testing.T) {
	f := newReservationFixture(
		model.Booking{ID: "yesterday", Date: monday.AddDate(0, 0, -1), Status: model.BookingStatusPending, Notes: "Room change"},
		model.Booking{ID: "today", Date: monday, Status: model.BookingStatusPending},
		model.Booking{ID: "tomorrow", Date: monday.AddDate(0, 0, 1), Status: model.BookingStatusPending},
		model.Booking{ID: "approved", Date: monday.AddDate(0, 0, -1), Status: model.BookingStatusApproved},
	)

	result, err := f.svc.AutoRejectExpired(context.Background())

	require.NoError(t, err)
	assert.Equal(t, AutoRejectResult{Found: 2, Rejected: 2}, result)
	assert.Equal(t, model.BookingStatusRejected, f.bookings.status("yesterday"))
	assert.Equal(t, model.BookingStatusRejected, f.bookings.status("today"))
	assert.Equal(t, model.BookingStatusPending, f.bookings.status("tomorrow"))
	assert.Equal(t, model.BookingStatusApproved, f.bookings.status("approved"))

	notes := f.bookings.bookings["yesterday"].Notes
	assert.Equal(t, "Room change | "+AutoRejectNote, notes)
	assert.Equal(t, AutoRejectNote, f.bookings.bookings["today"].Notes)
	assert.Len(t, f.publisher.types(), 2)
}

func TestAutoRejectExpiredCountsErrors(t *testing.T) {
	f := newReservationFixture(
		model.Booking{ID: "ok", Date: monday, Status: model.BookingStatusPending},
		model.Booking{ID: "broken", Date: monday, Status: model.BookingStatusPending},
	)
	f.bookings.updateErr["broken"] = errors.New("deadlock detected")

	result, err := f.svc.AutoRejectExpired(context.Background())

	require.Error(t, err)
	assert.Equal(t, AutoRejectResult{Found: 2, Rejected: 1, Errors: 1}, result)
}

func TestListForUserFallsBackToSnapshot(t *testing.T) {
	f := newReservationFixture(model.Booking{ID: "b1", UserID: student.ID, Status: model.BookingStatusPending})
	ctx := context.Background()

	live, err := f.svc.ListForUser(ctx, student)
	require.NoError(t, err)
	assert.False(t, live.FromCache)
	assert.Len(t, f.snapshots.reservations[student.ID], 1)

	f.bookings.err = errUnavailable

	cached, err := f.svc.ListForUser(ctx, student)
	require.NoError(t, err)
	assert.True(t, cached.FromCache)
	assert.Len(t, cached.Bookings, 1)

	_, err = f.svc.ListForUser(ctx, other)
	assert.ErrorIs(t, err, errUnavailable)
}

func TestWeeklyHours(t *testing.T) {
	f := newReservationFixture(
		model.Booking{ID: "b1", UserID: student.ID, Date: monday, StartTime: "09:00", EndTime: "10:30", Status: model.BookingStatusApproved},
		model.Booking{ID: "b2", UserID: student.ID, Date: monday.AddDate(0, 0, 2), Time: "14:00 - 15:15", Status: model.BookingStatusApproved},
		model.Booking{ID: "b3", UserID: student.ID, Date: monday, StartTime: "11:00", EndTime: "12:00", Status: model.BookingStatusPending},
		model.Booking{ID: "b4", UserID: student.ID, Date: monday.AddDate(0, 0, 7), StartTime: "09:00", EndTime: "10:00", Status: model.BookingStatusApproved},
	)

	stats, err := f.svc.WeeklyHours(context.Background(), student, time.Time{})

	require.NoError(t, err)
	assert.Equal(t, "02h 45min", stats.Summary)
	assert.Equal(t, monday, stats.WeekStart)
	assert.InDelta(t, 2.75, stats.Hours, 1e-9)
}
