package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/notify"
)

var errUnavailable = errors.New("data service unavailable")

type fakeUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*model.User // по telegram_id
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: make(map[int64]*model.User)}
	for _, u := range users {
		f.nextID++
		if u.ID == 0 {
			u.ID = f.nextID
		}
		f.users[u.TelegramID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	stored := *user
	f.users[user.TelegramID] = &stored
	return nil
}

func (f *fakeUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[telegramID]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) Update(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *user
	f.users[user.TelegramID] = &stored
	return nil
}

func (f *fakeUsers) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.User
	for _, u := range f.users {
		if u.Role == role {
			c := *u
			out = append(out, &c)
		}
	}
	return out, nil
}

type fakeRooms struct {
	rooms []model.Room
	err   error
}

func (f *fakeRooms) List(context.Context) ([]model.Room, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rooms, nil
}

func (f *fakeRooms) FindByRef(_ context.Context, ref string) (*model.Room, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.rooms {
		if r.ID == ref || strings.EqualFold(r.RoomNumber, ref) {
			room := r
			return &room, nil
		}
	}
	return nil, nil
}

type fakeBookings struct {
	mu        sync.Mutex
	bookings  map[string]model.Booking
	order     []string
	err       error
	updateErr map[string]error
}

func newFakeBookings(bookings ...model.Booking) *fakeBookings {
	f := &fakeBookings{bookings: make(map[string]model.Booking), updateErr: make(map[string]error)}
	for _, b := range bookings {
		f.bookings[b.ID] = b
		f.order = append(f.order, b.ID)
	}
	return f
}

func (f *fakeBookings) Create(_ context.Context, b *model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.bookings[b.ID] = *b
	f.order = append(f.order, b.ID)
	return nil
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (*model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBookings) filter(keep func(model.Booking) bool) ([]model.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Booking
	for _, id := range f.order {
		if b := f.bookings[id]; keep(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID int64) ([]model.Booking, error) {
	return f.filter(func(b model.Booking) bool { return b.UserID == userID })
}

func (f *fakeBookings) ListByDate(_ context.Context, date time.Time) ([]model.Booking, error) {
	day := date.Format(time.DateOnly)
	return f.filter(func(b model.Booking) bool {
		return b.Status.IsActive() && b.Date.Format(time.DateOnly) == day
	})
}

func (f *fakeBookings) ListPending(context.Context) ([]model.Booking, error) {
	return f.filter(func(b model.Booking) bool { return b.Status == model.BookingStatusPending })
}

func (f *fakeBookings) ListExpiredPending(_ context.Context, today time.Time) ([]model.Booking, error) {
	return f.filter(func(b model.Booking) bool {
		return b.Status == model.BookingStatusPending && !b.Date.After(today)
	})
}

func (f *fakeBookings) UpdateStatus(_ context.Context, id string, from, to model.BookingStatus, notes string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.updateErr[id]; err != nil {
		return false, err
	}
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	if notes != "" {
		b.Notes = notes
	}
	f.bookings[id] = b
	return true, nil
}

func (f *fakeBookings) status(id string) model.BookingStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bookings[id].Status
}

type fakeTimetable struct {
	mu      sync.Mutex
	entries map[int64][]model.RawScheduleEntry
	err     error
	// block, если задан, удерживает ListByUser до закрытия канала
	block chan struct{}
}

func newFakeTimetable() *fakeTimetable {
	return &fakeTimetable{entries: make(map[int64][]model.RawScheduleEntry)}
}

func (f *fakeTimetable) ListByUser(ctx context.Context, userID int64) ([]model.RawScheduleEntry, error) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.RawScheduleEntry, len(f.entries[userID]))
	copy(out, f.entries[userID])
	return out, nil
}

func (f *fakeTimetable) ListAll(context.Context) ([]model.RawScheduleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []model.RawScheduleEntry
	for _, entries := range f.entries {
		out = append(out, entries...)
	}
	return out, nil
}

func (f *fakeTimetable) Create(_ context.Context, userID int64, e model.ScheduleEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries[userID] = append(f.entries[userID], model.RawScheduleEntry{
		ID: e.ID, Day: string(e.Day), StartTime: e.StartTime, EndTime: e.EndTime,
		Name: e.Name, Location: e.Location, Type: e.Type, Instructor: e.Instructor, Color: e.Color,
	})
	return nil
}

func (f *fakeTimetable) Delete(_ context.Context, userID int64, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	kept := f.entries[userID][:0]
	for _, e := range f.entries[userID] {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(kept) != len(f.entries[userID])
	f.entries[userID] = kept
	return removed, nil
}

// fakeSnapshots хранилище снимков в памяти
type fakeSnapshots struct {
	mu           sync.Mutex
	reservations map[int64][]model.Booking
	rooms        []model.Room
	timetables   map[int64][]model.RawScheduleEntry
	saveErr      error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{
		reservations: make(map[int64][]model.Booking),
		timetables:   make(map[int64][]model.RawScheduleEntry),
	}
}

func (f *fakeSnapshots) SaveReservations(_ context.Context, _ model.Role, userID int64, bookings []model.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.reservations[userID] = append([]model.Booking(nil), bookings...)
	return nil
}

func (f *fakeSnapshots) LoadReservations(_ context.Context, _ model.Role, userID int64) ([]model.Booking, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.reservations[userID]
	return b, ok, nil
}

func (f *fakeSnapshots) SaveRooms(_ context.Context, rooms []model.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rooms = append([]model.Room(nil), rooms...)
	return nil
}

func (f *fakeSnapshots) LoadRooms(context.Context) ([]model.Room, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rooms, f.rooms != nil, nil
}

func (f *fakeSnapshots) SaveTimetable(_ context.Context, _ model.Role, userID int64, entries []model.RawScheduleEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.timetables[userID] = append([]model.RawScheduleEntry(nil), entries...)
	return nil
}

func (f *fakeSnapshots) LoadTimetable(_ context.Context, _ model.Role, userID int64) ([]model.RawScheduleEntry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.timetables[userID]
	return e, ok, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (f *fakePublisher) Publish(_ context.Context, e notify.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) types() []notify.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.EventType, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}
