package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
)

// Интерфейсы хранилищ, которыми пользуются сервисы.
// Реализации: internal/repository (PostgreSQL) и internal/cache (Redis).

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
}

type RoomStore interface {
	List(ctx context.Context) ([]model.Room, error)
	FindByRef(ctx context.Context, ref string) (*model.Room, error)
}

type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
	ListByDate(ctx context.Context, date time.Time) ([]model.Booking, error)
	ListPending(ctx context.Context) ([]model.Booking, error)
	ListExpiredPending(ctx context.Context, today time.Time) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus, notes string) (bool, error)
}

type TimetableStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.RawScheduleEntry, error)
	ListAll(ctx context.Context) ([]model.RawScheduleEntry, error)
	Create(ctx context.Context, userID int64, entry model.ScheduleEntry) error
	Delete(ctx context.Context, userID int64, id string) (bool, error)
}

// SnapshotStore последние успешно загруженные данные
type SnapshotStore interface {
	SaveReservations(ctx context.Context, role model.Role, userID int64, bookings []model.Booking) error
	LoadReservations(ctx context.Context, role model.Role, userID int64) ([]model.Booking, bool, error)
	SaveRooms(ctx context.Context, rooms []model.Room) error
	LoadRooms(ctx context.Context) ([]model.Room, bool, error)
	SaveTimetable(ctx context.Context, role model.Role, userID int64, entries []model.RawScheduleEntry) error
	LoadTimetable(ctx context.Context, role model.Role, userID int64) ([]model.RawScheduleEntry, bool, error)
}
