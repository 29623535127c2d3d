package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"go.uber.org/zap"
)

// ReservationSource удалённая сторона броней пользователя
type ReservationSource interface {
	ListForUser(ctx context.Context, user *model.User) (*Reservations, error)
	Cancel(ctx context.Context, user *model.User, bookingID string) (*model.Booking, error)
}

// ReservationBook брони пользователя в рамках сессии бота.
// Коллекция заменяется целиком; более старая загрузка не перетирает более новую.
type ReservationBook struct {
	user      *model.User
	source    ReservationSource
	snapshots SnapshotStore
	logger    *zap.Logger

	mu            sync.Mutex
	bookings      []model.Booking
	generation    uint64
	fromCache     bool
	authoritative bool
}

func NewReservationBook(user *model.User, source ReservationSource, snapshots SnapshotStore, logger *zap.Logger) *ReservationBook {
	return &ReservationBook{
		user:          user,
		source:        source,
		snapshots:     snapshots,
		logger:        logger,
		authoritative: true,
	}
}

// Role роль, под которой книга ведёт снимок
func (b *ReservationBook) Role() model.Role {
	return b.user.Role
}

// Load перечитывает брони пользователя
func (b *ReservationBook) Load(ctx context.Context) ([]model.Booking, error) {
	b.mu.Lock()
	b.generation++
	gen := b.generation
	b.mu.Unlock()

	reservations, err := b.source.ListForUser(ctx, b.user)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if gen == b.generation {
		b.bookings = reservations.Bookings
		b.fromCache = reservations.FromCache
	}

	return b.copyLocked(), nil
}

// Bookings текущая коллекция
func (b *ReservationBook) Bookings() []model.Booking {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.copyLocked()
}

// FromCache коллекция загружена из снимка
func (b *ReservationBook) FromCache() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fromCache
}

// Authoritative false, если снимок на диске расходится с коллекцией
func (b *ReservationBook) Authoritative() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authoritative
}

// Find бронь из коллекции по ID
func (b *ReservationBook) Find(id string) (model.Booking, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, booking := range b.bookings {
		if booking.ID == id {
			return booking, true
		}
	}
	return model.Booking{}, false
}

// Cancel отменяет бронь. Без подтверждения пользователя ничего не отправляется.
func (b *ReservationBook) Cancel(ctx context.Context, id string, confirmed bool) (*model.Booking, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}

	booking, ok := b.Find(id)
	if !ok {
		return nil, ErrBookingNotFound
	}
	if !timetable.CanCancel(booking.Status) {
		return nil, fmt.Errorf("%w: status %s", ErrNotCancellable, booking.Status)
	}

	cancelled, err := b.source.Cancel(ctx, b.user, id)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.generation++
	remaining := make([]model.Booking, 0, len(b.bookings))
	for _, existing := range b.bookings {
		if existing.ID != id {
			remaining = append(remaining, existing)
		}
	}
	b.bookings = remaining
	b.mu.Unlock()

	if err := b.Persist(ctx); err != nil {
		b.logger.Warn("Reservation snapshot is stale after cancel",
			zap.Int64("user_id", b.user.ID),
			zap.String("booking_id", id),
			zap.Error(err),
		)
	}

	return cancelled, nil
}

// Persist записывает коллекцию в снимок. При ошибке книга помечается неавторитетной.
func (b *ReservationBook) Persist(ctx context.Context) error {
	bookings := b.Bookings()

	err := b.snapshots.SaveReservations(ctx, b.user.Role, b.user.ID, bookings)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.authoritative = err == nil
	if err != nil {
		return fmt.Errorf("persist reservations: %w", err)
	}
	return nil
}

func (b *ReservationBook) copyLocked() []model.Booking {
	out := make([]model.Booking, len(b.bookings))
	copy(out, b.bookings)
	return out
}
