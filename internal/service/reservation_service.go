package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/notify"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// AutoRejectNote пометка, которую получает заявка, не рассмотренная до своей даты
const AutoRejectNote = "Auto-rejected: Reservation date arrived without approval."

// SearchResult найденные аудитории
type SearchResult struct {
	Query     timetable.Query
	Rooms     []model.Room
	FromCache bool // список аудиторий взят из снимка
}

// Reservations брони пользователя
type Reservations struct {
	Bookings  []model.Booking
	FromCache bool
}

// WeeklyStats забронированные часы за неделю
type WeeklyStats struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Hours     float64
	Summary   string // "01h 30min"
	FromCache bool
}

// AutoRejectResult итог прогона авто-отклонения
type AutoRejectResult struct {
	Found    int
	Rejected int
	Errors   int
}

type ReservationService struct {
	rooms     RoomStore
	bookings  BookingStore
	timetable TimetableStore
	snapshots SnapshotStore
	publisher notify.Publisher
	engine    *timetable.Engine
	logger    *zap.Logger

	timeout time.Duration
	now     func() time.Time
	loc     *time.Location

	// Проверка свободности и вставка брони выполняются под одной блокировкой
	createMu sync.Mutex
}

// ReservationOption настраивает ReservationService
type ReservationOption func(*ReservationService)

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) ReservationOption {
	return func(s *ReservationService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFetchTimeout ограничивает время обращения к хранилищам
func WithFetchTimeout(d time.Duration) ReservationOption {
	return func(s *ReservationService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLocation часовой пояс кампуса, в котором определяется "сегодня"
func WithLocation(loc *time.Location) ReservationOption {
	return func(s *ReservationService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewReservationService(
	rooms RoomStore,
	bookings BookingStore,
	timetableStore TimetableStore,
	snapshots SnapshotStore,
	publisher notify.Publisher,
	engine *timetable.Engine,
	logger *zap.Logger,
	opts ...ReservationOption,
) *ReservationService {
	s := &ReservationService{
		rooms:     rooms,
		bookings:  bookings,
		timetable: timetableStore,
		snapshots: snapshots,
		publisher: publisher,
		engine:    engine,
		logger:    logger,
		timeout:   5 * time.Second,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SearchRooms ищет свободные аудитории. Аудитории, брони на дату и расписание
// загружаются параллельно; список аудиторий при ошибке берётся из снимка.
func (s *ReservationService) SearchRooms(ctx context.Context, q timetable.Query) (*SearchResult, error) {
	if err := s.engine.ValidateQuery(q); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		rooms     []model.Room
		fromCache bool
		bookings  []model.Booking
		entries   []model.ScheduleEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rooms, fromCache, err = s.loadRooms(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, entries, err = s.loadOccupancy(gctx, q.Date)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	found, err := s.engine.Search(rooms, bookings, q, timetable.WithTimetable(entries))
	if err != nil {
		return nil, err
	}

	return &SearchResult{Query: q, Rooms: found, FromCache: fromCache}, nil
}

// Create подаёт заявку на бронь. Аудитория перепроверяется непосредственно перед вставкой.
func (s *ReservationService) Create(ctx context.Context, user *model.User, roomRef string, q timetable.Query, purpose string) (*model.Booking, error) {
	if err := s.engine.ValidateQuery(q); err != nil {
		return nil, err
	}

	today := s.today()
	date := time.Date(q.Date.Year(), q.Date.Month(), q.Date.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, &timetable.ValidationError{Field: "date", Reason: "must not be in the past"}
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	room, err := s.rooms.FindByRef(ctx, roomRef)
	if err != nil {
		return nil, fmt.Errorf("find room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	bookings, entries, err := s.loadOccupancy(ctx, date)
	if err != nil {
		return nil, err
	}

	free, err := s.engine.Search([]model.Room{*room}, bookings, q, timetable.WithTimetable(entries))
	if err != nil {
		return nil, err
	}
	if len(free) == 0 {
		return nil, ErrRoomUnavailable
	}

	start := s.engine.Normalize(q.StartTime)
	end := s.engine.Normalize(q.EndTime)
	booking := &model.Booking{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		UserID:    user.ID,
		Role:      user.Role,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Time:      start + " - " + end,
		Status:    model.BookingStatusPending,
		Purpose:   strings.TrimSpace(purpose),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Reservation requested",
		zap.String("booking_id", booking.ID),
		zap.Int64("user_id", user.ID),
		zap.String("room_id", room.ID),
		zap.String("date", date.Format(time.DateOnly)),
		zap.String("time", booking.Time),
	)

	s.publish(ctx, notify.EventReservationCreated, *booking)

	booking.Room = room
	return booking, nil
}

// ListForUser брони пользователя. При недоступности хранилища отдаётся снимок.
func (s *ReservationService) ListForUser(ctx context.Context, user *model.User) (*Reservations, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bookings, err := s.bookings.ListByUser(fetchCtx, user.ID)
	if err == nil {
		if saveErr := s.snapshots.SaveReservations(ctx, user.Role, user.ID, bookings); saveErr != nil {
			s.logger.Warn("Failed to save reservations snapshot", zap.Int64("user_id", user.ID), zap.Error(saveErr))
		}
		return &Reservations{Bookings: bookings}, nil
	}

	s.logger.Warn("Reservations fetch failed, trying snapshot", zap.Int64("user_id", user.ID), zap.Error(err))

	cached, found, cacheErr := s.snapshots.LoadReservations(ctx, user.Role, user.ID)
	if cacheErr != nil || !found {
		return nil, fmt.Errorf("list reservations: %w", err)
	}

	return &Reservations{Bookings: cached, FromCache: true}, nil
}

// Cancel отменяет бронь владельцем
func (s *ReservationService) Cancel(ctx context.Context, user *model.User, bookingID string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}
	if booking.UserID != user.ID {
		return nil, ErrForbidden
	}

	cancelled, err := timetable.Transition(*booking, model.BookingStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotCancellable, err)
	}

	ok, err := s.bookings.UpdateStatus(ctx, booking.ID, booking.Status, cancelled.Status, "")
	if err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}
	if !ok {
		return nil, ErrBookingChanged
	}

	s.logger.Info("Reservation cancelled",
		zap.String("booking_id", booking.ID),
		zap.Int64("user_id", user.ID),
		zap.String("previous_status", string(booking.Status)),
	)

	s.publish(ctx, notify.EventReservationCancelled, cancelled)

	return &cancelled, nil
}

// Pending заявки, ожидающие решения администратора
func (s *ReservationService) Pending(ctx context.Context, admin *model.User) ([]model.Booking, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}

	bookings, err := s.bookings.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	return bookings, nil
}

// Approve одобряет заявку
func (s *ReservationService) Approve(ctx context.Context, admin *model.User, bookingID string) (*model.Booking, error) {
	return s.decide(ctx, admin, bookingID, model.BookingStatusApproved, "", notify.EventReservationApproved)
}

// Reject отклоняет заявку с необязательной причиной
func (s *ReservationService) Reject(ctx context.Context, admin *model.User, bookingID, reason string) (*model.Booking, error) {
	return s.decide(ctx, admin, bookingID, model.BookingStatusRejected, strings.TrimSpace(reason), notify.EventReservationRejected)
}

func (s *ReservationService) decide(ctx context.Context, admin *model.User, bookingID string, to model.BookingStatus, note string, event notify.EventType) (*model.Booking, error) {
	if !admin.IsAdmin() {
		return nil, ErrForbidden
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, ErrBookingNotFound
	}

	updated, err := timetable.Transition(*booking, to)
	if err != nil {
		return nil, err
	}
	updated.Notes = appendNote(booking.Notes, note)

	ok, err := s.bookings.UpdateStatus(ctx, booking.ID, booking.Status, to, updated.Notes)
	if err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}
	if !ok {
		return nil, ErrBookingChanged
	}

	s.logger.Info("Reservation decided",
		zap.String("booking_id", booking.ID),
		zap.Int64("admin_id", admin.ID),
		zap.String("status", string(to)),
	)

	s.publish(ctx, event, updated)

	return &updated, nil
}

// WeeklyHours одобренные часы пользователя за неделю, в которую попадает ref.
// Нулевой ref означает текущую неделю.
func (s *ReservationService) WeeklyHours(ctx context.Context, user *model.User, ref time.Time) (*WeeklyStats, error) {
	if ref.IsZero() {
		ref = s.now().In(s.loc)
	}

	reservations, err := s.ListForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	start, end := timetable.WeekBounds(ref)
	hours := s.engine.WeeklyHours(reservations.Bookings, ref)

	return &WeeklyStats{
		WeekStart: start,
		WeekEnd:   end,
		Hours:     hours,
		Summary:   timetable.FormatHours(hours),
		FromCache: reservations.FromCache,
	}, nil
}

// AutoRejectExpired отклоняет заявки, дата которых наступила без решения администратора
func (s *ReservationService) AutoRejectExpired(ctx context.Context) (AutoRejectResult, error) {
	today := s.today()

	expired, err := s.bookings.ListExpiredPending(ctx, today)
	if err != nil {
		return AutoRejectResult{}, fmt.Errorf("list expired pending: %w", err)
	}

	result := AutoRejectResult{Found: len(expired)}
	var errs []error

	for _, booking := range expired {
		rejected, err := timetable.Transition(booking, model.BookingStatusRejected)
		if err != nil {
			result.Errors++
			errs = append(errs, err)
			continue
		}
		rejected.Notes = appendNote(booking.Notes, AutoRejectNote)

		ok, err := s.bookings.UpdateStatus(ctx, booking.ID, model.BookingStatusPending, model.BookingStatusRejected, rejected.Notes)
		if err != nil {
			result.Errors++
			errs = append(errs, fmt.Errorf("auto-reject %s: %w", booking.ID, err))
			s.logger.Error("Failed to auto-reject reservation", zap.String("booking_id", booking.ID), zap.Error(err))
			continue
		}
		if !ok {
			// Администратор успел принять решение
			continue
		}

		result.Rejected++
		s.logger.Info("Reservation auto-rejected",
			zap.String("booking_id", booking.ID),
			zap.Int64("user_id", booking.UserID),
			zap.String("date", booking.Date.Format(time.DateOnly)),
		)

		s.publish(ctx, notify.EventReservationAutoRejected, rejected)
	}

	return result, errors.Join(errs...)
}

func (s *ReservationService) loadRooms(ctx context.Context) ([]model.Room, bool, error) {
	rooms, err := s.rooms.List(ctx)
	if err == nil {
		if saveErr := s.snapshots.SaveRooms(ctx, rooms); saveErr != nil {
			s.logger.Warn("Failed to save rooms snapshot", zap.Error(saveErr))
		}
		return rooms, false, nil
	}

	s.logger.Warn("Rooms fetch failed, trying snapshot", zap.Error(err))

	cached, found, cacheErr := s.snapshots.LoadRooms(ctx)
	if cacheErr != nil || !found {
		return nil, false, fmt.Errorf("list rooms: %w", err)
	}

	return cached, true, nil
}

// loadOccupancy брони на дату и всё расписание кампуса, параллельно
func (s *ReservationService) loadOccupancy(ctx context.Context, date time.Time) ([]model.Booking, []model.ScheduleEntry, error) {
	var (
		bookings []model.Booking
		raw      []model.RawScheduleEntry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.bookings.ListByDate(gctx, date)
		if err != nil {
			return fmt.Errorf("list bookings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		raw, err = s.timetable.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("list timetable: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return bookings, s.engine.BuildEntries(raw), nil
}

func (s *ReservationService) publish(ctx context.Context, t notify.EventType, b model.Booking) {
	if err := s.publisher.Publish(ctx, notify.NewEvent(t, b, s.now())); err != nil {
		s.logger.Warn("Failed to publish event",
			zap.String("type", string(t)),
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}

// today календарная дата "сегодня" в поясе кампуса, как полночь UTC
func (s *ReservationService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func appendNote(existing, note string) string {
	existing = strings.TrimSpace(existing)
	switch {
	case note == "":
		return existing
	case existing == "":
		return note
	default:
		return existing + " | " + note
	}
}
