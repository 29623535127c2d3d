package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookingColumns = `id, room_id, user_id, role, date, start_time, end_time, time, status, purpose, notes, created_at, updated_at`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create создаёт новое бронирование. ID генерирует сервис.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (id, room_id, user_id, role, date, start_time, end_time, time, status, purpose, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		booking.ID,
		booking.RoomID,
		booking.UserID,
		booking.Role,
		dateOnly(booking.Date),
		booking.StartTime,
		booking.EndTime,
		booking.Time,
		booking.Status,
		booking.Purpose,
		booking.Notes,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return &booking, nil
}

// ListByUser получает все бронирования пользователя, новые даты первыми
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY date DESC, start_time ASC
	`

	return r.list(ctx, "list bookings by user", query, userID)
}

// ListByDate получает активные бронирования на дату
func (r *BookingRepository) ListByDate(ctx context.Context, date time.Time) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE date = $1 AND status IN ('PENDING', 'APPROVED')
		ORDER BY start_time ASC
	`

	return r.list(ctx, "list bookings by date", query, dateOnly(date))
}

// ListPending получает заявки, ожидающие решения, в порядке подачи
func (r *BookingRepository) ListPending(ctx context.Context) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'PENDING'
		ORDER BY created_at ASC
	`

	return r.list(ctx, "list pending bookings", query)
}

// ListExpiredPending получает заявки, дата которых уже наступила без решения
func (r *BookingRepository) ListExpiredPending(ctx context.Context, today time.Time) ([]model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'PENDING' AND date <= $1
		ORDER BY date ASC, created_at ASC
	`

	return r.list(ctx, "list expired pending bookings", query, dateOnly(today))
}

// UpdateStatus меняет статус, только если текущий статус равен from.
// Возвращает false, если бронирование уже изменилось или не существует.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus, notes string) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1,
		    notes = CASE WHEN $2 = '' THEN notes ELSE $2 END,
		    updated_at = NOW()
		WHERE id = $3 AND status = $4
	`

	result, err := r.pool.Exec(ctx, query, to, notes, id, from)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *BookingRepository) list(ctx context.Context, op, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bookings, err := base.CollectRows(rows, scanBooking)
	if err != nil {
		return nil, fmt.Errorf("%s: scan: %w", op, err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (model.Booking, error) {
	var booking model.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.Role,
		&booking.Date,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Time,
		&booking.Status,
		&booking.Purpose,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	return booking, err
}

// dateOnly календарная дата без часового пояса для колонки DATE
func dateOnly(t time.Time) string {
	return t.Format(time.DateOnly)
}
