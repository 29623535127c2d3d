package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Время отдаётся как есть (TEXT), нормализацию делает timetable.Engine
const timetableColumns = `
	id, day,
	start_time, end_time,
	COALESCE(name, ''), COALESCE(location, ''), COALESCE(type, ''),
	COALESCE(instructor, ''), COALESCE(color, ''), COALESCE(description, '')`

type TimetableRepository struct {
	*base.Repository
}

func NewTimetableRepository(pool *pgxpool.Pool) *TimetableRepository {
	return &TimetableRepository{Repository: base.NewRepository(pool)}
}

// ListByUser получает занятия из расписания пользователя
func (r *TimetableRepository) ListByUser(ctx context.Context, userID int64) ([]model.RawScheduleEntry, error) {
	query := `SELECT ` + timetableColumns + ` FROM timetable_entries WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list timetable by user: %w", err)
	}

	entries, err := base.CollectRows(rows, scanRawEntry)
	if err != nil {
		return nil, fmt.Errorf("scan timetable entries: %w", err)
	}

	return entries, nil
}

// ListAll получает все занятия кампуса (для проверки занятости аудиторий)
func (r *TimetableRepository) ListAll(ctx context.Context) ([]model.RawScheduleEntry, error) {
	query := `SELECT ` + timetableColumns + ` FROM timetable_entries ORDER BY created_at, id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}

	entries, err := base.CollectRows(rows, scanRawEntry)
	if err != nil {
		return nil, fmt.Errorf("scan timetable entries: %w", err)
	}

	return entries, nil
}

// Create добавляет занятие в расписание пользователя
func (r *TimetableRepository) Create(ctx context.Context, userID int64, entry model.ScheduleEntry) error {
	query := `
		INSERT INTO timetable_entries (id, user_id, day, start_time, end_time, name, location, type, instructor, color, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.ExecAffected(
		ctx, query,
		entry.ID,
		userID,
		entry.Day,
		entry.StartTime,
		entry.EndTime,
		entry.Name,
		entry.Location,
		entry.Type,
		entry.Instructor,
		entry.Color,
		entry.Description,
	)
	if err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}

	return nil
}

// Delete удаляет занятие пользователя. false, если такого занятия у пользователя нет.
func (r *TimetableRepository) Delete(ctx context.Context, userID int64, id string) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM timetable_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete timetable entry: %w", err)
	}

	return affected > 0, nil
}

func scanRawEntry(row pgx.Row) (model.RawScheduleEntry, error) {
	var (
		entry      model.RawScheduleEntry
		start, end *string
	)
	err := row.Scan(
		&entry.ID,
		&entry.Day,
		&start,
		&end,
		&entry.Name,
		&entry.Location,
		&entry.Type,
		&entry.Instructor,
		&entry.Color,
		&entry.Description,
	)
	if err != nil {
		return model.RawScheduleEntry{}, err
	}

	// NULL остаётся nil, чтобы нормализация отметила его как отсутствующее время
	if start != nil {
		entry.StartTime = *start
	}
	if end != nil {
		entry.EndTime = *end
	}

	return entry, nil
}
