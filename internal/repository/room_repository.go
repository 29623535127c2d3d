package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const roomColumns = `id, room_number, name, capacity, type, features`

type RoomRepository struct {
	*base.Repository
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{Repository: base.NewRepository(pool)}
}

// List получает все аудитории в порядке номера
func (r *RoomRepository) List(ctx context.Context) ([]model.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms ORDER BY COALESCE(NULLIF(room_number, ''), name), id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	rooms, err := base.CollectRows(rows, scanRoom)
	if err != nil {
		return nil, fmt.Errorf("scan rooms: %w", err)
	}

	return rooms, nil
}

// FindByRef ищет аудиторию по ID или номеру (без учёта регистра)
func (r *RoomRepository) FindByRef(ctx context.Context, ref string) (*model.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE id = $1 OR LOWER(room_number) = LOWER($1) OR LOWER(name) = LOWER($1)
		ORDER BY (id = $1) DESC
		LIMIT 1
	`

	room, err := scanRoom(r.QueryRow(ctx, query, ref))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find room %q: %w", ref, err)
	}

	return &room, nil
}

func scanRoom(row pgx.Row) (model.Room, error) {
	var raw model.RawRoom
	err := row.Scan(
		&raw.ID,
		&raw.RoomNumber,
		&raw.Name,
		&raw.Capacity,
		&raw.Type,
		&raw.Features,
	)
	if err != nil {
		return model.Room{}, err
	}
	return raw.ToRoom(), nil
}
