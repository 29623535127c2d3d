// Package cache хранит последние успешно загруженные данные в Redis,
// чтобы бот мог показать их, когда сервис данных недоступен.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/redis/go-redis/v9"
)

const roomsKey = "availableClassrooms"

// Snapshots снимки данных в Redis. Значения хранятся как JSON.
// Нулевой клиент означает выключенный кэш: запись ничего не делает, чтение ничего не находит.
type Snapshots struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// New создаёт хранилище снимков. ttl = 0 хранит снимки бессрочно.
func New(client redis.UniversalClient, ttl time.Duration) *Snapshots {
	return &Snapshots{client: client, ttl: ttl}
}

// Disabled хранилище без Redis
func Disabled() *Snapshots {
	return &Snapshots{}
}

// Enabled подключён ли Redis
func (s *Snapshots) Enabled() bool {
	return s.client != nil
}

// ReservationsKey ключ снимка броней: professorReservations:<id> или studentReservations:<id>
func ReservationsKey(role model.Role, userID int64) string {
	return fmt.Sprintf("%sReservations:%d", rolePrefix(role), userID)
}

// TimetableKey ключ снимка расписания пользователя
func TimetableKey(role model.Role, userID int64) string {
	return fmt.Sprintf("%sTimetable:%d", rolePrefix(role), userID)
}

func rolePrefix(role model.Role) string {
	if role == model.RoleProfessor {
		return "professor"
	}
	return "student"
}

func (s *Snapshots) SaveReservations(ctx context.Context, role model.Role, userID int64, bookings []model.Booking) error {
	return s.save(ctx, ReservationsKey(role, userID), bookings)
}

func (s *Snapshots) LoadReservations(ctx context.Context, role model.Role, userID int64) ([]model.Booking, bool, error) {
	var bookings []model.Booking
	found, err := s.load(ctx, ReservationsKey(role, userID), &bookings)
	return bookings, found, err
}

func (s *Snapshots) SaveRooms(ctx context.Context, rooms []model.Room) error {
	return s.save(ctx, roomsKey, rooms)
}

func (s *Snapshots) LoadRooms(ctx context.Context) ([]model.Room, bool, error) {
	var rooms []model.Room
	found, err := s.load(ctx, roomsKey, &rooms)
	return rooms, found, err
}

func (s *Snapshots) SaveTimetable(ctx context.Context, role model.Role, userID int64, entries []model.RawScheduleEntry) error {
	return s.save(ctx, TimetableKey(role, userID), entries)
}

func (s *Snapshots) LoadTimetable(ctx context.Context, role model.Role, userID int64) ([]model.RawScheduleEntry, bool, error) {
	var entries []model.RawScheduleEntry
	found, err := s.load(ctx, TimetableKey(role, userID), &entries)
	return entries, found, err
}

func (s *Snapshots) save(ctx context.Context, key string, value any) error {
	if s.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}

	return nil
}

func (s *Snapshots) load(ctx context.Context, key string, dest any) (bool, error) {
	if s.client == nil {
		return false, nil
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("load snapshot %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	return true, nil
}
