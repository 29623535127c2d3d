package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/timetable"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WeekView недельное расписание пользователя, готовое к отображению
type WeekView struct {
	Entries   []model.ScheduleEntry
	Index     timetable.Index
	Grid      timetable.Grid
	FromCache bool // сервис данных недоступен, показан последний снимок
}

type TimetableService struct {
	entries   TimetableStore
	snapshots SnapshotStore
	engine    *timetable.Engine
	slots     []model.TimeSlot
	timeout   time.Duration
	logger    *zap.Logger

	mu          sync.Mutex
	generations map[int64]uint64
	views       map[int64]*WeekView
}

func NewTimetableService(
	entries TimetableStore,
	snapshots SnapshotStore,
	engine *timetable.Engine,
	timeout time.Duration,
	logger *zap.Logger,
) *TimetableService {
	return &TimetableService{
		entries:     entries,
		snapshots:   snapshots,
		engine:      engine,
		slots:       model.DefaultTimeSlots(),
		timeout:     timeout,
		logger:      logger,
		generations: make(map[int64]uint64),
		views:       make(map[int64]*WeekView),
	}
}

// Week загружает расписание пользователя и раскладывает его по сетке.
// Если сервис данных недоступен, используется последний снимок из кэша.
func (s *TimetableService) Week(ctx context.Context, user *model.User) (*WeekView, error) {
	gen := s.begin(user.ID)

	raw, fromCache, err := s.fetch(ctx, user)
	if err != nil {
		return nil, err
	}

	entries := s.engine.BuildEntries(raw)
	idx := s.engine.Index(entries)
	view := &WeekView{
		Entries:   entries,
		Index:     idx,
		Grid:      timetable.Plan(idx, s.slots),
		FromCache: fromCache,
	}

	if !s.commit(user.ID, gen, view) {
		s.logger.Debug("Timetable refresh superseded",
			zap.Int64("user_id", user.ID),
			zap.Uint64("generation", gen),
		)
	}

	return view, nil
}

// Last последнее загруженное расписание пользователя (nil, если ещё не загружалось)
func (s *TimetableService) Last(userID int64) *WeekView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views[userID]
}

// Slots часовые слоты сетки
func (s *TimetableService) Slots() []model.TimeSlot {
	out := make([]model.TimeSlot, len(s.slots))
	copy(out, s.slots)
	return out
}

// AddEntry добавляет занятие в расписание пользователя. Время проверяется строго.
func (s *TimetableService) AddEntry(ctx context.Context, user *model.User, raw model.RawScheduleEntry) (model.ScheduleEntry, error) {
	if _, ok := timetable.ParseDay(raw.Day); !ok {
		return model.ScheduleEntry{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidEntry, raw.Day)
	}
	for _, v := range []any{raw.StartTime, raw.EndTime} {
		clock, _ := v.(string)
		if _, err := timetable.ParseClock(clock); err != nil {
			return model.ScheduleEntry{}, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
		}
	}
	if strings.TrimSpace(raw.ID) == "" {
		raw.ID = uuid.NewString()
	}

	built := s.engine.BuildEntries([]model.RawScheduleEntry{raw})
	if len(built) == 0 {
		return model.ScheduleEntry{}, fmt.Errorf("%w: end time must be after start time", ErrInvalidEntry)
	}
	entry := built[0]

	if err := s.entries.Create(ctx, user.ID, entry); err != nil {
		return model.ScheduleEntry{}, fmt.Errorf("create entry: %w", err)
	}

	s.logger.Info("Timetable entry added",
		zap.Int64("user_id", user.ID),
		zap.String("entry_id", entry.ID),
		zap.String("day", string(entry.Day)),
		zap.String("start", entry.StartTime),
	)

	return entry, nil
}

// RemoveEntry удаляет занятие из расписания пользователя
func (s *TimetableService) RemoveEntry(ctx context.Context, user *model.User, id string) error {
	removed, err := s.entries.Delete(ctx, user.ID, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if !removed {
		return ErrEntryNotFound
	}

	s.logger.Info("Timetable entry removed",
		zap.Int64("user_id", user.ID),
		zap.String("entry_id", id),
	)

	return nil
}

func (s *TimetableService) fetch(ctx context.Context, user *model.User) ([]model.RawScheduleEntry, bool, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.entries.ListByUser(fetchCtx, user.ID)
	if err == nil {
		if saveErr := s.snapshots.SaveTimetable(ctx, user.Role, user.ID, raw); saveErr != nil {
			s.logger.Warn("Failed to save timetable snapshot", zap.Int64("user_id", user.ID), zap.Error(saveErr))
		}
		return raw, false, nil
	}

	s.logger.Warn("Timetable fetch failed, trying snapshot", zap.Int64("user_id", user.ID), zap.Error(err))

	cached, found, cacheErr := s.snapshots.LoadTimetable(ctx, user.Role, user.ID)
	if cacheErr != nil || !found {
		return nil, false, fmt.Errorf("fetch timetable: %w", err)
	}

	return cached, true, nil
}

// begin регистрирует новое обновление и возвращает его номер
func (s *TimetableService) begin(userID int64) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generations[userID]++
	return s.generations[userID]
}

// commit сохраняет view, только если за это время не началось более новое обновление
func (s *TimetableService) commit(userID int64, gen uint64, view *WeekView) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generations[userID] != gen {
		return false
	}
	s.views[userID] = view
	return true
}
