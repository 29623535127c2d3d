package state

import (
	"sync"

	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"go.uber.org/zap"
)

// Sessions хранит ReservationBook каждого пользователя на время работы процесса
type Sessions struct {
	mu        sync.Mutex
	books     map[int64]*service.ReservationBook
	source    service.ReservationSource
	snapshots service.SnapshotStore
	logger    *zap.Logger
}

func NewSessions(source service.ReservationSource, snapshots service.SnapshotStore, logger *zap.Logger) *Sessions {
	return &Sessions{
		books:     make(map[int64]*service.ReservationBook),
		source:    source,
		snapshots: snapshots,
		logger:    logger,
	}
}

// Book книга броней пользователя. Смена роли создаёт новую книгу:
// снимки хранятся под разными ключами.
func (s *Sessions) Book(user *model.User) *service.ReservationBook {
	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[user.ID]
	if !ok || book.Role() != user.Role {
		book = service.NewReservationBook(user, s.source, s.snapshots, s.logger)
		s.books[user.ID] = book
	}
	return book
}
