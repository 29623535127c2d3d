package state

import (
	"context"
	"testing"

	"github.com/Freeeeeet/campusroom_bot/internal/cache"
	"github.com/Freeeeeet/campusroom_bot/internal/model"
	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	bookings []model.Booking
}

func (s *stubSource) ListForUser(context.Context, *model.User) (*service.Reservations, error) {
	return &service.Reservations{Bookings: s.bookings}, nil
}

func (s *stubSource) Cancel(_ context.Context, _ *model.User, id string) (*model.Booking, error) {
	return &model.Booking{ID: id, Status: model.BookingStatusCancelled}, nil
}

func TestSessionsReuseBookPerUser(t *testing.T) {
	source := &stubSource{bookings: []model.Booking{{ID: "b1", Status: model.BookingStatusPending}}}
	sessions := NewSessions(source, cache.Disabled(), zap.NewNop())
	user := &model.User{ID: 7, Role: model.RoleStudent}

	book := sessions.Book(user)
	_, err := book.Load(context.Background())
	require.NoError(t, err)

	again := sessions.Book(&model.User{ID: 7, Role: model.RoleStudent})

	assert.Same(t, book, again)
	assert.Len(t, again.Bookings(), 1)
}

func TestSessionsNewBookOnRoleChange(t *testing.T) {
	sessions := NewSessions(&stubSource{}, cache.Disabled(), zap.NewNop())

	student := sessions.Book(&model.User{ID: 7, Role: model.RoleStudent})
	professor := sessions.Book(&model.User{ID: 7, Role: model.RoleProfessor})

	assert.NotSame(t, student, professor)
	assert.Equal(t, model.RoleProfessor, professor.Role())
}
