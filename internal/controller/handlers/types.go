package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/controller/callbacks/callbacktypes"
	"github.com/Freeeeeet/campusroom_bot/internal/controller/state"
	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"go.uber.org/zap"
)

// AutoRejectFunc ручной запуск авто-отклонения (/autoreject)
type AutoRejectFunc func(ctx context.Context) (service.AutoRejectResult, error)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	userService        *service.UserService
	reservationService *service.ReservationService
	timetableService   *service.TimetableService
	sessions           *state.Sessions
	stateManager       *state.Manager
	autoReject         AutoRejectFunc
	deps               *callbacktypes.Handler
	loc                *time.Location
	now                func() time.Time
	logger             *zap.Logger
}

// NewHandlers создаёт новый обработчик команд. deps нужны для экранов,
// общих с callback-обработчиками.
func NewHandlers(
	deps *callbacktypes.Handler,
	sessions *state.Sessions,
	stateManager *state.Manager,
	autoReject AutoRejectFunc,
) *Handlers {
	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}

	return &Handlers{
		userService:        deps.UserService,
		reservationService: deps.ReservationService,
		timetableService:   deps.TimetableService,
		sessions:           sessions,
		stateManager:       stateManager,
		autoReject:         autoReject,
		deps:               deps,
		loc:                loc,
		now:                time.Now,
		logger:             deps.Logger,
	}
}

func (h *Handlers) today() time.Time {
	return h.now().In(h.loc)
}
