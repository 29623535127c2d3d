package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/campusroom_bot/internal/service"
	"go.uber.org/zap"
)

// AutoRejecter отклоняет просроченные заявки
type AutoRejecter interface {
	AutoRejectExpired(ctx context.Context) (service.AutoRejectResult, error)
}

// RunReporter получает итог каждого прогона (уведомление администраторов)
type RunReporter func(ctx context.Context, result service.AutoRejectResult, err error)

// Scheduler периодически запускает авто-отклонение заявок
type Scheduler struct {
	rejecter AutoRejecter
	interval time.Duration
	report   RunReporter
	logger   *zap.Logger

	stopChan chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

func NewScheduler(rejecter AutoRejecter, interval time.Duration, report RunReporter, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		rejecter: rejecter,
		interval: interval,
		report:   report,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновую задачу; первый прогон выполняется сразу
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting auto-reject scheduler", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop останавливает задачу и дожидается её завершения
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping auto-reject scheduler")
		close(s.stopChan)
	})
	<-s.done
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)

	s.RunOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-s.stopChan:
			return
		case <-ctx.Done():
			s.logger.Info("Auto-reject scheduler cancelled")
			return
		}
	}
}

// RunOnce один прогон авто-отклонения. Используется и командой /autoreject.
func (s *Scheduler) RunOnce(ctx context.Context) (service.AutoRejectResult, error) {
	result, err := s.rejecter.AutoRejectExpired(ctx)
	if err != nil {
		s.logger.Error("Auto-reject finished with errors",
			zap.Int("found", result.Found),
			zap.Int("rejected", result.Rejected),
			zap.Int("errors", result.Errors),
			zap.Error(err),
		)
	} else if result.Found > 0 {
		s.logger.Info("Auto-reject completed",
			zap.Int("found", result.Found),
			zap.Int("rejected", result.Rejected),
		)
	}

	if s.report != nil {
		s.report(ctx, result, err)
	}

	return result, err
}
