package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"zapisbot/internal/booking"
	"zapisbot/internal/service"
)

// Scheduler управляет фоновыми задачами: автозавершение записей,
// слот которых уже прошёл, и выброс простаивающих черновиков диалога
type Scheduler struct {
	appointmentService *service.AppointmentService
	flow               *booking.Flow
	logger             *zap.Logger
	stopChan           chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(appointmentService *service.AppointmentService, flow *booking.Flow, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		appointmentService: appointmentService,
		flow:               flow,
		logger:             logger,
		stopChan:           make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runCompletionTask(ctx)
	go s.runEvictionTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runCompletionTask раз в час переводит confirmed записи с прошедшим
// слотом в completed. Машина статусов сама не следит за временем
func (s *Scheduler) runCompletionTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.completeElapsed(ctx)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.completeElapsed(ctx)
		case <-s.stopChan:
			s.logger.Info("Completion task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Completion task cancelled")
			return
		}
	}
}

// runEvictionTask периодически выбрасывает простаивающие черновики диалогов
func (s *Scheduler) runEvictionTask(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := s.flow.EvictIdle(); evicted > 0 {
				s.logger.Info("Evicted idle booking drafts", zap.Int("count", evicted))
			}
		case <-s.stopChan:
			s.logger.Info("Eviction task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Eviction task cancelled")
			return
		}
	}
}

func (s *Scheduler) completeElapsed(ctx context.Context) {
	completed, err := s.appointmentService.CompleteElapsed(ctx)
	if err != nil {
		s.logger.Error("Failed to auto-complete appointments", zap.Error(err))
		return
	}

	if completed > 0 {
		s.logger.Info("Auto-completed appointments", zap.Int("count", completed))
	}
}
