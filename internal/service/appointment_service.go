package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"zapisbot/internal/model"
	"zapisbot/internal/repository"
)

// AppointmentService владеет машиной статусов записи и переносом на другой слот
type AppointmentService struct {
	slotStore        SlotStore
	appointmentStore AppointmentStore
	logger           *zap.Logger
	now              func() time.Time
}

func NewAppointmentService(
	slotStore SlotStore,
	appointmentStore AppointmentStore,
	logger *zap.Logger,
	now func() time.Time,
) *AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{
		slotStore:        slotStore,
		appointmentStore: appointmentStore,
		logger:           logger,
		now:              now,
	}
}

// Create создаёт запись клиента на свободный слот в статусе pending.
// Возвращает ErrSlotNotFound если слота нет и ErrSlotUnavailable если он занят
func (s *AppointmentService) Create(ctx context.Context, clientID, slotID int64, description, location string) (*model.Appointment, error) {
	slot, err := s.slotStore.GetByID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: id %d", ErrSlotNotFound, slotID)
	}

	live, err := s.appointmentStore.GetLiveBySlotID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("check slot occupancy: %w", err)
	}
	if live != nil {
		return nil, fmt.Errorf("%w: slot %d", ErrSlotUnavailable, slotID)
	}

	appointment := &model.Appointment{
		ClientID:    clientID,
		SlotID:      slotID,
		Description: description,
		Location:    location,
		Status:      model.AppointmentStatusPending,
	}

	err = s.appointmentStore.Create(ctx, appointment)
	if err != nil {
		// Гонка двух клиентов за один слот разрешается индексом в БД
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, fmt.Errorf("%w: slot %d", ErrSlotUnavailable, slotID)
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	s.logger.Info("Appointment created",
		zap.Int64("appointment_id", appointment.ID),
		zap.Int64("client_id", clientID),
		zap.Int64("slot_id", slotID),
	)

	appointment.Slot = slot
	return appointment, nil
}

// Confirm подтверждает запись
func (s *AppointmentService) Confirm(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.AppointmentStatusConfirmed)
}

// Cancel отменяет запись. Слот освобождается сам - занятость выводится
// из наличия живой записи, отдельного учёта нет
func (s *AppointmentService) Cancel(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.AppointmentStatusCancelled)
}

// Complete завершает подтверждённую запись
func (s *AppointmentService) Complete(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.AppointmentStatusCompleted)
}

// Reschedule переносит запись на другой слот, не меняя статус.
// Возвращает ErrSlotNotFound / ErrSlotUnavailable по новому слоту
// и ErrAppointmentNotFound если записи нет
func (s *AppointmentService) Reschedule(ctx context.Context, appointmentID, newSlotID int64) error {
	newSlot, err := s.slotStore.GetByID(ctx, newSlotID)
	if err != nil {
		return fmt.Errorf("get slot: %w", err)
	}
	if newSlot == nil {
		return fmt.Errorf("%w: id %d", ErrSlotNotFound, newSlotID)
	}

	live, err := s.appointmentStore.GetLiveBySlotID(ctx, newSlotID)
	if err != nil {
		return fmt.Errorf("check slot occupancy: %w", err)
	}
	if live != nil && live.ID != appointmentID {
		return fmt.Errorf("%w: slot %d", ErrSlotUnavailable, newSlotID)
	}

	appointment, err := s.appointmentStore.GetByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return fmt.Errorf("%w: id %d", ErrAppointmentNotFound, appointmentID)
	}

	oldSlotID := appointment.SlotID

	err = s.appointmentStore.UpdateSlotID(ctx, appointmentID, newSlotID)
	if err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return fmt.Errorf("%w: slot %d", ErrSlotUnavailable, newSlotID)
		}
		return fmt.Errorf("update appointment slot: %w", err)
	}

	s.logger.Info("Appointment rescheduled",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("old_slot_id", oldSlotID),
		zap.Int64("new_slot_id", newSlotID),
	)

	return nil
}

// Get получает запись по ID, возвращает ErrAppointmentNotFound если её нет
func (s *AppointmentService) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	appointment, err := s.appointmentStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return nil, fmt.Errorf("%w: id %d", ErrAppointmentNotFound, id)
	}
	return appointment, nil
}

// ListByClient получает все записи клиента
func (s *AppointmentService) ListByClient(ctx context.Context, clientID int64) ([]*model.Appointment, error) {
	return s.appointmentStore.ListByClientID(ctx, clientID)
}

// ListPending получает записи, ожидающие подтверждения
func (s *AppointmentService) ListPending(ctx context.Context) ([]*model.Appointment, error) {
	return s.appointmentStore.ListPending(ctx)
}

// CompleteElapsed завершает подтверждённые записи, слот которых уже
// закончился. Вызывается фоновым планировщиком. Возвращает число завершённых
func (s *AppointmentService) CompleteElapsed(ctx context.Context) (int, error) {
	elapsed, err := s.appointmentStore.ListElapsedConfirmed(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("list elapsed appointments: %w", err)
	}

	completed := 0
	for _, appointment := range elapsed {
		if err := s.Complete(ctx, appointment.ID); err != nil {
			s.logger.Error("Failed to auto-complete appointment",
				zap.Int64("appointment_id", appointment.ID),
				zap.Error(err))
			continue
		}
		completed++
	}

	return completed, nil
}

// transition выполняет переход статуса, проверив его допустимость
func (s *AppointmentService) transition(ctx context.Context, id int64, next model.AppointmentStatus) error {
	appointment, err := s.appointmentStore.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get appointment: %w", err)
	}
	if appointment == nil {
		return fmt.Errorf("%w: id %d", ErrAppointmentNotFound, id)
	}

	if !appointment.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, appointment.Status, next)
	}

	if _, err := s.appointmentStore.UpdateStatus(ctx, id, next); err != nil {
		return fmt.Errorf("update appointment status: %w", err)
	}

	s.logger.Info("Appointment status changed",
		zap.Int64("appointment_id", id),
		zap.String("from", string(appointment.Status)),
		zap.String("to", string(next)),
	)

	return nil
}
