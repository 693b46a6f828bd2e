package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"zapisbot/internal/model"
	"zapisbot/internal/repository"
)

// SlotService владеет жизненным циклом слотов: создание с защитой
// от пересечений, удаление, выборки и проверка занятости
type SlotService struct {
	slotStore        SlotStore
	appointmentStore AppointmentStore
	logger           *zap.Logger
	now              func() time.Time
}

func NewSlotService(
	slotStore SlotStore,
	appointmentStore AppointmentStore,
	logger *zap.Logger,
	now func() time.Time,
) *SlotService {
	if now == nil {
		now = time.Now
	}
	return &SlotService{
		slotStore:        slotStore,
		appointmentStore: appointmentStore,
		logger:           logger,
		now:              now,
	}
}

// AddSlot валидирует кандидата и создаёт слот.
// Возвращает ErrInvalidSlot при нарушении инвариантов слота и
// ErrSlotConflict если интервал пересекается с существующим слотом.
func (s *SlotService) AddSlot(ctx context.Context, slot *model.Slot) (*model.Slot, error) {
	if err := validateSlot(slot); err != nil {
		return nil, err
	}

	err := s.slotStore.CreateExclusive(ctx, slot)
	if err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return nil, fmt.Errorf("%w: [%s, %s)", ErrSlotConflict,
				slot.StartTime.Format("02.01.2006 15:04"),
				slot.EndTime.Format("02.01.2006 15:04"))
		}
		return nil, fmt.Errorf("create slot: %w", err)
	}

	s.logger.Info("Slot created",
		zap.Int64("slot_id", slot.ID),
		zap.Time("start_time", slot.StartTime),
		zap.Time("end_time", slot.EndTime),
		zap.Int("duration_minutes", slot.DurationMinutes),
	)

	return slot, nil
}

// GetSlot получает слот по ID, возвращает ErrSlotNotFound если его нет
func (s *SlotService) GetSlot(ctx context.Context, id int64) (*model.Slot, error) {
	slot, err := s.slotStore.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return nil, fmt.Errorf("%w: id %d", ErrSlotNotFound, id)
	}
	return slot, nil
}

// DeleteSlot удаляет слот. Повторное удаление уже удалённого ID не ошибка
func (s *SlotService) DeleteSlot(ctx context.Context, id int64) error {
	affected, err := s.slotStore.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	if affected > 0 {
		s.logger.Info("Slot deleted", zap.Int64("slot_id", id))
	}

	return nil
}

// DeleteSlotsInRange удаляет слоты, целиком лежащие в [from, to]
func (s *SlotService) DeleteSlotsInRange(ctx context.Context, from, to time.Time) (int64, error) {
	affected, err := s.slotStore.DeleteBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("delete slots in range: %w", err)
	}

	s.logger.Info("Slots deleted in range",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int64("deleted", affected),
	)

	return affected, nil
}

// ListSlots получает все слоты, отсортированные по времени начала
func (s *SlotService) ListSlots(ctx context.Context) ([]*model.Slot, error) {
	return s.slotStore.List(ctx)
}

// ListSlotsOnDate получает слоты, начинающиеся в указанный календарный день
func (s *SlotService) ListSlotsOnDate(ctx context.Context, date time.Time) ([]*model.Slot, error) {
	startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	endOfDay := startOfDay.Add(24*time.Hour - time.Nanosecond)

	return s.slotStore.ListBetween(ctx, startOfDay, endOfDay)
}

// ListFreeSlots получает будущие слоты без живых записей
func (s *SlotService) ListFreeSlots(ctx context.Context) ([]*model.Slot, error) {
	slots, err := s.slotStore.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var free []*model.Slot
	for _, slot := range slots {
		if !slot.StartTime.After(now) {
			continue
		}
		appointment, err := s.appointmentStore.GetLiveBySlotID(ctx, slot.ID)
		if err != nil {
			return nil, fmt.Errorf("check slot occupancy: %w", err)
		}
		if appointment == nil {
			free = append(free, slot)
		}
	}

	return free, nil
}

// IsSlotFree проверяет что на слот нет живой записи.
// Возвращает ErrSlotNotFound если слота не существует
func (s *SlotService) IsSlotFree(ctx context.Context, id int64) (bool, error) {
	slot, err := s.slotStore.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("get slot: %w", err)
	}
	if slot == nil {
		return false, fmt.Errorf("%w: id %d", ErrSlotNotFound, id)
	}

	appointment, err := s.appointmentStore.GetLiveBySlotID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check slot occupancy: %w", err)
	}

	return appointment == nil, nil
}

// validateSlot проверяет инварианты кандидата в слоты
func validateSlot(slot *model.Slot) error {
	if slot.DurationMinutes < model.SlotMinDuration || slot.DurationMinutes > model.SlotMaxDuration {
		return fmt.Errorf("%w: duration %d minutes out of range [%d, %d]",
			ErrInvalidSlot, slot.DurationMinutes, model.SlotMinDuration, model.SlotMaxDuration)
	}

	if !slot.StartTime.Before(slot.EndTime) {
		return fmt.Errorf("%w: start time is not before end time", ErrInvalidSlot)
	}

	minutes := int(math.Round(slot.EndTime.Sub(slot.StartTime).Minutes()))
	if minutes != slot.DurationMinutes {
		return fmt.Errorf("%w: duration %d does not match interval of %d minutes",
			ErrInvalidSlot, slot.DurationMinutes, minutes)
	}

	return nil
}
