package service

import (
	"context"
	"time"

	"zapisbot/internal/model"
)

// Интерфейсы хранилищ, которые потребляют сервисы.
// Реализуются репозиториями из internal/repository; в тестах - фейками.

// SlotStore - хранилище слотов
type SlotStore interface {
	// CreateExclusive атомарно проверяет пересечения и вставляет слот,
	// возвращая repository.ErrOverlap при конфликте
	CreateExclusive(ctx context.Context, slot *model.Slot) error
	// GetByID возвращает (nil, nil) если слот не найден
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	List(ctx context.Context) ([]*model.Slot, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*model.Slot, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	DeleteBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// AppointmentStore - хранилище записей
type AppointmentStore interface {
	// Create возвращает repository.ErrSlotTaken если на слот уже есть живая запись
	Create(ctx context.Context, appointment *model.Appointment) error
	// GetByID возвращает (nil, nil) если запись не найдена
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)
	// GetLiveBySlotID возвращает (nil, nil) если живой записи на слот нет
	GetLiveBySlotID(ctx context.Context, slotID int64) (*model.Appointment, error)
	ListByClientID(ctx context.Context, clientID int64) ([]*model.Appointment, error)
	ListPending(ctx context.Context) ([]*model.Appointment, error)
	ListElapsedConfirmed(ctx context.Context, now time.Time) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status model.AppointmentStatus) (int64, error)
	UpdateSlotID(ctx context.Context, id, slotID int64) error
}

// UserStore - хранилище администраторов
type UserStore interface {
	Upsert(ctx context.Context, user *model.User) error
	GetByTgID(ctx context.Context, tgUserID int64) (*model.User, error)
}

// ClientStore - хранилище клиентов
type ClientStore interface {
	Upsert(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	GetByTgID(ctx context.Context, tgUserID int64) (*model.Client, error)
}
