package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"     // Ожидает подтверждения
	AppointmentStatusConfirmed   AppointmentStatus = "confirmed"   // Подтверждена
	AppointmentStatusCompleted   AppointmentStatus = "completed"   // Завершена
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"   // Отменена
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled" // Перенесена
)

// IsLive возвращает true если запись занимает слот
func (s AppointmentStatus) IsLive() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusConfirmed
}

// IsTerminal возвращает true если из статуса нет переходов
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// CanTransitionTo проверяет допустимость перехода статуса
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending:
		return next == AppointmentStatusConfirmed ||
			next == AppointmentStatusCancelled ||
			next == AppointmentStatusRescheduled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCancelled ||
			next == AppointmentStatusCompleted ||
			next == AppointmentStatusRescheduled
	default:
		return false
	}
}

// Appointment - запись клиента на слот
type Appointment struct {
	ID          int64             `json:"id"`
	ClientID    int64             `json:"client_id"`
	UserID      *int64            `json:"user_id"` // администратор, может быть nil
	SlotID      int64             `json:"slot_id"`
	Description string            `json:"description"`
	Location    string            `json:"location"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   *time.Time        `json:"updated_at"`

	// Дополнительные поля для удобства (не из БД)
	Slot *Slot `json:"slot,omitempty"`
}
