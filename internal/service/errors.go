package service

import "errors"

// Ошибки, которые сервисы возвращают вызывающей стороне.
// Сравнивать через errors.Is - все обёртки сохраняют сентинел.
var (
	ErrInvalidSlot         = errors.New("invalid slot")
	ErrSlotConflict        = errors.New("slot conflicts with an existing slot")
	ErrSlotUnavailable     = errors.New("slot is not available")
	ErrSlotNotFound        = errors.New("slot not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrIllegalTransition   = errors.New("illegal appointment status transition")
)
