package repository

import "errors"

// Ошибки уровня хранилища, на которые опираются сервисы
var (
	// ErrOverlap - вставляемый слот пересекается с существующим
	ErrOverlap = errors.New("slot overlaps an existing slot")
	// ErrSlotTaken - на слот уже есть живая запись
	ErrSlotTaken = errors.New("slot already has a live appointment")
)
