package model

import "time"

// Границы длительности слота (в минутах)
const (
	SlotMinDuration = 15  // 15 минут
	SlotMaxDuration = 480 // 8 часов
)

// Slot - свободное для записи временное окно
type Slot struct {
	ID              int64      `json:"id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         time.Time  `json:"end_time"`
	DurationMinutes int        `json:"duration_minutes"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"` // указатель - может быть nil
}

// Intersects проверяет пересечение с другим слотом
// Интервалы полуоткрытые [start, end): слоты, соприкасающиеся границами, не пересекаются
func (s *Slot) Intersects(other *Slot) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}
