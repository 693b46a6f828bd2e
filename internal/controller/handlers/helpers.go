package handlers

import (
	"fmt"
	"strings"

	"zapisbot/internal/booking"
	"zapisbot/internal/model"
)

// AppointmentStatusDisplay содержит emoji и текст для отображения статуса
type AppointmentStatusDisplay struct {
	Emoji string
	Text  string
}

// GetAppointmentStatusDisplay возвращает emoji и текст для статуса записи
func GetAppointmentStatusDisplay(status model.AppointmentStatus) AppointmentStatusDisplay {
	switch status {
	case model.AppointmentStatusPending:
		return AppointmentStatusDisplay{Emoji: "⏳", Text: "Ожидает подтверждения"}
	case model.AppointmentStatusConfirmed:
		return AppointmentStatusDisplay{Emoji: "✅", Text: "Подтверждена"}
	case model.AppointmentStatusCompleted:
		return AppointmentStatusDisplay{Emoji: "🏁", Text: "Завершена"}
	case model.AppointmentStatusCancelled:
		return AppointmentStatusDisplay{Emoji: "❌", Text: "Отменена"}
	case model.AppointmentStatusRescheduled:
		return AppointmentStatusDisplay{Emoji: "🔄", Text: "Перенесена"}
	default:
		return AppointmentStatusDisplay{Emoji: "❓", Text: string(status)}
	}
}

// FormatSlot форматирует слот для отображения
func FormatSlot(slot *model.Slot) string {
	return fmt.Sprintf("#%d  %s  %s - %s  (%d мин)",
		slot.ID,
		slot.StartTime.Format(booking.DateLayout),
		slot.StartTime.Format(booking.TimeLayout),
		slot.EndTime.Format(booking.TimeLayout),
		slot.DurationMinutes,
	)
}

// FormatSlotList форматирует список слотов
func FormatSlotList(title string, slots []*model.Slot) string {
	if len(slots) == 0 {
		return title + "\n\nСлотов нет."
	}

	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	for _, slot := range slots {
		sb.WriteString(FormatSlot(slot))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatAppointment форматирует запись для отображения
func FormatAppointment(appointment *model.Appointment) string {
	display := GetAppointmentStatusDisplay(appointment.Status)

	text := fmt.Sprintf(
		"%s Запись #%d\n"+
			"📊 Статус: %s\n"+
			"🎫 Слот: #%d\n"+
			"📅 Создана: %s",
		display.Emoji,
		appointment.ID,
		display.Text,
		appointment.SlotID,
		appointment.CreatedAt.Format("02.01.2006 15:04"),
	)

	if appointment.Description != "" {
		text += "\n📝 " + appointment.Description
	}
	if appointment.Location != "" {
		text += "\n📍 " + appointment.Location
	}

	return text
}
