package handlers

import (
	"fmt"

	"github.com/go-telegram/bot/models"

	"zapisbot/internal/model"
)

// Callback data, которые разбирает обработчик callback query
const (
	CallbackSlotDuration = "slot_duration:" // slot_duration:60, slot_duration:custom
	CallbackSlotConfirm  = "slot_confirm"
	CallbackSlotCancel   = "slot_cancel"

	CallbackClaimSlot  = "claim_slot:"  // claim_slot:123
	CallbackDeleteSlot = "delete_slot:" // delete_slot:123

	CallbackConfirmAppointment  = "confirm_appt:"   // confirm_appt:123
	CallbackCancelAppointment   = "cancel_appt:"    // cancel_appt:123
	CallbackCancelMyAppointment = "cancel_my_appt:" // cancel_my_appt:123
)

// DurationKeyboard - выбор длительности слота
func DurationKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "30 мин", CallbackData: CallbackSlotDuration + "30"},
				{Text: "60 мин", CallbackData: CallbackSlotDuration + "60"},
			},
			{
				{Text: "90 мин", CallbackData: CallbackSlotDuration + "90"},
				{Text: "120 мин", CallbackData: CallbackSlotDuration + "120"},
			},
			{
				{Text: "✏️ Свой вариант (ввести вручную)", CallbackData: CallbackSlotDuration + "custom"},
			},
			{
				{Text: "❌ Отмена", CallbackData: CallbackSlotCancel},
			},
		},
	}
}

// ConfirmKeyboard - подтверждение создания слота
func ConfirmKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Подтвердить", CallbackData: CallbackSlotConfirm},
				{Text: "❌ Отмена", CallbackData: CallbackSlotCancel},
			},
		},
	}
}

// CancelKeyboard - только кнопка отмены диалога
func CancelKeyboard() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "❌ Отмена", CallbackData: CallbackSlotCancel},
			},
		},
	}
}

// FreeSlotsKeyboard - кнопки записи на свободные слоты
func FreeSlotsKeyboard(slots []*model.Slot) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	for _, slot := range slots {
		rows = append(rows, []models.InlineKeyboardButton{
			{
				Text:         FormatSlot(slot),
				CallbackData: fmt.Sprintf("%s%d", CallbackClaimSlot, slot.ID),
			},
		})
	}

	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// PendingAppointmentKeyboard - подтверждение/отмена записи администратором
func PendingAppointmentKeyboard(appointmentID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "✅ Подтвердить", CallbackData: fmt.Sprintf("%s%d", CallbackConfirmAppointment, appointmentID)},
				{Text: "❌ Отклонить", CallbackData: fmt.Sprintf("%s%d", CallbackCancelAppointment, appointmentID)},
			},
		},
	}
}

// MyAppointmentKeyboard - отмена собственной записи клиентом
func MyAppointmentKeyboard(appointmentID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "❌ Отменить запись", CallbackData: fmt.Sprintf("%s%d", CallbackCancelMyAppointment, appointmentID)},
			},
		},
	}
}

// AdminSlotKeyboard - удаление слота администратором
func AdminSlotKeyboard(slotID int64) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "🗑 Удалить", CallbackData: fmt.Sprintf("%s%d", CallbackDeleteSlot, slotID)},
			},
		},
	}
}
