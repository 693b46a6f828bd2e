package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"zapisbot/internal/booking"
	"zapisbot/internal/model"
)

// HandleStart регистрирует клиента и показывает стартовое меню по роли
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	logger := h.requestLogger(update)
	telegramID := update.Message.From.ID

	role, err := h.roleService.ResolveRole(ctx, telegramID)
	if err != nil {
		logger.Error("Failed to resolve role", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	if role == model.RoleAdmin {
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"👋 Здравствуйте! Вы администратор.\n\n"+
				"/addslot - добавить слот\n"+
				"/slots - все слоты\n"+
				"/slotsdate ДД.ММ.ГГГГ - слоты на дату\n"+
				"/pending - записи на подтверждение\n"+
				"/cancel - прервать текущий диалог")
		return
	}

	// Гости регистрируются как клиенты при первом /start
	if role == model.RoleGuest {
		_, err := h.identityService.RegisterClient(ctx, telegramID,
			update.Message.From.FirstName, update.Message.From.LastName)
		if err != nil {
			logger.Error("Failed to register client", zap.Int64("telegram_id", telegramID), zap.Error(err))
			h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось зарегистрироваться. Попробуйте позже.")
			return
		}
		logger.Info("New client registered", zap.Int64("telegram_id", telegramID))
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"👋 Здравствуйте! Здесь можно записаться на приём.\n\n"+
			"/slots - свободные слоты\n"+
			"/myappointments - мои записи\n"+
			"/help - справка")
}

// HandleHelp показывает справку по командам
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"ℹ️ Команды:\n\n"+
			"/start - начать работу\n"+
			"/slots - свободные слоты\n"+
			"/myappointments - мои записи\n"+
			"/cancel - прервать текущий диалог\n\n"+
			"Для администраторов:\n"+
			"/addslot - добавить слот\n"+
			"/slotsdate ДД.ММ.ГГГГ - слоты на дату\n"+
			"/deleteslots ДД.ММ.ГГГГ ДД.ММ.ГГГГ - удалить слоты в диапазоне\n"+
			"/pending - записи на подтверждение")
}

// HandleSlots показывает администратору все слоты, клиенту - свободные
func (h *Handlers) HandleSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	role, ok := h.requireAction(ctx, b, update, model.ActionViewSlots)
	if !ok {
		return
	}

	logger := h.requestLogger(update)

	if role == model.RoleAdmin {
		slots, err := h.slotService.ListSlots(ctx)
		if err != nil {
			logger.Error("Failed to list slots", zap.Error(err))
			h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось получить слоты.")
			return
		}
		h.sendMessage(ctx, b, update.Message.Chat.ID, FormatSlotList("🗓 Все слоты:", slots))
		return
	}

	slots, err := h.slotService.ListFreeSlots(ctx)
	if err != nil {
		logger.Error("Failed to list free slots", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось получить слоты.")
		return
	}

	if len(slots) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "😔 Свободных слотов пока нет.")
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "🗓 Свободные слоты. Нажмите, чтобы записаться:",
		ReplyMarkup: FreeSlotsKeyboard(slots),
	})
	if err != nil {
		logger.Error("Failed to send free slots", zap.Error(err))
	}
}

// HandleSlotsOnDate показывает администратору слоты на указанную дату
func (h *Handlers) HandleSlotsOnDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAction(ctx, b, update, model.ActionDeleteSlot); !ok {
		return
	}

	args := strings.Fields(update.Message.Text)
	if len(args) != 2 {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Использование: /slotsdate ДД.ММ.ГГГГ")
		return
	}

	date, err := time.ParseInLocation(booking.DateLayout, args[1], time.Local)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Неверный формат даты. Используйте ДД.ММ.ГГГГ")
		return
	}

	logger := h.requestLogger(update)

	slots, err := h.slotService.ListSlotsOnDate(ctx, date)
	if err != nil {
		logger.Error("Failed to list slots on date", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось получить слоты.")
		return
	}

	if len(slots) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🗓 На "+args[1]+" слотов нет.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "🗓 Слоты на "+args[1]+":")
	for _, slot := range slots {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        FormatSlot(slot),
			ReplyMarkup: AdminSlotKeyboard(slot.ID),
		})
		if err != nil {
			logger.Error("Failed to send slot", zap.Int64("slot_id", slot.ID), zap.Error(err))
		}
	}
}

// HandleDeleteSlots удаляет слоты, целиком лежащие в диапазоне дат
func (h *Handlers) HandleDeleteSlots(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAction(ctx, b, update, model.ActionDeleteSlot); !ok {
		return
	}

	args := strings.Fields(update.Message.Text)
	if len(args) != 3 {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Использование: /deleteslots ДД.ММ.ГГГГ ДД.ММ.ГГГГ")
		return
	}

	from, err1 := time.ParseInLocation(booking.DateLayout, args[1], time.Local)
	to, err2 := time.ParseInLocation(booking.DateLayout, args[2], time.Local)
	if err1 != nil || err2 != nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Неверный формат даты. Используйте ДД.ММ.ГГГГ")
		return
	}

	// Правая граница - конец дня
	to = to.Add(24*time.Hour - time.Nanosecond)

	deleted, err := h.slotService.DeleteSlotsInRange(ctx, from, to)
	if err != nil {
		h.requestLogger(update).Error("Failed to delete slots in range", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось удалить слоты.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("🗑 Удалено слотов: %d", deleted))
}

// HandleMyAppointments показывает клиенту его записи
func (h *Handlers) HandleMyAppointments(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAction(ctx, b, update, model.ActionViewAppointments); !ok {
		return
	}

	logger := h.requestLogger(update)
	telegramID := update.Message.From.ID

	client, err := h.identityService.GetClientByTgID(ctx, telegramID)
	if err != nil || client == nil {
		logger.Error("Failed to get client", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Вы не зарегистрированы. Используйте /start")
		return
	}

	appointments, err := h.appointmentService.ListByClient(ctx, client.ID)
	if err != nil {
		logger.Error("Failed to list appointments", zap.Int64("client_id", client.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось получить записи.")
		return
	}

	if len(appointments) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 У вас пока нет записей.")
		return
	}

	for _, appointment := range appointments {
		params := &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   FormatAppointment(appointment),
		}
		if appointment.Status.IsLive() {
			params.ReplyMarkup = MyAppointmentKeyboard(appointment.ID)
		}
		if _, err := b.SendMessage(ctx, params); err != nil {
			logger.Error("Failed to send appointment", zap.Error(err))
		}
	}
}

// HandlePending показывает администратору записи, ожидающие подтверждения
func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAction(ctx, b, update, model.ActionConfirmAppointment); !ok {
		return
	}

	logger := h.requestLogger(update)

	appointments, err := h.appointmentService.ListPending(ctx)
	if err != nil {
		logger.Error("Failed to list pending appointments", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось получить записи.")
		return
	}

	if len(appointments) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "📭 Записей на подтверждение нет.")
		return
	}

	for _, appointment := range appointments {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      update.Message.Chat.ID,
			Text:        FormatAppointment(appointment),
			ReplyMarkup: PendingAppointmentKeyboard(appointment.ID),
		})
		if err != nil {
			logger.Error("Failed to send pending appointment", zap.Error(err))
		}
	}
}

// HandleCancel прерывает активный диалог
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	if h.flow.Step(telegramID) == booking.StepNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "ℹ️ Нет активного диалога.")
		return
	}

	result := h.flow.Cancel(telegramID)
	h.sendMessage(ctx, b, update.Message.Chat.ID, result.Prompt)
}
