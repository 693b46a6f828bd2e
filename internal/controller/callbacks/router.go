package callbacks

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	botmodels "github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"zapisbot/internal/booking"
	"zapisbot/internal/controller/handlers"
	"zapisbot/internal/model"
	"zapisbot/internal/service"
)

// Handler обрабатывает нажатия inline кнопок
type Handler struct {
	identityService    *service.IdentityService
	roleService        *service.RoleService
	slotService        *service.SlotService
	appointmentService *service.AppointmentService
	flow               *booking.Flow
	logger             *zap.Logger
}

func NewHandler(
	identityService *service.IdentityService,
	roleService *service.RoleService,
	slotService *service.SlotService,
	appointmentService *service.AppointmentService,
	flow *booking.Flow,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		identityService:    identityService,
		roleService:        roleService,
		slotService:        slotService,
		appointmentService: appointmentService,
		flow:               flow,
		logger:             logger,
	}
}

// HandleCallbackQuery распределяет callback query по обработчикам
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *botmodels.Update) {
	callback := update.CallbackQuery
	if callback == nil {
		return
	}

	data := callback.Data
	logger := h.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("callback_data", data),
		zap.Int64("telegram_id", callback.From.ID),
	)

	// Убираем "часики" на кнопке
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callback.ID,
	})

	switch {
	case strings.HasPrefix(data, handlers.CallbackSlotDuration):
		h.handleDurationChoice(ctx, b, callback, strings.TrimPrefix(data, handlers.CallbackSlotDuration), logger)
	case data == handlers.CallbackSlotConfirm:
		h.handleSlotConfirm(ctx, b, callback, logger)
	case data == handlers.CallbackSlotCancel:
		h.handleSlotCancel(ctx, b, callback)
	case strings.HasPrefix(data, handlers.CallbackClaimSlot):
		h.handleClaimSlot(ctx, b, callback, strings.TrimPrefix(data, handlers.CallbackClaimSlot), logger)
	case strings.HasPrefix(data, handlers.CallbackDeleteSlot):
		h.handleDeleteSlot(ctx, b, callback, strings.TrimPrefix(data, handlers.CallbackDeleteSlot), logger)
	case strings.HasPrefix(data, handlers.CallbackConfirmAppointment):
		h.handleAppointmentAction(ctx, b, callback, strings.TrimPrefix(data, handlers.CallbackConfirmAppointment),
			h.appointmentService.Confirm, "✅ Запись подтверждена.", logger)
	case strings.HasPrefix(data, handlers.CallbackCancelAppointment):
		h.handleAppointmentAction(ctx, b, callback, strings.TrimPrefix(data, handlers.CallbackCancelAppointment),
			h.appointmentService.Cancel, "❌ Запись отменена.", logger)
	case strings.HasPrefix(data, handlers.CallbackCancelMyAppointment):
		h.handleCancelMyAppointment(ctx, b, callback, strings.TrimPrefix(data, handlers.CallbackCancelMyAppointment), logger)
	default:
		logger.Warn("Unknown callback data")
	}
}

// handleDurationChoice обрабатывает кнопки длительности в диалоге создания слота
func (h *Handler) handleDurationChoice(ctx context.Context, b *bot.Bot, callback *botmodels.CallbackQuery, choice string, logger *zap.Logger) {
	result, err := h.flow.SubmitDuration(callback.From.ID, choice)
	if err != nil {
		if errors.Is(err, booking.ErrNoSession) {
			h.edit(ctx, b, callback, "ℹ️ Диалог уже завершён. Начните заново: /addslot", nil)
			return
		}
		logger.Warn("Duration choice rejected", zap.Error(err))
	}

	switch result.Step {
	case booking.StepConfirm:
		h.edit(ctx, b, callback, result.Prompt, handlers.ConfirmKeyboard())
	case booking.StepDuration:
		// Ветка ручного ввода: ждём число в следующем сообщении
		h.edit(ctx, b, callback, result.Prompt, handlers.CancelKeyboard())
	}
}

// handleSlotConfirm завершает диалог и сохраняет слот
func (h *Handler) handleSlotConfirm(ctx context.Context, b *bot.Bot, callback *botmodels.CallbackQuery, logger *zap.Logger) {
	result, err := h.flow.Confirm(ctx, callback.From.ID)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNoSession):
			h.edit(ctx, b, callback, "ℹ️ Диалог уже завершён. Начните заново: /addslot", nil)
		case errors.Is(err, service.ErrSlotConflict):
			h.edit(ctx, b, callback,
				"❌ Слот пересекается с существующим.\n"+
					"Начните заново: /addslot", nil)
		case errors.Is(err, service.ErrInvalidSlot):
			h.edit(ctx, b, callback,
				"❌ Слот не прошёл проверку.\n"+
					"Начните заново: /addslot", nil)
		default:
			logger.Error("Failed to save slot", zap.Error(err))
			h.edit(ctx, b, callback,
				"❌ Ошибка при сохранении. Попробуйте позже.\n"+
					"Для возврата в меню нажмите /start", nil)
		}
		return
	}

	h.edit(ctx, b, callback, result.Prompt, nil)
}

// handleSlotCancel прерывает диалог создания слота
func (h *Handler) handleSlotCancel(ctx context.Context, b *bot.Bot, callback *botmodels.CallbackQuery) {
	result := h.flow.Cancel(callback.From.ID)
	h.edit(ctx, b, callback, result.Prompt, nil)
}

// handleClaimSlot записывает клиента на выбранный слот
func (h *Handler) handleClaimSlot(ctx context.Context, b *bot.Bot, callback *botmodels.CallbackQuery, idStr string, logger *zap.Logger) {
	slotID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.Warn("Bad slot id in callback", zap.String("id", idStr))
		return
	}

	client, err := h.identityService.GetClientByTgID(ctx, callback.From.ID)
	if err != nil || client == nil {
		h.edit(ctx, b, callback, "❌ Вы не зарегистрированы. Используйте /start", nil)
		return
	}

	appointment, err := h.appointmentService.Create(ctx, client.ID, slotID, "", "")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlotNotFound):
			h.edit(ctx, b, callback, "❌ Слот больше не существует.", nil)
		case errors.Is(err, service.ErrSlotUnavailable):
			h.edit(ctx, b, callback, "😔 Слот уже занят. Выберите другой: /slots", nil)
		default:
			logger.Error("Failed to create appointment", zap.Int64("slot_id", slotID), zap.Error(err))
			h.edit(ctx, b, callback, "❌ Не удалось записаться. Попробуйте позже.", nil)
		}
		return
	}

	h.edit(ctx, b, callback,
		"✅ Вы записаны! Запись #"+strconv.FormatInt(appointment.ID, 10)+
			" ожидает подтверждения администратором.\n\n"+
			"Свои записи: /myappointments", nil)
}

// handleDeleteSlot удаляет слот по кнопке администратора
func (h *Handler) handleDeleteSlot(ctx context.Context, b *bot.Bot, callback *botmodels.CallbackQuery, idStr string, logger *zap.Logger) {
	if !h.allowed(ctx, callback.From.ID, model.ActionDeleteSlot, logger) {
		h.edit(ctx, b, callback, "❌ Это действие вам недоступно.", nil)
		return
	}

	slotID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.Warn("Bad slot id in callback", zap.String("id", idStr))
		return
	}

	if err := h.slotService.DeleteSlot(ctx, slotID); err != nil {
		logger.Error("Failed to delete slot", zap.Int64("slot_id", slotID), zap.Error(err))
		h.edit(ctx, b, callback, "❌ Не удалось удалить слот.", nil)
		return
	}

	h.edit(ctx, b, callback, "🗑 Слот удалён.", nil)
}

// handleAppointmentAction выполняет подтверждение или отмену записи администратором
func (h *Handler) handleAppointmentAction(
	ctx context.Context,
	b *bot.Bot,
	callback *botmodels.CallbackQuery,
	idStr string,
	action func(context.Context, int64) error,
	successText string,
	logger *zap.Logger,
) {
	if !h.allowed(ctx, callback.From.ID, model.ActionConfirmAppointment, logger) {
		h.edit(ctx, b, callback, "❌ Это действие вам недоступно.", nil)
		return
	}

	appointmentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.Warn("Bad appointment id in callback", zap.String("id", idStr))
		return
	}

	if err := action(ctx, appointmentID); err != nil {
		switch {
		case errors.Is(err, service.ErrAppointmentNotFound):
			h.edit(ctx, b, callback, "❌ Запись не найдена.", nil)
		case errors.Is(err, service.ErrIllegalTransition):
			h.edit(ctx, b, callback, "ℹ️ Статус записи уже изменился.", nil)
		default:
			logger.Error("Appointment action failed", zap.Int64("appointment_id", appointmentID), zap.Error(err))
			h.edit(ctx, b, callback, "❌ Не удалось изменить запись.", nil)
		}
		return
	}

	h.edit(ctx, b, callback, successText, nil)
}

// handleCancelMyAppointment отменяет собственную запись клиента
func (h *Handler) handleCancelMyAppointment(ctx context.Context, b *bot.Bot, callback *botmodels.CallbackQuery, idStr string, logger *zap.Logger) {
	appointmentID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		logger.Warn("Bad appointment id in callback", zap.String("id", idStr))
		return
	}

	client, err := h.identityService.GetClientByTgID(ctx, callback.From.ID)
	if err != nil || client == nil {
		h.edit(ctx, b, callback, "❌ Вы не зарегистрированы. Используйте /start", nil)
		return
	}

	appointment, err := h.appointmentService.Get(ctx, appointmentID)
	if err != nil {
		h.edit(ctx, b, callback, "❌ Запись не найдена.", nil)
		return
	}

	// Отменить можно только свою запись
	if appointment.ClientID != client.ID {
		logger.Warn("Client tried to cancel foreign appointment",
			zap.Int64("appointment_id", appointmentID),
			zap.Int64("client_id", client.ID))
		h.edit(ctx, b, callback, "❌ Это не ваша запись.", nil)
		return
	}

	if err := h.appointmentService.Cancel(ctx, appointmentID); err != nil {
		if errors.Is(err, service.ErrIllegalTransition) {
			h.edit(ctx, b, callback, "ℹ️ Эту запись уже нельзя отменить.", nil)
			return
		}
		logger.Error("Failed to cancel appointment", zap.Int64("appointment_id", appointmentID), zap.Error(err))
		h.edit(ctx, b, callback, "❌ Не удалось отменить запись.", nil)
		return
	}

	h.edit(ctx, b, callback, "❌ Запись отменена. Слот снова свободен.", nil)
}

// allowed проверяет право на действие по роли
func (h *Handler) allowed(ctx context.Context, telegramID int64, action model.Action, logger *zap.Logger) bool {
	role, err := h.roleService.ResolveRole(ctx, telegramID)
	if err != nil {
		logger.Error("Failed to resolve role", zap.Error(err))
		return false
	}
	return model.Allowed(role, action)
}

// edit заменяет текст сообщения с кнопками
func (h *Handler) edit(ctx context.Context, b *bot.Bot, callback *botmodels.CallbackQuery, text string, markup *botmodels.InlineKeyboardMarkup) {
	if callback.Message.Message == nil {
		return
	}

	params := &bot.EditMessageTextParams{
		ChatID:    callback.Message.Message.Chat.ID,
		MessageID: callback.Message.Message.ID,
		Text:      text,
	}
	if markup != nil {
		params.ReplyMarkup = markup
	}

	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Error("Failed to edit message", zap.Error(err))
	}
}
