package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"zapisbot/internal/booking"
	"zapisbot/internal/model"
)

// HandleAddSlotStart начинает диалог создания слота
func (h *Handlers) HandleAddSlotStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	if _, ok := h.requireAction(ctx, b, update, model.ActionAddSlot); !ok {
		return
	}

	telegramID := update.Message.From.ID

	h.requestLogger(update).Info("Starting add slot dialog",
		zap.Int64("telegram_id", telegramID))

	result := h.flow.Start(telegramID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        result.Prompt,
		ReplyMarkup: CancelKeyboard(),
	})
	if err != nil {
		h.logger.Error("Failed to send dialog prompt", zap.Error(err))
	}
}

// HandleTextMessage диспетчеризует свободный текст в активный диалог.
// Сообщения вне диалога игнорируются
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	text := update.Message.Text

	switch h.flow.Step(telegramID) {
	case booking.StepDate:
		h.submit(ctx, b, update, func() (booking.Result, error) {
			return h.flow.SubmitDate(telegramID, text)
		})
	case booking.StepTime:
		h.submit(ctx, b, update, func() (booking.Result, error) {
			return h.flow.SubmitTime(telegramID, text)
		})
	case booking.StepDuration:
		// Сюда попадает только ручной ввод длительности; кнопки
		// обрабатываются в callbacks
		h.submit(ctx, b, update, func() (booking.Result, error) {
			return h.flow.SubmitDuration(telegramID, text)
		})
	}
}

// submit выполняет шаг диалога и отправляет ответ с нужной клавиатурой
func (h *Handlers) submit(ctx context.Context, b *bot.Bot, update *models.Update, fn func() (booking.Result, error)) {
	result, err := fn()
	if err != nil && !errors.Is(err, booking.ErrInvalidInput) {
		h.requestLogger(update).Error("Dialog step failed", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return
	}

	params := &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   result.Prompt,
	}

	switch result.Step {
	case booking.StepDate, booking.StepTime:
		params.ReplyMarkup = CancelKeyboard()
	case booking.StepDuration:
		// При повторном запросе после ошибки ввода клавиатуру не дублируем
		if err == nil {
			params.ReplyMarkup = DurationKeyboard()
		}
	case booking.StepConfirm:
		params.ReplyMarkup = ConfirmKeyboard()
	}

	if _, sendErr := b.SendMessage(ctx, params); sendErr != nil {
		h.logger.Error("Failed to send dialog reply", zap.Error(sendErr))
	}
}
