package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"zapisbot/internal/model"
)

// requestLogger возвращает логгер с request id для сквозной корреляции
// всех логов одного апдейта
func (h *Handlers) requestLogger(update *models.Update) *zap.Logger {
	return h.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.Int64("update_id", update.ID),
	)
}

// requireAction проверяет что действие разрешено роли отправителя.
// Возвращает роль и true если OK
func (h *Handlers) requireAction(ctx context.Context, b *bot.Bot, update *models.Update, action model.Action) (model.Role, bool) {
	if update.Message == nil {
		return model.RoleGuest, false
	}

	telegramID := update.Message.From.ID
	role, err := h.roleService.ResolveRole(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to resolve role",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return model.RoleGuest, false
	}

	if !model.Allowed(role, action) {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Эта команда вам недоступна.\n\nДля регистрации используйте /start")
		return role, false
	}

	return role, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
