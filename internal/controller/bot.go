package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"zapisbot/internal/booking"
	"zapisbot/internal/controller/callbacks"
	"zapisbot/internal/controller/handlers"
	"zapisbot/internal/service"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	identityService *service.IdentityService,
	roleService *service.RoleService,
	slotService *service.SlotService,
	appointmentService *service.AppointmentService,
	flow *booking.Flow,
	logger *zap.Logger,
) *BotController {
	cmdHandlers := handlers.NewHandlers(
		identityService,
		roleService,
		slotService,
		appointmentService,
		flow,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		identityService,
		roleService,
		slotService,
		appointmentService,
		flow,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Общие команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slots", bot.MatchTypeExact, c.handlers.HandleSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myappointments", bot.MatchTypeExact, c.handlers.HandleMyAppointments)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Команды администратора
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addslot", bot.MatchTypeExact, c.handlers.HandleAddSlotStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/slotsdate", bot.MatchTypePrefix, c.handlers.HandleSlotsOnDate)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/deleteslots", bot.MatchTypePrefix, c.handlers.HandleDeleteSlots)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pending", bot.MatchTypeExact, c.handlers.HandlePending)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "slots", Description: "🗓 Свободные слоты"},
		{Command: "myappointments", Description: "📅 Мои записи"},
		{Command: "addslot", Description: "➕ Добавить слот (админ)"},
		{Command: "pending", Description: "⏳ Записи на подтверждение (админ)"},
		{Command: "cancel", Description: "❌ Прервать диалог"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
