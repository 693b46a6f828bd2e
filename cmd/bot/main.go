package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"zapisbot/internal/app"
	"zapisbot/internal/booking"
	"zapisbot/internal/config"
	"zapisbot/internal/controller"
	"zapisbot/internal/repository"
	"zapisbot/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting appointment bot",
		zap.String("environment", cfg.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключаемся к базе
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	// Применяем миграции
	migrator, err := app.NewMigrator(pool, cfg.MigrationsPath)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}

	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	migrator.Close()

	// Репозитории
	slotRepo := repository.NewSlotRepository(pool)
	appointmentRepo := repository.NewAppointmentRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	clientRepo := repository.NewClientRepository(pool)

	// Сервисы
	slotService := service.NewSlotService(slotRepo, appointmentRepo, logger, nil)
	appointmentService := service.NewAppointmentService(slotRepo, appointmentRepo, logger, nil)
	roleService := service.NewRoleService(userRepo, clientRepo)
	identityService := service.NewIdentityService(userRepo, clientRepo, logger)

	// Администратор из конфига
	if cfg.AdminTgID != 0 {
		if _, err := identityService.EnsureAdmin(ctx, cfg.AdminTgID); err != nil {
			logger.Fatal("Failed to ensure admin", zap.Error(err))
		}
	}

	// Диалог создания слота
	flow := booking.NewFlow(slotService, logger, nil)

	// Телеграм бот
	botInstance, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(
		botInstance,
		identityService,
		roleService,
		slotService,
		appointmentService,
		flow,
		logger,
	)

	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	// Фоновые задачи: автозавершение записей и чистка черновиков
	scheduler := app.NewScheduler(appointmentService, flow, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	if err := botController.Start(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
