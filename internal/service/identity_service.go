package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"zapisbot/internal/model"
)

// IdentityService регистрирует клиентов и администраторов
type IdentityService struct {
	userStore   UserStore
	clientStore ClientStore
	logger      *zap.Logger
}

func NewIdentityService(userStore UserStore, clientStore ClientStore, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		userStore:   userStore,
		clientStore: clientStore,
		logger:      logger,
	}
}

// RegisterClient регистрирует клиента по telegram ID (идемпотентно).
// Администраторы не регистрируются как клиенты
func (s *IdentityService) RegisterClient(ctx context.Context, tgUserID int64, firstName, lastName string) (*model.Client, error) {
	user, err := s.userStore.GetByTgID(ctx, tgUserID)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}
	if user != nil {
		return nil, fmt.Errorf("tg user %d is an admin, not a client", tgUserID)
	}

	client := &model.Client{
		TgUserID:  tgUserID,
		FirstName: firstName,
		LastName:  lastName,
	}

	if err := s.clientStore.Upsert(ctx, client); err != nil {
		return nil, fmt.Errorf("register client: %w", err)
	}

	s.logger.Info("Client registered",
		zap.Int64("client_id", client.ID),
		zap.Int64("tg_user_id", tgUserID),
	)

	return client, nil
}

// GetClientByTgID возвращает клиента или (nil, nil) если он не зарегистрирован
func (s *IdentityService) GetClientByTgID(ctx context.Context, tgUserID int64) (*model.Client, error) {
	return s.clientStore.GetByTgID(ctx, tgUserID)
}

// EnsureAdmin создаёт администратора, заданного конфигурацией
func (s *IdentityService) EnsureAdmin(ctx context.Context, tgUserID int64) (*model.User, error) {
	user := &model.User{TgUserID: tgUserID}

	if err := s.userStore.Upsert(ctx, user); err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}

	s.logger.Info("Admin ensured",
		zap.Int64("user_id", user.ID),
		zap.Int64("tg_user_id", tgUserID),
	)

	return user, nil
}
