package service

import (
	"context"
	"fmt"

	"zapisbot/internal/model"
)

// RoleService определяет роль пользователя по его telegram ID:
// есть в таблице администраторов - ADMIN, в таблице клиентов - CLIENT,
// иначе GUEST
type RoleService struct {
	userStore   UserStore
	clientStore ClientStore
}

func NewRoleService(userStore UserStore, clientStore ClientStore) *RoleService {
	return &RoleService{
		userStore:   userStore,
		clientStore: clientStore,
	}
}

// ResolveRole возвращает роль по telegram ID
func (s *RoleService) ResolveRole(ctx context.Context, tgUserID int64) (model.Role, error) {
	user, err := s.userStore.GetByTgID(ctx, tgUserID)
	if err != nil {
		return model.RoleGuest, fmt.Errorf("resolve role: %w", err)
	}
	if user != nil {
		return model.RoleAdmin, nil
	}

	client, err := s.clientStore.GetByTgID(ctx, tgUserID)
	if err != nil {
		return model.RoleGuest, fmt.Errorf("resolve role: %w", err)
	}
	if client != nil {
		return model.RoleClient, nil
	}

	return model.RoleGuest, nil
}
