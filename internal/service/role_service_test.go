package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"zapisbot/internal/model"
)

func TestResolveRole(t *testing.T) {
	userStore := newFakeUserStore()
	clientStore := newFakeClientStore()
	svc := NewRoleService(userStore, clientStore)
	ctx := context.Background()

	require.NoError(t, userStore.Upsert(ctx, &model.User{TgUserID: 100}))
	require.NoError(t, clientStore.Upsert(ctx, &model.Client{TgUserID: 200}))

	role, err := svc.ResolveRole(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, role)

	role, err = svc.ResolveRole(ctx, 200)
	require.NoError(t, err)
	assert.Equal(t, model.RoleClient, role)

	role, err = svc.ResolveRole(ctx, 300)
	require.NoError(t, err)
	assert.Equal(t, model.RoleGuest, role)
}

func TestRegisterClient(t *testing.T) {
	userStore := newFakeUserStore()
	clientStore := newFakeClientStore()
	svc := NewIdentityService(userStore, clientStore, zap.NewNop())
	ctx := context.Background()

	client, err := svc.RegisterClient(ctx, 200, "Иван", "Петров")
	require.NoError(t, err)
	assert.NotZero(t, client.ID)

	// Повторная регистрация идемпотентна
	again, err := svc.RegisterClient(ctx, 200, "Иван", "Петров")
	require.NoError(t, err)
	assert.Equal(t, client.ID, again.ID)
}

func TestRegisterClient_AdminRejected(t *testing.T) {
	userStore := newFakeUserStore()
	clientStore := newFakeClientStore()
	svc := NewIdentityService(userStore, clientStore, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, userStore.Upsert(ctx, &model.User{TgUserID: 100}))

	_, err := svc.RegisterClient(ctx, 100, "", "")
	assert.Error(t, err)
}
