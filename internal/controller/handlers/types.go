package handlers

import (
	"go.uber.org/zap"

	"zapisbot/internal/booking"
	"zapisbot/internal/service"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	identityService    *service.IdentityService
	roleService        *service.RoleService
	slotService        *service.SlotService
	appointmentService *service.AppointmentService
	flow               *booking.Flow
	logger             *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	identityService *service.IdentityService,
	roleService *service.RoleService,
	slotService *service.SlotService,
	appointmentService *service.AppointmentService,
	flow *booking.Flow,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		identityService:    identityService,
		roleService:        roleService,
		slotService:        slotService,
		appointmentService: appointmentService,
		flow:               flow,
		logger:             logger,
	}
}
