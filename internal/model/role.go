package model

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleGuest  Role = "guest"
)

// Action - действие, требующее проверки прав
type Action string

const (
	ActionAddSlot            Action = "add_slot"
	ActionDeleteSlot         Action = "delete_slot"
	ActionViewSlots          Action = "view_slots"
	ActionCreateAppointment  Action = "create_appointment"
	ActionConfirmAppointment Action = "confirm_appointment"
	ActionCancelAppointment  Action = "cancel_appointment"
	ActionViewAppointments   Action = "view_appointments"
)

// Разрешённые действия по ролям
var rolePermissions = map[Role]map[Action]bool{
	RoleAdmin: {
		ActionAddSlot:            true,
		ActionDeleteSlot:         true,
		ActionViewSlots:          true,
		ActionConfirmAppointment: true,
		ActionCancelAppointment:  true,
		ActionViewAppointments:   true,
	},
	RoleClient: {
		ActionViewSlots:         true,
		ActionCreateAppointment: true,
		ActionCancelAppointment: true,
		ActionViewAppointments:  true,
	},
	RoleGuest: {
		ActionViewSlots: true,
	},
}

// Allowed проверяет доступно ли действие для роли
func Allowed(role Role, action Action) bool {
	return rolePermissions[role][action]
}
