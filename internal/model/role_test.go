package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	testCases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleAdmin, ActionAddSlot, true},
		{RoleAdmin, ActionDeleteSlot, true},
		{RoleAdmin, ActionConfirmAppointment, true},
		{RoleAdmin, ActionCreateAppointment, false},

		{RoleClient, ActionViewSlots, true},
		{RoleClient, ActionCreateAppointment, true},
		{RoleClient, ActionCancelAppointment, true},
		{RoleClient, ActionAddSlot, false},
		{RoleClient, ActionConfirmAppointment, false},

		{RoleGuest, ActionViewSlots, true},
		{RoleGuest, ActionCreateAppointment, false},
		{RoleGuest, ActionAddSlot, false},

		{Role("unknown"), ActionViewSlots, false},
	}

	for _, tc := range testCases {
		got := Allowed(tc.role, tc.action)
		assert.Equalf(t, tc.want, got, "%s / %s", tc.role, tc.action)
	}
}
