package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	all := []AppointmentStatus{
		AppointmentStatusPending,
		AppointmentStatusConfirmed,
		AppointmentStatusCompleted,
		AppointmentStatusCancelled,
		AppointmentStatusRescheduled,
	}

	allowed := map[AppointmentStatus]map[AppointmentStatus]bool{
		AppointmentStatusPending: {
			AppointmentStatusConfirmed:   true,
			AppointmentStatusCancelled:   true,
			AppointmentStatusRescheduled: true,
		},
		AppointmentStatusConfirmed: {
			AppointmentStatusCancelled:   true,
			AppointmentStatusCompleted:   true,
			AppointmentStatusRescheduled: true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			want := allowed[from][to]
			assert.Equalf(t, want, got, "%s -> %s", from, to)
		}
	}
}

func TestAppointmentStatusTerminal(t *testing.T) {
	assert.True(t, AppointmentStatusCompleted.IsTerminal())
	assert.True(t, AppointmentStatusCancelled.IsTerminal())
	assert.False(t, AppointmentStatusPending.IsTerminal())
	assert.False(t, AppointmentStatusConfirmed.IsTerminal())
	assert.False(t, AppointmentStatusRescheduled.IsTerminal())
}

func TestAppointmentStatusLive(t *testing.T) {
	assert.True(t, AppointmentStatusPending.IsLive())
	assert.True(t, AppointmentStatusConfirmed.IsLive())
	assert.False(t, AppointmentStatusCompleted.IsLive())
	assert.False(t, AppointmentStatusCancelled.IsLive())
	assert.False(t, AppointmentStatusRescheduled.IsLive())
}
