package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentStatus_Transitions(t *testing.T) {
	all := []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow}

	allowed := map[AppointmentStatus][]AppointmentStatus{
		StatusScheduled: {StatusConfirmed, StatusCancelled, StatusNoShow},
		StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
	}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAppointmentStatus_Flags(t *testing.T) {
	assert.True(t, StatusScheduled.IsBlocking())
	assert.True(t, StatusConfirmed.IsBlocking())
	assert.True(t, StatusCompleted.IsBlocking())
	assert.False(t, StatusCancelled.IsBlocking())
	assert.False(t, StatusNoShow.IsBlocking())

	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
}

func TestParseAppointmentStatus(t *testing.T) {
	s, err := ParseAppointmentStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseAppointmentStatus("pending")
	require.ErrorIs(t, err, ErrValidation)
}

func TestAppointment_CanBeCancelled(t *testing.T) {
	a := &Appointment{Status: StatusScheduled}
	assert.True(t, a.CanBeCancelled())

	a.Status = StatusCompleted
	assert.False(t, a.CanBeCancelled())
}
