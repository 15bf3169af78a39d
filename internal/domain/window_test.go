package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

func w(start, end string) TimeWindow {
	return TimeWindow{Start: types.MustTimeString(start), End: types.MustTimeString(end)}
}

func TestTimeWindow_Overlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b TimeWindow
		want bool
	}{
		{name: "touching at end", a: w("09:00", "10:00"), b: w("10:00", "10:30"), want: false},
		{name: "touching at start", a: w("10:00", "10:30"), b: w("09:00", "10:00"), want: false},
		{name: "partial", a: w("09:00", "10:00"), b: w("09:30", "10:30"), want: true},
		{name: "contained", a: w("09:00", "12:00"), b: w("10:00", "10:15"), want: true},
		{name: "identical", a: w("14:00", "14:30"), b: w("14:00", "14:30"), want: true},
		{name: "disjoint", a: w("08:00", "09:00"), b: w("11:00", "12:00"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a))
		})
	}
}

func TestTimeWindow_Within(t *testing.T) {
	outer := w("09:00", "18:00")

	assert.True(t, w("09:00", "09:30").Within(outer))
	assert.True(t, w("17:30", "18:00").Within(outer))
	assert.False(t, w("17:45", "18:15").Within(outer))
	assert.False(t, w("08:45", "09:15").Within(outer))
}

func TestNewTimeWindow(t *testing.T) {
	_, err := NewTimeWindow("10:00", "10:00")
	require.ErrorIs(t, err, ErrValidation)

	_, err = NewTimeWindow("11:00", "10:00")
	require.ErrorIs(t, err, ErrValidation)

	_, err = NewTimeWindow("xx", "10:00")
	require.ErrorIs(t, err, ErrValidation)

	win, err := NewTimeWindow("09:00", "18:00")
	require.NoError(t, err)
	assert.Equal(t, 540, win.DurationMinutes())
}

func TestWindowFromDuration(t *testing.T) {
	win, err := WindowFromDuration("09:15", 45)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), win.End)

	_, err = WindowFromDuration("23:45", 30)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = WindowFromDuration("10:00", 0)
	require.ErrorIs(t, err, ErrValidation)
}
