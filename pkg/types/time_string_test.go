package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "hh:mm", input: "09:30", want: "09:30"},
		{name: "hh:mm:ss from postgres", input: "17:45:00", want: "17:45"},
		{name: "midnight", input: "00:00", want: "00:00"},
		{name: "last minute", input: "23:59", want: "23:59"},
		{name: "end of day", input: "24:00", want: EndOfDay},
		{name: "end of day from postgres", input: "24:00:00", want: EndOfDay},
		{name: "past end of day", input: "24:01", wantErr: true},
		{name: "hour overflow", input: "25:00", wantErr: true},
		{name: "single digit hour", input: "9:30", wantErr: true},
		{name: "minutes overflow", input: "10:60", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := MustTimeString("09:15")

	end, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:00"), end)

	_, err = MustTimeString("23:30").AddMinutes(30)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = MustTimeString("23:59").AddMinutes(1)
	require.ErrorIs(t, err, ErrOutOfRange)

	before, err := EndOfDay.AddMinutes(-30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("23:30"), before)

	_, err = MustTimeString("00:10").AddMinutes(-20)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = TimeString("bad").AddMinutes(10)
	require.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("10:00")
	b := MustTimeString("10:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.True(t, a.Equal(TimeString("10:00")))
	assert.Equal(t, 600, a.Minutes())
	assert.Equal(t, -1, TimeString("x").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 14, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:05"), ts)

	require.NoError(t, ts.Scan([]byte("08:00:00")))
	assert.Equal(t, TimeString("08:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, EndOfDay, ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("00:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	require.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := MustTimeString("12:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "12:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
