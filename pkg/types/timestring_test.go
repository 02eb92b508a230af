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
		wantErr error
	}{
		{name: "plain", input: "09:30", want: "09:30"},
		{name: "with seconds", input: "17:00:00", want: "17:00"},
		{name: "end of day", input: "24:00", want: "24:00"},
		{name: "postgres fractional seconds", input: "08:15:00.000000", want: "08:15"},
		{name: "non zero seconds", input: "08:15:30", wantErr: ErrInvalidTimeString},
		{name: "single digit hour", input: "9:30", wantErr: ErrInvalidTimeString},
		{name: "garbage", input: "nine", wantErr: ErrInvalidTimeString},
		{name: "minute overflow", input: "10:60", wantErr: ErrTimeOutOfRange},
		{name: "past midnight", input: "24:15", wantErr: ErrTimeOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	start := TimeString("16:45")

	end, err := start.AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("17:30"), end)

	_, err = TimeString("23:30").AddMinutes(45)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	midnight, err := TimeString("23:15").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), midnight)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:15"))
	assert.False(t, TimeString("09:15").IsBefore("09:15"))
	assert.True(t, TimeString("17:00").IsAfter("16:59"))
	assert.True(t, TimeString("").IsZero())
	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("10:00:00")))
	assert.Equal(t, TimeString("10:00"), ts)

	require.NoError(t, ts.Scan("11:45"))
	assert.Equal(t, TimeString("11:45"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 13, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("13:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("AST", 3*60*60)
	day := time.Date(2026, 3, 2, 18, 40, 0, 0, loc)

	got := TimeString("09:45").On(day)

	assert.Equal(t, time.Date(2026, 3, 2, 9, 45, 0, 0, loc), got)
}
