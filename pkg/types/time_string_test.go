package types

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeString_Validate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid morning", value: "09:00"},
		{name: "valid evening", value: "17:45"},
		{name: "no leading zero", value: "9:00", wantErr: true},
		{name: "hours overflow", value: "25:00", wantErr: true},
		{name: "garbage", value: "noon", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTimeStringFromString(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	m, err := TimeString("09:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	assert.True(t, TimeString("09:00").IsBefore("17:00"))
	assert.False(t, TimeString("17:00").IsBefore("09:00"))
}

func TestTimeString_On_UsesOffsetOfThatDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 8 марта 2026 в Нью-Йорке переводят часы: до перехода UTC-5, после UTC-4
	before, err := TimeString("09:00").On(2026, time.March, 7, loc)
	require.NoError(t, err)
	after, err := TimeString("09:00").On(2026, time.March, 9, loc)
	require.NoError(t, err)

	assert.Equal(t, 14, before.UTC().Hour())
	assert.Equal(t, 13, after.UTC().Hour())
}
