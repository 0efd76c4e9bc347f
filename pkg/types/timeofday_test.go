package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"13:30", 810, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"09-00", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got.Minutes(), "input %q", tt.input)
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "00:00", FromMinutes(0).String())
	assert.Equal(t, "09:05", FromMinutes(545).String())
	assert.Equal(t, "23:59", FromMinutes(1439).String())
}

func TestTimeOfDay_AddMinutes(t *testing.T) {
	start, err := ParseTimeOfDay("17:30")
	require.NoError(t, err)

	assert.Equal(t, 1110, start.AddMinutes(60).Minutes())

	// Выход за границу суток допустим: 23:30 + 60 = 1470 минут
	late, err := ParseTimeOfDay("23:30")
	require.NoError(t, err)
	assert.Equal(t, 1470, late.AddMinutes(60).Minutes())
	assert.True(t, late.AddMinutes(60).After(FromMinutes(MinutesPerDay-1)))
}

func TestTimeOfDay_At(t *testing.T) {
	date := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	tod, err := ParseTimeOfDay("14:30")
	require.NoError(t, err)

	instant := tod.At(date)
	assert.Equal(t, time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC), instant)
}

func TestOverlaps(t *testing.T) {
	mustParse := func(s string) TimeOfDay {
		v, err := ParseTimeOfDay(s)
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		name                       string
		startA, endA, startB, endB string
		want                       bool
	}{
		{"частичное пересечение", "10:00", "11:00", "10:30", "11:30", true},
		{"полное вложение", "10:00", "12:00", "10:30", "11:00", true},
		{"совпадающие интервалы", "10:00", "11:00", "10:00", "11:00", true},
		{"смежные интервалы не пересекаются", "10:00", "11:00", "11:00", "12:00", false},
		{"смежные интервалы в обратном порядке", "11:00", "12:00", "10:00", "11:00", false},
		{"непересекающиеся интервалы", "09:00", "10:00", "14:00", "15:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(mustParse(tt.startA), mustParse(tt.endA), mustParse(tt.startB), mustParse(tt.endB))
			assert.Equal(t, tt.want, got)

			// Пересечение симметрично
			assert.Equal(t, tt.want, Overlaps(mustParse(tt.startB), mustParse(tt.endB), mustParse(tt.startA), mustParse(tt.endA)))
		})
	}
}

func TestTimeOfDay_JSON(t *testing.T) {
	type payload struct {
		Start TimeOfDay `json:"start"`
	}

	data, err := json.Marshal(payload{Start: FromMinutes(810)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"13:30"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"09:15"}`), &decoded))
	assert.Equal(t, 555, decoded.Start.Minutes())

	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00"}`), &decoded))
}

func TestTimeOfDay_Scan(t *testing.T) {
	var tod TimeOfDay

	require.NoError(t, tod.Scan("14:30:00"))
	assert.Equal(t, 870, tod.Minutes())

	require.NoError(t, tod.Scan([]byte("08:00")))
	assert.Equal(t, 480, tod.Minutes())

	require.NoError(t, tod.Scan(time.Date(2025, 1, 1, 11, 45, 0, 0, time.UTC)))
	assert.Equal(t, 705, tod.Minutes())

	assert.Error(t, tod.Scan(42))
}

func TestTimeOfDay_Value(t *testing.T) {
	v, err := FromMinutes(870).Value()
	require.NoError(t, err)
	assert.Equal(t, "14:30:00", v)
}
