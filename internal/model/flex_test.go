package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/collabhub-backend/internal/model"
)

func TestFlexIDUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want model.FlexID
	}{
		{`12`, "12"},
		{`12.0`, "12"},
		{`"12"`, "12"},
		{`1717000000000`, "1717000000000"},
		{`1.5`, "1.5"},
		{`"abc-1"`, "abc-1"},
		{`null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var id model.FlexID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id model.FlexID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestFollowerCountUnmarshal(t *testing.T) {
	tests := []struct {
		raw  string
		want model.FollowerCount
	}{
		{`12500`, 12500},
		{`"12500"`, 12500},
		{`"12,500"`, 12500},
		{`"12 500"`, 12500},
		{`"1_000"`, 1000},
		{`""`, 0},
		{`null`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			var c model.FollowerCount
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			assert.Equal(t, tt.want, c)
		})
	}

	for _, bad := range []string{`"NaN"`, `"Inf"`, `"-Inf"`, `"+Infinity"`, `"lots"`} {
		var c model.FollowerCount
		assert.Error(t, json.Unmarshal([]byte(bad), &c), bad)
	}
}

func TestDayUnmarshal(t *testing.T) {
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	t.Run("date only ignores location", func(t *testing.T) {
		var d model.Day
		require.NoError(t, json.Unmarshal([]byte(`"2024-06-09"`), &d))
		assert.Equal(t, "2024-06-09", d.String())
		assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, la), d.Midnight(la))
	})

	t.Run("timestamp resolves in location", func(t *testing.T) {
		var d model.Day
		require.NoError(t, json.Unmarshal([]byte(`"2024-06-10T03:00:00Z"`), &d))
		assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, la), d.Midnight(la))
		assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), d.Midnight(time.UTC))
	})

	t.Run("empty string is no date", func(t *testing.T) {
		var r model.Request
		require.NoError(t, json.Unmarshal([]byte(`{"id":"r1","selectedDate":"  ","status":"pending"}`), &r))
		assert.False(t, r.HasSelectedDate())
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		var d model.Day
		assert.Error(t, json.Unmarshal([]byte(`"next saturday"`), &d))
	})
}
