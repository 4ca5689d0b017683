package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrip_JSON(t *testing.T) {
	t.Run("dates serialize as ISO strings", func(t *testing.T) {
		start := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		trip := Trip{ID: 1700000000000, Name: "Surf week", DestinationID: "Bali-Kuta Beach", StartDate: &start}

		raw, err := json.Marshal(trip)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"startDate":"2026-03-14T00:00:00Z"`)
		assert.Contains(t, string(raw), `"endDate":null`)

		var back Trip
		require.NoError(t, json.Unmarshal(raw, &back))
		require.NotNil(t, back.StartDate)
		assert.True(t, back.StartDate.Equal(start))
		assert.Nil(t, back.EndDate)
	})

	t.Run("date-only strings are accepted", func(t *testing.T) {
		var trip Trip
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"x","startDate":"2026-03-14","endDate":null}`), &trip))
		require.NotNil(t, trip.StartDate)
		assert.Equal(t, 14, trip.StartDate.Day())
	})

	t.Run("unparsable stored dates degrade to nil", func(t *testing.T) {
		var trip Trip
		require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"x","startDate":"not a date","endDate":"also bad"}`), &trip))
		assert.Nil(t, trip.StartDate)
		assert.Nil(t, trip.EndDate)
	})
}
