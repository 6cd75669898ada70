package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

func TestAirportDistance(t *testing.T) {
	d, err := AirportDistanceKm("SFO", "JFK")
	require.NoError(t, err)
	// Transcontinental great-circle distance, roughly 4150 km.
	assert.InDelta(t, 4150, d, 60)

	// Distance is symmetric and case-insensitive.
	back, err := AirportDistanceKm("jfk", " sfo ")
	require.NoError(t, err)
	assert.InDelta(t, d, back, 1e-9)

	_, err = AirportDistanceKm("SFO", "XXX")
	assert.ErrorIs(t, err, common.ErrInvalidField)
}

func TestCalculateFlight(t *testing.T) {
	distance, err := AirportDistanceKm("SFO", "JFK")
	require.NoError(t, err)

	t.Run("one-way economy", func(t *testing.T) {
		rec, err := CalculateFlight(result(model.TypeFlightReceipt, map[string]any{
			"origin":      "SFO",
			"destination": "JFK",
		}))
		require.NoError(t, err)
		assert.InDelta(t, distance*FlightEconomyKgPerPkm, rec.CO2eKg, 1e-6)
		assert.Equal(t, []model.Scope{model.Scope3}, rec.Scopes)
	})

	t.Run("round trip doubles the distance", func(t *testing.T) {
		rec, err := CalculateFlight(result(model.TypeFlightReceipt, map[string]any{
			"origin":      "SFO",
			"destination": "JFK",
			"round_trip":  true,
		}))
		require.NoError(t, err)
		assert.InDelta(t, 2*distance*FlightEconomyKgPerPkm, rec.CO2eKg, 1e-6)
	})

	t.Run("business class and multiple passengers", func(t *testing.T) {
		rec, err := CalculateFlight(result(model.TypeFlightReceipt, map[string]any{
			"origin":       "SFO",
			"destination":  "JFK",
			"travel_class": "Business",
			"passengers":   2.0,
		}))
		require.NoError(t, err)
		assert.InDelta(t, distance*FlightBusinessKgPerPkm*2, rec.CO2eKg, 1e-6)
	})

	t.Run("premium economy accepts spaced spelling", func(t *testing.T) {
		rec, err := CalculateFlight(result(model.TypeFlightReceipt, map[string]any{
			"origin":       "LHR",
			"destination":  "FRA",
			"travel_class": "Premium Economy",
		}))
		require.NoError(t, err)
		assert.Greater(t, rec.CO2eKg, 0.0)
	})

	t.Run("missing destination", func(t *testing.T) {
		_, err := CalculateFlight(result(model.TypeFlightReceipt, map[string]any{
			"origin": "SFO",
		}))
		assert.ErrorIs(t, err, common.ErrInvalidField)
	})

	t.Run("unknown travel class", func(t *testing.T) {
		_, err := CalculateFlight(result(model.TypeFlightReceipt, map[string]any{
			"origin":       "SFO",
			"destination":  "JFK",
			"travel_class": "suborbital",
		}))
		assert.ErrorIs(t, err, common.ErrInvalidField)
	})

	t.Run("zero passengers", func(t *testing.T) {
		_, err := CalculateFlight(result(model.TypeFlightReceipt, map[string]any{
			"origin":      "SFO",
			"destination": "JFK",
			"passengers":  0.0,
		}))
		assert.ErrorIs(t, err, common.ErrInvalidField)
	})
}
