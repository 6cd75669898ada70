package calc

import (
	"fmt"
	"strings"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

// CalculateFlight computes scope 3 emissions for a flight receipt:
// great-circle distance between origin and destination, doubled for round
// trips, times the per-passenger-km factor for the travel class, times the
// passenger count.
func CalculateFlight(r model.ExtractionResult) (model.EmissionRecord, error) {
	origin, ok := r.StringField("origin")
	if !ok || origin == "" {
		return model.EmissionRecord{}, fmt.Errorf("%w: origin airport is missing", common.ErrInvalidField)
	}
	destination, ok := r.StringField("destination")
	if !ok || destination == "" {
		return model.EmissionRecord{}, fmt.Errorf("%w: destination airport is missing", common.ErrInvalidField)
	}

	distanceKm, err := AirportDistanceKm(origin, destination)
	if err != nil {
		return model.EmissionRecord{}, err
	}

	if roundTrip, ok := r.BoolField("round_trip"); ok && roundTrip {
		distanceKm *= 2
	}

	passengers, ok := r.NumberField("passengers")
	if !ok {
		passengers = 1
	}
	if passengers < 1 {
		return model.EmissionRecord{}, fmt.Errorf("%w: passengers must be at least 1, got %g", common.ErrInvalidField, passengers)
	}

	factor, err := classFactor(r)
	if err != nil {
		return model.EmissionRecord{}, err
	}

	return model.EmissionRecord{
		CO2eKg: distanceKm * factor * passengers,
		Scopes: []model.Scope{model.Scope3},
	}, nil
}

func classFactor(r model.ExtractionResult) (float64, error) {
	class, _ := r.StringField("travel_class")
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(class), " ", "_")) {
	case "", "economy", "coach":
		return FlightEconomyKgPerPkm, nil
	case "premium_economy", "premium":
		return FlightPremiumEconomyKgPerPkm, nil
	case "business":
		return FlightBusinessKgPerPkm, nil
	case "first":
		return FlightFirstKgPerPkm, nil
	default:
		return 0, fmt.Errorf("%w: unsupported travel class %q", common.ErrInvalidField, class)
	}
}
