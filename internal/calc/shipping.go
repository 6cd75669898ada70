package calc

import (
	"fmt"
	"strings"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

// CalculateFreight computes scope 3 emissions for a shipping invoice using
// tonne-km factors per transport mode.
func CalculateFreight(r model.ExtractionResult) (model.EmissionRecord, error) {
	weightKg, ok := r.NumberField("weight_kg")
	if !ok {
		return model.EmissionRecord{}, fmt.Errorf("%w: weight_kg is missing or not a number", common.ErrInvalidField)
	}
	if err := requireNonNegative("weight_kg", weightKg); err != nil {
		return model.EmissionRecord{}, err
	}

	distanceKm, ok := r.NumberField("distance_km")
	if !ok {
		return model.EmissionRecord{}, fmt.Errorf("%w: distance_km is missing or not a number", common.ErrInvalidField)
	}
	if err := requireNonNegative("distance_km", distanceKm); err != nil {
		return model.EmissionRecord{}, err
	}

	mode, _ := r.StringField("mode")
	var factor float64
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "road", "truck":
		factor = FreightRoadKgPerTonneKm
	case "rail", "train":
		factor = FreightRailKgPerTonneKm
	case "air":
		factor = FreightAirKgPerTonneKm
	case "sea", "ocean":
		factor = FreightSeaKgPerTonneKm
	default:
		return model.EmissionRecord{}, fmt.Errorf("%w: unsupported freight mode %q", common.ErrInvalidField, mode)
	}

	tonneKm := (weightKg / 1000.0) * distanceKm

	return model.EmissionRecord{
		CO2eKg: tonneKm * factor,
		Scopes: []model.Scope{model.Scope3},
	}, nil
}
