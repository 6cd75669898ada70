package calc

import (
	"fmt"
	"strings"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

// CalculateFuel computes scope 1 emissions for a fuel receipt. Volume may be
// reported in liters or US gallons.
func CalculateFuel(r model.ExtractionResult) (model.EmissionRecord, error) {
	liters, hasLiters := r.NumberField("liters")
	gallons, hasGallons := r.NumberField("gallons")

	switch {
	case hasLiters:
	case hasGallons:
		liters = GallonsToLiters(gallons)
	default:
		return model.EmissionRecord{}, fmt.Errorf("%w: fuel receipt reports neither liters nor gallons", common.ErrInvalidField)
	}

	if err := requireNonNegative("liters", liters); err != nil {
		return model.EmissionRecord{}, err
	}

	fuelType, _ := r.StringField("fuel_type")
	var factor float64
	switch strings.ToLower(strings.TrimSpace(fuelType)) {
	case "petrol", "gasoline":
		factor = PetrolKgPerLiter
	case "diesel":
		factor = DieselKgPerLiter
	case "lpg", "propane":
		factor = LPGKgPerLiter
	default:
		return model.EmissionRecord{}, fmt.Errorf("%w: unsupported fuel type %q", common.ErrInvalidField, fuelType)
	}

	return model.EmissionRecord{
		CO2eKg: liters * factor,
		Scopes: []model.Scope{model.Scope1},
	}, nil
}
