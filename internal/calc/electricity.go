package calc

import (
	"fmt"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

// CalculateElectricity computes scope 2 emissions for an electric utility
// bill. A renewable_percent of 100 yields zero emissions, not an error.
func CalculateElectricity(r model.ExtractionResult) (model.EmissionRecord, error) {
	kwh, ok := r.NumberField("kwh")
	if !ok {
		return model.EmissionRecord{}, fmt.Errorf("%w: kwh is missing or not a number", common.ErrInvalidField)
	}
	if err := requireNonNegative("kwh", kwh); err != nil {
		return model.EmissionRecord{}, err
	}

	renewable, ok := r.NumberField("renewable_percent")
	if !ok {
		renewable = 0
	}
	if renewable < 0 || renewable > 100 {
		return model.EmissionRecord{}, fmt.Errorf("%w: renewable_percent must be within [0,100], got %g", common.ErrInvalidField, renewable)
	}

	co2e := kwh * GridKgPerKWh * (1 - renewable/100)

	return model.EmissionRecord{
		CO2eKg: co2e,
		Scopes: []model.Scope{model.Scope2},
	}, nil
}
