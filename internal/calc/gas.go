package calc

import (
	"fmt"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

// CalculateNaturalGas computes scope 1 emissions for a gas utility bill.
// Usage may be reported in therms or CCF; CCF is converted before applying
// the factor. Exactly one of the two must be present.
func CalculateNaturalGas(r model.ExtractionResult) (model.EmissionRecord, error) {
	therms, hasTherms := r.NumberField("therms")
	ccf, hasCCF := r.NumberField("ccf")

	switch {
	case hasTherms:
		// Prefer therms when both are reported.
	case hasCCF:
		therms = CCFToTherms(ccf)
	default:
		return model.EmissionRecord{}, fmt.Errorf("%w: gas bill reports neither therms nor ccf", common.ErrInvalidField)
	}

	if err := requireNonNegative("therms", therms); err != nil {
		return model.EmissionRecord{}, err
	}

	return model.EmissionRecord{
		CO2eKg: therms * GasKgPerTherm,
		Scopes: []model.Scope{model.Scope1},
	}, nil
}
