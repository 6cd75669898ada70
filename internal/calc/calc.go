// Package calc implements the pure emission calculation engine. Each
// document type resolves to a calculator by id; calculators take normalized
// extraction fields and return a CO2e quantity, scope tags, and equivalence
// metrics. All unit conversion happens here, immediately before calculation.
package calc

import (
	"fmt"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/registry"
)

// Calculator maps one extraction result to an emission record. Calculators
// are pure functions: no I/O, no shared state.
type Calculator func(r model.ExtractionResult) (model.EmissionRecord, error)

// Registry resolves calculator ids to calculators. It is populated once at
// startup and read-only afterwards.
type Registry struct {
	calculators map[string]Calculator
}

// NewRegistry creates a calculator registry with all built-in calculators.
func NewRegistry() *Registry {
	return &Registry{
		calculators: map[string]Calculator{
			registry.CalcElectricityGrid: CalculateElectricity,
			registry.CalcNaturalGas:      CalculateNaturalGas,
			registry.CalcFlightDistance:  CalculateFlight,
			registry.CalcFuelVolume:      CalculateFuel,
			registry.CalcFreightTonneKm:  CalculateFreight,
		},
	}
}

// Calculate runs the calculator registered under the given id.
func (r *Registry) Calculate(calculatorID string, result model.ExtractionResult) (model.EmissionRecord, error) {
	calc, ok := r.calculators[calculatorID]
	if !ok {
		return model.EmissionRecord{}, fmt.Errorf("%w: no calculator registered for %q", common.ErrUnknownType, calculatorID)
	}

	record, err := calc(result)
	if err != nil {
		return model.EmissionRecord{}, err
	}
	record.CalculatorID = calculatorID
	record.Equivalents = EquivalentsFor(record.CO2eKg)
	return record, nil
}

// EquivalentsFor derives relatable equivalence metrics from a CO2e quantity.
func EquivalentsFor(co2eKg float64) model.Equivalents {
	return model.Equivalents{
		TreesNeeded: co2eKg / TreeAbsorptionKgPerYear,
		CarKm:       co2eKg / CarKgPerKm,
	}
}

// requireNonNegative rejects negative quantities with an InvalidFieldError.
func requireNonNegative(name string, value float64) error {
	if value < 0 {
		return fmt.Errorf("%w: %s must be non-negative, got %g", common.ErrInvalidField, name, value)
	}
	return nil
}
