package model

// Scope is a GHG Protocol emission scope: direct emissions (1), purchased
// energy (2), or other indirect emissions (3).
type Scope int

// GHG Protocol scopes.
const (
	Scope1 Scope = 1
	Scope2 Scope = 2
	Scope3 Scope = 3
)

// Equivalents expresses a CO2e quantity in relatable terms. The values are
// derived from CO2eKg and are never treated as ground truth.
type Equivalents struct {
	TreesNeeded float64
	CarKm       float64
}

// EmissionRecord is the computed emission outcome for one extraction result.
// It is computed once and never updated in place; re-extraction produces a
// fresh record.
type EmissionRecord struct {
	CalculatorID string
	Scopes       []Scope
	Equivalents  Equivalents
	CO2eKg       float64
}

// PrimaryScope returns the first scope tag, or 0 when none was assigned.
func (e EmissionRecord) PrimaryScope() Scope {
	if len(e.Scopes) == 0 {
		return 0
	}
	return e.Scopes[0]
}
