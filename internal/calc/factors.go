package calc

// Published emission factors, normalized to kg CO2e. Sources: EPA eGRID
// national average for grid electricity, EPA emission factor hub for
// stationary and mobile combustion, DEFRA conversion factors for aviation
// and freight.
const (
	// Scope 2: purchased electricity, kg CO2e per kWh (grid average).
	GridKgPerKWh = 0.4

	// Scope 1: natural gas combustion, kg CO2e per therm.
	GasKgPerTherm = 5.3

	// Scope 1: mobile combustion, kg CO2e per liter.
	PetrolKgPerLiter = 2.31
	DieselKgPerLiter = 2.68
	LPGKgPerLiter    = 1.51

	// Scope 3: aviation, kg CO2e per passenger-km by travel class.
	FlightEconomyKgPerPkm        = 0.156
	FlightPremiumEconomyKgPerPkm = 0.25
	FlightBusinessKgPerPkm       = 0.45
	FlightFirstKgPerPkm          = 0.60

	// Scope 3: freight, kg CO2e per tonne-km by mode.
	FreightRoadKgPerTonneKm = 0.105
	FreightRailKgPerTonneKm = 0.027
	FreightAirKgPerTonneKm  = 1.13
	FreightSeaKgPerTonneKm  = 0.016

	// Equivalence metrics: kg CO2e absorbed per mature tree per year, and
	// kg CO2e emitted per km by an average passenger car.
	TreeAbsorptionKgPerYear = 21.0
	CarKgPerKm              = 0.192
)
