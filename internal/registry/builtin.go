package registry

import "github.com/evergrid/emissary/internal/model"

// Calculator ids referenced by the built-in specs. The calc package
// registers a calculator under each of these ids.
const (
	CalcElectricityGrid = "electricity_grid"
	CalcNaturalGas      = "natural_gas"
	CalcFlightDistance  = "flight_distance"
	CalcFuelVolume      = "fuel_volume"
	CalcFreightTonneKm  = "freight_tonne_km"
)

// BuiltinSpecs returns the document type specs supported out of the box.
func BuiltinSpecs() []model.DocumentTypeSpec {
	return []model.DocumentTypeSpec{
		{
			TypeID:       model.TypeUtilityBillElectric,
			CalculatorID: CalcElectricityGrid,
			Fields: []model.FieldSpec{
				{Name: "kwh", Kind: model.FieldNumber, Required: true},
				{Name: "renewable_percent", Kind: model.FieldNumber},
				{Name: "utility_name", Kind: model.FieldString},
				{Name: "billing_period_end", Kind: model.FieldDate},
			},
		},
		{
			TypeID:       model.TypeUtilityBillGas,
			CalculatorID: CalcNaturalGas,
			Fields: []model.FieldSpec{
				{Name: "therms", Kind: model.FieldNumber},
				{Name: "ccf", Kind: model.FieldNumber},
				{Name: "utility_name", Kind: model.FieldString},
				{Name: "billing_period_end", Kind: model.FieldDate},
			},
		},
		{
			TypeID:       model.TypeFlightReceipt,
			CalculatorID: CalcFlightDistance,
			Fields: []model.FieldSpec{
				{Name: "origin", Kind: model.FieldString, Required: true},
				{Name: "destination", Kind: model.FieldString, Required: true},
				{Name: "travel_class", Kind: model.FieldString},
				{Name: "round_trip", Kind: model.FieldBool},
				{Name: "passengers", Kind: model.FieldNumber},
				{Name: "flight_date", Kind: model.FieldDate},
			},
		},
		{
			TypeID:       model.TypeFuelReceipt,
			CalculatorID: CalcFuelVolume,
			Fields: []model.FieldSpec{
				{Name: "fuel_type", Kind: model.FieldString, Required: true},
				{Name: "liters", Kind: model.FieldNumber},
				{Name: "gallons", Kind: model.FieldNumber},
				{Name: "station", Kind: model.FieldString},
			},
		},
		{
			TypeID:       model.TypeShippingInvoice,
			CalculatorID: CalcFreightTonneKm,
			Fields: []model.FieldSpec{
				{Name: "weight_kg", Kind: model.FieldNumber, Required: true},
				{Name: "distance_km", Kind: model.FieldNumber, Required: true},
				{Name: "mode", Kind: model.FieldString, Required: true},
				{Name: "carrier", Kind: model.FieldString},
			},
		},
	}
}
