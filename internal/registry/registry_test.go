package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

func TestNewWithBuiltins(t *testing.T) {
	reg, err := NewWithBuiltins()
	require.NoError(t, err)

	types := reg.Types()
	assert.Equal(t, []model.DocumentType{
		model.TypeFlightReceipt,
		model.TypeFuelReceipt,
		model.TypeShippingInvoice,
		model.TypeUtilityBillElectric,
		model.TypeUtilityBillGas,
	}, types)

	for _, typeID := range types {
		spec, err := reg.Resolve(typeID)
		require.NoError(t, err)
		assert.NotEmpty(t, spec.CalculatorID, "spec %s must name a calculator", typeID)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := New()
	spec := model.DocumentTypeSpec{
		TypeID:       model.TypeFuelReceipt,
		CalculatorID: CalcFuelVolume,
		Fields:       []model.FieldSpec{{Name: "liters", Kind: model.FieldNumber}},
	}

	require.NoError(t, reg.Register(spec))
	assert.ErrorIs(t, reg.Register(spec), common.ErrDuplicateType)
}

func TestRegisterRejectsInvalidSpecs(t *testing.T) {
	reg := New()

	err := reg.Register(model.DocumentTypeSpec{TypeID: model.TypeUnknown, CalculatorID: "x"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)

	err = reg.Register(model.DocumentTypeSpec{TypeID: "paper_invoice"})
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestResolveUnknownType(t *testing.T) {
	reg := New()
	_, err := reg.Resolve("water_bill")
	assert.ErrorIs(t, err, common.ErrUnknownType)
}

func TestReplaceSwapsSpecAtomically(t *testing.T) {
	reg, err := NewWithBuiltins()
	require.NoError(t, err)

	updated := model.DocumentTypeSpec{
		TypeID:       model.TypeFuelReceipt,
		CalculatorID: CalcFuelVolume,
		Fields: []model.FieldSpec{
			{Name: "fuel_type", Kind: model.FieldString, Required: true},
			{Name: "liters", Kind: model.FieldNumber},
			{Name: "odometer_km", Kind: model.FieldNumber},
		},
	}
	require.NoError(t, reg.Replace(updated))

	spec, err := reg.Resolve(model.TypeFuelReceipt)
	require.NoError(t, err)
	_, ok := spec.Field("odometer_km")
	assert.True(t, ok, "replacement spec should be visible")
}

func TestSchemaValidation(t *testing.T) {
	reg, err := NewWithBuiltins()
	require.NoError(t, err)

	schema, err := reg.Schema(model.TypeUtilityBillElectric)
	require.NoError(t, err)

	// Well-typed fields pass.
	assert.NoError(t, schema.Validate(map[string]any{
		"kwh":                485.0,
		"renewable_percent":  12.5,
		"utility_name":       "Pacific Power",
		"billing_period_end": "2026-07-31",
	}))

	// Mistyped fields fail.
	assert.Error(t, schema.Validate(map[string]any{"kwh": "lots"}))
	assert.Error(t, schema.Validate(map[string]any{"billing_period_end": "July 31"}))

	// Missing required fields do not fail schema validation; the
	// dispatcher tracks those as a confidence penalty instead.
	assert.NoError(t, schema.Validate(map[string]any{}))
}
