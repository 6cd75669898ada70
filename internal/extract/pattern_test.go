package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergrid/emissary/internal/model"
)

func TestPatternCollaboratorClassification(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantType model.DocumentType
		wantKeys []string
	}{
		{
			name:     "electric bill",
			text:     "City Light bill: 1,240 kWh consumed, 35% renewable",
			wantType: model.TypeUtilityBillElectric,
			wantKeys: []string{"kwh", "renewable_percent"},
		},
		{
			name:     "gas bill in therms",
			text:     "Natural gas statement: 52.5 therms",
			wantType: model.TypeUtilityBillGas,
			wantKeys: []string{"therms"},
		},
		{
			name:     "gas bill in ccf",
			text:     "Usage this period: 48 CCF",
			wantType: model.TypeUtilityBillGas,
			wantKeys: []string{"ccf"},
		},
		{
			name:     "flight with unicode arrow",
			text:     "Itinerary LHR → SIN, premium economy, return",
			wantType: model.TypeFlightReceipt,
			wantKeys: []string{"origin", "destination", "travel_class", "round_trip"},
		},
		{
			name:     "fuel receipt",
			text:     "Shell station, 43.2 liters unleaded",
			wantType: model.TypeFuelReceipt,
			wantKeys: []string{"liters", "fuel_type"},
		},
		{
			name:     "shipping invoice",
			text:     "Freight invoice: 750 kg, 2100 km, rail carriage",
			wantType: model.TypeShippingInvoice,
			wantKeys: []string{"weight_kg", "distance_km", "mode"},
		},
	}

	collaborator := NewPatternCollaborator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := collaborator.Extract(context.Background(), tt.text, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, result.DocumentType)
			for _, key := range tt.wantKeys {
				assert.Contains(t, result.Fields, key)
			}
		})
	}
}

func TestPatternCollaboratorParsesGroupedNumbers(t *testing.T) {
	collaborator := NewPatternCollaborator()
	result, err := collaborator.Extract(context.Background(), "1,240 kWh consumed", "")
	require.NoError(t, err)

	kwh, ok := result.Fields["kwh"].(float64)
	require.True(t, ok)
	assert.InDelta(t, 1240, kwh, 1e-9)
}

func TestPatternCollaboratorHonorsTypeHint(t *testing.T) {
	collaborator := NewPatternCollaborator()

	// Without a hint this text is unclassifiable.
	result, err := collaborator.Extract(context.Background(), "monthly statement", "")
	require.NoError(t, err)
	assert.Equal(t, model.TypeUnknown, result.DocumentType)

	result, err = collaborator.Extract(context.Background(), "monthly statement", model.TypeUtilityBillGas)
	require.NoError(t, err)
	assert.Equal(t, model.TypeUtilityBillGas, result.DocumentType)
}

func TestPatternCollaboratorRecordsCalls(t *testing.T) {
	collaborator := NewPatternCollaborator()
	_, err := collaborator.Extract(context.Background(), "485 kWh", model.TypeUtilityBillElectric)
	require.NoError(t, err)

	calls := collaborator.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "485 kWh", calls[0].RawText)
	assert.Equal(t, model.TypeUtilityBillElectric, calls[0].TypeHint)
}
