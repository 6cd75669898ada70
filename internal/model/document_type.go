// Package model defines the core domain models used throughout the application.
package model

// DocumentType identifies a supported sustainability document type.
type DocumentType string

// Registered document types. TypeUnknown is reserved for documents the
// extraction collaborator could not classify.
const (
	TypeUtilityBillElectric DocumentType = "utility_bill_electric"
	TypeUtilityBillGas      DocumentType = "utility_bill_gas"
	TypeFlightReceipt       DocumentType = "flight_receipt"
	TypeFuelReceipt         DocumentType = "fuel_receipt"
	TypeShippingInvoice     DocumentType = "shipping_invoice"
	TypeUnknown             DocumentType = "unknown"
)

// FieldKind is the declared type of an extracted field.
type FieldKind string

// Field kind constants.
const (
	FieldNumber FieldKind = "number"
	FieldString FieldKind = "string"
	FieldDate   FieldKind = "date"
	FieldBool   FieldKind = "bool"
)

// FieldSpec declares a single expected field on a document type.
type FieldSpec struct {
	Name     string
	Kind     FieldKind
	Required bool
}

// DocumentTypeSpec describes the expected field schema for a document type
// and names the emission calculator that applies to it. Specs are defined at
// startup and never mutated afterwards.
type DocumentTypeSpec struct {
	TypeID       DocumentType
	CalculatorID string
	Fields       []FieldSpec
}

// RequiredFields returns the names of all required fields in schema order.
func (s DocumentTypeSpec) RequiredFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Required {
			names = append(names, f.Name)
		}
	}
	return names
}

// Field looks up a field spec by name.
func (s DocumentTypeSpec) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}
