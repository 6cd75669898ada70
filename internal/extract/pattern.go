package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/evergrid/emissary/internal/model"
)

// PatternCollaborator is a deterministic, offline collaborator that
// classifies documents with keyword and regex heuristics. It backs the CLI's
// default provider and the test suite; a hosted LLM provider satisfies the
// same interface in production deployments.
type PatternCollaborator struct {
	err   error
	calls []PatternCall
	mu    sync.Mutex
}

// PatternCall records one extraction request for test assertions.
type PatternCall struct {
	RawText  string
	TypeHint model.DocumentType
}

// NewPatternCollaborator creates a pattern-based collaborator.
func NewPatternCollaborator() *PatternCollaborator {
	return &PatternCollaborator{}
}

// FailWith makes every subsequent Extract call return err; pass nil to
// restore normal behavior.
func (p *PatternCollaborator) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Calls returns a copy of all recorded extraction requests.
func (p *PatternCollaborator) Calls() []PatternCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PatternCall, len(p.calls))
	copy(out, p.calls)
	return out
}

var (
	kwhRe       = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*kwh`)
	renewableRe = regexp.MustCompile(`(?i)([\d.]+)\s*%\s*renewable`)
	thermsRe    = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*therms?`)
	ccfRe       = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*ccf`)
	routeRe     = regexp.MustCompile(`(?i)\b([A-Z]{3})\s*(?:→|->|–|-|to)\s*([A-Z]{3})\b`)
	litersRe    = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(?:liters?|litres?|l\b)`)
	gallonsRe   = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*(?:gallons?|gal\b)`)
	weightRe    = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*kg`)
	distanceRe  = regexp.MustCompile(`(?i)([\d,]+(?:\.\d+)?)\s*km`)
)

// Extract classifies raw text and pulls typed fields out of it.
func (p *PatternCollaborator) Extract(ctx context.Context, rawText string, typeHint model.DocumentType) (CollaboratorResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, PatternCall{RawText: rawText, TypeHint: typeHint})
	err := p.err
	p.mu.Unlock()

	if err != nil {
		return CollaboratorResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return CollaboratorResult{}, err
	}

	lower := strings.ToLower(rawText)

	switch {
	case typeHint == model.TypeUtilityBillElectric || kwhRe.MatchString(rawText):
		return p.electric(rawText), nil
	case typeHint == model.TypeUtilityBillGas || thermsRe.MatchString(rawText) || ccfRe.MatchString(rawText):
		return p.gas(rawText), nil
	case typeHint == model.TypeFlightReceipt || strings.Contains(lower, "flight") || routeRe.MatchString(rawText):
		return p.flight(rawText, lower), nil
	case typeHint == model.TypeFuelReceipt || litersRe.MatchString(rawText) || gallonsRe.MatchString(rawText):
		return p.fuel(rawText, lower), nil
	case typeHint == model.TypeShippingInvoice || strings.Contains(lower, "shipment") || strings.Contains(lower, "freight") || strings.Contains(lower, "shipping"):
		return p.shipping(rawText, lower), nil
	default:
		return CollaboratorResult{DocumentType: model.TypeUnknown, Confidence: 0, Fields: map[string]any{}}, nil
	}
}

func (p *PatternCollaborator) electric(text string) CollaboratorResult {
	fields := map[string]any{}
	confidence := 0.70
	if v, ok := matchNumber(kwhRe, text); ok {
		fields["kwh"] = v
		confidence = 0.95
	}
	if v, ok := matchNumber(renewableRe, text); ok {
		fields["renewable_percent"] = v
	}
	return CollaboratorResult{
		DocumentType: model.TypeUtilityBillElectric,
		Confidence:   confidence,
		Fields:       fields,
	}
}

func (p *PatternCollaborator) gas(text string) CollaboratorResult {
	fields := map[string]any{}
	confidence := 0.70
	if v, ok := matchNumber(thermsRe, text); ok {
		fields["therms"] = v
		confidence = 0.94
	} else if v, ok := matchNumber(ccfRe, text); ok {
		// CCF needs a unit conversion, so the reading is less certain.
		fields["ccf"] = v
		confidence = 0.89
	}
	return CollaboratorResult{
		DocumentType: model.TypeUtilityBillGas,
		Confidence:   confidence,
		Fields:       fields,
	}
}

func (p *PatternCollaborator) flight(text, lower string) CollaboratorResult {
	fields := map[string]any{}
	confidence := 0.60
	if m := routeRe.FindStringSubmatch(text); m != nil {
		fields["origin"] = m[1]
		fields["destination"] = m[2]
		confidence = 0.92
	}
	switch {
	case strings.Contains(lower, "premium economy"):
		fields["travel_class"] = "premium_economy"
	case strings.Contains(lower, "business"):
		fields["travel_class"] = "business"
	case strings.Contains(lower, "first"):
		fields["travel_class"] = "first"
	case strings.Contains(lower, "economy"):
		fields["travel_class"] = "economy"
	}
	if strings.Contains(lower, "round trip") || strings.Contains(lower, "round-trip") || strings.Contains(lower, "return") {
		fields["round_trip"] = true
	}
	return CollaboratorResult{
		DocumentType: model.TypeFlightReceipt,
		Confidence:   confidence,
		Fields:       fields,
	}
}

func (p *PatternCollaborator) fuel(text, lower string) CollaboratorResult {
	fields := map[string]any{}
	confidence := 0.65
	if v, ok := matchNumber(litersRe, text); ok {
		fields["liters"] = v
		confidence = 0.93
	} else if v, ok := matchNumber(gallonsRe, text); ok {
		fields["gallons"] = v
		confidence = 0.93
	}
	switch {
	case strings.Contains(lower, "diesel"):
		fields["fuel_type"] = "diesel"
	case strings.Contains(lower, "lpg") || strings.Contains(lower, "propane"):
		fields["fuel_type"] = "lpg"
	case strings.Contains(lower, "petrol") || strings.Contains(lower, "gasoline") || strings.Contains(lower, "unleaded"):
		fields["fuel_type"] = "petrol"
	}
	return CollaboratorResult{
		DocumentType: model.TypeFuelReceipt,
		Confidence:   confidence,
		Fields:       fields,
	}
}

func (p *PatternCollaborator) shipping(text, lower string) CollaboratorResult {
	fields := map[string]any{}
	confidence := 0.60
	if v, ok := matchNumber(weightRe, text); ok {
		fields["weight_kg"] = v
		confidence = 0.88
	}
	if v, ok := matchNumber(distanceRe, text); ok {
		fields["distance_km"] = v
	}
	for _, mode := range []string{"road", "rail", "air", "sea", "truck", "train", "ocean"} {
		if strings.Contains(lower, mode) {
			fields["mode"] = mode
			break
		}
	}
	return CollaboratorResult{
		DocumentType: model.TypeShippingInvoice,
		Confidence:   confidence,
		Fields:       fields,
	}
}

func matchNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
