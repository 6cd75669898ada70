package model

// ExtractionResult is the typed output of one ingestion attempt. It is owned
// by the extraction dispatcher until handed to the emission calculator and is
// immutable once produced; a re-extraction produces a new result.
type ExtractionResult struct {
	Fields            map[string]any
	DocumentType      DocumentType
	RawText           string
	ExtractionError   string
	Confidence        float64
	PartialExtraction bool
}

// NumberField returns the named field coerced to float64.
func (r ExtractionResult) NumberField(name string) (float64, bool) {
	v, ok := r.Fields[name]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// StringField returns the named field as a string.
func (r ExtractionResult) StringField(name string) (string, bool) {
	v, ok := r.Fields[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// BoolField returns the named field as a bool.
func (r ExtractionResult) BoolField(name string) (bool, bool) {
	v, ok := r.Fields[name]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
