// Package extract implements the extraction dispatcher: it calls the
// external classification/extraction collaborator, validates the returned
// fields against the registered document type schema, and normalizes the
// result for the emission calculator.
package extract

import (
	"context"

	"github.com/evergrid/emissary/internal/model"
)

// CollaboratorResult is the raw contract output of the external
// classification/extraction service: a document type (possibly unknown), a
// confidence score in [0,1], and the extracted fields.
type CollaboratorResult struct {
	Fields       map[string]any
	DocumentType model.DocumentType
	Confidence   float64
}

// Collaborator is the external classification/extraction service. It may
// return TypeUnknown with confidence 0 when it cannot classify the text.
// Implementations must honor context cancellation.
type Collaborator interface {
	Extract(ctx context.Context, rawText string, typeHint model.DocumentType) (CollaboratorResult, error)
}

// OCRClient turns image bytes into raw text. A failed recognition is treated
// by callers as empty text, never as a pipeline crash.
type OCRClient interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}
