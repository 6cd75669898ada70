package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/policy"
	"github.com/evergrid/emissary/internal/registry"
	"github.com/evergrid/emissary/internal/service"
)

// Config holds dispatcher tuning knobs.
type Config struct {
	Timeout    time.Duration
	RetryDelay time.Duration
	MaxRetries int
}

// Dispatcher invokes the collaborator with retry and backoff, then validates
// and normalizes its output against the document type registry.
type Dispatcher struct {
	collaborator Collaborator
	registry     *registry.Registry
	logger       *slog.Logger
	retryOpts    service.RetryOptions
	timeout      time.Duration
}

// NewDispatcher creates a dispatcher around the given collaborator.
func NewDispatcher(reg *registry.Registry, collaborator Collaborator, cfg Config, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Dispatcher{
		collaborator: collaborator,
		registry:     reg,
		logger:       logger,
		retryOpts:    retryOpts,
		timeout:      timeout,
	}
}

// Dispatch runs one extraction attempt over raw text. Collaborator outages
// are retried with exponential backoff; after exhaustion the returned result
// carries TypeUnknown and confidence 0 alongside the error, so callers can
// queue the document for manual extraction instead of dropping it.
func (d *Dispatcher) Dispatch(ctx context.Context, rawText string, typeHint model.DocumentType) (model.ExtractionResult, error) {
	failed := func(err error) model.ExtractionResult {
		return model.ExtractionResult{
			DocumentType:    model.TypeUnknown,
			Confidence:      0,
			RawText:         rawText,
			ExtractionError: err.Error(),
		}
	}

	if rawText == "" {
		err := fmt.Errorf("%w: no text to extract from", common.ErrExtractionFailed)
		return failed(err), err
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var raw CollaboratorResult
	err := common.WithRetry(ctx, func() error {
		var callErr error
		raw, callErr = d.collaborator.Extract(ctx, rawText, typeHint)
		if callErr != nil {
			d.logger.Warn("extraction collaborator call failed", "error", callErr)
			return fmt.Errorf("%w: %v", common.ErrCollaboratorUnavailable, callErr)
		}
		return nil
	}, d.retryOpts)
	if err != nil {
		return failed(err), err
	}

	if raw.DocumentType == model.TypeUnknown || raw.DocumentType == "" {
		err := fmt.Errorf("%w: collaborator could not classify document", common.ErrExtractionFailed)
		return failed(err), err
	}

	spec, err := d.registry.Resolve(raw.DocumentType)
	if err != nil {
		// Collaborator hallucinated a type we never registered.
		return failed(err), err
	}

	return d.normalize(spec, raw, rawText), nil
}

// normalize validates the collaborator's fields against the type's compiled
// schema. Fields the schema rejects are dropped rather than aborting the
// pipeline; a required field that is missing or dropped applies a fixed
// confidence penalty and marks the result as a partial extraction.
func (d *Dispatcher) normalize(spec model.DocumentTypeSpec, raw CollaboratorResult, rawText string) model.ExtractionResult {
	fields := roundTripFields(raw.Fields)

	if schema, err := d.registry.Schema(spec.TypeID); err == nil {
		for _, name := range invalidFields(schema.Validate(fields)) {
			d.logger.Warn("dropping field rejected by schema",
				"document_type", spec.TypeID,
				"field", name)
			delete(fields, name)
		}
	}

	partial := false
	for _, f := range spec.Fields {
		if _, present := fields[f.Name]; f.Required && !present {
			partial = true
		}
	}

	confidence := raw.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return model.ExtractionResult{
		DocumentType:      spec.TypeID,
		Confidence:        policy.EffectiveConfidence(confidence, partial),
		Fields:            fields,
		RawText:           rawText,
		PartialExtraction: partial,
	}
}

// roundTripFields pushes the field map through JSON so values use the same
// shapes the schema validator expects (float64 numbers, plain maps).
func roundTripFields(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return fields
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return fields
	}
	return out
}

// invalidFields lists the top-level field names a schema validation error
// blames, in the order the validator reported them.
func invalidFields(err error) []string {
	var ve *jsonschema.ValidationError
	if err == nil || !errors.As(err, &ve) {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if loc := strings.TrimPrefix(e.InstanceLocation, "/"); loc != "" {
			name := strings.SplitN(loc, "/", 2)[0]
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return names
}

// IsCollaboratorUnavailable reports whether the error chain stems from an
// exhausted collaborator retry loop.
func IsCollaboratorUnavailable(err error) bool {
	return errors.Is(err, common.ErrCollaboratorUnavailable) || errors.Is(err, common.ErrMaxRetries)
}
