// Package policy centralizes the confidence-gated review rules: the initial
// status decision made once at ingestion time, and the operator-driven
// status state machine. Everything here is pure and independently testable.
package policy

import (
	"fmt"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
)

// DefaultAutoApproveThreshold is the confidence cutoff above which an item
// bypasses manual review, unless overridden in configuration.
const DefaultAutoApproveThreshold = 0.90

// PartialExtractionPenalty is subtracted from the collaborator's confidence
// when required fields are missing or mistyped. Absent structured data never
// aborts ingestion; it only demotes the item toward manual review.
const PartialExtractionPenalty = 0.2

// Thresholds is a versioned snapshot of the review configuration, read
// atomically at the moment of initial classification. Already-queued items
// keep the threshold they were classified under, so historical decisions
// stay reproducible.
type Thresholds struct {
	AutoApprove float64
	Version     int
}

// DefaultThresholds returns the default threshold configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{AutoApprove: DefaultAutoApproveThreshold, Version: 1}
}

// EffectiveConfidence applies the partial-extraction penalty, clamped at 0.
func EffectiveConfidence(confidence float64, partial bool) float64 {
	if partial {
		confidence -= PartialExtractionPenalty
	}
	if confidence < 0 {
		return 0
	}
	return confidence
}

// Initial decides the status a freshly ingested item starts in. This
// transition happens exactly once, performed by the pipeline, never by an
// operator.
func Initial(confidence float64, partial, failed bool, t Thresholds) model.Status {
	if failed {
		return model.StatusNeedsManualExtraction
	}
	if !partial && confidence >= t.AutoApprove {
		return model.StatusAutoApproved
	}
	return model.StatusPending
}

// allowedTransitions is the operator-reachable state machine. Re-extraction
// is the only way out of needs_manual_extraction: a manual edit produces a
// new extraction and moves the item back to pending.
var allowedTransitions = map[model.Status][]model.Status{
	model.StatusPending:               {model.StatusApproved, model.StatusRejected},
	model.StatusNeedsManualExtraction: {model.StatusPending},
	model.StatusApproved:              {model.StatusDeleted},
	model.StatusAutoApproved:          {model.StatusDeleted},
	model.StatusRejected:              {model.StatusDeleted},
	model.StatusDeleted:               {},
}

// Validate checks a requested transition. A transition to the current state
// is an idempotent no-op, reported via the first return value rather than an
// error. Disallowed pairs fail with an InvalidTransitionError naming both
// states.
func Validate(from, to model.Status) (noop bool, err error) {
	if from == to {
		return true, nil
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return false, nil
		}
	}
	return false, fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, from, to)
}
