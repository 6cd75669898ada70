// Package pipeline wires ingestion end to end: OCR, extraction dispatch,
// emission calculation, the initial confidence decision, and enqueueing.
// Extraction-stage failures never abort ingestion; they demote the item
// toward manual review and surface the original error as item metadata.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/evergrid/emissary/internal/calc"
	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/extract"
	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/policy"
	"github.com/evergrid/emissary/internal/queue"
	"github.com/evergrid/emissary/internal/registry"
)

// Pipeline turns raw submissions into queued review items.
type Pipeline struct {
	dispatcher  *extract.Dispatcher
	calculators *calc.Registry
	registry    *registry.Registry
	queue       *queue.ReviewQueue
	ocr         extract.OCRClient
	logger      *slog.Logger
	thresholds  policy.Thresholds
	now         func() time.Time
}

// New creates an ingestion pipeline.
func New(reg *registry.Registry, dispatcher *extract.Dispatcher, calculators *calc.Registry, reviewQueue *queue.ReviewQueue, ocr extract.OCRClient, thresholds policy.Thresholds, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if ocr == nil {
		ocr = extract.UnavailableOCR{}
	}
	return &Pipeline{
		dispatcher:  dispatcher,
		calculators: calculators,
		registry:    reg,
		queue:       reviewQueue,
		ocr:         ocr,
		logger:      logger,
		thresholds:  thresholds,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SubmitRequest describes one document submission.
type SubmitRequest struct {
	Image      []byte
	RawText    string
	TypeHint   model.DocumentType
	Source     model.Source
	Filename   string
	UploadedBy string
	CompanyID  string
	Origin     string
}

// Submit ingests one document and returns the queued item. The item is
// always queued: extraction or calculation failures land it in
// needs_manual_extraction or pending instead of dropping it.
func (p *Pipeline) Submit(ctx context.Context, req SubmitRequest) (*model.QueueItem, error) {
	rawText := req.RawText
	if rawText == "" && len(req.Image) > 0 {
		text, err := p.ocr.Recognize(ctx, req.Image)
		if err != nil {
			// OCR failure degrades to empty text, never a crash.
			p.logger.Warn("ocr failed, continuing with empty text",
				"filename", req.Filename,
				"error", err)
		} else {
			rawText = text
		}
	}

	extraction, dispatchErr := p.dispatcher.Dispatch(ctx, rawText, req.TypeHint)
	failed := dispatchErr != nil

	var emission model.EmissionRecord
	reviewNeeded := false
	if !failed {
		spec, err := p.registry.Resolve(extraction.DocumentType)
		if err != nil {
			failed = true
			extraction.ExtractionError = err.Error()
		} else {
			emission, err = p.calculators.Calculate(spec.CalculatorID, extraction)
			if err != nil {
				if !errors.Is(err, common.ErrInvalidField) {
					return nil, fmt.Errorf("emission calculation failed: %w", err)
				}
				// Invalid field values need a human; queue the item for
				// review with a zero emission record.
				p.logger.Warn("emission calculation rejected fields",
					"document_type", extraction.DocumentType,
					"error", err)
				extraction.ExtractionError = err.Error()
				emission = model.EmissionRecord{CalculatorID: spec.CalculatorID}
				reviewNeeded = true
			}
		}
	}

	status := policy.Initial(extraction.Confidence, extraction.PartialExtraction || reviewNeeded, failed, p.thresholds)

	item := &model.QueueItem{
		ID:                  uuid.NewString(),
		DocumentType:        extraction.DocumentType,
		Source:              req.Source,
		Filename:            req.Filename,
		UploadedBy:          req.UploadedBy,
		UploadedAt:          p.now(),
		CompanyID:           req.CompanyID,
		Extraction:          extraction,
		Emission:            emission,
		Status:              status,
		ConfidenceThreshold: p.thresholds.AutoApprove,
	}

	actor := policy.Actor{Name: req.UploadedBy, Origin: req.Origin}
	queued, err := p.queue.Enqueue(ctx, item, actor)
	if err != nil {
		return nil, err
	}

	p.logger.Info("document ingested",
		"id", queued.ID,
		"document_type", queued.DocumentType,
		"status", queued.Status,
		"co2e_kg", queued.Emission.CO2eKg)

	return queued, nil
}

// Reextract applies manually corrected fields to an item: it builds a fresh
// extraction result with full confidence, recomputes the emission record,
// and moves the item back to pending review.
func (p *Pipeline) Reextract(ctx context.Context, id string, docType model.DocumentType, fields map[string]any, actor policy.Actor) (*model.QueueItem, error) {
	spec, err := p.registry.Resolve(docType)
	if err != nil {
		return nil, err
	}

	item, err := p.queue.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	extraction := model.ExtractionResult{
		DocumentType: docType,
		Confidence:   1.0,
		Fields:       fields,
		RawText:      item.Extraction.RawText,
	}

	emission, err := p.calculators.Calculate(spec.CalculatorID, extraction)
	if err != nil {
		return nil, err
	}

	return p.queue.ReplaceExtraction(ctx, id, extraction, emission, actor)
}
