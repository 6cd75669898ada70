// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/evergrid/emissary/internal/model"
)

// ListFilter defines filtering options for queue item queries.
type ListFilter struct {
	Status        *model.Status
	DocumentType  *model.DocumentType
	MinConfidence *float64
	MaxConfidence *float64
	Since         *time.Time
	Until         *time.Time
	CompanyID     string
	Limit         int
	Offset        int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Queue item operations
	SaveItem(ctx context.Context, item *model.QueueItem, entry model.AuditEntry) error
	GetItem(ctx context.Context, id string) (*model.QueueItem, error)
	ListItems(ctx context.Context, filter ListFilter) ([]model.QueueItem, error)

	// TransitionItem commits a status change, its history row, and the
	// accompanying audit entry as a single transaction. The item's current
	// status must equal transition.From or the call fails.
	TransitionItem(ctx context.Context, id string, transition model.StatusTransition, entry model.AuditEntry) (*model.QueueItem, error)

	// ReplaceExtraction swaps in a fresh extraction and emission record
	// (manual correction), resets the item to pending, and audits the edit.
	ReplaceExtraction(ctx context.Context, id string, extraction model.ExtractionResult, emission model.EmissionRecord, transition model.StatusTransition, entry model.AuditEntry) (*model.QueueItem, error)

	// Audit operations
	RecordAudit(ctx context.Context, entry model.AuditEntry) error
	ListAuditEntries(ctx context.Context, targetID string, limit int) ([]model.AuditEntry, error)

	// Reporting
	Summary(ctx context.Context, since, until *time.Time) (*Summary, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// CategorySummary contains aggregated statistics for one document type.
type CategorySummary struct {
	Count  int
	CO2eKg float64
}

// Summary contains aggregate queue and emission statistics.
type Summary struct {
	ByCategory      map[model.DocumentType]CategorySummary
	ByStatus        map[model.Status]int
	ByScope         map[model.Scope]float64
	TotalCO2eKg     float64
	AutoApproveRate float64
}

// BulkItemResult reports the outcome of one item within a bulk operation.
type BulkItemResult struct {
	Err     error
	ID      string
	Detail  string
	Skipped bool
}

// BulkResult aggregates per-item outcomes of a bulk operation. Bulk calls
// are never all-or-nothing; one bad id must not block the rest.
type BulkResult struct {
	BatchRef string
	Results  []BulkItemResult
	Applied  int
	Skipped  int
	Failed   int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
