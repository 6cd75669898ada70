package storage

import (
	"context"
	"fmt"

	"github.com/evergrid/emissary/internal/model"
)

// validateContext ensures the context is valid and not canceled.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	return nil
}

// validateString ensures a required string parameter is non-empty.
func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", name)
	}
	return nil
}

// validateItem checks queue item invariants before persistence.
func validateItem(item *model.QueueItem) error {
	if item == nil {
		return fmt.Errorf("queue item cannot be nil")
	}
	if item.ID == "" {
		return fmt.Errorf("queue item id cannot be empty")
	}
	if item.Status == "" {
		return fmt.Errorf("queue item status cannot be empty")
	}
	if item.UploadedAt.IsZero() {
		return fmt.Errorf("queue item uploaded_at cannot be zero")
	}
	if c := item.Extraction.Confidence; c < 0 || c > 1 {
		return fmt.Errorf("confidence must be within [0,1], got %g", c)
	}
	if item.Emission.CO2eKg < 0 {
		return fmt.Errorf("co2e_kg must be non-negative, got %g", item.Emission.CO2eKg)
	}
	return nil
}

// validateAuditEntry checks audit entry invariants before persistence.
func validateAuditEntry(entry *model.AuditEntry) error {
	if entry == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}
	if entry.ID == "" {
		return fmt.Errorf("audit entry id cannot be empty")
	}
	if entry.Action == "" {
		return fmt.Errorf("audit entry action cannot be empty")
	}
	if entry.Actor == "" {
		return fmt.Errorf("audit entry actor cannot be empty")
	}
	return nil
}
