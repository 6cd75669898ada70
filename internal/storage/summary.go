package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/service"
)

// Summary aggregates queue statistics over an optional upload date range.
// Deleted items are excluded from category, status, and scope totals; the
// auto-approve rate is computed from each item's initial status decision so
// later operator actions don't rewrite history.
func (s *SQLiteStorage) Summary(ctx context.Context, since, until *time.Time) (*service.Summary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var conds []string
	var args []any
	if since != nil {
		conds = append(conds, "uploaded_at >= ?")
		args = append(args, *since)
	}
	if until != nil {
		conds = append(conds, "uploaded_at <= ?")
		args = append(args, *until)
	}
	rangeWhere := ""
	if len(conds) > 0 {
		rangeWhere = " AND " + strings.Join(conds, " AND ")
	}

	summary := &service.Summary{
		ByCategory: make(map[model.DocumentType]service.CategorySummary),
		ByStatus:   make(map[model.Status]int),
		ByScope:    make(map[model.Scope]float64),
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT document_type, COUNT(*), COALESCE(SUM(co2e_kg), 0)
		FROM queue_items
		WHERE status != 'deleted'`+rangeWhere+`
		GROUP BY document_type
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by category: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var docType string
		var cs service.CategorySummary
		if err := rows.Scan(&docType, &cs.Count, &cs.CO2eKg); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		summary.ByCategory[model.DocumentType(docType)] = cs
		summary.TotalCO2eKg += cs.CO2eKg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	statusRows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM queue_items
		WHERE status != 'deleted'`+rangeWhere+`
		GROUP BY status
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by status: %w", err)
	}
	defer func() { _ = statusRows.Close() }()
	for statusRows.Next() {
		var status string
		var count int
		if err := statusRows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status summary: %w", err)
		}
		summary.ByStatus[model.Status(status)] = count
	}
	if err := statusRows.Err(); err != nil {
		return nil, err
	}

	scopeRows, err := s.db.QueryContext(ctx, `
		SELECT scope, COALESCE(SUM(co2e_kg), 0)
		FROM queue_items
		WHERE status != 'deleted' AND scope > 0`+rangeWhere+`
		GROUP BY scope
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by scope: %w", err)
	}
	defer func() { _ = scopeRows.Close() }()
	for scopeRows.Next() {
		var scope int
		var co2e float64
		if err := scopeRows.Scan(&scope, &co2e); err != nil {
			return nil, fmt.Errorf("failed to scan scope summary: %w", err)
		}
		summary.ByScope[model.Scope(scope)] = co2e
	}
	if err := scopeRows.Err(); err != nil {
		return nil, err
	}

	// Initial decisions live in the first history row of each item.
	var total, autoApproved int
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN h.to_status = 'auto_approved' THEN 1 ELSE 0 END), 0)
		FROM status_history h
		JOIN queue_items q ON q.id = h.item_id
		WHERE h.from_status = ''`+strings.ReplaceAll(rangeWhere, "uploaded_at", "q.uploaded_at")+`
	`, args...).Scan(&total, &autoApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to compute auto-approve rate: %w", err)
	}
	if total > 0 {
		summary.AutoApproveRate = float64(autoApproved) / float64(total)
	}

	return summary, nil
}
