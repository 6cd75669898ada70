package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/evergrid/emissary/internal/model"
)

// RecordAudit appends a standalone audit entry. Entries written alongside a
// state change go through the transactional helpers instead; this is for
// actions with no item mutation of their own, such as failed bulk members.
func (s *SQLiteStorage) RecordAudit(ctx context.Context, entry model.AuditEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAuditEntry(&entry); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertAuditTx(ctx, tx, entry); err != nil {
		return err
	}
	return tx.Commit()
}

func insertAuditTx(ctx context.Context, tx *sql.Tx, entry model.AuditEntry) error {
	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO audit_log (id, action, actor, target_id, batch_ref, details, origin, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		string(entry.Action),
		entry.Actor,
		entry.TargetID,
		entry.BatchRef,
		entry.Details,
		entry.Origin,
		timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}

// ListAuditEntries returns audit entries newest first, optionally filtered
// by target id. The audit log is append-only and survives item deletion.
func (s *SQLiteStorage) ListAuditEntries(ctx context.Context, targetID string, limit int) ([]model.AuditEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, action, actor, target_id, batch_ref, details, origin, timestamp
		FROM audit_log`
	var args []any
	if targetID != "" {
		query += ` WHERE target_id = ?`
		args = append(args, targetID)
	}
	query += ` ORDER BY timestamp DESC, id LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		var action string
		var batchRef, details, origin sql.NullString
		if err := rows.Scan(&e.ID, &action, &e.Actor, &e.TargetID, &batchRef, &details, &origin, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Action = model.AuditAction(action)
		e.BatchRef = batchRef.String
		e.Details = details.String
		e.Origin = origin.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
