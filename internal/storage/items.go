package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/service"
)

// SaveItem persists a freshly created queue item along with its initial
// status history row and the upload audit entry. All three commit as one
// transaction; a failed audit write aborts the save.
func (s *SQLiteStorage) SaveItem(ctx context.Context, item *model.QueueItem, entry model.AuditEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItem(item); err != nil {
		return err
	}

	fieldsJSON, err := json.Marshal(item.Extraction.Fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}
	scopesJSON, err := json.Marshal(item.Emission.Scopes)
	if err != nil {
		return fmt.Errorf("failed to marshal scopes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO queue_items (
			id, document_type, source, filename, uploaded_by, uploaded_at,
			company_id, status, confidence, confidence_threshold,
			partial_extraction, extraction_error, raw_text, fields,
			calculator_id, co2e_kg, scope, scopes, trees_needed, car_km
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		item.ID,
		string(item.DocumentType),
		string(item.Source),
		item.Filename,
		item.UploadedBy,
		item.UploadedAt,
		item.CompanyID,
		string(item.Status),
		item.Extraction.Confidence,
		item.ConfidenceThreshold,
		item.Extraction.PartialExtraction,
		item.Extraction.ExtractionError,
		item.Extraction.RawText,
		string(fieldsJSON),
		item.Emission.CalculatorID,
		item.Emission.CO2eKg,
		int(item.Emission.PrimaryScope()),
		string(scopesJSON),
		item.Emission.Equivalents.TreesNeeded,
		item.Emission.Equivalents.CarKm,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: item %s", common.ErrDuplicateEntry, item.ID)
		}
		return fmt.Errorf("failed to insert queue item: %w", err)
	}

	initial := model.StatusTransition{
		To:         item.Status,
		Actor:      entry.Actor,
		OccurredAt: item.UploadedAt,
	}
	if err := insertHistoryTx(ctx, tx, item.ID, initial); err != nil {
		return err
	}

	if err := insertAuditTx(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

// GetItem loads a queue item, including its full status history.
func (s *SQLiteStorage) GetItem(ctx context.Context, id string) (*model.QueueItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, selectItemColumns+` FROM queue_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		return nil, err
	}

	history, err := s.loadHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	item.StatusHistory = history
	return item, nil
}

// ListItems returns a consistent snapshot of queue items matching the
// filter. Deleted items are excluded unless the filter explicitly asks for
// them.
func (s *SQLiteStorage) ListItems(ctx context.Context, filter service.ListFilter) ([]model.QueueItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := selectItemColumns + ` FROM queue_items`
	var conds []string
	var args []any

	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	} else {
		conds = append(conds, "status != ?")
		args = append(args, string(model.StatusDeleted))
	}
	if filter.DocumentType != nil {
		conds = append(conds, "document_type = ?")
		args = append(args, string(*filter.DocumentType))
	}
	if filter.MinConfidence != nil {
		conds = append(conds, "confidence >= ?")
		args = append(args, *filter.MinConfidence)
	}
	if filter.MaxConfidence != nil {
		conds = append(conds, "confidence <= ?")
		args = append(args, *filter.MaxConfidence)
	}
	if filter.CompanyID != "" {
		conds = append(conds, "company_id = ?")
		args = append(args, filter.CompanyID)
	}
	if filter.Since != nil {
		conds = append(conds, "uploaded_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		conds = append(conds, "uploaded_at <= ?")
		args = append(args, *filter.Until)
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY uploaded_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list queue items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.QueueItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// TransitionItem commits a status change, its history row, and the
// accompanying audit entry in one transaction. The stored status must still
// equal transition.From; a mismatch means another transition committed in
// the meantime.
func (s *SQLiteStorage) TransitionItem(ctx context.Context, id string, transition model.StatusTransition, entry model.AuditEntry) (*model.QueueItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.applyTransitionTx(ctx, tx, id, transition); err != nil {
		return nil, err
	}

	if err := insertAuditTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	return s.GetItem(ctx, id)
}

func (s *SQLiteStorage) applyTransitionTx(ctx context.Context, tx *sql.Tx, id string, transition model.StatusTransition) error {
	var current string
	err := tx.QueryRowContext(ctx, `SELECT status FROM queue_items WHERE id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: queue item %s", common.ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("failed to read current status: %w", err)
	}
	if model.Status(current) != transition.From {
		return fmt.Errorf("%w: item %s is %s, expected %s", common.ErrConflict, id, current, transition.From)
	}

	if transition.To == model.StatusDeleted {
		_, err = tx.ExecContext(ctx, `UPDATE queue_items SET status = ?, deleted_at = ? WHERE id = ?`,
			string(transition.To), transition.OccurredAt, id)
	} else {
		_, err = tx.ExecContext(ctx, `UPDATE queue_items SET status = ? WHERE id = ?`,
			string(transition.To), id)
	}
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	return insertHistoryTx(ctx, tx, id, transition)
}

// ReplaceExtraction swaps in a corrected extraction and recomputed emission
// record, resets the status per the transition, and audits the edit, all in
// one transaction.
func (s *SQLiteStorage) ReplaceExtraction(ctx context.Context, id string, extraction model.ExtractionResult, emission model.EmissionRecord, transition model.StatusTransition, entry model.AuditEntry) (*model.QueueItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	fieldsJSON, err := json.Marshal(extraction.Fields)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal fields: %w", err)
	}
	scopesJSON, err := json.Marshal(emission.Scopes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scopes: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.applyTransitionTx(ctx, tx, id, transition); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE queue_items SET
			document_type = ?, confidence = ?, partial_extraction = ?,
			extraction_error = ?, fields = ?, calculator_id = ?,
			co2e_kg = ?, scope = ?, scopes = ?, trees_needed = ?, car_km = ?
		WHERE id = ?
	`,
		string(extraction.DocumentType),
		extraction.Confidence,
		extraction.PartialExtraction,
		extraction.ExtractionError,
		string(fieldsJSON),
		emission.CalculatorID,
		emission.CO2eKg,
		int(emission.PrimaryScope()),
		string(scopesJSON),
		emission.Equivalents.TreesNeeded,
		emission.Equivalents.CarKm,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to replace extraction: %w", err)
	}

	if err := insertAuditTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit extraction replacement: %w", err)
	}

	return s.GetItem(ctx, id)
}

func insertHistoryTx(ctx context.Context, tx *sql.Tx, itemID string, transition model.StatusTransition) error {
	occurredAt := transition.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO status_history (item_id, from_status, to_status, actor, reason, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		itemID,
		string(transition.From),
		string(transition.To),
		transition.Actor,
		transition.Reason,
		occurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert status history: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) loadHistory(ctx context.Context, itemID string) ([]model.StatusTransition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT from_status, to_status, actor, reason, occurred_at
		FROM status_history
		WHERE item_id = ?
		ORDER BY id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []model.StatusTransition
	for rows.Next() {
		var t model.StatusTransition
		var from, to string
		if err := rows.Scan(&from, &to, &t.Actor, &t.Reason, &t.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		t.From = model.Status(from)
		t.To = model.Status(to)
		history = append(history, t)
	}
	return history, rows.Err()
}

const selectItemColumns = `
	SELECT id, document_type, source, filename, uploaded_by, uploaded_at,
		company_id, status, confidence, confidence_threshold,
		partial_extraction, extraction_error, raw_text, fields,
		calculator_id, co2e_kg, scopes, trees_needed, car_km`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.QueueItem, error) {
	var item model.QueueItem
	var docType, source, status string
	var filename, companyID, extractionError, rawText, fieldsJSON, calculatorID, scopesJSON sql.NullString

	err := row.Scan(
		&item.ID,
		&docType,
		&source,
		&filename,
		&item.UploadedBy,
		&item.UploadedAt,
		&companyID,
		&status,
		&item.Extraction.Confidence,
		&item.ConfidenceThreshold,
		&item.Extraction.PartialExtraction,
		&extractionError,
		&rawText,
		&fieldsJSON,
		&calculatorID,
		&item.Emission.CO2eKg,
		&scopesJSON,
		&item.Emission.Equivalents.TreesNeeded,
		&item.Emission.Equivalents.CarKm,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: queue item", common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan queue item: %w", err)
	}

	item.DocumentType = model.DocumentType(docType)
	item.Source = model.Source(source)
	item.Filename = filename.String
	item.CompanyID = companyID.String
	item.Status = model.Status(status)
	item.Extraction.DocumentType = item.DocumentType
	item.Extraction.ExtractionError = extractionError.String
	item.Extraction.RawText = rawText.String
	item.Emission.CalculatorID = calculatorID.String

	if fieldsJSON.Valid && fieldsJSON.String != "" {
		if err := json.Unmarshal([]byte(fieldsJSON.String), &item.Extraction.Fields); err != nil {
			return nil, fmt.Errorf("failed to unmarshal fields: %w", err)
		}
	}
	if scopesJSON.Valid && scopesJSON.String != "" {
		if err := json.Unmarshal([]byte(scopesJSON.String), &item.Emission.Scopes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scopes: %w", err)
		}
	}

	return &item, nil
}
