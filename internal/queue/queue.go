// Package queue implements the review queue: the stateful core that holds
// queue items, enforces the status state machine, and serializes concurrent
// transitions per item. Every state change commits together with its audit
// entry; an audit write failure fails the change.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/evergrid/emissary/internal/common"
	"github.com/evergrid/emissary/internal/model"
	"github.com/evergrid/emissary/internal/policy"
	"github.com/evergrid/emissary/internal/service"
)

// DefaultDeleteReason is recorded when a delete call omits a reason.
const DefaultDeleteReason = "removed by operator"

// ReviewQueue coordinates queue item state changes over the storage layer.
type ReviewQueue struct {
	storage service.Storage
	logger  *slog.Logger
	locks   *itemLocks
	now     func() time.Time
}

// New creates a review queue backed by the given storage.
func New(storage service.Storage, logger *slog.Logger) *ReviewQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewQueue{
		storage: storage,
		logger:  logger,
		locks:   newItemLocks(),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enqueue stores a freshly ingested item together with its upload audit
// entry.
func (q *ReviewQueue) Enqueue(ctx context.Context, item *model.QueueItem, actor policy.Actor) (*model.QueueItem, error) {
	entry := model.AuditEntry{
		ID:        uuid.NewString(),
		Action:    model.ActionUpload,
		Actor:     actor.Name,
		TargetID:  item.ID,
		Origin:    actor.Origin,
		Details:   fmt.Sprintf("type=%s status=%s co2e_kg=%.3f confidence=%.2f", item.DocumentType, item.Status, item.Emission.CO2eKg, item.Confidence()),
		Timestamp: q.now(),
	}
	if err := q.storage.SaveItem(ctx, item, entry); err != nil {
		return nil, fmt.Errorf("failed to enqueue item: %w", err)
	}

	q.logger.Info("enqueued item",
		"id", item.ID,
		"document_type", item.DocumentType,
		"status", item.Status,
		"confidence", item.Confidence())

	return q.storage.GetItem(ctx, item.ID)
}

// Get returns a single queue item by id.
func (q *ReviewQueue) Get(ctx context.Context, id string) (*model.QueueItem, error) {
	return q.storage.GetItem(ctx, id)
}

// List returns a consistent snapshot of items matching the filter. It never
// mutates state.
func (q *ReviewQueue) List(ctx context.Context, filter service.ListFilter) ([]model.QueueItem, error) {
	return q.storage.ListItems(ctx, filter)
}

// Approve moves a pending item to approved.
func (q *ReviewQueue) Approve(ctx context.Context, id string, actor policy.Actor) (*model.QueueItem, error) {
	return q.Transition(ctx, id, model.StatusApproved, actor, "")
}

// Reject moves a pending item to rejected. A non-empty reason is required.
func (q *ReviewQueue) Reject(ctx context.Context, id string, actor policy.Actor, reason string) (*model.QueueItem, error) {
	return q.Transition(ctx, id, model.StatusRejected, actor, reason)
}

// Delete marks a reviewed item deleted. The item leaves the active queue;
// its audit trail survives. An omitted reason falls back to
// DefaultDeleteReason.
func (q *ReviewQueue) Delete(ctx context.Context, id string, actor policy.Actor, reason string) (*model.QueueItem, error) {
	return q.Transition(ctx, id, model.StatusDeleted, actor, reason)
}

// Transition drives one item to the target status. Transitions on the same
// id are serialized; re-issuing a transition on an item already in the
// target state is an idempotent no-op that returns the unchanged item.
func (q *ReviewQueue) Transition(ctx context.Context, id string, target model.Status, actor policy.Actor, reason string) (*model.QueueItem, error) {
	return q.transition(ctx, id, target, actor, reason, "")
}

func (q *ReviewQueue) transition(ctx context.Context, id string, target model.Status, actor policy.Actor, reason, batchRef string) (*model.QueueItem, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty item id", common.ErrNotFound)
	}

	release := q.locks.acquire(id)
	defer release()

	item, err := q.storage.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	noop, err := policy.Validate(item.Status, target)
	if err != nil {
		return nil, err
	}
	if noop {
		q.logger.Debug("transition is a no-op", "id", id, "status", target)
		return item, nil
	}

	if err := policy.Authorize(actor, target); err != nil {
		return nil, err
	}

	switch target {
	case model.StatusRejected:
		if reason == "" {
			return nil, common.ErrEmptyReason
		}
	case model.StatusDeleted:
		if reason == "" {
			reason = DefaultDeleteReason
		}
	}

	now := q.now()
	transition := model.StatusTransition{
		From:       item.Status,
		To:         target,
		Actor:      actor.Name,
		Reason:     reason,
		OccurredAt: now,
	}
	entry := model.AuditEntry{
		ID:        uuid.NewString(),
		Action:    auditAction(target, batchRef),
		Actor:     actor.Name,
		TargetID:  id,
		BatchRef:  batchRef,
		Origin:    actor.Origin,
		Details:   fmt.Sprintf("from=%s to=%s reason=%q", item.Status, target, reason),
		Timestamp: now,
	}

	updated, err := q.storage.TransitionItem(ctx, id, transition, entry)
	if err != nil {
		return nil, err
	}

	q.logger.Info("item transitioned",
		"id", id,
		"from", transition.From,
		"to", transition.To,
		"actor", actor.Name)

	return updated, nil
}

func auditAction(target model.Status, batchRef string) model.AuditAction {
	switch target {
	case model.StatusApproved:
		if batchRef != "" {
			return model.ActionBulkApprove
		}
		return model.ActionApprove
	case model.StatusRejected:
		return model.ActionReject
	case model.StatusDeleted:
		if batchRef != "" {
			return model.ActionBulkDelete
		}
		return model.ActionDelete
	default:
		return model.ActionEdit
	}
}

// BulkTransition applies the same transition to a set of ids. The operation
// is not atomic across items: each id is evaluated and applied
// independently, and the result reports per-item outcomes.
func (q *ReviewQueue) BulkTransition(ctx context.Context, ids []string, target model.Status, actor policy.Actor, reason string) (*service.BulkResult, error) {
	batchRef := uuid.NewString()
	result := &service.BulkResult{BatchRef: batchRef}

	for _, id := range ids {
		itemResult := service.BulkItemResult{ID: id}
		if _, err := q.transition(ctx, id, target, actor, reason, batchRef); err != nil {
			itemResult.Err = err
			itemResult.Detail = err.Error()
			result.Failed++
			q.recordFailure(ctx, id, auditAction(target, batchRef), actor, batchRef, err)
		} else {
			result.Applied++
		}
		result.Results = append(result.Results, itemResult)
	}

	q.logger.Info("bulk transition finished",
		"batch_ref", batchRef,
		"target", target,
		"applied", result.Applied,
		"failed", result.Failed)

	return result, nil
}

// BulkApprove approves pending items, optionally gated by a minimum
// confidence. Items below the threshold or not pending are skipped, not
// failed: a filter miss is an expected outcome, not an error.
func (q *ReviewQueue) BulkApprove(ctx context.Context, ids []string, actor policy.Actor, minConfidence *float64) (*service.BulkResult, error) {
	batchRef := uuid.NewString()
	result := &service.BulkResult{BatchRef: batchRef}

	for _, id := range ids {
		itemResult := service.BulkItemResult{ID: id}

		item, err := q.storage.GetItem(ctx, id)
		switch {
		case err != nil:
			itemResult.Err = err
			itemResult.Detail = err.Error()
			result.Failed++
			q.recordFailure(ctx, id, model.ActionBulkApprove, actor, batchRef, err)
		case item.Status != model.StatusPending:
			itemResult.Skipped = true
			itemResult.Detail = fmt.Sprintf("status is %s, not pending", item.Status)
			result.Skipped++
		case minConfidence != nil && item.Confidence() < *minConfidence:
			itemResult.Skipped = true
			itemResult.Detail = fmt.Sprintf("confidence %.2f below threshold %.2f", item.Confidence(), *minConfidence)
			result.Skipped++
		default:
			if _, err := q.transition(ctx, id, model.StatusApproved, actor, "", batchRef); err != nil {
				itemResult.Err = err
				itemResult.Detail = err.Error()
				result.Failed++
				q.recordFailure(ctx, id, model.ActionBulkApprove, actor, batchRef, err)
			} else {
				result.Applied++
			}
		}

		result.Results = append(result.Results, itemResult)
	}

	q.logger.Info("bulk approve finished",
		"batch_ref", batchRef,
		"applied", result.Applied,
		"skipped", result.Skipped,
		"failed", result.Failed)

	return result, nil
}

// recordFailure appends an audit entry for a bulk member that could not be
// applied. There is no state change to commit it with, so it goes through
// the standalone audit path; a failed write is only logged since the member
// already counts as failed.
func (q *ReviewQueue) recordFailure(ctx context.Context, id string, action model.AuditAction, actor policy.Actor, batchRef string, cause error) {
	entry := model.AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Actor:     actor.Name,
		TargetID:  id,
		BatchRef:  batchRef,
		Origin:    actor.Origin,
		Details:   fmt.Sprintf("failed: %v", cause),
		Timestamp: q.now(),
	}
	if err := q.storage.RecordAudit(ctx, entry); err != nil {
		q.logger.Warn("failed to record bulk failure audit",
			"id", id,
			"batch_ref", batchRef,
			"error", err)
	}
}

// BulkDelete deletes a set of reviewed items with a shared reason.
func (q *ReviewQueue) BulkDelete(ctx context.Context, ids []string, actor policy.Actor, reason string) (*service.BulkResult, error) {
	return q.BulkTransition(ctx, ids, model.StatusDeleted, actor, reason)
}

// ReplaceExtraction records a manual field correction: a fresh extraction
// result and recomputed emission record replace the old ones and the item
// returns to pending review. Allowed from needs_manual_extraction and
// pending only.
func (q *ReviewQueue) ReplaceExtraction(ctx context.Context, id string, extraction model.ExtractionResult, emission model.EmissionRecord, actor policy.Actor) (*model.QueueItem, error) {
	release := q.locks.acquire(id)
	defer release()

	item, err := q.storage.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Status != model.StatusNeedsManualExtraction && item.Status != model.StatusPending {
		return nil, fmt.Errorf("%w: %s -> %s", common.ErrInvalidTransition, item.Status, model.StatusPending)
	}

	now := q.now()
	transition := model.StatusTransition{
		From:       item.Status,
		To:         model.StatusPending,
		Actor:      actor.Name,
		Reason:     "manual extraction",
		OccurredAt: now,
	}
	entry := model.AuditEntry{
		ID:        uuid.NewString(),
		Action:    model.ActionEdit,
		Actor:     actor.Name,
		TargetID:  id,
		Origin:    actor.Origin,
		Details:   fmt.Sprintf("type=%s co2e_kg=%.3f", extraction.DocumentType, emission.CO2eKg),
		Timestamp: now,
	}

	return q.storage.ReplaceExtraction(ctx, id, extraction, emission, transition, entry)
}

// Summary returns aggregate queue statistics for the optional date range.
func (q *ReviewQueue) Summary(ctx context.Context, since, until *time.Time) (*service.Summary, error) {
	return q.storage.Summary(ctx, since, until)
}
