package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/evergrid/emissary/internal/model"
)

func TestRecordAndListAuditEntries(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		entry := model.AuditEntry{
			ID:        fmt.Sprintf("audit-%d", i),
			Action:    model.ActionApprove,
			Actor:     "reviewer",
			TargetID:  "item-1",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.RecordAudit(ctx, entry); err != nil {
			t.Fatalf("RecordAudit failed: %v", err)
		}
	}
	other := model.AuditEntry{
		ID: "audit-other", Action: model.ActionDelete, Actor: "reviewer",
		TargetID: "item-2", Timestamp: base.Add(time.Hour),
	}
	if err := store.RecordAudit(ctx, other); err != nil {
		t.Fatalf("RecordAudit failed: %v", err)
	}

	entries, err := store.ListAuditEntries(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListAuditEntries failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("entries = %d, want 4", len(entries))
	}
	// Newest first.
	if entries[0].ID != "audit-other" {
		t.Errorf("first entry = %s, want audit-other", entries[0].ID)
	}

	entries, err = store.ListAuditEntries(ctx, "item-1", 0)
	if err != nil {
		t.Fatalf("ListAuditEntries by target failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("target filter returned %d entries, want 3", len(entries))
	}
	for _, e := range entries {
		if e.TargetID != "item-1" {
			t.Errorf("entry %s has target %s, want item-1", e.ID, e.TargetID)
		}
	}

	entries, err = store.ListAuditEntries(ctx, "", 2)
	if err != nil {
		t.Fatalf("ListAuditEntries limited failed: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("limit 2 returned %d entries", len(entries))
	}
}

func TestRecordAuditValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	if err := store.RecordAudit(ctx, model.AuditEntry{Action: model.ActionUpload, Actor: "x"}); err == nil {
		t.Error("expected error for missing id")
	}
	if err := store.RecordAudit(ctx, model.AuditEntry{ID: "a", Actor: "x"}); err == nil {
		t.Error("expected error for missing action")
	}
	if err := store.RecordAudit(ctx, model.AuditEntry{ID: "a", Action: model.ActionUpload}); err == nil {
		t.Error("expected error for missing actor")
	}
}

func TestAuditSurvivesItemDeletion(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	item := testItem("item-1")
	item.Status = model.StatusApproved
	if err := store.SaveItem(ctx, item, uploadEntry("audit-1", item.ID)); err != nil {
		t.Fatalf("SaveItem failed: %v", err)
	}

	transition := model.StatusTransition{
		From: model.StatusApproved, To: model.StatusDeleted,
		Actor: "reviewer", Reason: "cleanup",
		OccurredAt: time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
	}
	entry := model.AuditEntry{
		ID: "audit-2", Action: model.ActionDelete, Actor: "reviewer",
		TargetID: item.ID, Timestamp: transition.OccurredAt,
	}
	if _, err := store.TransitionItem(ctx, item.ID, transition, entry); err != nil {
		t.Fatalf("TransitionItem failed: %v", err)
	}

	entries, err := store.ListAuditEntries(ctx, item.ID, 0)
	if err != nil {
		t.Fatalf("ListAuditEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want upload and delete to survive", len(entries))
	}
	if entries[0].Action != model.ActionDelete {
		t.Errorf("newest action = %s, want delete", entries[0].Action)
	}
}
