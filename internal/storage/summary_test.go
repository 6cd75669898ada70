package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/evergrid/emissary/internal/model"
)

func TestSummary(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	save := func(id string, docType model.DocumentType, status model.Status, co2e float64, scope model.Scope) {
		t.Helper()
		item := testItem(id)
		item.DocumentType = docType
		item.Status = status
		item.Emission.CO2eKg = co2e
		item.Emission.Scopes = []model.Scope{scope}
		if err := store.SaveItem(ctx, item, uploadEntry("audit-"+id, id)); err != nil {
			t.Fatalf("SaveItem %s failed: %v", id, err)
		}
	}

	save("e1", model.TypeUtilityBillElectric, model.StatusAutoApproved, 194, model.Scope2)
	save("e2", model.TypeUtilityBillElectric, model.StatusPending, 80, model.Scope2)
	save("g1", model.TypeUtilityBillGas, model.StatusAutoApproved, 265, model.Scope1)
	save("f1", model.TypeFlightReceipt, model.StatusPending, 650, model.Scope3)

	summary, err := store.Summary(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}

	if got := summary.TotalCO2eKg; got != 1189 {
		t.Errorf("total co2e = %g, want 1189", got)
	}
	if cat := summary.ByCategory[model.TypeUtilityBillElectric]; cat.Count != 2 || cat.CO2eKg != 274 {
		t.Errorf("electric category = %+v, want count 2 co2e 274", cat)
	}
	if summary.ByStatus[model.StatusPending] != 2 {
		t.Errorf("pending count = %d, want 2", summary.ByStatus[model.StatusPending])
	}
	if summary.ByScope[model.Scope1] != 265 {
		t.Errorf("scope 1 = %g, want 265", summary.ByScope[model.Scope1])
	}
	if summary.ByScope[model.Scope3] != 650 {
		t.Errorf("scope 3 = %g, want 650", summary.ByScope[model.Scope3])
	}
	if summary.AutoApproveRate != 0.5 {
		t.Errorf("auto-approve rate = %g, want 0.5", summary.AutoApproveRate)
	}
}

func TestSummaryExcludesDeleted(t *testing.T) {
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
		OccurredAt: time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC),
	}
	entry := model.AuditEntry{ID: "audit-2", Action: model.ActionDelete, Actor: "reviewer", TargetID: item.ID}
	if _, err := store.TransitionItem(ctx, item.ID, transition, entry); err != nil {
		t.Fatalf("TransitionItem failed: %v", err)
	}

	summary, err := store.Summary(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalCO2eKg != 0 {
		t.Errorf("total co2e = %g, deleted item should not count", summary.TotalCO2eKg)
	}
	if len(summary.ByCategory) != 0 {
		t.Errorf("categories = %v, want empty", summary.ByCategory)
	}
}

func TestSummaryDateRange(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		item := testItem(fmt.Sprintf("item-%d", i))
		item.UploadedAt = time.Date(2026, 7, 1+i*10, 0, 0, 0, 0, time.UTC)
		item.Emission.CO2eKg = 100
		if err := store.SaveItem(ctx, item, uploadEntry(fmt.Sprintf("audit-%d", i), item.ID)); err != nil {
			t.Fatalf("SaveItem failed: %v", err)
		}
	}

	since := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 7, 25, 0, 0, 0, 0, time.UTC)
	summary, err := store.Summary(ctx, &since, &until)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	// Only the uploads on July 11 and July 21 fall in range.
	if cat := summary.ByCategory[model.TypeUtilityBillElectric]; cat.Count != 2 {
		t.Errorf("in-range count = %d, want 2", cat.Count)
	}
	if summary.TotalCO2eKg != 200 {
		t.Errorf("in-range co2e = %g, want 200", summary.TotalCO2eKg)
	}
}
