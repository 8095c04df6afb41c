package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/datamover/internal/model"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	st, err := Open(MemoryDSN)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestSeedDemoOnce(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()
	if err := st.SeedDemo(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := st.SeedDemo(ctx); err != nil {
		t.Fatalf("seed again: %v", err)
	}
	n, err := st.CountTransfers(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != len(DemoTransfers()) {
		t.Fatalf("expected %d transfers, got %d", len(DemoTransfers()), n)
	}

	recs, err := st.ListTransfers(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if recs[0].Ref != "txn_demo_1" || recs[len(recs)-1].Ref != "txn_demo_4" {
		t.Fatalf("expected newest first, got %s .. %s", recs[0].Ref, recs[len(recs)-1].Ref)
	}
}

func TestInsertAssignsRef(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()
	when := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	id, err := st.InsertTransfer(ctx, model.TransferRecord{
		Date:              when,
		SourceDevice:      "Smartphone",
		DestinationDevice: "Laptop",
		SizeMB:            70,
		Categories:        2,
		Status:            model.StatusCompleted,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	recs, err := st.ListTransfers(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.ID != id || rec.Ref != "txn_1" {
		t.Fatalf("unexpected id/ref: %d %q", rec.ID, rec.Ref)
	}
	if !rec.Date.Equal(when) || rec.SizeMB != 70 || rec.Categories != 2 || rec.Status != model.StatusCompleted {
		t.Fatalf("round trip mismatch: %+v", rec)
	}
}

func TestListTransfersFilters(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()
	if err := st.SeedDemo(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	failed, err := st.ListTransfers(ctx, model.HistoryFilter{Status: model.StatusFailed})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(failed) != 1 || failed[0].SourceDevice != "Google Pixel 7" {
		t.Fatalf("unexpected failed transfers: %+v", failed)
	}
	limited, err := st.ListTransfers(ctx, model.HistoryFilter{Limit: 2})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(limited))
	}
}

func TestOpenFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	st, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error for empty dsn")
	}
}

func TestListTransfersOrdersWithinSecond(t *testing.T) {
	st := openMemory(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)
	later := model.TransferRecord{Ref: "later", Date: base.Add(500 * time.Millisecond), Status: model.StatusCompleted}
	onSecond := model.TransferRecord{Ref: "on-second", Date: base, Status: model.StatusCompleted}
	for _, rec := range []model.TransferRecord{later, onSecond} {
		if _, err := st.InsertTransfer(ctx, rec); err != nil {
			t.Fatalf("insert %s: %v", rec.Ref, err)
		}
	}
	recs, err := st.ListTransfers(ctx, model.HistoryFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 || recs[0].Ref != "later" || recs[1].Ref != "on-second" {
		t.Fatalf("expected newest first, got %+v", recs)
	}
	if !recs[0].Date.Equal(later.Date) || !recs[1].Date.Equal(base) {
		t.Fatalf("dates did not round-trip: %v / %v", recs[0].Date, recs[1].Date)
	}
}
