package store

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/datamover/internal/model"
)

// DemoTransfers is the sample history shown before any transfer has run.
func DemoTransfers() []model.TransferRecord {
	day := func(s string) time.Time {
		t, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			panic(err)
		}
		return t
	}
	return []model.TransferRecord{
		{Ref: "txn_demo_4", Date: day("2024-07-25"), SourceDevice: "iPhone 13 Mini", DestinationDevice: "Nothing Phone (2)", SizeMB: 500, Categories: 2, Status: model.StatusCompleted},
		{Ref: "txn_demo_3", Date: day("2024-07-30"), SourceDevice: "OnePlus 11", DestinationDevice: "Google Pixel 8 Pro", SizeMB: 15600, Categories: 5, Status: model.StatusCompleted},
		{Ref: "txn_demo_2", Date: day("2024-08-12"), SourceDevice: "Google Pixel 7", DestinationDevice: "iPhone 15", SizeMB: 1500, Categories: 3, Status: model.StatusFailed},
		{Ref: "txn_demo_1", Date: day("2024-08-15"), SourceDevice: "iPhone 14 Pro", DestinationDevice: "Samsung Galaxy S24", SizeMB: 8200, Categories: 4, Status: model.StatusCompleted},
	}
}

// SeedDemo inserts DemoTransfers into an empty store.
func (s *Store) SeedDemo(ctx context.Context) error {
	n, err := s.CountTransfers(ctx)
	if err != nil {
		return fmt.Errorf("failed to count transfers: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, rec := range DemoTransfers() {
		if _, err := s.InsertTransfer(ctx, rec); err != nil {
			return fmt.Errorf("failed to seed %s: %w", rec.Ref, err)
		}
	}
	return nil
}
