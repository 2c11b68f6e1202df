package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/storage"
)

func TestAlertStore_InsertBulkAssignsIDs(t *testing.T) {
	store := NewAlertStore()
	ctx := context.Background()

	inserted, err := store.InsertBulk(ctx, []*domain.Alert{
		{UserID: 1, Title: "a", AlertType: domain.AlertInfo, Type: "fee_change"},
		{UserID: 1, Title: "b", AlertType: domain.AlertWarning, Type: "high_congestion"},
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	if len(inserted) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(inserted))
	}
	if inserted[0].ID == 0 || inserted[0].ID == inserted[1].ID {
		t.Errorf("Expected distinct non-zero IDs, got %d and %d", inserted[0].ID, inserted[1].ID)
	}
	if inserted[0].CreatedAt.IsZero() {
		t.Errorf("Expected CreatedAt to be assigned")
	}
}

func TestAlertStore_GetByUserIDOrdered(t *testing.T) {
	store := NewAlertStore()
	ctx := context.Background()

	clock := time.Unix(1000, 0)
	store.now = func() time.Time { return clock }

	if _, err := store.InsertBulk(ctx, []*domain.Alert{{UserID: 7, Title: "first", AlertType: domain.AlertInfo}}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	clock = clock.Add(time.Minute)
	if _, err := store.InsertBulk(ctx, []*domain.Alert{
		{UserID: 7, Title: "second", AlertType: domain.AlertInfo},
		{UserID: 8, Title: "other user", AlertType: domain.AlertInfo},
	}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	result, err := store.GetByUserID(ctx, 7)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(result))
	}
	if result[0].Title != "first" || result[1].Title != "second" {
		t.Errorf("Unexpected order: %s, %s", result[0].Title, result[1].Title)
	}

	empty, err := store.GetByUserID(ctx, 99)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected empty non-nil slice, got %v", empty)
	}
}

func TestAlertStore_MarkRead(t *testing.T) {
	store := NewAlertStore()
	ctx := context.Background()

	inserted, err := store.InsertBulk(ctx, []*domain.Alert{{UserID: 1, Title: "a", AlertType: domain.AlertSuccess}})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	if err := store.MarkRead(ctx, inserted[0].ID); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}

	result, _ := store.GetByUserID(ctx, 1)
	if !result[0].Read {
		t.Errorf("Expected alert to be read")
	}

	if err := store.MarkRead(ctx, 12345); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAlertStore_InvalidBatchInsertsNothing(t *testing.T) {
	store := NewAlertStore()
	ctx := context.Background()

	_, err := store.InsertBulk(ctx, []*domain.Alert{
		{UserID: 1, Title: "ok", AlertType: domain.AlertInfo},
		{UserID: 1, Title: "bad type", AlertType: "critical"},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}

	result, _ := store.GetByUserID(ctx, 1)
	if len(result) != 0 {
		t.Errorf("Expected 0 alerts (rollback), got %d", len(result))
	}
}
