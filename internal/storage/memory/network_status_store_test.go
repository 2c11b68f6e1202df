package memory

import (
	"context"
	"errors"
	"testing"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/storage"
)

func TestNetworkStatusStore_InsertAndGetByTimeRange(t *testing.T) {
	store := NewNetworkStatusStore(0)
	ctx := context.Background()

	records := []*domain.NetworkStatusRecord{
		{TimestampMs: 3000, CongestionPercentage: 30, TPS: 2000, BlockTimeMs: 400, FailedTxPercentage: 2, Slot: "30"},
		{TimestampMs: 1000, CongestionPercentage: 10, TPS: 1600, BlockTimeMs: 390, FailedTxPercentage: 1, Slot: "10"},
		{TimestampMs: 2000, CongestionPercentage: 20, TPS: 1800, BlockTimeMs: 410, FailedTxPercentage: 3, Slot: "20"},
	}
	for _, r := range records {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetByTimeRange(ctx, 1000, 2000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 records in range, got %d", len(result))
	}
	if result[0].TimestampMs != 1000 || result[1].TimestampMs != 2000 {
		t.Errorf("Results not ordered: %d, %d", result[0].TimestampMs, result[1].TimestampMs)
	}
	if result[1].CongestionPercentage != 20 {
		t.Errorf("Expected congestion 20, got %d", result[1].CongestionPercentage)
	}
}

func TestNetworkStatusStore_ReturnsCopies(t *testing.T) {
	store := NewNetworkStatusStore(0)
	ctx := context.Background()

	r := &domain.NetworkStatusRecord{TimestampMs: 1000, CongestionPercentage: 10}
	if err := store.Insert(ctx, r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	r.CongestionPercentage = 99

	result, _ := store.GetByTimeRange(ctx, 0, 5000)
	if result[0].CongestionPercentage != 10 {
		t.Errorf("Stored record was mutated through caller pointer")
	}
}

func TestNetworkStatusStore_InvalidInput(t *testing.T) {
	store := NewNetworkStatusStore(0)
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil record, got %v", err)
	}
	if err := store.Insert(ctx, &domain.NetworkStatusRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero timestamp, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
}

func TestNetworkStatusStore_CapacityEvictsOldest(t *testing.T) {
	store := NewNetworkStatusStore(3)
	ctx := context.Background()

	for ts := int64(1); ts <= 10; ts++ {
		if err := store.Insert(ctx, &domain.NetworkStatusRecord{TimestampMs: ts * 1000}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if store.Len() > 3 {
			t.Fatalf("Store grew past capacity: %d", store.Len())
		}
	}

	result, err := store.GetByTimeRange(ctx, 0, 100000)
	if err != nil {
		t.Fatalf("GetByTimeRange failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(result))
	}
	for i, want := range []int64{8000, 9000, 10000} {
		if result[i].TimestampMs != want {
			t.Errorf("result[%d] = %d, want %d", i, result[i].TimestampMs, want)
		}
	}
}

func TestNetworkStatusStore_DefaultCapacity(t *testing.T) {
	store := NewNetworkStatusStore(-1)
	ctx := context.Background()

	for ts := int64(1); ts <= DefaultNetworkStatusCapacity+5; ts++ {
		if err := store.Insert(ctx, &domain.NetworkStatusRecord{TimestampMs: ts}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if store.Len() != DefaultNetworkStatusCapacity {
		t.Errorf("Expected %d records, got %d", DefaultNetworkStatusCapacity, store.Len())
	}
}
