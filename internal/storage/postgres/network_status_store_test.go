package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/storage"
)

func TestNetworkStatusStore_InsertAndGetByTimeRange(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNetworkStatusStore(pool)
	ctx := context.Background()

	base := int64(1700000000000)
	for i, pct := range []int{12, 27, 38} {
		err := store.Insert(ctx, &domain.NetworkStatusRecord{
			TimestampMs:          base + int64(i)*1000,
			CongestionPercentage: pct,
			TPS:                  1800 + i,
			BlockTimeMs:          400,
			FailedTxPercentage:   2,
			Slot:                 "17000000000",
		})
		require.NoError(t, err)
	}

	got, err := store.GetByTimeRange(ctx, base, base+1000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, base, got[0].TimestampMs)
	assert.Equal(t, 12, got[0].CongestionPercentage)
	assert.Equal(t, base+1000, got[1].TimestampMs)
	assert.Equal(t, 1801, got[1].TPS)
	assert.Equal(t, 400, got[1].BlockTimeMs)
	assert.Equal(t, "17000000000", got[1].Slot)
}

func TestNetworkStatusStore_GetByTimeRange_Empty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewNetworkStatusStore(pool)

	got, err := store.GetByTimeRange(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNetworkStatusStore_InvalidInput(t *testing.T) {
	store := NewNetworkStatusStore(nil)

	assert.ErrorIs(t, store.Insert(context.Background(), nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(context.Background(), &domain.NetworkStatusRecord{}), storage.ErrInvalidInput)
}
