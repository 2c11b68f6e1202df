package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/observability"
	"solana-fee-advisor/internal/storage"
)

// NetworkStatusStore implements storage.NetworkStatusStore using PostgreSQL.
type NetworkStatusStore struct {
	pool *Pool
}

// NewNetworkStatusStore creates a new NetworkStatusStore.
func NewNetworkStatusStore(pool *Pool) *NetworkStatusStore {
	return &NetworkStatusStore{pool: pool}
}

// Compile-time interface check.
var _ storage.NetworkStatusStore = (*NetworkStatusStore)(nil)

// Insert appends a sample.
func (s *NetworkStatusStore) Insert(ctx context.Context, r *domain.NetworkStatusRecord) error {
	if r == nil || r.TimestampMs <= 0 {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO network_status (
			timestamp, congestion_percentage, tps, block_time, failed_tx_percentage, slot
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	start := time.Now()
	_, err := s.pool.Exec(ctx, query,
		time.UnixMilli(r.TimestampMs).UTC(),
		r.CongestionPercentage,
		r.TPS,
		r.BlockTimeMs,
		r.FailedTxPercentage,
		r.Slot,
	)
	observability.RecordDBQuery("postgres", "insert_network_status", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("insert network status: %w", err)
	}
	return nil
}

// GetByTimeRange retrieves samples within [start, end] (inclusive), ordered by timestamp ASC.
func (s *NetworkStatusStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.NetworkStatusRecord, error) {
	query := `
		SELECT timestamp, congestion_percentage, tps, block_time, failed_tx_percentage, slot
		FROM network_status
		WHERE timestamp >= $1 AND timestamp <= $2
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, time.UnixMilli(start).UTC(), time.UnixMilli(end).UTC())
	if err != nil {
		return nil, fmt.Errorf("get network status by time range: %w", err)
	}
	defer rows.Close()

	return scanNetworkStatus(rows)
}

// scanNetworkStatus scans multiple rows into a slice of NetworkStatusRecord.
func scanNetworkStatus(rows pgx.Rows) ([]*domain.NetworkStatusRecord, error) {
	var records []*domain.NetworkStatusRecord

	for rows.Next() {
		var r domain.NetworkStatusRecord
		var ts time.Time

		err := rows.Scan(
			&ts,
			&r.CongestionPercentage,
			&r.TPS,
			&r.BlockTimeMs,
			&r.FailedTxPercentage,
			&r.Slot,
		)
		if err != nil {
			return nil, fmt.Errorf("scan network status row: %w", err)
		}

		r.TimestampMs = ts.UnixMilli()
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate network status rows: %w", err)
	}

	return records, nil
}
