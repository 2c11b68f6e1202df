package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/observability"
	"solana-fee-advisor/internal/storage"
)

// CongestionSampleStore implements storage.NetworkStatusStore using ClickHouse.
// Samples land in an append-only MergeTree table for time-range analytics.
type CongestionSampleStore struct {
	conn *Conn
}

// NewCongestionSampleStore creates a new CongestionSampleStore.
func NewCongestionSampleStore(conn *Conn) *CongestionSampleStore {
	return &CongestionSampleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.NetworkStatusStore = (*CongestionSampleStore)(nil)

// Insert appends a single sample.
func (s *CongestionSampleStore) Insert(ctx context.Context, r *domain.NetworkStatusRecord) error {
	if r == nil || r.TimestampMs <= 0 {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.NetworkStatusRecord{r})
}

// InsertBulk appends samples in one batch.
func (s *CongestionSampleStore) InsertBulk(ctx context.Context, records []*domain.NetworkStatusRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, r := range records {
		if r == nil || r.TimestampMs <= 0 {
			return storage.ErrInvalidInput
		}
	}

	start := time.Now()
	err := s.sendBatch(ctx, records)
	observability.RecordDBQuery("clickhouse", "insert_congestion_samples", time.Since(start).Seconds(), err)
	return err
}

func (s *CongestionSampleStore) sendBatch(ctx context.Context, records []*domain.NetworkStatusRecord) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO congestion_samples (
			timestamp_ms, congestion_percentage, tps, block_time_ms, failed_tx_percentage, slot
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			uint64(r.TimestampMs), uint8(r.CongestionPercentage), uint32(r.TPS),
			uint32(r.BlockTimeMs), uint8(r.FailedTxPercentage), r.Slot,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByTimeRange retrieves samples within [start, end] (inclusive), ordered by timestamp ASC.
func (s *CongestionSampleStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.NetworkStatusRecord, error) {
	query := `
		SELECT timestamp_ms, congestion_percentage, tps, block_time_ms, failed_tx_percentage, slot
		FROM congestion_samples
		WHERE timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanCongestionSamples(rows)
}

// scanCongestionSamples scans multiple rows.
func scanCongestionSamples(rows chRows) ([]*domain.NetworkStatusRecord, error) {
	var records []*domain.NetworkStatusRecord

	for rows.Next() {
		var r domain.NetworkStatusRecord
		var timestampMs uint64
		var congestion, failed uint8
		var tps, blockTime uint32

		err := rows.Scan(&timestampMs, &congestion, &tps, &blockTime, &failed, &r.Slot)
		if err != nil {
			return nil, fmt.Errorf("scan congestion sample row: %w", err)
		}

		r.TimestampMs = int64(timestampMs)
		r.CongestionPercentage = int(congestion)
		r.TPS = int(tps)
		r.BlockTimeMs = int(blockTime)
		r.FailedTxPercentage = int(failed)
		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate congestion sample rows: %w", err)
	}

	return records, nil
}
