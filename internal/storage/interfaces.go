package storage

import (
	"context"

	"solana-fee-advisor/internal/domain"
)

// NetworkStatusStore provides access to persisted network status samples.
type NetworkStatusStore interface {
	// Insert appends a sample.
	Insert(ctx context.Context, r *domain.NetworkStatusRecord) error

	// GetByTimeRange retrieves samples within [start, end] (inclusive, ms), ordered by timestamp ASC.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.NetworkStatusRecord, error)
}

// AlertStore provides access to alerts storage.
type AlertStore interface {
	// InsertBulk adds alerts atomically and returns them with ID and CreatedAt assigned.
	InsertBulk(ctx context.Context, alerts []*domain.Alert) ([]*domain.Alert, error)

	// GetByUserID retrieves all alerts for a user, ordered by created_at ASC.
	GetByUserID(ctx context.Context, userID int64) ([]*domain.Alert, error)

	// MarkRead flags an alert as read. Returns ErrNotFound if the alert does not exist.
	MarkRead(ctx context.Context, alertID int64) error
}
