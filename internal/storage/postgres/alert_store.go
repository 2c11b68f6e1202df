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

// AlertStore implements storage.AlertStore using PostgreSQL.
type AlertStore struct {
	pool *Pool
}

// NewAlertStore creates a new AlertStore.
func NewAlertStore(pool *Pool) *AlertStore {
	return &AlertStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AlertStore = (*AlertStore)(nil)

// InsertBulk adds alerts atomically. Fails the entire batch on any error.
func (s *AlertStore) InsertBulk(ctx context.Context, alerts []*domain.Alert) ([]*domain.Alert, error) {
	if len(alerts) == 0 {
		return nil, nil
	}
	for _, a := range alerts {
		if a == nil || a.Title == "" || !a.AlertType.IsValid() {
			return nil, storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO alerts (
			user_id, title, message, alert_type, type, threshold, active, read
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	start := time.Now()
	result := make([]*domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		inserted := *a
		err := tx.QueryRow(ctx, query,
			a.UserID,
			a.Title,
			a.Message,
			string(a.AlertType),
			a.Type,
			a.Threshold,
			a.Active,
			a.Read,
		).Scan(&inserted.ID, &inserted.CreatedAt)
		if err != nil {
			observability.RecordDBQuery("postgres", "insert_alerts", time.Since(start).Seconds(), err)
			return nil, fmt.Errorf("insert alert in bulk: %w", err)
		}
		result = append(result, &inserted)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	observability.RecordDBQuery("postgres", "insert_alerts", time.Since(start).Seconds(), nil)

	return result, nil
}

// GetByUserID retrieves all alerts for a user, ordered by created_at ASC.
func (s *AlertStore) GetByUserID(ctx context.Context, userID int64) ([]*domain.Alert, error) {
	query := `
		SELECT id, user_id, title, message, alert_type, type, threshold, active, read, created_at
		FROM alerts
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get alerts by user id: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// MarkRead flags an alert as read. Returns ErrNotFound if the alert does not exist.
func (s *AlertStore) MarkRead(ctx context.Context, alertID int64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE alerts SET read = TRUE WHERE id = $1`, alertID)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanAlerts scans multiple rows into a slice of Alert.
func scanAlerts(rows pgx.Rows) ([]*domain.Alert, error) {
	alerts := make([]*domain.Alert, 0)

	for rows.Next() {
		var a domain.Alert
		var alertType string

		err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Title,
			&a.Message,
			&alertType,
			&a.Type,
			&a.Threshold,
			&a.Active,
			&a.Read,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}

		a.AlertType = domain.AlertType(alertType)
		alerts = append(alerts, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alert rows: %w", err)
	}

	return alerts, nil
}
