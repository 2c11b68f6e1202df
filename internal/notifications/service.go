// Package notifications manages per-user alerts.
package notifications

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/solana"
	"solana-fee-advisor/internal/storage"
)

// DefaultUserID is used when a request does not name a user.
const DefaultUserID int64 = 1

// WalletAddressKey is the settings field validated as a Solana public key.
const WalletAddressKey = "walletAddress"

// ErrInvalidSettings is returned when notification settings fail validation.
var ErrInvalidSettings = errors.New("invalid notification settings")

// Service manages alerts on top of an AlertStore.
type Service struct {
	store  storage.AlertStore
	logger *zap.Logger
}

// NewService creates a new notifications service.
func NewService(store storage.AlertStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger.Named("notifications")}
}

// List returns a user's alerts ordered by creation time.
func (s *Service) List(ctx context.Context, userID int64) ([]*domain.Alert, error) {
	alerts, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts for user %d: %w", userID, err)
	}
	if alerts == nil {
		alerts = []*domain.Alert{}
	}
	return alerts, nil
}

// CreateSamples inserts the demo alert set for a user.
func (s *Service) CreateSamples(ctx context.Context, userID int64) ([]*domain.Alert, error) {
	inserted, err := s.store.InsertBulk(ctx, sampleAlerts(userID))
	if err != nil {
		return nil, fmt.Errorf("create sample alerts for user %d: %w", userID, err)
	}
	s.logger.Debug("sample alerts created", zap.Int64("user_id", userID), zap.Int("count", len(inserted)))
	return inserted, nil
}

// MarkRead flags an alert as read. Returns storage.ErrNotFound for unknown ids.
func (s *Service) MarkRead(ctx context.Context, alertID int64) error {
	if err := s.store.MarkRead(ctx, alertID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return fmt.Errorf("mark alert %d read: %w", alertID, err)
	}
	return nil
}

// ValidateSettings checks the user-supplied settings. Only the wallet address
// is constrained; other keys are accepted as given.
func (s *Service) ValidateSettings(settings map[string]interface{}) error {
	raw, ok := settings[WalletAddressKey]
	if !ok || raw == nil {
		return nil
	}

	addr, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w: %s must be a string", ErrInvalidSettings, WalletAddressKey)
	}
	if _, err := solana.ParsePublicKey(addr); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, WalletAddressKey, err)
	}
	return nil
}

func sampleAlerts(userID int64) []*domain.Alert {
	congestionThreshold := 85
	feeThreshold := 20

	return []*domain.Alert{
		{
			UserID:    userID,
			Title:     "Network Congestion Alert",
			Message:   "Solana network congestion is currently high. Consider increasing your priority fee for faster transactions.",
			AlertType: domain.AlertWarning,
			Type:      "high_congestion",
			Threshold: &congestionThreshold,
			Active:    true,
		},
		{
			UserID:    userID,
			Title:     "Transaction Confirmed",
			Message:   "Your SOL transfer of 0.5 SOL has been confirmed with a confirmation time of 0.4 seconds.",
			AlertType: domain.AlertSuccess,
			Type:      "transaction_success",
			Active:    true,
		},
		{
			UserID:    userID,
			Title:     "Priority Fee Update",
			Message:   "Priority fee average has decreased by 20% in the last hour. Good time for non-urgent transactions.",
			AlertType: domain.AlertInfo,
			Type:      "fee_change",
			Threshold: &feeThreshold,
			Active:    true,
		},
	}
}
