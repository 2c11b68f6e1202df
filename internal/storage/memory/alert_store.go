package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/storage"
)

// AlertStore is an in-memory implementation of storage.AlertStore.
type AlertStore struct {
	mu     sync.RWMutex
	nextID int64
	data   map[int64]*domain.Alert
	now    func() time.Time
}

// NewAlertStore creates a new in-memory alert store.
func NewAlertStore() *AlertStore {
	return &AlertStore{
		nextID: 1,
		data:   make(map[int64]*domain.Alert),
		now:    time.Now,
	}
}

// InsertBulk adds alerts atomically and assigns IDs and creation times.
func (s *AlertStore) InsertBulk(_ context.Context, alerts []*domain.Alert) ([]*domain.Alert, error) {
	if len(alerts) == 0 {
		return nil, nil
	}

	// Validate the whole batch before touching state
	for _, a := range alerts {
		if a == nil || a.Title == "" || !a.AlertType.IsValid() {
			return nil, storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := s.now().UTC()
	result := make([]*domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		alertCopy := *a
		alertCopy.ID = s.nextID
		alertCopy.CreatedAt = createdAt
		s.nextID++

		s.data[alertCopy.ID] = &alertCopy
		out := alertCopy
		result = append(result, &out)
	}

	return result, nil
}

// GetByUserID retrieves all alerts for a user, ordered by created_at ASC.
func (s *AlertStore) GetByUserID(_ context.Context, userID int64) ([]*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Alert, 0)
	for _, a := range s.data {
		if a.UserID == userID {
			alertCopy := *a
			result = append(result, &alertCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// MarkRead flags an alert as read.
func (s *AlertStore) MarkRead(_ context.Context, alertID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.data[alertID]
	if !ok {
		return storage.ErrNotFound
	}
	a.Read = true
	return nil
}

var _ storage.AlertStore = (*AlertStore)(nil)
