package memory

import (
	"context"
	"sort"
	"sync"

	"solana-fee-advisor/internal/domain"
	"solana-fee-advisor/internal/storage"
)

// DefaultNetworkStatusCapacity is the sample cap used when none is given.
const DefaultNetworkStatusCapacity = 10000

// NetworkStatusStore is an in-memory implementation of storage.NetworkStatusStore.
// It keeps at most capacity samples; once full, each insert evicts the oldest.
type NetworkStatusStore struct {
	mu       sync.RWMutex
	records  []*domain.NetworkStatusRecord
	next     int // ring write position once len(records) == capacity
	capacity int
}

// NewNetworkStatusStore creates a store holding at most capacity samples.
// A non-positive capacity selects DefaultNetworkStatusCapacity.
func NewNetworkStatusStore(capacity int) *NetworkStatusStore {
	if capacity <= 0 {
		capacity = DefaultNetworkStatusCapacity
	}
	return &NetworkStatusStore{capacity: capacity}
}

// Insert appends a sample, overwriting the oldest one when the store is full.
func (s *NetworkStatusStore) Insert(_ context.Context, r *domain.NetworkStatusRecord) error {
	if r == nil || r.TimestampMs <= 0 {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *r
	if len(s.records) < s.capacity {
		s.records = append(s.records, &recordCopy)
		return nil
	}
	s.records[s.next] = &recordCopy
	s.next = (s.next + 1) % s.capacity
	return nil
}

// GetByTimeRange retrieves samples within [start, end] (inclusive), ordered by timestamp ASC.
func (s *NetworkStatusStore) GetByTimeRange(_ context.Context, start, end int64) ([]*domain.NetworkStatusRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.NetworkStatusRecord
	// Walk oldest first so equal timestamps keep insertion order.
	n := len(s.records)
	for i := 0; i < n; i++ {
		r := s.records[(s.next+i)%n]
		if r.TimestampMs >= start && r.TimestampMs <= end {
			recordCopy := *r
			result = append(result, &recordCopy)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})

	return result, nil
}

// Len returns the number of stored samples.
func (s *NetworkStatusStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

var _ storage.NetworkStatusStore = (*NetworkStatusStore)(nil)
