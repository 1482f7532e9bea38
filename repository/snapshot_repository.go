package repository

import (
	"fmt"
	"sort"
	"sync"

	"deal-desk/domain"
)

// SnapshotRepository stores frozen deal snapshots.
type SnapshotRepository interface {
	Save(snapshot domain.DealSnapshot) error
	Get(id string) (domain.DealSnapshot, error)
	ListByDealer(dealerID string) ([]domain.DealSnapshot, error)
}

// SnapshotRepositoryMemory is an in-memory implementation of SnapshotRepository.
type SnapshotRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.DealSnapshot
}

// NewSnapshotRepositoryMemory creates a new in-memory snapshot repository.
func NewSnapshotRepositoryMemory() *SnapshotRepositoryMemory {
	return &SnapshotRepositoryMemory{
		data: make(map[string]domain.DealSnapshot),
	}
}

// Save stores the snapshot. Snapshots are immutable, so an existing id is
// never overwritten.
func (r *SnapshotRepositoryMemory) Save(snapshot domain.DealSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[snapshot.ID]; exists {
		return fmt.Errorf("deal snapshot %s already exists", snapshot.ID)
	}
	r.data[snapshot.ID] = snapshot
	return nil
}

func (r *SnapshotRepositoryMemory) Get(id string) (domain.DealSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot, ok := r.data[id]
	if !ok {
		return domain.DealSnapshot{}, ErrSnapshotNotFound
	}
	return snapshot, nil
}

// ListByDealer returns the dealer's snapshots, newest first.
func (r *SnapshotRepositoryMemory) ListByDealer(dealerID string) ([]domain.DealSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.DealSnapshot{}
	for _, snapshot := range r.data {
		if snapshot.DealerID == dealerID {
			out = append(out, snapshot)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CalculatedAt.Equal(out[j].CalculatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CalculatedAt.After(out[j].CalculatedAt)
	})
	return out, nil
}
