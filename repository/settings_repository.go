package repository

import (
	"sync"

	"deal-desk/domain"
)

// SettingsRepository supplies per-dealer settings.
type SettingsRepository interface {
	Get(dealerID string) (domain.DealerSettings, error)
	Put(settings domain.DealerSettings) error
}

// SettingsRepositoryMemory is an in-memory implementation of SettingsRepository.
type SettingsRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string]domain.DealerSettings
}

func NewSettingsRepositoryMemory() *SettingsRepositoryMemory {
	return &SettingsRepositoryMemory{
		data: make(map[string]domain.DealerSettings),
	}
}

func (r *SettingsRepositoryMemory) Get(dealerID string) (domain.DealerSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	settings, ok := r.data[dealerID]
	if !ok {
		return domain.DealerSettings{}, ErrDealerNotFound
	}
	return settings, nil
}

func (r *SettingsRepositoryMemory) Put(settings domain.DealerSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[settings.DealerID] = settings
	return nil
}
