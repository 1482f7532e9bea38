package repository

import (
	"sync"

	"deal-desk/domain"
)

// LenderRepository supplies the lender catalog of a dealer. A dealer without
// a catalog has no lenders; that is not an error.
type LenderRepository interface {
	List(dealerID string) ([]domain.LenderProfile, error)
	Put(dealerID string, profiles []domain.LenderProfile) error
}

// LenderRepositoryMemory is an in-memory implementation of LenderRepository.
type LenderRepositoryMemory struct {
	mu   sync.RWMutex
	data map[string][]domain.LenderProfile
}

func NewLenderRepositoryMemory() *LenderRepositoryMemory {
	return &LenderRepositoryMemory{
		data: make(map[string][]domain.LenderProfile),
	}
}

func (r *LenderRepositoryMemory) List(dealerID string) ([]domain.LenderProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneProfiles(r.data[dealerID]), nil
}

func (r *LenderRepositoryMemory) Put(dealerID string, profiles []domain.LenderProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[dealerID] = cloneProfiles(profiles)
	return nil
}

func cloneProfiles(profiles []domain.LenderProfile) []domain.LenderProfile {
	out := make([]domain.LenderProfile, 0, len(profiles))
	for _, p := range profiles {
		c := p
		c.Tiers = make([]domain.RateTier, 0, len(p.Tiers))
		for _, t := range p.Tiers {
			c.Tiers = append(c.Tiers, t.Clone())
		}
		out = append(out, c)
	}
	return out
}
