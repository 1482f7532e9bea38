package repository

import (
	"encoding/json"
	"log/slog"

	"deal-desk/domain"
)

const lenderCacheKeyPrefix = "lenders:"

// CachedLenderRepository reads lender catalogs through a CacheRepository.
// Cache failures are logged and fall through to the underlying repository.
type CachedLenderRepository struct {
	next   LenderRepository
	cache  CacheRepository
	logger *slog.Logger
}

func NewCachedLenderRepository(next LenderRepository, cache CacheRepository, logger *slog.Logger) *CachedLenderRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedLenderRepository{next: next, cache: cache, logger: logger}
}

func (r *CachedLenderRepository) List(dealerID string) ([]domain.LenderProfile, error) {
	key := lenderCacheKeyPrefix + dealerID

	if raw, ok := r.cache.Get(key); ok {
		var profiles []domain.LenderProfile
		err := json.Unmarshal([]byte(raw), &profiles)
		if err == nil {
			return profiles, nil
		}
		r.logger.Warn("discarding unreadable cached lender catalog", "dealer_id", dealerID, "error", err)
	}

	profiles, err := r.next.List(dealerID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(profiles); err != nil {
		r.logger.Warn("failed to encode lender catalog for cache", "dealer_id", dealerID, "error", err)
	} else if err := r.cache.Set(key, string(raw)); err != nil {
		r.logger.Warn("failed to cache lender catalog", "dealer_id", dealerID, "error", err)
	}

	return profiles, nil
}

// Put writes through and drops the cached copy.
func (r *CachedLenderRepository) Put(dealerID string, profiles []domain.LenderProfile) error {
	if err := r.next.Put(dealerID, profiles); err != nil {
		return err
	}
	if err := r.cache.Delete(lenderCacheKeyPrefix + dealerID); err != nil {
		r.logger.Warn("failed to invalidate cached lender catalog", "dealer_id", dealerID, "error", err)
	}
	return nil
}
