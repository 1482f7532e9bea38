package service

import (
	"log/slog"
	"sort"
	"strings"

	"deal-desk/domain"
)

// EligibilityRanker evaluates every lender of a dealer and orders the results.
type EligibilityRanker struct {
	evaluator *LenderRuleEvaluator
	logger    *slog.Logger
}

// NewEligibilityRanker creates a ranker around the given evaluator.
func NewEligibilityRanker(evaluator *LenderRuleEvaluator, logger *slog.Logger) *EligibilityRanker {
	if logger == nil {
		logger = slog.Default()
	}
	if evaluator == nil {
		evaluator = NewLenderRuleEvaluator(logger)
	}
	return &EligibilityRanker{evaluator: evaluator, logger: logger}
}

// Rank returns eligible lenders first, cheapest matched tier minRate first,
// followed by ineligible lenders in input order. A profile without an id is
// listed as ineligible rather than evaluated. An empty catalog yields an
// empty, non-nil result.
func (r *EligibilityRanker) Rank(
	resolved domain.ResolvedDeal,
	profiles []domain.LenderProfile,
	customer domain.CustomerProfile,
) []domain.EligibilityResult {

	eligible := make([]domain.EligibilityResult, 0, len(profiles))
	ineligible := make([]domain.EligibilityResult, 0, len(profiles))

	for _, profile := range profiles {
		if strings.TrimSpace(profile.ID) == "" {
			r.logger.Warn("lender profile without id", "lender_name", profile.Name)
			ineligible = append(ineligible, domain.EligibilityResult{
				LenderName:       profile.Name,
				FicoUnknown:      customer.CreditScore == nil,
				RejectionReasons: []string{"Lender profile has no id"},
			})
			continue
		}

		result := r.evaluator.Evaluate(resolved, profile, customer)
		if result.Eligible {
			eligible = append(eligible, result)
		} else {
			ineligible = append(ineligible, result)
		}
	}

	// Stable so equal rates keep input order.
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].MatchedTier.MinRate.LessThan(eligible[j].MatchedTier.MinRate)
	})

	return append(eligible, ineligible...)
}
