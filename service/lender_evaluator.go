package service

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"deal-desk/domain"
)

// LenderRuleEvaluator matches a resolved deal against one lender's rate tiers.
type LenderRuleEvaluator struct {
	logger *slog.Logger
}

// NewLenderRuleEvaluator creates an evaluator. A nil logger uses slog.Default.
func NewLenderRuleEvaluator(logger *slog.Logger) *LenderRuleEvaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &LenderRuleEvaluator{logger: logger}
}

// Evaluate selects the first tier, in declaration order, that passes every
// constraint. When none passes, the reasons describe the tier that failed the
// fewest constraints. The profile is never modified.
func (e *LenderRuleEvaluator) Evaluate(
	resolved domain.ResolvedDeal,
	profile domain.LenderProfile,
	customer domain.CustomerProfile,
) domain.EligibilityResult {

	result := domain.EligibilityResult{
		LenderID:    profile.ID,
		LenderName:  profile.Name,
		FicoUnknown: customer.CreditScore == nil,
	}

	if !profile.Active {
		result.RejectionReasons = []string{"Lender inactive"}
		return result
	}

	source := e.bookValueSource(profile)
	result.BookValueSource = source

	ltv := loanToValue(resolved, source)
	if ltv != nil {
		rounded := Round2(*ltv)
		result.LTV = &rounded
	}
	result.BookValueMissing = ltv == nil

	if len(profile.Tiers) == 0 {
		result.RejectionReasons = []string{"No rate tiers configured"}
		return result
	}

	closest := -1
	var closestFailures []string
	for i, tier := range profile.Tiers {
		failures := tierFailures(tier, resolved, customer, ltv, source)
		if len(failures) == 0 {
			matched := tier.Clone()
			result.Eligible = true
			result.MatchedTier = &matched
			return result
		}
		if closest < 0 || len(failures) < len(closestFailures) {
			closest = i
			closestFailures = failures
		}
	}

	result.ClosestTier = profile.Tiers[closest].Name
	result.RejectionReasons = closestFailures
	return result
}

// bookValueSource falls back to Retail when the profile carries no usable
// source.
func (e *LenderRuleEvaluator) bookValueSource(profile domain.LenderProfile) domain.BookValueSource {
	switch {
	case strings.EqualFold(string(profile.BookValueSource), string(domain.BookValueTrade)):
		return domain.BookValueTrade
	case strings.EqualFold(string(profile.BookValueSource), string(domain.BookValueRetail)):
		return domain.BookValueRetail
	}
	e.logger.Warn("lender book value source missing or unknown, using retail",
		"lender_id", profile.ID,
		"book_value_source", string(profile.BookValueSource),
	)
	return domain.BookValueRetail
}

// loanToValue returns amountToFinance / bookValue as an unrounded percentage,
// or nil when the book value is missing. Tier ceilings are checked against this
// value; only the reported LTV is rounded.
func loanToValue(resolved domain.ResolvedDeal, source domain.BookValueSource) *decimal.Decimal {
	bookValue := resolved.RetailBookValue
	if source == domain.BookValueTrade {
		bookValue = resolved.TradeBookValue
	}
	if !bookValue.IsPositive() {
		return nil
	}
	ltv := resolved.AmountToFinance.Mul(hundred).Div(bookValue)
	return &ltv
}

func tierFailures(
	tier domain.RateTier,
	resolved domain.ResolvedDeal,
	customer domain.CustomerProfile,
	ltv *decimal.Decimal,
	source domain.BookValueSource,
) []string {
	var failures []string

	if customer.CreditScore != nil {
		score := *customer.CreditScore
		if score < tier.MinFico {
			failures = append(failures, fmt.Sprintf("FICO %d below tier min %d", score, tier.MinFico))
		}
		if tier.MaxFico != nil && score > *tier.MaxFico {
			failures = append(failures, fmt.Sprintf("FICO %d above tier max %d", score, *tier.MaxFico))
		}
	}

	if tier.MaxLTV != nil {
		switch {
		case ltv == nil:
			failures = append(failures, fmt.Sprintf("LTV cannot be evaluated: no %s book value", strings.ToLower(string(source))))
		case ltv.GreaterThan(*tier.MaxLTV):
			failures = append(failures, fmt.Sprintf("LTV %s%% exceeds tier max %s%%", overCeiling(*ltv, *tier.MaxLTV), tier.MaxLTV.String()))
		}
	}

	if tier.MaxTerm > 0 && resolved.LoanTerm > tier.MaxTerm {
		failures = append(failures, fmt.Sprintf("Term %d months exceeds tier max %d", resolved.LoanTerm, tier.MaxTerm))
	}

	return failures
}

// overCeiling formats a percentage known to exceed ceiling. It rounds to cents
// unless that would print a value not above the ceiling, in which case it
// rounds up.
func overCeiling(pct, ceiling decimal.Decimal) string {
	shown := Round2(pct)
	if !shown.GreaterThan(ceiling) {
		shown = pct.RoundCeil(2)
	}
	return shown.String()
}
