package service

import (
	"fmt"
	"sort"

	"deal-desk/domain"
)

// PaymentGridService quotes a resolved deal across several terms.
type PaymentGridService struct{}

// NewPaymentGridService creates a new PaymentGridService.
func NewPaymentGridService() *PaymentGridService {
	return &PaymentGridService{}
}

// Build computes one option per distinct term, shortest first, at the deal's
// rate and amount financed. The recommended term is the shortest one whose
// payment fits the customer's max payment; without a ceiling it is the deal's
// own term when listed, else the shortest.
func (s *PaymentGridService) Build(
	resolved domain.ResolvedDeal,
	customer domain.CustomerProfile,
	terms []int,
) (domain.PaymentGrid, error) {

	if len(terms) == 0 {
		terms = DefaultGridTerms
	}
	if len(terms) > MaxGridTerms {
		return domain.PaymentGrid{}, &MalformedDealInputsError{
			Field:  "terms",
			Reason: fmt.Sprintf("must list at most %d terms", MaxGridTerms),
		}
	}

	unique := make(map[int]bool, len(terms))
	ordered := make([]int, 0, len(terms))
	for _, term := range terms {
		if term < MinTermMonths || term > MaxTermMonths {
			return domain.PaymentGrid{}, &InvalidTermError{Term: float64(term)}
		}
		if !unique[term] {
			unique[term] = true
			ordered = append(ordered, term)
		}
	}
	sort.Ints(ordered)

	grid := domain.PaymentGrid{
		AmountToFinance: resolved.AmountToFinance,
		InterestRate:    resolved.InterestRate,
		Options:         make([]domain.PaymentOption, 0, len(ordered)),
	}

	for _, term := range ordered {
		payment, err := MonthlyPayment(resolved.AmountToFinance, resolved.InterestRate, term)
		if err != nil {
			return domain.PaymentGrid{}, err
		}
		total, interest := TotalOfPayments(resolved.AmountToFinance, payment, term)

		within := customer.MaxPayment == nil || payment.LessThanOrEqual(*customer.MaxPayment)
		grid.Options = append(grid.Options, domain.PaymentOption{
			TermMonths:      term,
			MonthlyPayment:  payment,
			TotalOfPayments: total,
			TotalInterest:   interest,
			WithinBudget:    within,
		})
	}

	grid.RecommendedTerm = recommendedTerm(grid.Options, resolved.LoanTerm, customer.MaxPayment != nil)
	return grid, nil
}

func recommendedTerm(options []domain.PaymentOption, dealTerm int, hasCeiling bool) int {
	if !hasCeiling {
		for _, o := range options {
			if o.TermMonths == dealTerm {
				return dealTerm
			}
		}
		if len(options) > 0 {
			return options[0].TermMonths
		}
		return 0
	}
	for _, o := range options {
		if o.WithinBudget {
			return o.TermMonths
		}
	}
	return 0
}
