package service

import "github.com/shopspring/decimal"

// factorScale bounds the digits kept while compounding (1+r)^n.
const factorScale = 24

// MonthlyPayment returns the level monthly payment for a fixed-rate loan,
// rounded to cents.
//
//	r       = annualRatePct / 100 / 12
//	payment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// A zero rate is a straight-line split of the principal.
func MonthlyPayment(principal, annualRatePct decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if termMonths <= 0 {
		return decimal.Zero, &InvalidTermError{Term: float64(termMonths)}
	}
	if !principal.IsPositive() {
		return decimal.Zero, nil
	}

	n := decimal.NewFromInt(int64(termMonths))
	if annualRatePct.IsZero() {
		return Round2(principal.Div(n)), nil
	}

	r := annualRatePct.Div(hundred).Div(twelve)
	factor := compound(one.Add(r), termMonths)
	payment := principal.Mul(r).Mul(factor).Div(factor.Sub(one))

	return Round2(payment), nil
}

// compound raises base to a positive integer power with a fixed scale so the
// result does not depend on float64 pow.
func compound(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for i := 0; i < n; i++ {
		result = result.Mul(base).Round(factorScale)
	}
	return result
}

// TotalOfPayments returns payment * term and the interest portion over
// principal.
func TotalOfPayments(principal, payment decimal.Decimal, termMonths int) (total, interest decimal.Decimal) {
	total = Round2(payment.Mul(decimal.NewFromInt(int64(termMonths))))
	interest = ClampNonNegative(Round2(total.Sub(principal)))
	return total, interest
}
