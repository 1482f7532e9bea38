package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"deal-desk/domain"
)

// MapDealRecord validates a loosely typed deal record and converts it into
// DealInputs. It is the only way records reach the resolver.
func MapDealRecord(rec domain.DealRecord) (domain.DealInputs, error) {
	var (
		in  domain.DealInputs
		err error
	)

	if in.VehiclePrice, err = amount("vehiclePrice", rec.VehiclePrice); err != nil {
		return domain.DealInputs{}, err
	}
	if in.TradeBookValue, err = amount("tradeBookValue", rec.TradeBookValue); err != nil {
		return domain.DealInputs{}, err
	}
	if in.RetailBookValue, err = amount("retailBookValue", rec.RetailBookValue); err != nil {
		return domain.DealInputs{}, err
	}
	if in.StateFees, err = amount("stateFees", rec.StateFees); err != nil {
		return domain.DealInputs{}, err
	}
	if in.DownPayment, err = amount("downPayment", rec.DownPayment); err != nil {
		return domain.DealInputs{}, err
	}
	if in.TradeInValue, err = amount("tradeInValue", rec.TradeInValue); err != nil {
		return domain.DealInputs{}, err
	}
	if in.TradeInPayoff, err = amount("tradeInPayoff", rec.TradeInPayoff); err != nil {
		return domain.DealInputs{}, err
	}
	if in.BackendProducts, err = amount("backendProducts", rec.BackendProducts); err != nil {
		return domain.DealInputs{}, err
	}

	if in.UnitCost, err = optionalAmount("unitCost", rec.UnitCost); err != nil {
		return domain.DealInputs{}, err
	}
	if in.DocFee, err = optionalAmount("docFee", rec.DocFee); err != nil {
		return domain.DealInputs{}, err
	}
	if in.CVRFee, err = optionalAmount("cvrFee", rec.CVRFee); err != nil {
		return domain.DealInputs{}, err
	}
	if in.SalesTax, err = optionalAmount("salesTax", rec.SalesTax); err != nil {
		return domain.DealInputs{}, err
	}
	if in.SalesTaxRate, err = optionalRate("salesTaxRate", rec.SalesTaxRate); err != nil {
		return domain.DealInputs{}, err
	}

	rate, err := optionalRate("interestRate", &rec.InterestRate)
	if err != nil {
		return domain.DealInputs{}, err
	}
	in.InterestRate = *rate

	mileage, err := wholeNumber("mileage", rec.Mileage, 0, MaxMileage)
	if err != nil {
		return domain.DealInputs{}, err
	}
	in.Mileage = mileage

	if in.LoanTerm, err = loanTerm(rec.LoanTerm); err != nil {
		return domain.DealInputs{}, err
	}

	in.RegistrationState = strings.ToUpper(strings.TrimSpace(rec.RegistrationState))
	in.Notes = strings.TrimSpace(rec.Notes)

	return in, nil
}

// MapCustomerRecord validates the customer filter data. Every field is
// optional.
func MapCustomerRecord(rec domain.CustomerRecord) (domain.CustomerProfile, error) {
	var (
		p   domain.CustomerProfile
		err error
	)

	if rec.CreditScore != nil {
		score, err := wholeNumber("creditScore", *rec.CreditScore, MinCreditScore, MaxCreditScore)
		if err != nil {
			return domain.CustomerProfile{}, err
		}
		p.CreditScore = &score
	}
	if rec.MaxMileage != nil {
		mileage, err := wholeNumber("maxMileage", *rec.MaxMileage, 0, MaxMileage)
		if err != nil {
			return domain.CustomerProfile{}, err
		}
		p.MaxMileage = &mileage
	}
	if p.MonthlyIncome, err = optionalAmount("monthlyIncome", rec.MonthlyIncome); err != nil {
		return domain.CustomerProfile{}, err
	}
	if p.MaxPrice, err = optionalAmount("maxPrice", rec.MaxPrice); err != nil {
		return domain.CustomerProfile{}, err
	}
	if p.MaxPayment, err = optionalAmount("maxPayment", rec.MaxPayment); err != nil {
		return domain.CustomerProfile{}, err
	}
	if p.MaxOTDLTV, err = optionalAmount("maxOtdLtv", rec.MaxOTDLTV); err != nil {
		return domain.CustomerProfile{}, err
	}

	return p, nil
}

// ValidateDealerSettings rejects negative fees and out-of-range tax rates.
func ValidateDealerSettings(s domain.DealerSettings) error {
	if strings.TrimSpace(s.DealerID) == "" {
		return errors.New("dealer id is required")
	}
	for field, v := range map[string]decimal.Decimal{
		"docFee":               s.DocFee,
		"cvrFee":               s.CVRFee,
		"outOfStateTransitFee": s.OutOfStateTransitFee,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s must not be negative", field)
		}
	}
	if s.CustomTaxRate != nil && (s.CustomTaxRate.IsNegative() || s.CustomTaxRate.GreaterThan(hundred)) {
		return errors.New("customTaxRate must be between 0 and 100")
	}
	return nil
}

// ValidateLenderProfile checks the structural invariants of a rate sheet.
func ValidateLenderProfile(p domain.LenderProfile) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("lender id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("lender %s: name is required", p.ID)
	}
	for i, t := range p.Tiers {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("lender %s: tier %d has no name", p.ID, i)
		}
		if t.MaxFico != nil && t.MinFico > *t.MaxFico {
			return fmt.Errorf("lender %s tier %s: minFico %d greater than maxFico %d", p.ID, t.Name, t.MinFico, *t.MaxFico)
		}
		if t.MaxTerm <= 0 {
			return fmt.Errorf("lender %s tier %s: maxTerm must be positive", p.ID, t.Name)
		}
		if t.MaxLTV != nil && !t.MaxLTV.IsPositive() {
			return fmt.Errorf("lender %s tier %s: maxLtv must be positive", p.ID, t.Name)
		}
		if t.MinRate.IsNegative() || t.MinRate.GreaterThan(t.MaxRate) {
			return fmt.Errorf("lender %s tier %s: rate range %s-%s is invalid", p.ID, t.Name, t.MinRate, t.MaxRate)
		}
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &MalformedDealInputsError{Field: field, Reason: "is not a finite number"}
	}
	return nil
}

func amount(field string, v float64) (decimal.Decimal, error) {
	if err := finite(field, v); err != nil {
		return decimal.Zero, err
	}
	if v < 0 {
		return decimal.Zero, &MalformedDealInputsError{Field: field, Reason: "must not be negative"}
	}
	if v > MaxVehiclePrice {
		return decimal.Zero, &MalformedDealInputsError{
			Field:  field,
			Reason: fmt.Sprintf("exceeds the maximum of $%.2f", MaxVehiclePrice),
		}
	}
	return FromFloat(v), nil
}

func optionalAmount(field string, v *float64) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	d, err := amount(field, *v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalRate(field string, v *float64) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	if err := finite(field, *v); err != nil {
		return nil, err
	}
	if *v < 0 || *v > MaxInterestRate {
		return nil, &MalformedDealInputsError{
			Field:  field,
			Reason: fmt.Sprintf("must be between 0 and %.2f%%", MaxInterestRate),
		}
	}
	d := FromFloat(*v)
	return &d, nil
}

func wholeNumber(field string, v float64, lo, hi int) (int, error) {
	if err := finite(field, v); err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, &MalformedDealInputsError{Field: field, Reason: "must be a whole number"}
	}
	if v < float64(lo) || v > float64(hi) {
		return 0, &MalformedDealInputsError{
			Field:  field,
			Reason: fmt.Sprintf("must be between %d and %d", lo, hi),
		}
	}
	return int(v), nil
}

func loanTerm(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) || v < MinTermMonths {
		return 0, &InvalidTermError{Term: v}
	}
	if v > MaxTermMonths {
		return 0, &MalformedDealInputsError{
			Field:  "loanTerm",
			Reason: fmt.Sprintf("exceeds the maximum of %d months", MaxTermMonths),
		}
	}
	return int(v), nil
}
