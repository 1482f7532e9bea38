package service

const (
	MaxVehiclePrice = 10_000_000.0 // covers price, fees, trade and backend amounts
	MaxInterestRate = 100.0        // percent per year
	MaxTermMonths   = 120          // 10 years
	MinTermMonths   = 1
	MaxMileage      = 2_000_000
	MinCreditScore  = 300
	MaxCreditScore  = 900
	MaxGridTerms    = 24 // terms evaluated per payment grid request
)

// DefaultGridTerms are the terms quoted when the caller does not ask for any.
var DefaultGridTerms = []int{36, 48, 60, 72, 84}
