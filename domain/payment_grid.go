package domain

import "github.com/shopspring/decimal"

// PaymentOption is the payment for one candidate term at the deal rate.
type PaymentOption struct {
	TermMonths      int             `json:"termMonths"`
	MonthlyPayment  decimal.Decimal `json:"monthlyPayment"`
	TotalOfPayments decimal.Decimal `json:"totalOfPayments"`
	TotalInterest   decimal.Decimal `json:"totalInterest"`
	WithinBudget    bool            `json:"withinBudget"`
}

// PaymentGrid lists payment options for a deal. RecommendedTerm is zero when
// no option fits the customer's payment ceiling.
type PaymentGrid struct {
	AmountToFinance decimal.Decimal `json:"amountToFinance"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	RecommendedTerm int             `json:"recommendedTerm"`
	Options         []PaymentOption `json:"options"`
}
