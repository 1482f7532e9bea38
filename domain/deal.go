package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DealRecord is the loosely typed deal as it arrives from the UI or storage.
// It must be mapped into DealInputs before it reaches the engine.
type DealRecord struct {
	VehiclePrice      float64  `json:"vehiclePrice"`
	Mileage           float64  `json:"mileage"`
	TradeBookValue    float64  `json:"tradeBookValue"`
	RetailBookValue   float64  `json:"retailBookValue"`
	UnitCost          *float64 `json:"unitCost,omitempty"`
	DocFee            *float64 `json:"docFee,omitempty"`
	CVRFee            *float64 `json:"cvrFee,omitempty"`
	StateFees         float64  `json:"stateFees"`
	RegistrationState string   `json:"registrationState"`
	SalesTax          *float64 `json:"salesTax,omitempty"`
	SalesTaxRate      *float64 `json:"salesTaxRate,omitempty"`
	DownPayment       float64  `json:"downPayment"`
	TradeInValue      float64  `json:"tradeInValue"`
	TradeInPayoff     float64  `json:"tradeInPayoff"`
	BackendProducts   float64  `json:"backendProducts"`
	LoanTerm          float64  `json:"loanTerm"`
	InterestRate      float64  `json:"interestRate"`
	Notes             string   `json:"notes"`
}

// DealInputs is the validated, strictly typed deal the resolver works on.
// DocFee and CVRFee override the dealer defaults when set. SalesTax wins over
// SalesTaxRate; SalesTaxRate is a percentage.
type DealInputs struct {
	VehiclePrice      decimal.Decimal  `json:"vehiclePrice"`
	Mileage           int              `json:"mileage"`
	TradeBookValue    decimal.Decimal  `json:"tradeBookValue"`
	RetailBookValue   decimal.Decimal  `json:"retailBookValue"`
	UnitCost          *decimal.Decimal `json:"unitCost,omitempty"`
	DocFee            *decimal.Decimal `json:"docFee,omitempty"`
	CVRFee            *decimal.Decimal `json:"cvrFee,omitempty"`
	StateFees         decimal.Decimal  `json:"stateFees"`
	RegistrationState string           `json:"registrationState,omitempty"`
	SalesTax          *decimal.Decimal `json:"salesTax,omitempty"`
	SalesTaxRate      *decimal.Decimal `json:"salesTaxRate,omitempty"`
	DownPayment       decimal.Decimal  `json:"downPayment"`
	TradeInValue      decimal.Decimal  `json:"tradeInValue"`
	TradeInPayoff     decimal.Decimal  `json:"tradeInPayoff"`
	BackendProducts   decimal.Decimal  `json:"backendProducts"`
	LoanTerm          int              `json:"loanTerm"`
	InterestRate      decimal.Decimal  `json:"interestRate"`
	Notes             string           `json:"notes,omitempty"`
}

// DealerSettings holds the per-dealer defaults applied to every deal.
type DealerSettings struct {
	DealerID             string           `json:"dealerId"`
	DocFee               decimal.Decimal  `json:"docFee"`
	CVRFee               decimal.Decimal  `json:"cvrFee"`
	DefaultState         string           `json:"defaultState"`
	OutOfStateTransitFee decimal.Decimal  `json:"outOfStateTransitFee"`
	CustomTaxRate        *decimal.Decimal `json:"customTaxRate,omitempty"`
}

// ResolvedDeal is the reconciled financial breakdown of one deal. It is a
// derived snapshot and is always recomputed from DealInputs.
type ResolvedDeal struct {
	SellingPrice    decimal.Decimal `json:"sellingPrice"`
	DocFee          decimal.Decimal `json:"docFee"`
	CVRFee          decimal.Decimal `json:"cvrFee"`
	StateFees       decimal.Decimal `json:"stateFees"`
	TransitFee      decimal.Decimal `json:"transitFee"`
	FeesTotal       decimal.Decimal `json:"feesTotal"`
	SalesTax        decimal.Decimal `json:"salesTax"`
	OutTheDoorPrice decimal.Decimal `json:"outTheDoorPrice"`
	NetTradeIn      decimal.Decimal `json:"netTradeIn"`
	TotalDown       decimal.Decimal `json:"totalDown"`
	SubTotal        decimal.Decimal `json:"subTotal"`
	BackendProducts decimal.Decimal `json:"backendProducts"`
	AmountToFinance decimal.Decimal `json:"amountToFinance"`
	// IsOverfunded is set when the down payment and trade equity exceed the
	// amount owed; CashBack carries the excess.
	IsOverfunded    bool             `json:"isOverfunded"`
	CashBack        decimal.Decimal  `json:"cashBack"`
	MonthlyPayment  decimal.Decimal  `json:"monthlyPayment"`
	FrontEndGross   *decimal.Decimal `json:"frontEndGross,omitempty"`
	LoanTerm        int              `json:"loanTerm"`
	InterestRate    decimal.Decimal  `json:"interestRate"`
	Mileage         int              `json:"mileage"`
	TradeBookValue  decimal.Decimal  `json:"tradeBookValue"`
	RetailBookValue decimal.Decimal  `json:"retailBookValue"`
}

// DealQuote pairs a resolved deal with the eligibility computed from the same
// inputs.
type DealQuote struct {
	Inputs       DealInputs          `json:"inputs"`
	Customer     CustomerProfile     `json:"customer"`
	Resolved     ResolvedDeal        `json:"resolved"`
	Eligibility  []EligibilityResult `json:"eligibility"`
	CeilingNotes []string            `json:"ceilingNotes,omitempty"`
	CalculatedAt time.Time           `json:"calculatedAt"`
}

// DealSnapshot is the frozen audit record of a saved deal. Settings and
// Lenders are the collaborator data the quote was computed with.
type DealSnapshot struct {
	ID       string          `json:"id"`
	DealerID string          `json:"dealerId"`
	Settings DealerSettings  `json:"settings"`
	Lenders  []LenderProfile `json:"lenders"`
	DealQuote
}

// DriftReport compares a snapshot against a fresh run of its stored inputs.
type DriftReport struct {
	SnapshotID string    `json:"snapshotId"`
	Drifted    bool      `json:"drifted"`
	Frozen     DealQuote `json:"frozen"`
	Current    DealQuote `json:"current"`
}
