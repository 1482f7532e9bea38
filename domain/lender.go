package domain

import "github.com/shopspring/decimal"

// BookValueSource selects which book value anchors a lender's LTV.
type BookValueSource string

const (
	BookValueTrade  BookValueSource = "Trade"
	BookValueRetail BookValueSource = "Retail"
)

// CustomerRecord is the loosely typed filter data sent with a deal.
type CustomerRecord struct {
	CreditScore   *float64 `json:"creditScore,omitempty"`
	MonthlyIncome *float64 `json:"monthlyIncome,omitempty"`
	MaxPrice      *float64 `json:"maxPrice,omitempty"`
	MaxPayment    *float64 `json:"maxPayment,omitempty"`
	MaxMileage    *float64 `json:"maxMileage,omitempty"`
	MaxOTDLTV     *float64 `json:"maxOtdLtv,omitempty"`
}

// CustomerProfile is the validated credit profile. Every ceiling is optional
// and advisory.
type CustomerProfile struct {
	CreditScore   *int             `json:"creditScore,omitempty"`
	MonthlyIncome *decimal.Decimal `json:"monthlyIncome,omitempty"`
	MaxPrice      *decimal.Decimal `json:"maxPrice,omitempty"`
	MaxPayment    *decimal.Decimal `json:"maxPayment,omitempty"`
	MaxMileage    *int             `json:"maxMileage,omitempty"`
	MaxOTDLTV     *decimal.Decimal `json:"maxOtdLtv,omitempty"`
}

// RateTier is one approval bracket of a lender. All bounds are inclusive.
// A nil MaxFico is unbounded; a nil MaxLTV means the tier has no LTV ceiling.
type RateTier struct {
	Name    string           `json:"name"`
	MinFico int              `json:"minFico"`
	MaxFico *int             `json:"maxFico,omitempty"`
	MaxLTV  *decimal.Decimal `json:"maxLtv,omitempty"`
	MinRate decimal.Decimal  `json:"minRate"`
	MaxRate decimal.Decimal  `json:"maxRate"`
	MaxTerm int              `json:"maxTerm"`
}

// Clone returns a copy that shares no pointers with t.
func (t RateTier) Clone() RateTier {
	c := t
	if t.MaxFico != nil {
		v := *t.MaxFico
		c.MaxFico = &v
	}
	if t.MaxLTV != nil {
		v := *t.MaxLTV
		c.MaxLTV = &v
	}
	return c
}

// LenderProfile is a lender's rate sheet. Tiers are ordered from most to
// least favorable; the first passing tier wins.
type LenderProfile struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Active          bool            `json:"active"`
	BookValueSource BookValueSource `json:"bookValueSource"`
	Tiers           []RateTier      `json:"tiers"`
}

// EligibilityResult is the outcome of evaluating one lender against a deal.
type EligibilityResult struct {
	LenderID    string    `json:"lenderId"`
	LenderName  string    `json:"lenderName"`
	Eligible    bool      `json:"eligible"`
	MatchedTier *RateTier `json:"matchedTier"`
	// ClosestTier names the tier the rejection reasons refer to.
	ClosestTier      string           `json:"closestTier,omitempty"`
	RejectionReasons []string         `json:"rejectionReasons,omitempty"`
	FicoUnknown      bool             `json:"ficoUnknown"`
	BookValueMissing bool             `json:"bookValueMissing"`
	BookValueSource  BookValueSource  `json:"bookValueSource,omitempty"`
	LTV              *decimal.Decimal `json:"ltv,omitempty"`
}
