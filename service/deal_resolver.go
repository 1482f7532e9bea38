package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"deal-desk/domain"
)

// DealFinancialResolver turns deal inputs and dealer settings into a
// reconciled ResolvedDeal. It holds no state and is safe for concurrent use.
type DealFinancialResolver struct{}

// NewDealFinancialResolver creates a new DealFinancialResolver.
func NewDealFinancialResolver() *DealFinancialResolver {
	return &DealFinancialResolver{}
}

// Resolve computes the full price, fee, trade and finance breakdown. Steps run
// in a fixed order because later totals depend on earlier roundings. It either
// returns a complete deal or an error, never a partial one.
func (r *DealFinancialResolver) Resolve(
	inputs domain.DealInputs,
	settings domain.DealerSettings,
) (domain.ResolvedDeal, error) {

	if err := checkStructure(inputs, settings); err != nil {
		return domain.ResolvedDeal{}, err
	}

	sellingPrice := inputs.VehiclePrice

	docFee := settings.DocFee
	if inputs.DocFee != nil {
		docFee = *inputs.DocFee
	}
	cvrFee := settings.CVRFee
	if inputs.CVRFee != nil {
		cvrFee = *inputs.CVRFee
	}
	transitFee := decimal.Zero
	if isOutOfState(inputs, settings) {
		transitFee = settings.OutOfStateTransitFee
	}
	feesTotal := docFee.Add(cvrFee).Add(inputs.StateFees).Add(transitFee)

	salesTax := Round2(salesTaxFor(sellingPrice, inputs, settings))

	outTheDoor := Round2(sellingPrice.Add(feesTotal).Add(salesTax))
	netTradeIn := inputs.TradeInValue.Sub(inputs.TradeInPayoff)
	totalDown := Round2(inputs.DownPayment.Add(netTradeIn))
	subTotal := Round2(outTheDoor.Sub(totalDown))

	financed := Round2(subTotal.Add(inputs.BackendProducts))
	amountToFinance := ClampNonNegative(financed)
	cashBack := decimal.Zero
	if financed.IsNegative() {
		cashBack = financed.Neg()
	}

	payment, err := MonthlyPayment(amountToFinance, inputs.InterestRate, inputs.LoanTerm)
	if err != nil {
		return domain.ResolvedDeal{}, err
	}

	var frontEndGross *decimal.Decimal
	if inputs.UnitCost != nil {
		gross := Round2(sellingPrice.Sub(*inputs.UnitCost))
		frontEndGross = &gross
	}

	return domain.ResolvedDeal{
		SellingPrice:    Round2(sellingPrice),
		DocFee:          Round2(docFee),
		CVRFee:          Round2(cvrFee),
		StateFees:       Round2(inputs.StateFees),
		TransitFee:      Round2(transitFee),
		FeesTotal:       Round2(feesTotal),
		SalesTax:        salesTax,
		OutTheDoorPrice: outTheDoor,
		NetTradeIn:      Round2(netTradeIn),
		TotalDown:       totalDown,
		SubTotal:        subTotal,
		BackendProducts: Round2(inputs.BackendProducts),
		AmountToFinance: amountToFinance,
		IsOverfunded:    cashBack.IsPositive(),
		CashBack:        cashBack,
		MonthlyPayment:  payment,
		FrontEndGross:   frontEndGross,
		LoanTerm:        inputs.LoanTerm,
		InterestRate:    inputs.InterestRate,
		Mileage:         inputs.Mileage,
		TradeBookValue:  Round2(inputs.TradeBookValue),
		RetailBookValue: Round2(inputs.RetailBookValue),
	}, nil
}

// salesTaxFor uses a provided tax amount as is. Otherwise the dealer's custom
// rate overrides the jurisdiction rate carried on the inputs.
func salesTaxFor(price decimal.Decimal, inputs domain.DealInputs, settings domain.DealerSettings) decimal.Decimal {
	if inputs.SalesTax != nil {
		return *inputs.SalesTax
	}
	rate := decimal.Zero
	switch {
	case settings.CustomTaxRate != nil:
		rate = *settings.CustomTaxRate
	case inputs.SalesTaxRate != nil:
		rate = *inputs.SalesTaxRate
	}
	return price.Mul(rate).Div(hundred)
}

func isOutOfState(inputs domain.DealInputs, settings domain.DealerSettings) bool {
	state := strings.TrimSpace(inputs.RegistrationState)
	home := strings.TrimSpace(settings.DefaultState)
	if state == "" || home == "" {
		return false
	}
	return !strings.EqualFold(state, home)
}

func checkStructure(inputs domain.DealInputs, settings domain.DealerSettings) error {
	if inputs.LoanTerm <= 0 {
		return &InvalidTermError{Term: float64(inputs.LoanTerm)}
	}
	if inputs.Mileage < 0 {
		return &MalformedDealInputsError{Field: "mileage", Reason: "must not be negative"}
	}

	amounts := []struct {
		field string
		value *decimal.Decimal
	}{
		{"vehiclePrice", &inputs.VehiclePrice},
		{"tradeBookValue", &inputs.TradeBookValue},
		{"retailBookValue", &inputs.RetailBookValue},
		{"unitCost", inputs.UnitCost},
		{"docFee", inputs.DocFee},
		{"cvrFee", inputs.CVRFee},
		{"stateFees", &inputs.StateFees},
		{"salesTax", inputs.SalesTax},
		{"salesTaxRate", inputs.SalesTaxRate},
		{"downPayment", &inputs.DownPayment},
		{"tradeInValue", &inputs.TradeInValue},
		{"tradeInPayoff", &inputs.TradeInPayoff},
		{"backendProducts", &inputs.BackendProducts},
		{"interestRate", &inputs.InterestRate},
		{"settings.docFee", &settings.DocFee},
		{"settings.cvrFee", &settings.CVRFee},
		{"settings.outOfStateTransitFee", &settings.OutOfStateTransitFee},
		{"settings.customTaxRate", settings.CustomTaxRate},
	}
	for _, a := range amounts {
		if a.value != nil && a.value.IsNegative() {
			return &MalformedDealInputsError{Field: a.field, Reason: "must not be negative"}
		}
	}
	return nil
}
