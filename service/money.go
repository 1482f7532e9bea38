package service

import (
	"log/slog"
	"math"

	"github.com/shopspring/decimal"
)

var (
	halfCent = decimal.New(5, -3)
	one      = decimal.NewFromInt(1)
	twelve   = decimal.NewFromInt(12)
	hundred  = decimal.NewFromInt(100)
)

// Round2 rounds to cents, half up toward positive infinity, so -1.005 becomes
// -1.00. Intermediate totals are kept at full decimal precision and only
// rounded where the breakdown stores them.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Add(halfCent).RoundFloor(2)
}

// ClampNonNegative returns max(0, d).
func ClampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// FromFloat converts a float coming from outside the engine. NaN and ±Inf
// become zero with a warning instead of an error.
func FromFloat(x float64) decimal.Decimal {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		slog.Warn("non-finite amount coerced to zero", "value", x)
		return decimal.Zero
	}
	return decimal.NewFromFloat(x)
}
