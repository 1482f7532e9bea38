package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPayment_WithInterest(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		rate      string
		term      int
		want      string
	}{
		{"car loan", "30300", "6.99", 72, "516.44"},
		{"personal loan", "10000", "12", 24, "470.73"},
		{"30 year mortgage", "100000", "5", 360, "536.82"},
		{"short term", "30300", "6.99", 36, "935.44"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := MonthlyPayment(dec(tt.principal), dec(tt.rate), tt.term)
			require.NoError(t, err)
			assertDecimal(t, tt.want, payment)
		})
	}
}

func TestMonthlyPayment_ZeroInterest(t *testing.T) {
	payment, err := MonthlyPayment(dec("10000"), dec("0"), 60)
	require.NoError(t, err)
	assertDecimal(t, "166.67", payment)

	payment, err = MonthlyPayment(dec("1200"), dec("0"), 12)
	require.NoError(t, err)
	assertDecimal(t, "100", payment)
}

func TestMonthlyPayment_NoPrincipal(t *testing.T) {
	for _, principal := range []string{"0", "-250"} {
		payment, err := MonthlyPayment(dec(principal), dec("6.99"), 60)
		require.NoError(t, err)
		assert.True(t, payment.IsZero())
	}
}

func TestMonthlyPayment_InvalidTerm(t *testing.T) {
	for _, term := range []int{0, -12} {
		_, err := MonthlyPayment(dec("10000"), dec("5"), term)

		var termErr *InvalidTermError
		require.ErrorAs(t, err, &termErr)
		assert.Equal(t, float64(term), termErr.Term)
	}
}

func TestMonthlyPayment_IsRoundedToCents(t *testing.T) {
	payment, err := MonthlyPayment(dec("12345.67"), dec("7.25"), 66)
	require.NoError(t, err)
	assert.LessOrEqual(t, -payment.Exponent(), int32(2))
}

func TestTotalOfPayments(t *testing.T) {
	total, interest := TotalOfPayments(dec("30300"), dec("516.44"), 72)
	assertDecimal(t, "37183.68", total)
	assertDecimal(t, "6883.68", interest)
}
