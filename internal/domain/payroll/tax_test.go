package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyBracketsKnownAmounts(t *testing.T) {
	table := table2025(t)

	tests := []struct {
		name       string
		income     string
		wantAnnual string
	}{
		{"below first threshold", "100000", "0"},
		{"first taxable bracket", "200000", "2500"},
		{"spanning three brackets", "402000", "17700"},
		{"exactly at bracket edge", "300000", "7500"},
		{"top bracket income", "6000000", "1615000"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := ApplyBrackets(dec(tc.income), table)
			assert.True(t, result.TotalAnnualTax.Equal(dec(tc.wantAnnual)),
				"total annual tax = %s, want %s", result.TotalAnnualTax, tc.wantAnnual)
		})
	}
}

// The per-bracket taxable amounts must partition the income exactly: no
// gaps, no double counting.
func TestApplyBracketsCoversIncomeExactly(t *testing.T) {
	table := table2025(t)

	incomes := []string{"0", "1", "149999.99", "150000", "150000.01", "402000",
		"500000", "999999.99", "2500000", "5000000", "12345678.90"}
	for _, income := range incomes {
		result := ApplyBrackets(dec(income), table)
		require.Len(t, result.Breakdown, 8, "breakdown must always be full length")

		sum := decimal.Zero
		for _, bracket := range result.Breakdown {
			sum = sum.Add(bracket.TaxableAmount)
		}
		assert.True(t, sum.Equal(dec(income)), "income %s: bracket amounts sum to %s", income, sum)
	}
}

func TestApplyBracketsMonotonicity(t *testing.T) {
	table := table2025(t)

	previous := decimal.Zero
	for income := int64(0); income <= 6_000_000; income += 37_500 {
		result := ApplyBrackets(decimal.NewFromInt(income), table)
		assert.True(t, result.TotalAnnualTax.GreaterThanOrEqual(previous),
			"tax decreased at income %d: %s < %s", income, result.TotalAnnualTax, previous)
		previous = result.TotalAnnualTax
	}
}

func TestApplyBracketsZeroAndNegativeIncome(t *testing.T) {
	table := table2025(t)

	for _, income := range []string{"0", "-5000"} {
		result := ApplyBrackets(dec(income), table)
		assert.True(t, result.TotalAnnualTax.IsZero())
		assert.True(t, result.MonthlyTax.IsZero())
		require.Len(t, result.Breakdown, 8)
		for _, bracket := range result.Breakdown {
			assert.True(t, bracket.TaxableAmount.IsZero())
			assert.True(t, bracket.TaxAmount.IsZero())
		}
	}
}

// Income landing exactly on a bracket's upper bound is taxed entirely within
// that bracket; nothing spills into the next one.
func TestApplyBracketsBoundaryStaysInBracket(t *testing.T) {
	table := table2025(t)
	result := ApplyBrackets(dec("300000"), table)

	assert.True(t, result.Breakdown[1].TaxableAmount.Equal(dec("150000")))
	assert.True(t, result.Breakdown[2].TaxableAmount.IsZero())
	assert.True(t, result.Breakdown[2].TaxAmount.IsZero())
}

// Everything above the unbounded bracket's lower bound is taxed at its rate.
func TestApplyBracketsTopBracket(t *testing.T) {
	table := table2025(t)
	result := ApplyBrackets(dec("7500000"), table)

	top := result.Breakdown[7]
	assert.True(t, top.TaxableAmount.Equal(dec("2500000")))
	assert.True(t, top.TaxAmount.Equal(dec("875000")))
}

// The rounded total must equal the sum of the exact per-bracket taxes,
// rounded once (sum-then-round, never round-then-sum).
func TestApplyBracketsSumThenRound(t *testing.T) {
	table := table2025(t)
	result := ApplyBrackets(dec("412345.67"), table)

	sum := decimal.Zero
	for _, bracket := range result.Breakdown {
		sum = sum.Add(bracket.TaxAmount)
	}
	assert.True(t, result.TotalAnnualTax.Equal(sum.Round(2)))
	assert.True(t, result.MonthlyTax.Equal(result.TotalAnnualTax.Div(decimal.NewFromInt(12)).Round(2)))
}
