package payroll

import "github.com/shopspring/decimal"

var twelve = decimal.NewFromInt(12)

// ApplyBrackets runs the progressive schedule over annual taxable income.
// Per-bracket amounts are kept exact; the annual total is rounded once at the
// end (sum-then-round) so the total always matches a direct recomputation
// from the breakdown. Monthly tax is rounded once more at the division.
//
// Income at or below zero produces the full-length breakdown with all-zero
// amounts, not an error. Income beyond the top bracket's lower bound is taxed
// entirely within that bracket.
func ApplyBrackets(annualTaxableIncome decimal.Decimal, table *BracketTable) TaxResult {
	if annualTaxableIncome.IsNegative() {
		annualTaxableIncome = decimal.Zero
	}

	brackets := table.Brackets()
	breakdown := make([]BracketTax, 0, len(brackets))
	total := decimal.Zero
	for _, bracket := range brackets {
		upper := annualTaxableIncome
		if bracket.UpperBound != nil {
			upper = decimal.Min(annualTaxableIncome, *bracket.UpperBound)
		}
		taxable := upper.Sub(bracket.LowerBound)
		if taxable.IsNegative() {
			taxable = decimal.Zero
		}
		tax := taxable.Mul(bracket.Rate)
		total = total.Add(tax)
		breakdown = append(breakdown, BracketTax{
			Order:         bracket.Order,
			LowerBound:    bracket.LowerBound,
			UpperBound:    bracket.UpperBound,
			Rate:          bracket.Rate,
			TaxableAmount: taxable,
			TaxAmount:     tax,
		})
	}

	totalRounded := total.Round(2)
	return TaxResult{
		Breakdown:      breakdown,
		TotalAnnualTax: totalRounded,
		MonthlyTax:     totalRounded.Div(twelve).Round(2),
	}
}
