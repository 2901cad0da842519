package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculator orchestrates the bracket table, deduction catalog, and social
// security schedule into one reconciled result. It holds no mutable state:
// identical input plus identical published configuration always yields an
// identical result, so calculations may run concurrently without
// coordination.
type Calculator struct {
	provider  ConfigProvider
	formatter CurrencyFormatter
	now       func() time.Time
}

type CalculatorOption func(*Calculator)

// WithClock overrides the calculation-date source. Used by tests and batch
// runs that stamp every result with the same instant.
func WithClock(now func() time.Time) CalculatorOption {
	return func(c *Calculator) { c.now = now }
}

func NewCalculator(provider ConfigProvider, formatter CurrencyFormatter, opts ...CalculatorOption) *Calculator {
	c := &Calculator{provider: provider, formatter: formatter, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Calculate produces the full payroll breakdown for one employee-month.
// Configuration or input problems fail the whole calculation; no partial
// result is ever returned.
func (c *Calculator) Calculate(ctx context.Context, input CalculationInput) (*CalculationResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	table, err := c.provider.BracketTable(ctx, input.TaxYear)
	if err != nil {
		return nil, err
	}
	policy, err := c.provider.DeductionPolicy(ctx, input.TaxYear)
	if err != nil {
		return nil, err
	}
	ssRule, err := c.provider.SocialSecurityRule(ctx, input.TaxYear)
	if err != nil {
		return nil, err
	}

	totalIncome := input.GrossSalary.Add(input.AdditionalIncome)

	deductions, err := NewCatalog(policy).Resolve(input)
	if err != nil {
		return nil, err
	}

	// Deductions are annual figures, so monthly income is annualized before
	// subtraction. Clamped at zero: deductions exceeding income mean no tax,
	// not negative tax.
	annualIncome := totalIncome.Mul(twelve)
	taxableIncome := annualIncome.Sub(deductions.TotalDeductions)
	if taxableIncome.IsNegative() {
		taxableIncome = decimal.Zero
	}

	taxResult := ApplyBrackets(taxableIncome, table)
	socialSecurity := ComputeSocialSecurity(input.GrossSalary, ssRule)

	netSalary := totalIncome.Sub(taxResult.MonthlyTax).Sub(socialSecurity.EmployeeContribution)

	ratios := Ratios{
		TaxRate:            percentage(taxResult.MonthlyTax, totalIncome),
		DeductionRate:      percentage(deductions.TotalDeductions, annualIncome),
		NetRate:            percentage(netSalary, totalIncome),
		SocialSecurityRate: percentage(socialSecurity.EmployeeContribution, input.GrossSalary),
	}

	return &CalculationResult{
		GrossSalary:    input.GrossSalary,
		TotalIncome:    totalIncome,
		NetSalary:      netSalary,
		TaxableIncome:  taxableIncome,
		IncomeTax:      taxResult.MonthlyTax,
		TaxYear:        input.TaxYear,
		Deductions:     deductions,
		SocialSecurity: socialSecurity,
		TaxBreakdown:   taxResult.Breakdown,
		Formatted: FormattedAmounts{
			GrossSalary:     c.formatter.Format(input.GrossSalary),
			TotalIncome:     c.formatter.Format(totalIncome),
			NetSalary:       c.formatter.Format(netSalary),
			IncomeTax:       c.formatter.Format(taxResult.MonthlyTax),
			TotalDeductions: c.formatter.Format(deductions.TotalDeductions),
			SocialSecurity:  c.formatter.Format(socialSecurity.EmployeeContribution),
		},
		Ratios:          ratios,
		CalculationDate: c.now().UTC(),
		PayPeriodDate:   input.PayPeriodDate,
		Summary: CalculationSummary{
			TotalCostToEmployer:     totalIncome.Add(socialSecurity.EmployerContribution),
			TotalEmployeeDeductions: taxResult.MonthlyTax.Add(socialSecurity.EmployeeContribution),
			NetRate:                 ratios.NetRate,
			TaxRate:                 ratios.TaxRate,
		},
	}, nil
}

func validateInput(input CalculationInput) error {
	if input.GrossSalary.IsNegative() {
		return invalidInput("gross_salary", "gross salary cannot be negative")
	}
	if input.AdditionalIncome.IsNegative() {
		return invalidInput("additional_income", "additional income cannot be negative")
	}
	if input.ChildCount < 0 {
		return invalidInput("child_count", "child count cannot be negative")
	}
	if input.ProvidentFund.IsNegative() {
		return invalidInput("provident_fund", "provident fund contribution cannot be negative")
	}
	if input.TaxYear <= 0 {
		return invalidInput("tax_year", "tax year must be positive")
	}
	return nil
}

// percentage is value/base*100, yielding zero on a zero base so derived
// ratios never divide by zero.
func percentage(value, base decimal.Decimal) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return value.Div(base).Mul(hundred).Round(2)
}
