package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeductionKind is the closed set of pre-tax deductions the engine knows how
// to resolve. Adding a kind means extending the switch in Catalog.Resolve;
// anything else fails the calculation instead of being silently dropped.
type DeductionKind string

const (
	DeductionPersonalAllowance    DeductionKind = "personal_allowance"
	DeductionSpouseAllowance      DeductionKind = "spouse_allowance"
	DeductionChildAllowance       DeductionKind = "child_allowance"
	DeductionPersonalExpenses     DeductionKind = "personal_expenses"
	DeductionProvidentFund        DeductionKind = "provident_fund"
	DeductionAdditionalDeductions DeductionKind = "additional_deductions"
)

// TaxBracket is one row of a progressive rate schedule. UpperBound is nil for
// the unbounded top bracket.
type TaxBracket struct {
	Order      int              `json:"order" yaml:"order"`
	LowerBound decimal.Decimal  `json:"lower_bound" yaml:"lower_bound"`
	UpperBound *decimal.Decimal `json:"upper_bound" yaml:"upper_bound"`
	Rate       decimal.Decimal  `json:"rate" yaml:"rate"`
}

// DeductionRule is the per-tax-year configuration for one deduction kind.
// Amount is the base allowance for fixed-amount kinds and the per-child
// amount for child_allowance; Rate applies to personal_expenses only.
type DeductionRule struct {
	Kind        DeductionKind    `json:"kind" yaml:"kind"`
	Amount      decimal.Decimal  `json:"amount" yaml:"amount"`
	Rate        decimal.Decimal  `json:"rate" yaml:"rate"`
	Cap         *decimal.Decimal `json:"cap" yaml:"cap"`
	MaxChildren int              `json:"max_children" yaml:"max_children"`
}

// DeductionPolicy is the full deduction catalog for one tax year.
type DeductionPolicy struct {
	TaxYear int             `json:"tax_year" yaml:"tax_year"`
	Rules   []DeductionRule `json:"rules" yaml:"rules"`
}

// SocialSecurityRule is the capped, rated contribution schedule for one tax
// year. Contributions are computed on gross salary clamped into
// [WageFloor, WageCeiling].
type SocialSecurityRule struct {
	Rate         decimal.Decimal `json:"rate" yaml:"rate"`
	EmployerRate decimal.Decimal `json:"employer_rate" yaml:"employer_rate"`
	WageFloor    decimal.Decimal `json:"wage_floor" yaml:"wage_floor"`
	WageCeiling  decimal.Decimal `json:"wage_ceiling" yaml:"wage_ceiling"`
}

// CalculationInput carries everything a single payroll calculation needs.
// Monetary fields are monthly amounts; deductions are resolved on an annual
// basis by the catalog.
type CalculationInput struct {
	GrossSalary          decimal.Decimal `json:"gross_salary"`
	AdditionalIncome     decimal.Decimal `json:"additional_income"`
	HasSpouse            bool            `json:"has_spouse"`
	ChildCount           int             `json:"child_count"`
	ProvidentFund        decimal.Decimal `json:"provident_fund"`
	AdditionalDeductions decimal.Decimal `json:"additional_deductions"`
	TaxYear              int             `json:"tax_year"`
	PayPeriodDate        time.Time       `json:"pay_period_date"`
}

// BracketTax is one entry of the per-bracket tax breakdown. Every bracket of
// the year's table appears exactly once, zero amounts included, so callers
// always see a stable-length sequence per tax year.
type BracketTax struct {
	Order         int              `json:"order"`
	LowerBound    decimal.Decimal  `json:"lower_bound"`
	UpperBound    *decimal.Decimal `json:"upper_bound"`
	Rate          decimal.Decimal  `json:"rate"`
	TaxableAmount decimal.Decimal  `json:"taxable_amount"`
	TaxAmount     decimal.Decimal  `json:"tax_amount"`
}

// TaxResult is the progressive calculator's output. Per-bracket amounts stay
// exact; rounding happens once at the totals.
type TaxResult struct {
	Breakdown      []BracketTax    `json:"tax_breakdown"`
	TotalAnnualTax decimal.Decimal `json:"total_annual_tax"`
	MonthlyTax     decimal.Decimal `json:"monthly_tax"`
}

// DeductionBreakdown holds the effective annual amount per deduction kind.
type DeductionBreakdown struct {
	PersonalAllowance    decimal.Decimal `json:"personal_allowance"`
	SpouseAllowance      decimal.Decimal `json:"spouse_allowance"`
	ChildAllowance       decimal.Decimal `json:"child_allowance"`
	PersonalExpenses     decimal.Decimal `json:"personal_expenses"`
	ProvidentFund        decimal.Decimal `json:"provident_fund"`
	AdditionalDeductions decimal.Decimal `json:"additional_deductions"`
	TotalDeductions      decimal.Decimal `json:"total_deductions"`
}

// SocialSecurityBreakdown is the monthly contribution split.
type SocialSecurityBreakdown struct {
	EmployeeContribution decimal.Decimal `json:"employee_contribution"`
	EmployerContribution decimal.Decimal `json:"employer_contribution"`
	TotalContribution    decimal.Decimal `json:"total_contribution"`
}

// FormattedAmounts are display-only currency renderings of the raw monetary
// fields. They are never parsed back.
type FormattedAmounts struct {
	GrossSalary     string `json:"gross_salary"`
	TotalIncome     string `json:"total_income"`
	NetSalary       string `json:"net_salary"`
	IncomeTax       string `json:"income_tax"`
	TotalDeductions string `json:"total_deductions"`
	SocialSecurity  string `json:"social_security"`
}

// Ratios are derived percentages; each yields zero when its denominator is
// zero.
type Ratios struct {
	TaxRate            decimal.Decimal `json:"tax_rate"`
	DeductionRate      decimal.Decimal `json:"deduction_rate"`
	NetRate            decimal.Decimal `json:"net_rate"`
	SocialSecurityRate decimal.Decimal `json:"social_security_rate"`
}

// CalculationSummary aggregates employer-side totals and duplicates the two
// headline rates for presentation convenience.
type CalculationSummary struct {
	TotalCostToEmployer     decimal.Decimal `json:"total_cost_to_employer"`
	TotalEmployeeDeductions decimal.Decimal `json:"total_employee_deductions"`
	NetRate                 decimal.Decimal `json:"net_rate"`
	TaxRate                 decimal.Decimal `json:"tax_rate"`
}

// CalculationResult is the engine's wire contract. The JSON field names are
// what presentation collaborators (API resources, PDF export) rely on.
type CalculationResult struct {
	GrossSalary     decimal.Decimal         `json:"gross_salary"`
	TotalIncome     decimal.Decimal         `json:"total_income"`
	NetSalary       decimal.Decimal         `json:"net_salary"`
	TaxableIncome   decimal.Decimal         `json:"taxable_income"`
	IncomeTax       decimal.Decimal         `json:"income_tax"`
	TaxYear         int                     `json:"tax_year"`
	Deductions      DeductionBreakdown      `json:"deductions"`
	SocialSecurity  SocialSecurityBreakdown `json:"social_security"`
	TaxBreakdown    []BracketTax            `json:"tax_breakdown"`
	Formatted       FormattedAmounts        `json:"formatted"`
	Ratios          Ratios                  `json:"ratios"`
	CalculationDate time.Time               `json:"calculation_date"`
	PayPeriodDate   time.Time               `json:"pay_period_date"`
	Summary         CalculationSummary      `json:"calculation_summary"`
}
