package payroll

import "github.com/shopspring/decimal"

// ComputeSocialSecurity applies a capped, rated schedule to monthly gross
// salary. The contribution base is gross clamped into the rule's wage window;
// rounding happens once per contribution, never on the base, so rounding
// error cannot compound across a payroll run.
func ComputeSocialSecurity(grossSalary decimal.Decimal, rule SocialSecurityRule) SocialSecurityBreakdown {
	base := grossSalary
	if base.LessThan(rule.WageFloor) {
		base = rule.WageFloor
	}
	if base.GreaterThan(rule.WageCeiling) {
		base = rule.WageCeiling
	}
	if base.IsNegative() {
		base = decimal.Zero
	}

	employee := base.Mul(rule.Rate).Round(2)
	employer := base.Mul(rule.EmployerRate).Round(2)
	return SocialSecurityBreakdown{
		EmployeeContribution: employee,
		EmployerContribution: employer,
		TotalContribution:    employee.Add(employer),
	}
}
