package payroll

import "github.com/shopspring/decimal"

// Catalog resolves the effective annual deductions for a calculation from a
// per-tax-year policy. The policy is immutable after construction and safe
// for concurrent use.
type Catalog struct {
	policy DeductionPolicy
}

func NewCatalog(policy DeductionPolicy) *Catalog {
	return &Catalog{policy: policy}
}

// Resolve evaluates every rule of the policy against the input. Rule order
// only affects readability of the breakdown, never the sum. A rule with an
// unrecognized kind aborts the whole resolution: a deduction total that
// silently omits a requested deduction would understate the employee's
// entitlement.
func (c *Catalog) Resolve(input CalculationInput) (DeductionBreakdown, error) {
	var breakdown DeductionBreakdown
	grossAnnual := input.GrossSalary.Add(input.AdditionalIncome).Mul(twelve)

	for _, rule := range c.policy.Rules {
		var effective decimal.Decimal
		switch rule.Kind {
		case DeductionPersonalAllowance:
			effective = rule.Amount
		case DeductionSpouseAllowance:
			if input.HasSpouse {
				effective = rule.Amount
			}
		case DeductionChildAllowance:
			children := input.ChildCount
			if rule.MaxChildren > 0 && children > rule.MaxChildren {
				children = rule.MaxChildren
			}
			effective = rule.Amount.Mul(decimal.NewFromInt(int64(children)))
		case DeductionPersonalExpenses:
			effective = grossAnnual.Mul(rule.Rate)
		case DeductionProvidentFund:
			effective = input.ProvidentFund
		case DeductionAdditionalDeductions:
			effective = input.AdditionalDeductions
		default:
			return DeductionBreakdown{}, unsupportedKind(rule.Kind)
		}

		if rule.Cap != nil && effective.GreaterThan(*rule.Cap) {
			effective = *rule.Cap
		}
		if effective.IsNegative() {
			effective = decimal.Zero
		}

		switch rule.Kind {
		case DeductionPersonalAllowance:
			breakdown.PersonalAllowance = breakdown.PersonalAllowance.Add(effective)
		case DeductionSpouseAllowance:
			breakdown.SpouseAllowance = breakdown.SpouseAllowance.Add(effective)
		case DeductionChildAllowance:
			breakdown.ChildAllowance = breakdown.ChildAllowance.Add(effective)
		case DeductionPersonalExpenses:
			breakdown.PersonalExpenses = breakdown.PersonalExpenses.Add(effective)
		case DeductionProvidentFund:
			breakdown.ProvidentFund = breakdown.ProvidentFund.Add(effective)
		case DeductionAdditionalDeductions:
			breakdown.AdditionalDeductions = breakdown.AdditionalDeductions.Add(effective)
		}
		breakdown.TotalDeductions = breakdown.TotalDeductions.Add(effective)
	}

	return breakdown, nil
}
