package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// BracketTable is a validated, immutable progressive rate schedule for one
// tax year. Tables are authored per year and never mutated after publication,
// so a table may be shared read-only across any number of concurrent
// calculations.
type BracketTable struct {
	taxYear  int
	brackets []TaxBracket
}

// NewBracketTable validates the schedule at construction. Malformed tables
// indicate a data-authoring bug and must fail fast rather than miscalculate
// tax, so every violation is rejected here.
func NewBracketTable(taxYear int, brackets []TaxBracket) (*BracketTable, error) {
	if taxYear <= 0 {
		return nil, invalidBrackets("tax_year", "tax year must be positive")
	}
	if len(brackets) == 0 {
		return nil, invalidBrackets("brackets", fmt.Sprintf("no brackets supplied for tax year %d", taxYear))
	}

	sorted := make([]TaxBracket, len(brackets))
	copy(sorted, brackets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	for i, bracket := range sorted {
		field := fmt.Sprintf("brackets[%d]", i)
		if bracket.Order != i+1 {
			return nil, invalidBrackets(field, fmt.Sprintf("orders must be consecutive from 1, got %d at position %d", bracket.Order, i))
		}
		if bracket.Rate.IsNegative() || bracket.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, invalidBrackets(field, fmt.Sprintf("rate %s is outside [0, 1]", bracket.Rate))
		}
		if i == 0 {
			if !bracket.LowerBound.IsZero() {
				return nil, invalidBrackets(field, fmt.Sprintf("first bracket must start at 0, got %s", bracket.LowerBound))
			}
		} else {
			prev := sorted[i-1]
			if bracket.Rate.LessThan(prev.Rate) {
				return nil, invalidBrackets(field, fmt.Sprintf("rate %s is below the previous bracket's rate %s", bracket.Rate, prev.Rate))
			}
			if prev.UpperBound == nil {
				return nil, invalidBrackets(field, "only the highest-order bracket may be unbounded")
			}
			if !bracket.LowerBound.Equal(*prev.UpperBound) {
				return nil, invalidBrackets(field, fmt.Sprintf("lower bound %s does not continue from previous upper bound %s", bracket.LowerBound, prev.UpperBound))
			}
		}
		if bracket.UpperBound != nil && !bracket.UpperBound.GreaterThan(bracket.LowerBound) {
			return nil, invalidBrackets(field, fmt.Sprintf("upper bound %s must exceed lower bound %s", bracket.UpperBound, bracket.LowerBound))
		}
	}
	if sorted[len(sorted)-1].UpperBound != nil {
		return nil, invalidBrackets("brackets", "highest-order bracket must be unbounded")
	}

	return &BracketTable{taxYear: taxYear, brackets: sorted}, nil
}

func (t *BracketTable) TaxYear() int {
	return t.taxYear
}

// Brackets returns the schedule in ascending order. Callers must not modify
// the returned slice.
func (t *BracketTable) Brackets() []TaxBracket {
	return t.brackets
}
