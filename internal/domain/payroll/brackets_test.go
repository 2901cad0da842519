package payroll

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// brackets2025 is the progressive schedule used across the engine tests.
func brackets2025() []TaxBracket {
	return []TaxBracket{
		{Order: 1, LowerBound: dec("0"), UpperBound: decPtr("150000"), Rate: dec("0")},
		{Order: 2, LowerBound: dec("150000"), UpperBound: decPtr("300000"), Rate: dec("0.05")},
		{Order: 3, LowerBound: dec("300000"), UpperBound: decPtr("500000"), Rate: dec("0.10")},
		{Order: 4, LowerBound: dec("500000"), UpperBound: decPtr("750000"), Rate: dec("0.15")},
		{Order: 5, LowerBound: dec("750000"), UpperBound: decPtr("1000000"), Rate: dec("0.20")},
		{Order: 6, LowerBound: dec("1000000"), UpperBound: decPtr("2000000"), Rate: dec("0.25")},
		{Order: 7, LowerBound: dec("2000000"), UpperBound: decPtr("5000000"), Rate: dec("0.30")},
		{Order: 8, LowerBound: dec("5000000"), UpperBound: nil, Rate: dec("0.35")},
	}
}

func table2025(t *testing.T) *BracketTable {
	t.Helper()
	table, err := NewBracketTable(2025, brackets2025())
	require.NoError(t, err)
	return table
}

func TestNewBracketTableValid(t *testing.T) {
	table := table2025(t)
	assert.Equal(t, 2025, table.TaxYear())
	assert.Len(t, table.Brackets(), 8)
}

func TestNewBracketTableSortsByOrder(t *testing.T) {
	shuffled := brackets2025()
	shuffled[0], shuffled[7] = shuffled[7], shuffled[0]
	table, err := NewBracketTable(2025, shuffled)
	require.NoError(t, err)
	for i, bracket := range table.Brackets() {
		assert.Equal(t, i+1, bracket.Order)
	}
}

func TestNewBracketTableRejectsMalformedTables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]TaxBracket) []TaxBracket
	}{
		{
			name:   "empty",
			mutate: func([]TaxBracket) []TaxBracket { return nil },
		},
		{
			name: "gap between brackets",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[2].LowerBound = dec("310000")
				return b
			},
		},
		{
			name: "overlapping brackets",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[2].LowerBound = dec("290000")
				return b
			},
		},
		{
			name: "duplicate order",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[3].Order = 3
				return b
			},
		},
		{
			name: "descending rate",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[4].Rate = dec("0.01")
				return b
			},
		},
		{
			name: "rate above one",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[7].Rate = dec("1.5")
				return b
			},
		},
		{
			name: "negative rate",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[0].Rate = dec("-0.05")
				return b
			},
		},
		{
			name: "bounded top bracket",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[7].UpperBound = decPtr("9000000")
				return b
			},
		},
		{
			name: "unbounded middle bracket",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[3].UpperBound = nil
				return b
			},
		},
		{
			name: "first bracket not starting at zero",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[0].LowerBound = dec("1000")
				return b
			},
		},
		{
			name: "upper bound below lower bound",
			mutate: func(b []TaxBracket) []TaxBracket {
				b[0].UpperBound = decPtr("-10")
				return b
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBracketTable(2025, tc.mutate(brackets2025()))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBracketTable), "expected ErrInvalidBracketTable, got %v", err)
		})
	}
}

func TestNewBracketTableRejectsNonPositiveYear(t *testing.T) {
	_, err := NewBracketTable(0, brackets2025())
	require.ErrorIs(t, err, ErrInvalidBracketTable)
}

func TestBracketTableErrorNamesField(t *testing.T) {
	brackets := brackets2025()
	brackets[2].LowerBound = dec("310000")
	_, err := NewBracketTable(2025, brackets)
	require.Error(t, err)

	var calcErr *CalcError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, "brackets[2]", calcErr.Field)
}
