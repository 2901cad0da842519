package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyFormatter renders monetary values for display. Formatting is a pure
// presentation concern kept out of the numeric engine so the arithmetic stays
// testable without locale dependencies.
type CurrencyFormatter interface {
	Format(amount decimal.Decimal) string
}

// PrefixFormatter writes a currency symbol followed by the amount with
// thousands separators and two decimal places, e.g. "THB 55,000.00".
type PrefixFormatter struct {
	Symbol string
}

func NewPrefixFormatter(symbol string) PrefixFormatter {
	return PrefixFormatter{Symbol: symbol}
}

func (f PrefixFormatter) Format(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	if negative {
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	if f.Symbol != "" {
		b.WriteString(f.Symbol)
		b.WriteByte(' ')
	}
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
