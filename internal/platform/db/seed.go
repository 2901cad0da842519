package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed publishes the 2025 tax-year configuration when the tables are empty,
// so a fresh install can calculate immediately. Published years are immutable;
// the seed never overwrites existing rows.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM tax_brackets WHERE tax_year = 2025").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	brackets := []struct {
		order int
		lower string
		upper *string
		rate  string
	}{
		{1, "0", ptr("150000"), "0"},
		{2, "150000", ptr("300000"), "0.05"},
		{3, "300000", ptr("500000"), "0.10"},
		{4, "500000", ptr("750000"), "0.15"},
		{5, "750000", ptr("1000000"), "0.20"},
		{6, "1000000", ptr("2000000"), "0.25"},
		{7, "2000000", ptr("5000000"), "0.30"},
		{8, "5000000", nil, "0.35"},
	}
	for _, b := range brackets {
		if _, err := tx.Exec(ctx, `
      INSERT INTO tax_brackets (tax_year, bracket_order, lower_bound, upper_bound, rate)
      VALUES (2025, $1, $2::numeric, $3::numeric, $4::numeric)
    `, b.order, b.lower, b.upper, b.rate); err != nil {
			return err
		}
	}

	deductions := []struct {
		kind        string
		amount      string
		rate        string
		cap         *string
		maxChildren int
	}{
		{"personal_allowance", "60000", "0", nil, 0},
		{"spouse_allowance", "60000", "0", nil, 0},
		{"child_allowance", "30000", "0", nil, 3},
		{"personal_expenses", "0", "0.5", ptr("100000"), 0},
		{"provident_fund", "0", "0", ptr("500000"), 0},
		{"additional_deductions", "0", "0", nil, 0},
	}
	for _, d := range deductions {
		if _, err := tx.Exec(ctx, `
      INSERT INTO deduction_policies (tax_year, kind, amount, rate, cap, max_children)
      VALUES (2025, $1, $2::numeric, $3::numeric, $4::numeric, $5)
    `, d.kind, d.amount, d.rate, d.cap, d.maxChildren); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `
    INSERT INTO social_security_rules (tax_year, rate, employer_rate, wage_floor, wage_ceiling)
    VALUES (2025, 0.05, 0.05, 1650, 15000)
    ON CONFLICT (tax_year) DO NOTHING
  `); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func ptr(s string) *string {
	return &s
}
