package payroll

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Store is the Postgres access layer for payroll configuration and results.
// Monetary columns are selected as text and parsed into decimals so database
// driver float conversion never touches the figures.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

// LoadYear reads the bracket table, deduction policy, and social security
// rule for one tax year and returns them as an immutable snapshot. The
// snapshot validates the bracket table before anything can calculate with it.
func (s *Store) LoadYear(ctx context.Context, taxYear int) (*StaticProvider, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT bracket_order, lower_bound::text, upper_bound::text, rate::text
    FROM tax_brackets
    WHERE tax_year = $1
    ORDER BY bracket_order
  `, taxYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brackets []TaxBracket
	for rows.Next() {
		var bracket TaxBracket
		var lower, rate string
		var upper *string
		if err := rows.Scan(&bracket.Order, &lower, &upper, &rate); err != nil {
			return nil, err
		}
		if bracket.LowerBound, err = decimal.NewFromString(lower); err != nil {
			return nil, fmt.Errorf("tax_brackets.lower_bound: %w", err)
		}
		if bracket.Rate, err = decimal.NewFromString(rate); err != nil {
			return nil, fmt.Errorf("tax_brackets.rate: %w", err)
		}
		if upper != nil {
			parsed, err := decimal.NewFromString(*upper)
			if err != nil {
				return nil, fmt.Errorf("tax_brackets.upper_bound: %w", err)
			}
			bracket.UpperBound = &parsed
		}
		brackets = append(brackets, bracket)
	}
	if len(brackets) == 0 {
		return nil, configNotFound("tax_brackets", taxYear)
	}
	table, err := NewBracketTable(taxYear, brackets)
	if err != nil {
		return nil, err
	}

	policy, err := s.loadDeductionPolicy(ctx, taxYear)
	if err != nil {
		return nil, err
	}
	rule, err := s.loadSocialSecurityRule(ctx, taxYear)
	if err != nil {
		return nil, err
	}

	provider := NewStaticProvider()
	provider.PublishYear(table, policy, rule)
	return provider, nil
}

func (s *Store) loadDeductionPolicy(ctx context.Context, taxYear int) (DeductionPolicy, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT kind, amount::text, rate::text, cap::text, max_children
    FROM deduction_policies
    WHERE tax_year = $1
    ORDER BY kind
  `, taxYear)
	if err != nil {
		return DeductionPolicy{}, err
	}
	defer rows.Close()

	policy := DeductionPolicy{TaxYear: taxYear}
	for rows.Next() {
		var rule DeductionRule
		var kind, amount, rate string
		var cap *string
		if err := rows.Scan(&kind, &amount, &rate, &cap, &rule.MaxChildren); err != nil {
			return DeductionPolicy{}, err
		}
		rule.Kind = DeductionKind(kind)
		if rule.Amount, err = decimal.NewFromString(amount); err != nil {
			return DeductionPolicy{}, fmt.Errorf("deduction_policies.amount: %w", err)
		}
		if rule.Rate, err = decimal.NewFromString(rate); err != nil {
			return DeductionPolicy{}, fmt.Errorf("deduction_policies.rate: %w", err)
		}
		if cap != nil {
			parsed, err := decimal.NewFromString(*cap)
			if err != nil {
				return DeductionPolicy{}, fmt.Errorf("deduction_policies.cap: %w", err)
			}
			rule.Cap = &parsed
		}
		policy.Rules = append(policy.Rules, rule)
	}
	if len(policy.Rules) == 0 {
		return DeductionPolicy{}, configNotFound("deduction_policy", taxYear)
	}
	return policy, nil
}

func (s *Store) loadSocialSecurityRule(ctx context.Context, taxYear int) (SocialSecurityRule, error) {
	var rate, employerRate, floor, ceiling string
	err := s.DB.QueryRow(ctx, `
    SELECT rate::text, employer_rate::text, wage_floor::text, wage_ceiling::text
    FROM social_security_rules
    WHERE tax_year = $1
  `, taxYear).Scan(&rate, &employerRate, &floor, &ceiling)
	if err != nil {
		return SocialSecurityRule{}, configNotFound("social_security_rule", taxYear)
	}

	var rule SocialSecurityRule
	if rule.Rate, err = decimal.NewFromString(rate); err != nil {
		return SocialSecurityRule{}, fmt.Errorf("social_security_rules.rate: %w", err)
	}
	if rule.EmployerRate, err = decimal.NewFromString(employerRate); err != nil {
		return SocialSecurityRule{}, fmt.Errorf("social_security_rules.employer_rate: %w", err)
	}
	if rule.WageFloor, err = decimal.NewFromString(floor); err != nil {
		return SocialSecurityRule{}, fmt.Errorf("social_security_rules.wage_floor: %w", err)
	}
	if rule.WageCeiling, err = decimal.NewFromString(ceiling); err != nil {
		return SocialSecurityRule{}, fmt.Errorf("social_security_rules.wage_ceiling: %w", err)
	}
	return rule, nil
}

// EmployeeInput is one employee's resolved calculation input for a batch run.
type EmployeeInput struct {
	EmployeeID string
	FirstName  string
	LastName   string
	Input      CalculationInput
}

// ListEmployeeInputs resolves the calculation inputs for every active
// employee of a tenant.
func (s *Store) ListEmployeeInputs(ctx context.Context, tenantID string, taxYear int, payPeriodDate time.Time) ([]EmployeeInput, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, first_name, last_name,
           gross_salary::text, additional_income::text, has_spouse, child_count,
           provident_fund::text, additional_deductions::text
    FROM employees
    WHERE tenant_id = $1 AND status = 'active'
    ORDER BY last_name, first_name
  `, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inputs []EmployeeInput
	for rows.Next() {
		var in EmployeeInput
		var gross, additional, pf, adhoc string
		if err := rows.Scan(&in.EmployeeID, &in.FirstName, &in.LastName,
			&gross, &additional, &in.Input.HasSpouse, &in.Input.ChildCount, &pf, &adhoc); err != nil {
			return nil, err
		}
		if in.Input.GrossSalary, err = decimal.NewFromString(gross); err != nil {
			return nil, fmt.Errorf("employees.gross_salary: %w", err)
		}
		if in.Input.AdditionalIncome, err = decimal.NewFromString(additional); err != nil {
			return nil, fmt.Errorf("employees.additional_income: %w", err)
		}
		if in.Input.ProvidentFund, err = decimal.NewFromString(pf); err != nil {
			return nil, fmt.Errorf("employees.provident_fund: %w", err)
		}
		if in.Input.AdditionalDeductions, err = decimal.NewFromString(adhoc); err != nil {
			return nil, fmt.Errorf("employees.additional_deductions: %w", err)
		}
		in.Input.TaxYear = taxYear
		in.Input.PayPeriodDate = payPeriodDate
		inputs = append(inputs, in)
	}
	return inputs, rows.Err()
}

// UpsertResult stores a calculation outcome for an employee-period. The full
// result is kept as JSON so payslip rendering reproduces the exact breakdown
// the engine produced.
func (s *Store) UpsertResult(ctx context.Context, tenantID, periodID, employeeID string, result *CalculationResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO payroll_results (tenant_id, period_id, employee_id, tax_year,
                                 gross_salary, total_income, net_salary, income_tax, result_json)
    VALUES ($1,$2,$3,$4,$5::numeric,$6::numeric,$7::numeric,$8::numeric,$9)
    ON CONFLICT (period_id, employee_id) DO UPDATE SET
      tax_year = EXCLUDED.tax_year,
      gross_salary = EXCLUDED.gross_salary,
      total_income = EXCLUDED.total_income,
      net_salary = EXCLUDED.net_salary,
      income_tax = EXCLUDED.income_tax,
      result_json = EXCLUDED.result_json,
      updated_at = now()
  `, tenantID, periodID, employeeID, result.TaxYear,
		result.GrossSalary.StringFixed(2), result.TotalIncome.StringFixed(2),
		result.NetSalary.StringFixed(2), result.IncomeTax.StringFixed(2), payload)
	return err
}

// ResultPayload fetches the stored result JSON plus the employee's name for
// payslip rendering.
func (s *Store) ResultPayload(ctx context.Context, tenantID, periodID, employeeID string) (CalculationResult, string, error) {
	var payload []byte
	var firstName, lastName string
	err := s.DB.QueryRow(ctx, `
    SELECT r.result_json, e.first_name, e.last_name
    FROM payroll_results r
    JOIN employees e ON e.id = r.employee_id
    WHERE r.tenant_id = $1 AND r.period_id = $2 AND r.employee_id = $3
  `, tenantID, periodID, employeeID).Scan(&payload, &firstName, &lastName)
	if err != nil {
		return CalculationResult{}, "", err
	}
	var result CalculationResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return CalculationResult{}, "", err
	}
	return result, firstName + " " + lastName, nil
}

// PGProvider serves per-tax-year configuration from Postgres, loading each
// year at most once and caching the immutable snapshot for lock-free reads
// afterwards.
type PGProvider struct {
	store *Store

	mu    sync.RWMutex
	years map[int]*StaticProvider
}

func NewPGProvider(store *Store) *PGProvider {
	return &PGProvider{store: store, years: make(map[int]*StaticProvider)}
}

func (p *PGProvider) snapshot(ctx context.Context, taxYear int) (*StaticProvider, error) {
	p.mu.RLock()
	cached, ok := p.years[taxYear]
	p.mu.RUnlock()
	if ok {
		return cached, nil
	}

	loaded, err := p.store.LoadYear(ctx, taxYear)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if cached, ok := p.years[taxYear]; ok {
		return cached, nil
	}
	p.years[taxYear] = loaded
	return loaded, nil
}

func (p *PGProvider) BracketTable(ctx context.Context, taxYear int) (*BracketTable, error) {
	snap, err := p.snapshot(ctx, taxYear)
	if err != nil {
		return nil, err
	}
	return snap.BracketTable(ctx, taxYear)
}

func (p *PGProvider) DeductionPolicy(ctx context.Context, taxYear int) (DeductionPolicy, error) {
	snap, err := p.snapshot(ctx, taxYear)
	if err != nil {
		return DeductionPolicy{}, err
	}
	return snap.DeductionPolicy(ctx, taxYear)
}

func (p *PGProvider) SocialSecurityRule(ctx context.Context, taxYear int) (SocialSecurityRule, error) {
	snap, err := p.snapshot(ctx, taxYear)
	if err != nil {
		return SocialSecurityRule{}, err
	}
	return snap.SocialSecurityRule(ctx, taxYear)
}
