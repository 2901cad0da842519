package payroll

import "context"

// ConfigProvider supplies the versioned configuration a calculation depends
// on, keyed by tax year. Implementations must return immutable data: the
// engine shares one snapshot per year across concurrent calculations without
// locking, and never re-fetches inside a batch run.
type ConfigProvider interface {
	BracketTable(ctx context.Context, taxYear int) (*BracketTable, error)
	DeductionPolicy(ctx context.Context, taxYear int) (DeductionPolicy, error)
	SocialSecurityRule(ctx context.Context, taxYear int) (SocialSecurityRule, error)
}

// StaticProvider is an in-memory ConfigProvider. It backs tests, seeds, and
// the YAML loader, and serves as the immutable per-year snapshot other
// providers hand out.
type StaticProvider struct {
	tables   map[int]*BracketTable
	policies map[int]DeductionPolicy
	ssRules  map[int]SocialSecurityRule
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{
		tables:   make(map[int]*BracketTable),
		policies: make(map[int]DeductionPolicy),
		ssRules:  make(map[int]SocialSecurityRule),
	}
}

// PublishYear registers the full configuration for one tax year. Publishing
// happens before the provider is shared; the maps are read-only afterwards.
func (p *StaticProvider) PublishYear(table *BracketTable, policy DeductionPolicy, rule SocialSecurityRule) {
	p.tables[table.TaxYear()] = table
	p.policies[table.TaxYear()] = policy
	p.ssRules[table.TaxYear()] = rule
}

func (p *StaticProvider) BracketTable(_ context.Context, taxYear int) (*BracketTable, error) {
	table, ok := p.tables[taxYear]
	if !ok {
		return nil, configNotFound("tax_brackets", taxYear)
	}
	return table, nil
}

func (p *StaticProvider) DeductionPolicy(_ context.Context, taxYear int) (DeductionPolicy, error) {
	policy, ok := p.policies[taxYear]
	if !ok {
		return DeductionPolicy{}, configNotFound("deduction_policy", taxYear)
	}
	return policy, nil
}

func (p *StaticProvider) SocialSecurityRule(_ context.Context, taxYear int) (SocialSecurityRule, error) {
	rule, ok := p.ssRules[taxYear]
	if !ok {
		return SocialSecurityRule{}, configNotFound("social_security_rule", taxYear)
	}
	return rule, nil
}
