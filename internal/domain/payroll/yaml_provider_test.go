package payroll

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAMLDir(t *testing.T) {
	provider, err := LoadYAMLDir("testdata")
	require.NoError(t, err)

	table, err := provider.BracketTable(context.Background(), 2025)
	require.NoError(t, err)
	assert.Equal(t, 2025, table.TaxYear())
	require.Len(t, table.Brackets(), 8)
	assert.Nil(t, table.Brackets()[7].UpperBound)
	assert.True(t, table.Brackets()[7].Rate.Equal(dec("0.35")))

	policy, err := provider.DeductionPolicy(context.Background(), 2025)
	require.NoError(t, err)
	assert.Len(t, policy.Rules, 6)

	rule, err := provider.SocialSecurityRule(context.Background(), 2025)
	require.NoError(t, err)
	assert.True(t, rule.WageCeiling.Equal(dec("15000")))
}

func TestLoadYAMLDirMatchesStaticFixture(t *testing.T) {
	provider, err := LoadYAMLDir("testdata")
	require.NoError(t, err)

	loaded, err := provider.BracketTable(context.Background(), 2025)
	require.NoError(t, err)

	want := table2025(t)
	for i, bracket := range loaded.Brackets() {
		assert.True(t, bracket.LowerBound.Equal(want.Brackets()[i].LowerBound))
		assert.True(t, bracket.Rate.Equal(want.Brackets()[i].Rate))
	}
}

func TestLoadYAMLDirRejectsMalformedTable(t *testing.T) {
	dir := t.TempDir()
	doc := `
tax_year: 2030
brackets:
  - order: 1
    lower_bound: 0
    upper_bound: 100000
    rate: 0.10
  - order: 2
    lower_bound: 200000
    rate: 0.20
social_security:
  rate: 0.05
  employer_rate: 0.05
  wage_floor: 0
  wage_ceiling: 15000
deductions:
  - kind: personal_allowance
    amount: 60000
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2030.yaml"), []byte(doc), 0o644))

	_, err := LoadYAMLDir(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBracketTable))
}

func TestLoadYAMLDirEmpty(t *testing.T) {
	_, err := LoadYAMLDir(t.TempDir())
	require.Error(t, err)
}

func TestUnknownYearIsConfigurationNotFound(t *testing.T) {
	provider, err := LoadYAMLDir("testdata")
	require.NoError(t, err)

	_, err = provider.BracketTable(context.Background(), 1980)
	assert.True(t, errors.Is(err, ErrConfigurationNotFound))
	_, err = provider.DeductionPolicy(context.Background(), 1980)
	assert.True(t, errors.Is(err, ErrConfigurationNotFound))
	_, err = provider.SocialSecurityRule(context.Background(), 1980)
	assert.True(t, errors.Is(err, ErrConfigurationNotFound))
}
