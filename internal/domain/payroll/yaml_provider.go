package payroll

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// yearDocument is the on-disk YAML shape for one tax year's configuration.
type yearDocument struct {
	TaxYear        int                `yaml:"tax_year"`
	Brackets       []TaxBracket       `yaml:"brackets"`
	SocialSecurity SocialSecurityRule `yaml:"social_security"`
	Deductions     []DeductionRule    `yaml:"deductions"`
}

// LoadYAMLDir reads every *.yaml file in dir as one tax-year document and
// returns a provider with all years published. Bracket tables are validated
// at load time; a malformed file fails the load rather than surfacing later
// as a miscalculation.
func LoadYAMLDir(dir string) (*StaticProvider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read config dir %s: %w", dir, err)
	}

	provider := NewStaticProvider()
	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		if err := loadYearFile(provider, filepath.Join(dir, entry.Name())); err != nil {
			return nil, err
		}
		loaded++
	}
	if loaded == 0 {
		return nil, fmt.Errorf("no tax year configuration found in %s", dir)
	}
	return provider, nil
}

func loadYearFile(provider *StaticProvider, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var doc yearDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	table, err := NewBracketTable(doc.TaxYear, doc.Brackets)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	provider.PublishYear(table, DeductionPolicy{TaxYear: doc.TaxYear, Rules: doc.Deductions}, doc.SocialSecurity)
	return nil
}
