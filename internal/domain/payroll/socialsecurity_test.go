package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ssRule2025() SocialSecurityRule {
	return SocialSecurityRule{
		Rate:         dec("0.05"),
		EmployerRate: dec("0.05"),
		WageFloor:    dec("1650"),
		WageCeiling:  dec("15000"),
	}
}

func TestComputeSocialSecurity(t *testing.T) {
	rule := ssRule2025()

	tests := []struct {
		name         string
		gross        string
		wantEmployee string
	}{
		{"within window", "10000", "500"},
		{"above ceiling uses clamped base", "50000", "750"},
		{"below floor uses clamped base", "1000", "82.50"},
		{"zero gross still pays on floor", "0", "82.50"},
		{"exactly at ceiling", "15000", "750"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeSocialSecurity(dec(tc.gross), rule)
			assert.True(t, got.EmployeeContribution.Equal(dec(tc.wantEmployee)),
				"employee contribution = %s, want %s", got.EmployeeContribution, tc.wantEmployee)
			assert.True(t, got.EmployerContribution.Equal(got.EmployeeContribution),
				"employer rate mirrors employee rate in this schedule")
			assert.True(t, got.TotalContribution.Equal(got.EmployeeContribution.Add(got.EmployerContribution)))
		})
	}
}

func TestComputeSocialSecurityRoundsOncePerContribution(t *testing.T) {
	rule := SocialSecurityRule{
		Rate:         dec("0.0333"),
		EmployerRate: dec("0.0667"),
		WageFloor:    dec("0"),
		WageCeiling:  dec("100000"),
	}

	got := ComputeSocialSecurity(dec("12345.67"), rule)
	// 12345.67 * 0.0333 = 411.110811 -> 411.11; the base itself is never rounded.
	assert.True(t, got.EmployeeContribution.Equal(dec("411.11")))
	// 12345.67 * 0.0667 = 823.456189 -> 823.46
	assert.True(t, got.EmployerContribution.Equal(dec("823.46")))
}

func TestComputeSocialSecurityNeverNegative(t *testing.T) {
	rule := SocialSecurityRule{Rate: dec("0.05"), EmployerRate: dec("0.05"), WageFloor: dec("0"), WageCeiling: dec("15000")}
	got := ComputeSocialSecurity(dec("-100"), rule)
	assert.True(t, got.EmployeeContribution.IsZero())
	assert.True(t, got.EmployerContribution.IsZero())
	assert.True(t, got.TotalContribution.IsZero())
}
