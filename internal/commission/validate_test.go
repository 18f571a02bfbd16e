package commission

import (
	"testing"

	"dukanBack/internal/models"
)

func hasIssue(issues []ConfigIssue, level IssueLevel, field string) bool {
	for _, issue := range issues {
		if issue.Level == level && issue.Field == field {
			return true
		}
	}
	return false
}

func TestValidateConfig(t *testing.T) {
	cases := []struct {
		name  string
		cfg   models.CommissionConfig
		level IssueLevel
		field string
	}{
		{"percentage above 100", pctConfig(models.CommissionModelOnetime, 120, 0, 0), LevelError, "onetime"},
		{"negative percentage", pctConfig(models.CommissionModelRecurring, 0, -5, 6), LevelError, "recurring"},
		{"negative fixed", fixedConfig(models.CommissionModelOnetime, -1, 0, 0), LevelError, "onetime"},
		{"duration zero", pctConfig(models.CommissionModelRecurring, 0, 10, 0), LevelError, "duration"},
		{"duration above 24", pctConfig(models.CommissionModelHybrid, 10, 5, 25), LevelError, "duration"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			issues := ValidateConfig(tc.cfg)
			if !hasIssue(issues, tc.level, tc.field) {
				t.Fatalf("expected %s issue on %q, got %+v", tc.level, tc.field, issues)
			}
		})
	}

	t.Run("valid config has no issues", func(t *testing.T) {
		if issues := ValidateConfig(pctConfig(models.CommissionModelHybrid, 10, 5, 12)); len(issues) != 0 {
			t.Fatalf("expected no issues, got %+v", issues)
		}
	})

	t.Run("onetime model ignores duration", func(t *testing.T) {
		if issues := ValidateConfig(pctConfig(models.CommissionModelOnetime, 10, 0, 0)); len(issues) != 0 {
			t.Fatalf("expected no issues, got %+v", issues)
		}
	})
}

func TestValidateOverrideFlagsEnabledAllZero(t *testing.T) {
	o := models.PlanOverride{
		Enabled: true,
		Monthly: pctConfig(models.CommissionModelOnetime, 0, 0, 0),
		Yearly:  pctConfig(models.CommissionModelOnetime, 0, 0, 0),
	}
	issues := ValidateOverride(o)
	if !hasIssue(issues, LevelWarning, "enabled") {
		t.Fatalf("expected enabled-all-zero warning, got %+v", issues)
	}

	o.Enabled = false
	if issues := ValidateOverride(o); hasIssue(issues, LevelWarning, "enabled") {
		t.Fatalf("disabled override must not warn, got %+v", issues)
	}
}
