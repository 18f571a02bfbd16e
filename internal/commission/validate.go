package commission

import (
	"fmt"

	"dukanBack/internal/models"
)

const (
	minDuration = 1
	maxDuration = 24
)

// IssueLevel separates hard validation failures from warnings that are
// surfaced but do not block saving.
type IssueLevel string

const (
	LevelError   IssueLevel = "error"
	LevelWarning IssueLevel = "warning"
)

type ConfigIssue struct {
	Level   IssueLevel `json:"level"`
	Field   string     `json:"field"`
	Message string     `json:"message"`
}

func checkComponent(name string, c models.RateComponent, issues []ConfigIssue) []ConfigIssue {
	switch c.Type {
	case models.RateTypePercentage:
		if c.Value < 0 || c.Value > 100 {
			issues = append(issues, ConfigIssue{LevelError, name, fmt.Sprintf("percentage must be within [0,100], got %v", c.Value)})
		}
	case models.RateTypeFixed:
		if c.Value < 0 {
			issues = append(issues, ConfigIssue{LevelError, name, fmt.Sprintf("fixed amount must not be negative, got %v", c.Value)})
		}
	default:
		issues = append(issues, ConfigIssue{LevelError, name, fmt.Sprintf("unknown rate type %q", c.Type)})
	}
	return issues
}

// ValidateConfig checks component bounds for every component the model uses
// and the duration window for recurring/hybrid models.
func ValidateConfig(cfg models.CommissionConfig) []ConfigIssue {
	var issues []ConfigIssue

	usesOnetime := cfg.Model == models.CommissionModelOnetime || cfg.Model == models.CommissionModelHybrid
	usesRecurring := cfg.Model == models.CommissionModelRecurring || cfg.Model == models.CommissionModelHybrid

	switch cfg.Model {
	case models.CommissionModelOnetime, models.CommissionModelRecurring, models.CommissionModelHybrid:
	default:
		return append(issues, ConfigIssue{LevelError, "model", fmt.Sprintf("unknown commission model %q", cfg.Model)})
	}

	if usesOnetime {
		issues = checkComponent("onetime", cfg.Onetime, issues)
	}
	if usesRecurring {
		issues = checkComponent("recurring", cfg.Recurring, issues)
		if cfg.Duration < minDuration || cfg.Duration > maxDuration {
			issues = append(issues, ConfigIssue{LevelError, "duration", fmt.Sprintf("duration must be within [%d,%d] periods, got %d", minDuration, maxDuration, cfg.Duration)})
		}
	}
	return issues
}

// ValidateOverride validates both cycle configs of a plan override and flags
// the enabled-but-worthless case: an enabled override whose every configured
// value is zero means helpers earn nothing on the plan, which is almost
// always a configuration mistake. It is reported as a warning, never
// auto-corrected.
func ValidateOverride(o models.PlanOverride) []ConfigIssue {
	var issues []ConfigIssue
	for name, cfg := range map[string]models.CommissionConfig{"monthly": o.Monthly, "yearly": o.Yearly} {
		// an unset cycle config is absent, not invalid
		if cfg.Model == "" {
			continue
		}
		for _, issue := range ValidateConfig(cfg) {
			issue.Field = name + "." + issue.Field
			issues = append(issues, issue)
		}
	}
	if o.Enabled && allZero(o.Monthly) && allZero(o.Yearly) {
		issues = append(issues, ConfigIssue{LevelWarning, "enabled", "override is enabled but every configured value is zero; helpers will earn nothing on this plan"})
	}
	return issues
}

func allZero(cfg models.CommissionConfig) bool {
	return cfg.Onetime.Value == 0 && cfg.Recurring.Value == 0
}
