package engine

import (
	"fmt"

	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// validate raises every validation error before any model
// construction happens; the first problem found is returned.
func validate(in roster.Input) error {
	if in.Window.End.Before(in.Window.Start) {
		return &roster.InvalidWindowError{
			Field: "window.end", Rule: "end >= start",
			Value: in.Window.End.String() + " < " + in.Window.Start.String(),
		}
	}
	if len(in.People) == 0 {
		return &roster.InvalidWindowError{
			Field: "people", Rule: "non-empty", Value: "0",
		}
	}

	if err := validatePolicy(in.Policy, in.Window.Length()); err != nil {
		return err
	}

	return validateIdentities(in.People)
}

func validatePolicy(p roster.Policy, windowLength int) error {
	type check struct {
		field string
		rule  string
		bad   bool
		value string
	}
	checks := []check{
		{"max_consecutive_base", "max_consecutive_base >= 1", p.MaxConsecutiveBase < 1, fmt.Sprint(p.MaxConsecutiveBase)},
		{"max_consecutive_home", "max_consecutive_home >= 1", p.MaxConsecutiveHome < 1, fmt.Sprint(p.MaxConsecutiveHome)},
		{"min_base_block", "min_base_block >= 1", p.MinBaseBlock < 1, fmt.Sprint(p.MinBaseBlock)},
		{"min_required_per_day", "min_required_per_day >= 0", p.MinRequiredPerDay < 0, fmt.Sprint(p.MinRequiredPerDay)},
		{"default_base_target", "default_base_target >= 0", p.DefaultBaseTarget < 0, fmt.Sprint(p.DefaultBaseTarget)},
		{"default_home_target", "default_home_target >= 0", p.DefaultHomeTarget < 0, fmt.Sprint(p.DefaultHomeTarget)},
		{"home_balance_weight", "home_balance_weight >= 0", p.HomeBalanceWeight < 0, fmt.Sprint(p.HomeBalanceWeight)},
		{"weekend_fairness_weight", "weekend_fairness_weight >= 0", p.WeekendFairnessWeight < 0, fmt.Sprint(p.WeekendFairnessWeight)},
		{"time_budget_seconds", "time_budget_seconds > 0", p.TimeBudgetSeconds <= 0, fmt.Sprint(p.TimeBudgetSeconds)},
		{
			"default_base_target+default_home_target",
			"default_base_target + default_home_target <= window_length",
			p.DefaultBaseTarget+p.DefaultHomeTarget > windowLength,
			fmt.Sprintf("%d > %d", p.DefaultBaseTarget+p.DefaultHomeTarget, windowLength),
		},
	}
	for _, c := range checks {
		if c.bad {
			return &roster.InvalidPolicyError{Field: c.field, Rule: c.rule, Value: c.value}
		}
	}

	if len(p.WeekendDays) > 0 {
		if _, err := roster.ParseWeekendNames(p.WeekendDays); err != nil {
			return &roster.InvalidPolicyError{
				Field: "weekend_days", Rule: "lowercase weekday names",
				Value: fmt.Sprint(p.WeekendDays),
			}
		}
	}
	return nil
}

func validateIdentities(people []roster.Person) error {
	ids := make(map[string]bool, len(people))
	names := make(map[string]bool, len(people))
	for _, p := range people {
		if ids[p.ID] {
			return &roster.DuplicateIdentityError{Field: "id", Value: p.ID}
		}
		ids[p.ID] = true
		if names[p.Name] {
			return &roster.DuplicateIdentityError{Field: "name", Value: p.Name}
		}
		names[p.Name] = true
	}
	return nil
}
