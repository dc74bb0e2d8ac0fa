// Package preprocessor turns each caller-supplied Person into a pure
// EffectivePerson snapshot, applying constraint-density-based
// auto-exceptional marking and the per-person overrides, without ever
// mutating the input Person.
package preprocessor

import (
	"math"

	"github.com/bruno.lopes/dutyroster/backend/internal/calendar"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// Process derives the EffectivePerson slice for every person in
// people, given cal (already validated) and policy.
func Process(cal *calendar.Calendar, people []roster.Person, policy roster.Policy) []roster.EffectivePerson {
	windowDays := cal.Len()
	out := make([]roster.EffectivePerson, len(people))

	for i, p := range people {
		out[i] = processOne(cal, p, policy, windowDays)
	}
	return out
}

func processOne(cal *calendar.Calendar, p roster.Person, policy roster.Policy, windowDays int) roster.EffectivePerson {
	// Step 1: intersect unavailable_days with the window; entries
	// outside are dropped silently.
	unavailable := make(map[string]bool, len(p.UnavailableDays))
	for _, d := range p.UnavailableDays {
		if cal.Window().Contains(d) {
			unavailable[d.String()] = true
		}
	}
	unavailCount := len(unavailable)

	// Caller-marked exceptional is monotonic: auto-marking can only
	// turn it on, never off.
	exceptional := p.Exceptional
	if policy.AutoAdjustForConstraints && windowDays > 0 {
		density := float64(unavailCount) / float64(windowDays)
		thresholdDensity := float64(policy.ExceptionalThreshold) / float64(windowDays)
		if density > thresholdDensity || unavailCount > policy.ExceptionalThreshold {
			exceptional = true
		}
	}

	homeTarget := policy.DefaultHomeTarget
	if p.HomeTarget != nil {
		homeTarget = *p.HomeTarget
	} else if exceptional {
		bump := int(math.Ceil(float64(policy.DefaultHomeTarget) * float64(policy.ConstraintSafetyMarginPct) / 100))
		homeTarget += bump
	}

	baseTarget := policy.DefaultBaseTarget
	if p.BaseTarget != nil {
		baseTarget = *p.BaseTarget
	}

	maxConsecutiveBase := policy.MaxConsecutiveBase
	if p.MaxConsecutiveBase != nil {
		maxConsecutiveBase = *p.MaxConsecutiveBase
	}
	if p.WeekendOnly {
		if maxConsecutiveBase > policy.WeekendOnlyMaxBase {
			maxConsecutiveBase = policy.WeekendOnlyMaxBase
		}
	}

	maxConsecutiveHome := policy.MaxConsecutiveHome
	if p.MaxConsecutiveHome != nil {
		maxConsecutiveHome = *p.MaxConsecutiveHome
	}

	return roster.EffectivePerson{
		ID:                 p.ID,
		Name:               p.Name,
		Unavailable:        unavailable,
		Exceptional:        exceptional,
		WeekendOnly:        p.WeekendOnly,
		BaseTarget:         baseTarget,
		HomeTarget:         homeTarget,
		MaxConsecutiveBase: maxConsecutiveBase,
		MaxConsecutiveHome: maxConsecutiveHome,
	}
}
