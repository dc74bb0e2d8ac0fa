// Package analyzer computes aggregate availability for a solve
// instance and classifies its difficulty, which the parameter
// adapter then maps to a penalty schedule.
package analyzer

import (
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// Analysis is the analyzer's output, consumed by the parameter
// adapter and surfaced verbatim in Diagnostics.
type Analysis struct {
	TotalDays         int
	RequiredTotal     int
	TotalAvailable    int
	AvailabilityRatio float64
	HeavyCount        int
	Difficulty        roster.Difficulty
}

const heavyConstraintDensity = 0.4

// Analyze computes the difficulty classification for a solve
// instance from its effective people, window length, and policy.
func Analyze(effective []roster.EffectivePerson, windowDays int, policy roster.Policy) Analysis {
	requiredTotal := windowDays * policy.MinRequiredPerDay

	totalAvailable := 0
	heavyCount := 0
	for _, p := range effective {
		available := windowDays - len(p.Unavailable)
		totalAvailable += available

		density := 0.0
		if windowDays > 0 {
			density = float64(len(p.Unavailable)) / float64(windowDays)
		}
		if density > heavyConstraintDensity {
			heavyCount++
		}
	}

	denominator := requiredTotal
	if denominator < 1 {
		denominator = 1
	}
	availabilityRatio := float64(totalAvailable) / float64(denominator)

	return Analysis{
		TotalDays:         windowDays,
		RequiredTotal:     requiredTotal,
		TotalAvailable:    totalAvailable,
		AvailabilityRatio: availabilityRatio,
		HeavyCount:        heavyCount,
		Difficulty:        classify(heavyCount, availabilityRatio),
	}
}

// classify applies the first-match difficulty table. Order matters:
// APOCALYPTIC is checked before EXTREME before HARD before the
// MEDIUM fallback.
func classify(heavyCount int, availabilityRatio float64) roster.Difficulty {
	switch {
	case heavyCount >= 3 || availabilityRatio < 1.1:
		return roster.DifficultyApocalyptic
	case heavyCount >= 2 || availabilityRatio < 1.3:
		return roster.DifficultyExtreme
	case heavyCount >= 1 || availabilityRatio < 1.5:
		return roster.DifficultyHard
	default:
		return roster.DifficultyMedium
	}
}
