package modelbuilder

import (
	"fmt"
	"math"
)

// Violation is one hard-constraint breach detected against an
// Assignment. The local-search backend and the test suite use these
// to check an assignment against the model it came from.
type Violation struct {
	Kind     string
	PersonID string
	DayIndex int
	Message  string
}

// CheckHard verifies every hard constraint against a concrete
// assignment. It returns ok==false if any hard constraint is broken,
// together with the full list of violations found (not just the
// first) so callers can report or repair around all of them.
func CheckHard(m CSPModel, a Assignment) (bool, []Violation) {
	var violations []Violation

	for p, spec := range m.Persons {
		// Unavailability forces Home.
		for d := range m.Days {
			if spec.Unavailable[d] && a[p][d] {
				violations = append(violations, Violation{
					Kind: "unavailability", PersonID: spec.ID, DayIndex: d,
					Message: fmt.Sprintf("%s assigned Base on an unavailable day", spec.ID),
				})
			}
		}

		// Consecutive-run caps, both states.
		for _, r := range a.Runs(p) {
			if r.Base && r.Len() > spec.MaxConsecutiveBase {
				violations = append(violations, Violation{
					Kind: "max_consecutive_base", PersonID: spec.ID, DayIndex: r.Start,
					Message: fmt.Sprintf("%s has a %d-day Base run exceeding cap %d", spec.ID, r.Len(), spec.MaxConsecutiveBase),
				})
			}
			if !r.Base && r.Len() > spec.MaxConsecutiveHome {
				violations = append(violations, Violation{
					Kind: "max_consecutive_home", PersonID: spec.ID, DayIndex: r.Start,
					Message: fmt.Sprintf("%s has a %d-day Home run exceeding cap %d", spec.ID, r.Len(), spec.MaxConsecutiveHome),
				})
			}

			// Minimum Base block, subject to the edge rule and the
			// allow-single-day-blocks soft downgrade.
			if r.Base && r.Len() < m.MinBaseBlock && !m.AllowSingleDayBlocks {
				if r.TouchesEdge(m.NumDays()) && m.AllowEdgeShortBlocks {
					continue
				}
				violations = append(violations, Violation{
					Kind: "min_base_block", PersonID: spec.ID, DayIndex: r.Start,
					Message: fmt.Sprintf("%s has a %d-day Base block shorter than minimum %d", spec.ID, r.Len(), m.MinBaseBlock),
				})
			}
		}

		// Total Home cap.
		if m.MaxTotalHome != nil && a.CountHome(p) > *m.MaxTotalHome {
			violations = append(violations, Violation{
				Kind: "max_total_home", PersonID: spec.ID,
				Message: fmt.Sprintf("%s has %d Home days exceeding cap %d", spec.ID, a.CountHome(p), *m.MaxTotalHome),
			})
		}

		// Weekend Base cap.
		if m.MaxWeekendBase != nil && a.CountWeekendBase(p, m.Weekend) > *m.MaxWeekendBase {
			violations = append(violations, Violation{
				Kind: "max_weekend_base", PersonID: spec.ID,
				Message: fmt.Sprintf("%s has %d weekend Base days exceeding cap %d", spec.ID, a.CountWeekendBase(p, m.Weekend), *m.MaxWeekendBase),
			})
		}
	}

	// Daily coverage, hard only when StrictConsecutiveLimits.
	if m.StrictConsecutiveLimits {
		counts := a.DailyBaseCount()
		for d, c := range counts {
			if c < m.MinRequiredPerDay {
				violations = append(violations, Violation{
					Kind: "daily_coverage", DayIndex: d,
					Message: fmt.Sprintf("day %d has %d Base, below minimum %d", d, c, m.MinRequiredPerDay),
				})
			}
		}
	}

	return len(violations) == 0, violations
}

// Shortfall returns, for each day, max(0, min_required_per_day -
// daily_base_count) — the coverage slack, whether or not coverage is
// currently being enforced as a hard constraint.
func Shortfall(m CSPModel, a Assignment) []int {
	counts := a.DailyBaseCount()
	out := make([]int, len(counts))
	for d, c := range counts {
		if s := m.MinRequiredPerDay - c; s > 0 {
			out[d] = s
		}
	}
	return out
}

// ObjectiveBreakdown is the per-term decomposition of the soft
// objective. The local-search backend reads only Total; the
// individual terms are there for diagnostics and tests.
type ObjectiveBreakdown struct {
	Shortage        float64
	ZeroWork        float64
	HomeBalance     float64
	WeekendFair     float64
	LongBlockSoft   float64
	ShortBlock      float64
	WeekendOnlyOff  float64
	TieBreak        float64
	Total           float64
}

// Tie-break epsilons. Both terms sit far below every real penalty so
// they only ever separate otherwise-equal solutions: first prefer a
// smaller maximum consecutive-Base run across persons, then
// lexicographically earlier Base days. One step of the run term must
// outweigh the largest possible lexicographic sum, hence the gap
// between the two scales.
const (
	epsMaxRun = 1e-3
	epsLex    = 1e-9
)

// Objective evaluates the full soft objective for an assignment.
func Objective(m CSPModel, a Assignment) ObjectiveBreakdown {
	var b ObjectiveBreakdown
	pen := m.Penalties

	for _, s := range Shortfall(m, a) {
		b.Shortage += float64(s) * pen.DailyShortage
	}

	weekendBase := make([]int, len(m.Persons))
	maxRun := 0
	for p, spec := range m.Persons {
		if a.CountBase(p) == 0 {
			b.ZeroWork += pen.ZeroWork
		}

		if pen.EnableHomeBalance {
			dev := math.Abs(float64(a.CountHome(p) - spec.HomeTarget))
			b.HomeBalance += dev * pen.HomeBalanceWeight
		}

		weekendBase[p] = a.CountWeekendBase(p, m.Weekend)

		if spec.WeekendOnly {
			for d, v := range a[p] {
				if v && !m.Weekend[d] {
					b.WeekendOnlyOff += pen.LongBlockSoftOverCap
				}
			}
		}

		for d, v := range a[p] {
			if v {
				b.TieBreak += epsLex * float64(d)
			}
		}

		for _, r := range a.Runs(p) {
			if r.Base && r.Len() > maxRun {
				maxRun = r.Len()
			}
			if !r.Base {
				continue
			}
			switch {
			case r.Len() == spec.MaxConsecutiveBase:
				b.LongBlockSoft += pen.CriticalLongBlock
			case r.Len() == spec.MaxConsecutiveBase-1 && spec.MaxConsecutiveBase > 1:
				b.LongBlockSoft += pen.LongBlockSoftOverCap
			}
			if pen.AllowSingleDayBlocks && r.Len() < m.MinBaseBlock {
				b.ShortBlock += pen.OneDayBlock
			}
		}
	}

	if pen.EnableWeekendFairness && len(weekendBase) > 0 {
		sum := 0
		for _, wb := range weekendBase {
			sum += wb
		}
		mean := int(math.Round(float64(sum) / float64(len(weekendBase))))
		for _, wb := range weekendBase {
			b.WeekendFair += math.Abs(float64(wb-mean)) * pen.WeekendFairnessWeight
		}
	}

	b.TieBreak += epsMaxRun * float64(maxRun)

	b.Total = b.Shortage + b.ZeroWork + b.HomeBalance + b.WeekendFair + b.LongBlockSoft + b.ShortBlock + b.WeekendOnlyOff + b.TieBreak
	return b
}
