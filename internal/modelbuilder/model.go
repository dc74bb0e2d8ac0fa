// Package modelbuilder turns effective people, the calendar, and the
// adapted penalty schedule into a backend-agnostic constraint model
// over the (person, day) grid. The model is a plain value type — any Solver
// Driver backend (the default in-process localsearch backend, or the
// optional CP-SAT backend) consumes the same CSPModel and is free to
// represent decision variables however it likes internally.
package modelbuilder

import (
	"github.com/bruno.lopes/dutyroster/backend/internal/calendar"
	"github.com/bruno.lopes/dutyroster/backend/internal/paramadapter"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// PersonSpec is one person's row of the (person, day) grid, with
// every per-person hard-constraint parameter already resolved by the
// Person Preprocessor.
type PersonSpec struct {
	ID   string
	Name string

	// Unavailable[d] true means x[p,d] is forced to Home.
	Unavailable []bool

	MaxConsecutiveBase int
	MaxConsecutiveHome int
	BaseTarget         int
	HomeTarget         int
	WeekendOnly        bool
}

// CSPModel is the complete, backend-agnostic constraint model for one
// solve. Decision variables x[p,d] are implicit —
// they are the grid itself (len(Persons) x len(Days)) — booleans
// where true means Base.
type CSPModel struct {
	Days    []roster.Day
	Weekend []bool // Weekend[d] true iff Days[d] is a weekend day
	Persons []PersonSpec

	MinRequiredPerDay       int
	MinBaseBlock            int
	AllowSingleDayBlocks    bool
	AllowEdgeShortBlocks    bool // edge-runt boundary rule
	StrictConsecutiveLimits bool // coverage hard-vs-soft switch

	MaxTotalHome   *int
	MaxWeekendBase *int

	Penalties paramadapter.Penalties

	TimeBudgetSeconds int
	RandomSeed        int64
}

// Build assembles the CSPModel from the calendar, the effective
// people produced by the Person Preprocessor, the original Policy
// (for the hard-constraint caps not carried on EffectivePerson), and
// the adapted Penalties.
func Build(cal *calendar.Calendar, effective []roster.EffectivePerson, policy roster.Policy, penalties paramadapter.Penalties, seed int64) CSPModel {
	days := cal.Days()
	weekend := make([]bool, len(days))
	for i, d := range days {
		weekend[i] = cal.IsWeekend(d)
	}

	persons := make([]PersonSpec, len(effective))
	for i, ep := range effective {
		unavail := make([]bool, len(days))
		for j, d := range days {
			unavail[j] = ep.IsUnavailable(d)
		}
		persons[i] = PersonSpec{
			ID:                 ep.ID,
			Name:               ep.Name,
			Unavailable:        unavail,
			MaxConsecutiveBase: ep.MaxConsecutiveBase,
			MaxConsecutiveHome: ep.MaxConsecutiveHome,
			BaseTarget:         ep.BaseTarget,
			HomeTarget:         ep.HomeTarget,
			WeekendOnly:        ep.WeekendOnly,
		}
	}

	return CSPModel{
		Days:                    days,
		Weekend:                 weekend,
		Persons:                 persons,
		MinRequiredPerDay:       policy.MinRequiredPerDay,
		MinBaseBlock:            policy.MinBaseBlock,
		AllowSingleDayBlocks:    policy.AllowSingleDayBlocks,
		AllowEdgeShortBlocks:    policy.AllowEdgeShortBlocks,
		StrictConsecutiveLimits: policy.StrictConsecutiveLimits,
		MaxTotalHome:            policy.MaxTotalHome,
		MaxWeekendBase:          policy.MaxWeekendBase,
		Penalties:               penalties,
		TimeBudgetSeconds:       policy.TimeBudgetSeconds,
		RandomSeed:              seed,
	}
}

// NumDays returns the grid's day dimension.
func (m CSPModel) NumDays() int { return len(m.Days) }

// NumPersons returns the grid's person dimension.
func (m CSPModel) NumPersons() int { return len(m.Persons) }
