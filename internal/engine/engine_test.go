package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bruno.lopes/dutyroster/backend/internal/analyzer"
	"github.com/bruno.lopes/dutyroster/backend/internal/calendar"
	"github.com/bruno.lopes/dutyroster/backend/internal/modelbuilder"
	"github.com/bruno.lopes/dutyroster/backend/internal/paramadapter"
	"github.com/bruno.lopes/dutyroster/backend/internal/preprocessor"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

func window(start, end string) roster.Window {
	return roster.Window{Start: roster.MustParseDay(start), End: roster.MustParseDay(end)}
}

func peopleNamed(ids ...string) []roster.Person {
	people := make([]roster.Person, len(ids))
	for i, id := range ids {
		people[i] = roster.Person{ID: id, Name: id}
	}
	return people
}

func TestScenarioTrivialFeasible(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.MinRequiredPerDay = 1
	policy.MaxConsecutiveBase = 7
	policy.MinBaseBlock = 1

	in := roster.Input{
		Window: window("2025-01-01", "2025-01-07"),
		People: peopleNamed("P1", "P2", "P3"),
		Policy: policy,
	}

	result, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, roster.StatusOptimal, result.Status)
	require.NotNil(t, result.Schedule)
	for date, count := range result.Schedule.DailyBaseCount {
		assert.GreaterOrEqual(t, count, 1, "day %s undercovered", date)
	}
}

func TestScenarioUnavailabilityBlocksADay(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.MinRequiredPerDay = 1
	policy.MaxConsecutiveBase = 7
	policy.MinBaseBlock = 1

	people := peopleNamed("P1", "P2", "P3")
	people[0].UnavailableDays = []roster.Day{roster.MustParseDay("2025-01-03")}

	in := roster.Input{
		Window: window("2025-01-01", "2025-01-07"),
		People: people,
		Policy: policy,
	}

	result, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, result.Schedule)

	p1 := result.Schedule.People["P1"]
	for _, entry := range p1.Schedule {
		if entry.Date.String() == "2025-01-03" {
			assert.Equal(t, roster.Home, entry.Status)
		}
	}
	assert.GreaterOrEqual(t, result.Schedule.DailyBaseCount["2025-01-03"], 1)
}

func TestScenarioTightCoverage(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.MinRequiredPerDay = 2
	policy.MaxConsecutiveBase = 10
	policy.MinBaseBlock = 1

	in := roster.Input{
		Window: window("2025-02-01", "2025-02-10"),
		People: peopleNamed("P1", "P2"),
		Policy: policy,
	}

	result, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, roster.StatusOptimal, result.Status)
	require.NotNil(t, result.Schedule)
	for _, id := range []string{"P1", "P2"} {
		assert.Equal(t, 10, result.Schedule.People[id].TotalBase, "%s should be Base every day", id)
	}
}

func TestScenarioInfeasibleByConstruction(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.MinRequiredPerDay = 3
	policy.StrictConsecutiveLimits = true

	in := roster.Input{
		Window: window("2025-03-01", "2025-03-05"),
		People: peopleNamed("P1", "P2"),
		Policy: policy,
	}

	result, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, roster.StatusInfeasible, result.Status)
	assert.Nil(t, result.Schedule)
	assert.Less(t, result.Diagnostics.AvailabilityRatio, 1.0)
}

func TestScenarioMinBlockPreference(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.MinRequiredPerDay = 2
	policy.MinBaseBlock = 3
	policy.AllowSingleDayBlocks = false
	policy.AllowEdgeShortBlocks = false
	policy.MaxConsecutiveBase = 14

	in := roster.Input{
		Window: window("2025-04-01", "2025-04-14"),
		People: peopleNamed("P1", "P2", "P3", "P4", "P5"),
		Policy: policy,
	}

	result, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	if result.Schedule == nil {
		t.Skip("backend could not find a feasible assignment for this tight instance")
	}

	model := buildModelFor(t, in)
	assignment := assignmentFrom(model, result.Schedule)
	for p, spec := range model.Persons {
		for _, r := range assignment.Runs(p) {
			if !r.Base {
				continue
			}
			if r.Len() < 3 && !(r.TouchesEdge(model.NumDays()) && policy.AllowEdgeShortBlocks) {
				t.Errorf("%s has an out-of-policy short Base run: %+v", spec.ID, r)
			}
		}
	}
}

func TestScenarioWeekendOnly(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.MinRequiredPerDay = 1
	policy.WeekendOnlyMaxBase = 2
	policy.MaxConsecutiveBase = 10
	policy.MinBaseBlock = 1

	people := peopleNamed("P1", "P2", "P3", "P4")
	people = append(people, roster.Person{ID: "WO", Name: "WO", WeekendOnly: true})

	in := roster.Input{
		Window: window("2025-05-01", "2025-05-31"),
		People: people,
		Policy: policy,
	}

	result, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, result.Schedule)

	wo := result.Schedule.People["WO"]
	if wo.TotalBase == 0 {
		t.Skip("weekend-only person was never scheduled Base in this run")
	}
	weekendBaseCount := 0
	for _, entry := range wo.Schedule {
		if entry.Status == roster.Base && entry.Weekend {
			weekendBaseCount++
		}
	}
	assert.GreaterOrEqualf(t, float64(weekendBaseCount)/float64(wo.TotalBase), 0.6,
		"weekend-only person's Base days should be mostly weekend days")
}

// Round-trips a solved schedule back into the assignment grid and
// re-checks every hard constraint against it.
func TestInvariantRoundTripAgainstHardConstraints(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.MinRequiredPerDay = 1
	maxHome := 4
	maxWeekend := 2
	policy.MaxTotalHome = &maxHome
	policy.MaxWeekendBase = &maxWeekend

	in := roster.Input{
		Window: window("2026-06-01", "2026-06-14"),
		People: peopleNamed("P1", "P2", "P3"),
		Policy: policy,
	}

	result, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, result.Schedule)

	model := buildModelFor(t, in)
	assignment := assignmentFrom(model, result.Schedule)
	ok, violations := modelbuilder.CheckHard(model, assignment)
	assert.True(t, ok, "round-tripped assignment violates hard constraints: %+v", violations)
}

func TestInvariantDeterminism(t *testing.T) {
	seed := int64(7)
	policy := roster.NewDefaultPolicy()
	policy.MinRequiredPerDay = 1

	in := roster.Input{
		Window:     window("2026-06-01", "2026-06-20"),
		People:     peopleNamed("P1", "P2", "P3", "P4"),
		Policy:     policy,
		RandomSeed: &seed,
	}

	first, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	second, err := New().Solve(context.Background(), in)
	require.NoError(t, err)

	require.NotNil(t, first.Schedule)
	require.NotNil(t, second.Schedule)
	for id, ps := range first.Schedule.People {
		other := second.Schedule.People[id]
		assert.Equal(t, ps.Schedule, other.Schedule, "person %s schedule differs across identical-seed runs", id)
	}
}

func TestCustomWeekendDaysFlowThroughToSchedule(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.Weekend = nil
	policy.WeekendDays = []string{"sunday"}

	in := roster.Input{
		Window: window("2025-06-01", "2025-06-07"), // June 1st 2025 is a Sunday
		People: peopleNamed("P1", "P2", "P3"),
		Policy: policy,
	}

	result, err := New().Solve(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, result.Schedule)

	for _, ps := range result.Schedule.People {
		for _, entry := range ps.Schedule {
			wantWeekend := entry.Date.String() == "2025-06-01"
			assert.Equal(t, wantWeekend, entry.Weekend, "weekend flag wrong for %s", entry.Date)
		}
	}
}

func TestInvalidWeekendDayNameIsRejected(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	policy.Weekend = nil
	policy.WeekendDays = []string{"funday"}

	in := roster.Input{
		Window: window("2025-06-01", "2025-06-07"),
		People: peopleNamed("P1"),
		Policy: policy,
	}

	_, err := New().Solve(context.Background(), in)
	require.Error(t, err)
	var invalidPolicy *roster.InvalidPolicyError
	assert.ErrorAs(t, err, &invalidPolicy)
}

func TestValidationErrorsSurfaceBeforeSolving(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	in := roster.Input{
		Window: window("2026-01-10", "2026-01-01"), // end before start
		People: peopleNamed("P1"),
		Policy: policy,
	}

	_, err := New().Solve(context.Background(), in)
	require.Error(t, err)
	var invalidWindow *roster.InvalidWindowError
	assert.ErrorAs(t, err, &invalidWindow)
}

func TestDuplicateIdentityIsRejected(t *testing.T) {
	policy := roster.NewDefaultPolicy()
	in := roster.Input{
		Window: window("2026-01-01", "2026-01-07"),
		People: []roster.Person{{ID: "p1", Name: "Alice"}, {ID: "p1", Name: "Bob"}},
		Policy: policy,
	}

	_, err := New().Solve(context.Background(), in)
	require.Error(t, err)
	var dup *roster.DuplicateIdentityError
	assert.ErrorAs(t, err, &dup)
}

// --- test-local helpers to re-derive a CSPModel/Assignment from a
// solved Result, mirroring what the engine itself built internally,
// so invariant tests can run modelbuilder.CheckHard against the
// public Solve contract without the engine exposing its pipeline
// internals.

func buildModelFor(t *testing.T, in roster.Input) modelbuilder.CSPModel {
	t.Helper()
	cal, err := calendar.New(in.Window, in.Policy.WeekendSetOrDefault())
	require.NoError(t, err)

	effective := preprocessor.Process(cal, in.People, in.Policy)
	analysis := analyzer.Analyze(effective, cal.Len(), in.Policy)
	penalties := paramadapter.Adapt(analysis.Difficulty, in.Policy)
	return modelbuilder.Build(cal, effective, in.Policy, penalties, in.Seed())
}

func assignmentFrom(m modelbuilder.CSPModel, solution *roster.Solution) modelbuilder.Assignment {
	a := modelbuilder.NewAssignment(m)
	for p, spec := range m.Persons {
		ps, ok := solution.People[spec.ID]
		if !ok {
			continue
		}
		for d, entry := range ps.Schedule {
			a[p][d] = entry.Status == roster.Base
		}
	}
	return a
}
