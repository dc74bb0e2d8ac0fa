package modelbuilder

import (
	"testing"

	"github.com/bruno.lopes/dutyroster/backend/internal/paramadapter"
)

func TestCheckHardDetectsUnavailabilityViolation(t *testing.T) {
	m := tinyModel(1, 3)
	m.Persons[0].Unavailable[1] = true
	a := NewAssignment(m)
	a[0][1] = true // Base on an unavailable day

	ok, violations := CheckHard(m, a)
	if ok {
		t.Fatal("expected CheckHard to fail")
	}
	if len(violations) != 1 || violations[0].Kind != "unavailability" {
		t.Errorf("got violations %+v, want a single unavailability violation", violations)
	}
}

func TestCheckHardDetectsConsecutiveBaseOverrun(t *testing.T) {
	m := tinyModel(1, 5)
	m.Persons[0].MaxConsecutiveBase = 2
	a := NewAssignment(m)
	a[0] = []bool{true, true, true, false, false}

	ok, violations := CheckHard(m, a)
	if ok {
		t.Fatal("expected CheckHard to fail")
	}
	found := false
	for _, v := range violations {
		if v.Kind == "max_consecutive_base" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a max_consecutive_base violation, got %+v", violations)
	}
}

func TestCheckHardMinBaseBlockEdgeRule(t *testing.T) {
	m := tinyModel(1, 5)
	m.MinBaseBlock = 3
	m.AllowSingleDayBlocks = false
	a := NewAssignment(m)
	a[0] = []bool{false, false, false, false, true} // 1-day Base run touching the edge

	m.AllowEdgeShortBlocks = false
	ok, violations := CheckHard(m, a)
	if ok {
		t.Fatal("expected a min_base_block violation when AllowEdgeShortBlocks is false")
	}
	found := false
	for _, v := range violations {
		if v.Kind == "min_base_block" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a min_base_block violation, got %+v", violations)
	}

	m.AllowEdgeShortBlocks = true
	ok, violations = CheckHard(m, a)
	if !ok {
		t.Errorf("expected the same short edge block to be tolerated once AllowEdgeShortBlocks is true, got violations %+v", violations)
	}
}

func TestCheckHardCoverageIsSoftWhenNotStrict(t *testing.T) {
	m := tinyModel(1, 2)
	m.MinRequiredPerDay = 2
	m.StrictConsecutiveLimits = false
	a := NewAssignment(m) // nobody Base on any day: coverage always short

	ok, violations := CheckHard(m, a)
	if !ok {
		t.Errorf("coverage should not be a hard violation when StrictConsecutiveLimits is false, got %+v", violations)
	}
}

func TestCheckHardCoverageIsHardWhenStrict(t *testing.T) {
	m := tinyModel(1, 2)
	m.MinRequiredPerDay = 1
	m.StrictConsecutiveLimits = true
	a := NewAssignment(m)

	ok, _ := CheckHard(m, a)
	if ok {
		t.Errorf("coverage shortage should be a hard violation when StrictConsecutiveLimits is true")
	}
}

func TestCheckHardCapsOnTotalHomeAndWeekendBase(t *testing.T) {
	m := tinyModel(1, 4)
	m.Weekend = []bool{false, true, true, false}
	maxHome := 1
	maxWeekend := 1
	m.MaxTotalHome = &maxHome
	m.MaxWeekendBase = &maxWeekend

	a := NewAssignment(m)
	a[0] = []bool{true, true, true, false} // 1 Home day, 2 weekend Base days

	ok, violations := CheckHard(m, a)
	if ok {
		t.Fatal("expected a weekend Base cap violation")
	}
	var kinds []string
	for _, v := range violations {
		kinds = append(kinds, v.Kind)
	}
	found := false
	for _, k := range kinds {
		if k == "max_weekend_base" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected max_weekend_base among violations, got %v", kinds)
	}
}

func TestShortfallComputesPositiveSlackOnly(t *testing.T) {
	m := tinyModel(2, 3)
	m.MinRequiredPerDay = 2
	a := NewAssignment(m)
	a[0] = []bool{true, true, false}
	a[1] = []bool{false, true, false}

	got := Shortfall(m, a)
	want := []int{1, 0, 2}
	for d := range want {
		if got[d] != want[d] {
			t.Errorf("Shortfall[%d] = %d, want %d", d, got[d], want[d])
		}
	}
}

func TestObjectivePenalizesZeroWork(t *testing.T) {
	m := tinyModel(1, 3)
	m.Penalties = paramadapter.Penalties{ZeroWork: 100}
	a := NewAssignment(m) // person never Base

	got := Objective(m, a)
	if got.ZeroWork != 100 {
		t.Errorf("ZeroWork = %f, want 100", got.ZeroWork)
	}
}

func TestObjectiveHomeBalanceOnlyWhenEnabled(t *testing.T) {
	m := tinyModel(1, 4)
	m.Persons[0].HomeTarget = 1
	m.Penalties = paramadapter.Penalties{HomeBalanceWeight: 10, EnableHomeBalance: false}
	a := NewAssignment(m) // 4 Home days, target 1: deviation 3

	got := Objective(m, a)
	if got.HomeBalance != 0 {
		t.Errorf("HomeBalance should be 0 when EnableHomeBalance is false, got %f", got.HomeBalance)
	}

	m.Penalties.EnableHomeBalance = true
	got = Objective(m, a)
	if got.HomeBalance != 30 {
		t.Errorf("HomeBalance = %f, want 30 (|4-1| * 10)", got.HomeBalance)
	}
}

func TestObjectiveWeekendFairnessSpreadsAroundTheMean(t *testing.T) {
	m := tinyModel(2, 4)
	m.Weekend = []bool{true, true, false, false}
	m.Penalties = paramadapter.Penalties{WeekendFairnessWeight: 1, EnableWeekendFairness: true}
	a := NewAssignment(m)
	a[0] = []bool{true, true, false, false}  // 2 weekend Base
	a[1] = []bool{false, false, false, false} // 0 weekend Base

	got := Objective(m, a)
	// mean = 1, deviations |2-1| + |0-1| = 2
	if got.WeekendFair != 2 {
		t.Errorf("WeekendFair = %f, want 2", got.WeekendFair)
	}
}

func TestObjectiveWeekendOnlyWeekdayBase(t *testing.T) {
	m := tinyModel(1, 4)
	m.Weekend = []bool{false, true, true, false}
	m.Persons[0].WeekendOnly = true
	m.Penalties = paramadapter.Penalties{LongBlockSoftOverCap: 7}

	a := NewAssignment(m)
	a[0] = []bool{true, true, false, true} // two weekday Base days, one weekend

	got := Objective(m, a)
	if got.WeekendOnlyOff != 14 {
		t.Errorf("WeekendOnlyOff = %f, want 14 (2 weekday Base days * 7)", got.WeekendOnlyOff)
	}
}

func TestObjectiveTieBreakPrefersShorterRunsAndEarlierDays(t *testing.T) {
	m := tinyModel(2, 6)

	longRun := NewAssignment(m)
	longRun[0] = []bool{true, true, true, true, false, false}
	split := NewAssignment(m)
	split[0] = []bool{true, true, false, true, true, false}

	if Objective(m, split).TieBreak >= Objective(m, longRun).TieBreak {
		t.Errorf("splitting a long Base run should reduce the tie-break term")
	}

	early := NewAssignment(m)
	early[1] = []bool{true, false, false, false, false, false}
	late := NewAssignment(m)
	late[1] = []bool{false, false, false, false, false, true}

	if Objective(m, early).TieBreak >= Objective(m, late).TieBreak {
		t.Errorf("an earlier Base day should score a lower tie-break term than a later one")
	}
}

func TestObjectiveTotalIsSumOfTerms(t *testing.T) {
	m := tinyModel(1, 2)
	m.Penalties = paramadapter.Penalties{ZeroWork: 5, DailyShortage: 2}
	m.MinRequiredPerDay = 1
	a := NewAssignment(m)

	got := Objective(m, a)
	sum := got.Shortage + got.ZeroWork + got.HomeBalance + got.WeekendFair + got.LongBlockSoft + got.ShortBlock + got.WeekendOnlyOff + got.TieBreak
	if got.Total != sum {
		t.Errorf("Total does not equal the sum of its parts: %+v", got)
	}
}
