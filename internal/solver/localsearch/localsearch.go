// Package localsearch is the default, always-buildable solver
// backend: a seeded greedy construction followed by
// simulated-annealing repair, bounded by the model's time budget. It
// needs no external process or C library, at the cost of proving
// optimality only by convergence.
package localsearch

import (
	"context"
	"math"
	"math/rand"

	"github.com/bruno.lopes/dutyroster/backend/internal/modelbuilder"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
	"github.com/bruno.lopes/dutyroster/backend/internal/solver"
)

// noImprovementConvergence is how many consecutive non-improving
// repair iterations are taken as "the search has converged" and
// reported as Optimal rather than merely Feasible.
const noImprovementConvergence = 400

// Backend is the default solver.Backend: a deterministic, seeded
// greedy-construct-then-repair metaheuristic with no external process
// or C library dependency.
type Backend struct{}

// New returns the default local-search backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "localsearch" }

func (b *Backend) Solve(ctx context.Context, m modelbuilder.CSPModel) (solver.Outcome, error) {
	if infeasibleByCoverage(m) {
		return solver.Outcome{Status: roster.StatusInfeasible}, nil
	}

	rng := rand.New(rand.NewSource(m.RandomSeed))

	assignment := construct(m, rng)
	best := assignment.Clone()
	bestOK, _ := modelbuilder.CheckHard(m, best)
	var bestObjective float64
	if bestOK {
		bestObjective = modelbuilder.Objective(m, best).Total
	} else {
		bestObjective = math.Inf(1)
	}

	sinceImprovement := 0
	converged := false

	temperature := 1.0
	const coolingRate = 0.999

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		default:
		}
		if sinceImprovement >= noImprovementConvergence {
			converged = true
			break
		}

		candidate := assignment.Clone()
		mutate(m, candidate, rng)

		ok, _ := modelbuilder.CheckHard(m, candidate)
		if !ok {
			sinceImprovement++
			continue
		}

		obj := modelbuilder.Objective(m, candidate).Total
		accept := obj <= bestObjective
		if !accept && temperature > 1e-6 {
			delta := obj - bestObjective
			accept = rng.Float64() < math.Exp(-delta/(temperature*1e6))
		}

		if accept {
			assignment = candidate
		}
		temperature *= coolingRate

		if obj < bestObjective {
			best = candidate.Clone()
			bestObjective = obj
			sinceImprovement = 0
		} else {
			sinceImprovement++
		}
	}

	// A cancelled solve reports Unknown without an assignment; running
	// out of the time budget still returns the best assignment found.
	if ctx.Err() == context.Canceled {
		return solver.Outcome{Status: roster.StatusUnknown}, nil
	}

	ok, _ := modelbuilder.CheckHard(m, best)
	if !ok {
		return solver.Outcome{Status: roster.StatusUnknown}, nil
	}

	status := roster.StatusFeasible
	if converged || bestObjective == 0 {
		status = roster.StatusOptimal
	}

	objective := bestObjective
	return solver.Outcome{
		Status:     status,
		Assignment: best,
		Objective:  &objective,
	}, nil
}

// infeasibleByCoverage is a sound, fast necessary-condition check:
// when coverage is hard (StrictConsecutiveLimits), a day where fewer
// people are even available than MinRequiredPerDay can never be
// covered by any assignment, regardless of every other constraint.
func infeasibleByCoverage(m modelbuilder.CSPModel) bool {
	if !m.StrictConsecutiveLimits {
		return false
	}
	for d := range m.Days {
		available := 0
		for _, p := range m.Persons {
			if !p.Unavailable[d] {
				available++
			}
		}
		if available < m.MinRequiredPerDay {
			return true
		}
	}
	return false
}

// construct builds an initial assignment in three passes, all
// deterministic for a given seed. First, weekend-only people are
// placed on the weekend days they exist to cover. Second, each day is
// filled to MinRequiredPerDay by round-robin over a seeded person
// order rotated by day index (so no single person is always first in
// line), assigning whole blocks of MinBaseBlock days at a time so the
// minimum-block rule holds by construction. Then the repair passes
// fix up per-person totals and over-long Home runs.
func construct(m modelbuilder.CSPModel, rng *rand.Rand) modelbuilder.Assignment {
	a := modelbuilder.NewAssignment(m)
	n := m.NumPersons()
	if n == 0 {
		return a
	}

	order := rng.Perm(n)
	blockLen := m.MinBaseBlock
	if m.AllowSingleDayBlocks || blockLen < 1 {
		blockLen = 1
	}

	for d := range m.Days {
		if !m.Weekend[d] {
			continue
		}
		for _, i := range order {
			if m.Persons[i].WeekendOnly {
				assignBlock(m, a, i, d, blockLen)
			}
		}
	}

	counts := a.DailyBaseCount()
	for d := range m.Days {
		offset := d % n
		// Weekend-only people sit out the first pass on weekdays; they
		// are drafted anyway if coverage can't be met without them.
		for pass := 0; pass < 2 && counts[d] < m.MinRequiredPerDay; pass++ {
			for i := 0; i < n && counts[d] < m.MinRequiredPerDay; i++ {
				p := order[(offset+i)%n]
				if a[p][d] {
					continue
				}
				if pass == 0 && m.Persons[p].WeekendOnly && !m.Weekend[d] {
					continue
				}
				if assignBlock(m, a, p, d, blockLen) {
					counts = a.DailyBaseCount()
				}
			}
		}
	}

	repairTotalHome(m, a, blockLen)
	repairHomeRuns(m, a, blockLen)
	return a
}

// assignBlock marks person p as Base for a block of blockLen days
// covering day d, shifting the block leftwards at the window's end so
// it never runs off the edge. It refuses the assignment when any day
// in the block is unavailable, the merged Base run would exceed the
// person's consecutive-Base cap, or the person's weekend-Base cap
// would be breached, and reports whether it assigned.
func assignBlock(m modelbuilder.CSPModel, a modelbuilder.Assignment, p, d, blockLen int) bool {
	spec := m.Persons[p]
	numD := m.NumDays()

	start := d
	if start+blockLen > numD {
		start = numD - blockLen
		if start < 0 {
			return false
		}
	}
	end := start + blockLen - 1

	newWeekend := 0
	for k := start; k <= end; k++ {
		if spec.Unavailable[k] {
			return false
		}
		if m.Weekend[k] && !a[p][k] {
			newWeekend++
		}
	}
	if m.MaxWeekendBase != nil && a.CountWeekendBase(p, m.Weekend)+newWeekend > *m.MaxWeekendBase {
		return false
	}

	merged := blockLen
	for k := start - 1; k >= 0 && a[p][k]; k-- {
		merged++
	}
	for k := end + 1; k < numD && a[p][k]; k++ {
		merged++
	}
	if merged > spec.MaxConsecutiveBase {
		return false
	}

	for k := start; k <= end; k++ {
		a[p][k] = true
	}
	return true
}

// repairTotalHome tops up each person's Base count to what their
// total-Home cap requires, scanning left to right for a placeable
// block. Only adds Base days, so it can never worsen a Home-side
// constraint.
func repairTotalHome(m modelbuilder.CSPModel, a modelbuilder.Assignment, blockLen int) {
	if m.MaxTotalHome == nil {
		return
	}
	needBase := m.NumDays() - *m.MaxTotalHome
	for p := range m.Persons {
		for a.CountBase(p) < needBase {
			placed := false
			for d := 0; d < m.NumDays() && !placed; d++ {
				if a[p][d] {
					continue
				}
				placed = assignBlock(m, a, p, d, blockLen)
			}
			if !placed {
				break
			}
		}
	}
}

// repairHomeRuns breaks up Home runs longer than a person's
// consecutive-Home cap by inserting a Base block at the last day the
// cap allows, walking earlier when that day is blocked. Runs it can't
// break are left for local search, and ultimately for CheckHard.
func repairHomeRuns(m modelbuilder.CSPModel, a modelbuilder.Assignment, blockLen int) {
	for p, spec := range m.Persons {
		for _, r := range a.Runs(p) {
			if r.Base || r.Len() <= spec.MaxConsecutiveHome {
				continue
			}
			for d := r.Start + spec.MaxConsecutiveHome; d <= r.End; d += spec.MaxConsecutiveHome + blockLen {
				placed := false
				for k := d; k >= r.Start && !placed; k-- {
					placed = assignBlock(m, a, p, k, blockLen)
				}
				if !placed {
					break
				}
			}
		}
	}
}

// mutate applies one random local move: either flip a single
// (person, day) cell, or swap the state of two people on the same
// day (which preserves that day's headcount exactly — useful when
// coverage is already tight).
func mutate(m modelbuilder.CSPModel, a modelbuilder.Assignment, rng *rand.Rand) {
	n := m.NumPersons()
	days := m.NumDays()
	if n == 0 || days == 0 {
		return
	}

	if rng.Intn(2) == 0 {
		p := rng.Intn(n)
		d := rng.Intn(days)
		if m.Persons[p].Unavailable[d] {
			return
		}
		a[p][d] = !a[p][d]
		return
	}

	d := rng.Intn(days)
	p1, p2 := rng.Intn(n), rng.Intn(n)
	if p1 == p2 || m.Persons[p1].Unavailable[d] || m.Persons[p2].Unavailable[d] {
		return
	}
	a[p1][d], a[p2][d] = a[p2][d], a[p1][d]
}
