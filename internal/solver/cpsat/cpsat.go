//go:build ortools

// Package cpsat is the optional CP-SAT solver backend: an exact solve
// over the same CSPModel the default localsearch backend consumes,
// built on Google OR-Tools's Go CP-SAT bindings. It is gated behind
// the "ortools" build tag because the dependency needs the OR-Tools
// C++ runtime at link time — the default build never touches it. One
// BoolVar per (person, day) cell, assembled with
// cpmodel.NewCpModelBuilder and solved with cpmodel.SolveCpModel.
package cpsat

import (
	"context"
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/bruno.lopes/dutyroster/backend/internal/modelbuilder"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
	"github.com/bruno.lopes/dutyroster/backend/internal/solver"
)

// Backend is a solver.Backend implementation that delegates to
// OR-Tools CP-SAT.
type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Name() string { return "cpsat" }

// Solve builds one BoolVar per (person, day) grid cell, encodes the
// hard constraints for CP-SAT, and runs CP-SAT's default search. No
// solver parameters are set: neither m.TimeBudgetSeconds nor
// m.RandomSeed reaches CP-SAT, and ctx does not interrupt the search,
// which runs until CP-SAT returns. If ctx was cancelled by then, the
// result is discarded and reported as Unknown.
func (b *Backend) Solve(ctx context.Context, m modelbuilder.CSPModel) (solver.Outcome, error) {
	out, err := solve(m)
	if err == nil && ctx.Err() == context.Canceled {
		return solver.Outcome{Status: roster.StatusUnknown}, nil
	}
	return out, err
}

func solve(m modelbuilder.CSPModel) (solver.Outcome, error) {
	numP, numD := m.NumPersons(), m.NumDays()
	model := cpmodel.NewCpModelBuilder()

	x := make([][]cpmodel.BoolVar, numP)
	for p := 0; p < numP; p++ {
		x[p] = make([]cpmodel.BoolVar, numD)
		for d := 0; d < numD; d++ {
			x[p][d] = model.NewBoolVar().WithName(fmt.Sprintf("x_p%d_d%d", p, d))
			if m.Persons[p].Unavailable[d] {
				model.AddBoolOr(x[p][d].Not())
			}
		}
	}

	// Coverage is hard whenever strict_consecutive_limits is set.
	if m.StrictConsecutiveLimits {
		for d := 0; d < numD; d++ {
			var dayVars []cpmodel.BoolVar
			for p := 0; p < numP; p++ {
				dayVars = append(dayVars, x[p][d])
			}
			sum := cpmodel.NewLinearExpr()
			for _, v := range dayVars {
				sum.Add(v)
			}
			model.AddLessOrEqual(cpmodel.NewConstant(int64(m.MinRequiredPerDay)), sum)
		}
	}

	for p := 0; p < numP; p++ {
		spec := m.Persons[p]

		// Consecutive-run caps via sliding-window sums — a window of
		// MaxConsecutiveBase+1 days can't all be Base, and
		// symmetrically for Home.
		addRunCap(model, x[p], numD, spec.MaxConsecutiveBase, true)
		addRunCap(model, x[p], numD, spec.MaxConsecutiveHome, false)

		// Minimum Base block length, honoring the edge rule.
		if !m.AllowSingleDayBlocks && m.MinBaseBlock > 1 {
			addMinBlock(model, x[p], numD, m.MinBaseBlock, m.AllowEdgeShortBlocks)
		}
	}

	// Total Home cap.
	if m.MaxTotalHome != nil {
		for p := 0; p < numP; p++ {
			sum := cpmodel.NewLinearExpr()
			for d := 0; d < numD; d++ {
				sum.Add(x[p][d].Not())
			}
			model.AddLessOrEqual(sum, cpmodel.NewConstant(int64(*m.MaxTotalHome)))
		}
	}

	// Weekend Base cap.
	if m.MaxWeekendBase != nil {
		for p := 0; p < numP; p++ {
			sum := cpmodel.NewLinearExpr()
			for d := 0; d < numD; d++ {
				if m.Weekend[d] {
					sum.Add(x[p][d])
				}
			}
			model.AddLessOrEqual(sum, cpmodel.NewConstant(int64(*m.MaxWeekendBase)))
		}
	}

	// Objective: minimize total Base days, plus a heavier per-day cost
	// for a weekend-only person sitting on a weekday. The coverage
	// lower bounds make the first term yield the leanest covering
	// roster; the second steers weekend-only people onto weekends the
	// same way the localsearch objective does.
	objective := cpmodel.NewLinearExpr()
	for p := 0; p < numP; p++ {
		spec := m.Persons[p]
		for d := 0; d < numD; d++ {
			weight := int64(1)
			if spec.WeekendOnly && !m.Weekend[d] {
				weight += int64(m.Penalties.LongBlockSoftOverCap)
			}
			objective.AddTerm(x[p][d], weight)
		}
	}
	model.Minimize(objective)

	built, err := model.Model()
	if err != nil {
		return solver.Outcome{}, fmt.Errorf("build CP-SAT model: %w", err)
	}

	response, err := cpmodel.SolveCpModel(built)
	if err != nil {
		return solver.Outcome{}, fmt.Errorf("solve CP-SAT model: %w", err)
	}

	switch response.GetStatus() {
	case cpmodel.CpSolverStatus_OPTIMAL:
		return projectOutcome(roster.StatusOptimal, response, x, numP, numD), nil
	case cpmodel.CpSolverStatus_FEASIBLE:
		return projectOutcome(roster.StatusFeasible, response, x, numP, numD), nil
	case cpmodel.CpSolverStatus_INFEASIBLE:
		return solver.Outcome{Status: roster.StatusInfeasible}, nil
	default:
		return solver.Outcome{Status: roster.StatusUnknown}, nil
	}
}

func projectOutcome(status roster.Status, response *cpmodel.CpSolverResponse, x [][]cpmodel.BoolVar, numP, numD int) solver.Outcome {
	assignment := make(modelbuilder.Assignment, numP)
	for p := 0; p < numP; p++ {
		assignment[p] = make([]bool, numD)
		for d := 0; d < numD; d++ {
			assignment[p][d] = cpmodel.SolutionBooleanValue(response, x[p][d])
		}
	}
	obj := response.GetObjectiveValue()
	return solver.Outcome{Status: status, Assignment: assignment, Objective: &obj}
}

// addRunCap forbids any window of cap+1 consecutive days from all
// sharing the given state (true = Base, false = Home). cap <= 0 is
// treated as "unbounded" (no constraint).
func addRunCap(model *cpmodel.CpModelBuilder, row []cpmodel.BoolVar, numD, cap int, base bool) {
	if cap <= 0 || cap >= numD {
		return
	}
	for start := 0; start+cap < numD; start++ {
		sum := cpmodel.NewLinearExpr()
		for i := 0; i <= cap; i++ {
			v := row[start+i]
			if base {
				sum.Add(v)
			} else {
				sum.Add(v.Not())
			}
		}
		model.AddLessOrEqual(sum, cpmodel.NewConstant(int64(cap)))
	}
}

// addMinBlock forbids a Base run shorter than minBlock; a short run
// touching the window's first or last day is only forbidden when
// allowEdge is false.
func addMinBlock(model *cpmodel.CpModelBuilder, row []cpmodel.BoolVar, numD, minBlock int, allowEdge bool) {
	for d := 0; d < numD; d++ {
		if d == 0 && allowEdge {
			continue
		}
		var prevNotBase cpmodel.BoolVar
		isStart := row[d]
		if d > 0 {
			prevNotBase = row[d-1].Not()
		}

		remaining := numD - d
		if remaining >= minBlock {
			for i := 1; i < minBlock; i++ {
				if d == 0 {
					model.AddImplication(isStart, row[d+i])
				} else {
					start := model.NewBoolVar().WithName(fmt.Sprintf("start_%d", d))
					model.AddBoolAnd(isStart, prevNotBase).OnlyEnforceIf(start)
					model.AddBoolOr(isStart.Not(), row[d-1], start)
					model.AddImplication(start, row[d+i])
				}
			}
		} else if !allowEdge && d > 0 {
			start := model.NewBoolVar().WithName(fmt.Sprintf("edgestart_%d", d))
			model.AddBoolAnd(isStart, prevNotBase).OnlyEnforceIf(start)
			model.AddBoolOr(isStart.Not(), row[d-1], start)
			model.AddBoolOr(start.Not())
		}
	}
}
