// Package solver defines the Backend interface the engine runs
// against and the Drive wrapper that enforces time budgets. The
// concrete solver is swappable: internal/engine depends only on this
// interface, never on a particular solver SDK.
package solver

import (
	"context"
	"time"

	"github.com/bruno.lopes/dutyroster/backend/internal/modelbuilder"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
)

// Outcome is what a Backend reports back to Drive, before the
// projector turns it into a roster.Result.
type Outcome struct {
	Status     roster.Status
	Assignment modelbuilder.Assignment // nil unless Status is Optimal/Feasible
	Objective  *float64
	WallTime   time.Duration
}

// Backend runs a CSPModel to completion or to its time budget. A
// Backend must honor ctx's deadline/cancellation: on cancellation it
// must return Outcome{Status: Unknown} rather than a partial
// assignment.
type Backend interface {
	Solve(ctx context.Context, m modelbuilder.CSPModel) (Outcome, error)
	Name() string
}

// Drive runs backend against m, deriving a context deadline from
// m.TimeBudgetSeconds layered under the caller's ctx (so an
// already-cancelled or already-deadlined parent context still wins).
func Drive(ctx context.Context, backend Backend, m modelbuilder.CSPModel) (Outcome, error) {
	budget := time.Duration(m.TimeBudgetSeconds) * time.Second
	if budget <= 0 {
		budget = time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	start := time.Now()
	out, err := backend.Solve(runCtx, m)
	out.WallTime = time.Since(start)

	if err != nil {
		return Outcome{Status: roster.StatusError, WallTime: out.WallTime}, &roster.SolverBackendError{
			Message: "backend " + backend.Name() + " failed",
			Cause:   err,
		}
	}

	if runCtx.Err() != nil && out.Status != roster.StatusOptimal && out.Status != roster.StatusFeasible {
		out.Status = roster.StatusUnknown
	}

	return out, nil
}
