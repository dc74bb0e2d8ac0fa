// Package engine orchestrates calendar -> preprocessor -> analyzer ->
// paramadapter -> modelbuilder -> solver -> projector behind a single
// Solve entry point. Solve is a pure, blocking function of its
// inputs — no persistence, HTTP, or global state lives here; those
// are collaborators layered on top (internal/database, internal/api,
// internal/assistant, cmd/*).
package engine

import (
	"context"

	"github.com/bruno.lopes/dutyroster/backend/internal/analyzer"
	"github.com/bruno.lopes/dutyroster/backend/internal/calendar"
	"github.com/bruno.lopes/dutyroster/backend/internal/modelbuilder"
	"github.com/bruno.lopes/dutyroster/backend/internal/paramadapter"
	"github.com/bruno.lopes/dutyroster/backend/internal/preprocessor"
	"github.com/bruno.lopes/dutyroster/backend/internal/projector"
	"github.com/bruno.lopes/dutyroster/backend/internal/roster"
	"github.com/bruno.lopes/dutyroster/backend/internal/solver"
	"github.com/bruno.lopes/dutyroster/backend/internal/solver/localsearch"
)

// Engine holds the one piece of configuration Solve needs beyond its
// input: which Solver Driver backend to run against. The zero Engine
// is usable — it defaults to the in-process localsearch backend.
type Engine struct {
	Backend solver.Backend
}

// New returns an Engine using the default local-search backend.
func New() *Engine {
	return &Engine{Backend: localsearch.New()}
}

// WithBackend returns a copy of e using backend instead of the
// default. Use this to plug in internal/solver/cpsat or a test double.
func (e Engine) WithBackend(backend solver.Backend) *Engine {
	e.Backend = backend
	return &e
}

// Solve runs the full engine pipeline over in and returns the solved
// Result. A non-nil error means a validation or backend failure. On a
// backend failure the returned Result also has Status == StatusError
// (the details are in the error, see roster.SolverBackendError), so
// HTTP/CLI callers can branch on it without type-asserting the error.
func (e *Engine) Solve(ctx context.Context, in roster.Input) (roster.Result, error) {
	backend := e.Backend
	if backend == nil {
		backend = localsearch.New()
	}

	if err := validate(in); err != nil {
		return roster.Result{}, err
	}

	cal, err := calendar.New(in.Window, in.Policy.WeekendSetOrDefault())
	if err != nil {
		return roster.Result{}, err
	}

	effective := preprocessor.Process(cal, in.People, in.Policy)
	analysis := analyzer.Analyze(effective, cal.Len(), in.Policy)
	penalties := paramadapter.Adapt(analysis.Difficulty, in.Policy)
	model := modelbuilder.Build(cal, effective, in.Policy, penalties, in.Seed())

	diagnostics := roster.Diagnostics{
		Difficulty:        analysis.Difficulty,
		AvailabilityRatio: analysis.AvailabilityRatio,
		HeavyCount:        analysis.HeavyCount,
	}

	outcome, err := solver.Drive(ctx, backend, model)
	diagnostics.WallTimeSeconds = outcome.WallTime.Seconds()
	if outcome.Objective != nil {
		diagnostics.Objective = outcome.Objective
	}

	if err != nil {
		return roster.Result{Status: roster.StatusError, Diagnostics: diagnostics}, err
	}

	if outcome.Status != roster.StatusOptimal && outcome.Status != roster.StatusFeasible {
		return roster.Result{Status: outcome.Status, Diagnostics: diagnostics}, nil
	}

	solution, err := projector.Project(model, outcome.Assignment)
	if err != nil {
		return roster.Result{Status: roster.StatusError, Diagnostics: diagnostics},
			&roster.SolverBackendError{Message: "post-solve verification failed", Cause: err}
	}

	return roster.Result{Status: outcome.Status, Diagnostics: diagnostics, Schedule: solution}, nil
}
