package model

import (
	"context"
	"time"

	"github.com/campusplan/timetabling/pkg/sat"
	"go.uber.org/zap"
)

// DefaultBudget bounds one solve attempt when the caller does not supply a
// budget.
const DefaultBudget = 30 * time.Second

// Config carries the caller-supplied knobs of one engine instance. The zero
// value gives a 30s budget, diagnostic relaxation enabled, and no logging.
type Config struct {
	// Budget bounds each solve attempt. Zero means DefaultBudget; a
	// negative value disables the limit entirely.
	Budget time.Duration
	// DisableDiagnostics skips the relaxation pass on proven
	// infeasibility.
	DisableDiagnostics bool
	Logger             *zap.Logger
}

// Timetabler turns one problem snapshot into a timetable. Implementations
// hold no state across Build invocations; concurrent runs each need their
// own solver but may share the problem, which the engine never mutates.
type Timetabler interface {
	// Build validates the problem, builds and solves the constraint model,
	// and verifies the result. MalformedInputError and
	// NoFeasibleCandidatesError are returned alongside an infeasible
	// timetable carrying the same message; solver-proven infeasibility and
	// exhausted budgets are structured results with a nil error. Only
	// InternalConsistencyError signals a defect.
	Build(ctx context.Context, problem Problem) (Timetable, error)

	// Verify independently re-checks a timetable's assignments against the
	// problem invariants, returning InternalConsistencyError on any
	// violation.
	Verify(problem Problem, timetable Timetable) error
}

func NewTimetabler(solver sat.Solver, config Config) Timetabler {
	if config.Budget == 0 {
		config.Budget = DefaultBudget
	} else if config.Budget < 0 {
		config.Budget = 0
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	return &satTimetabler{solver: solver, config: config}
}
