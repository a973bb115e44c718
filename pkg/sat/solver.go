package sat

import (
	"context"
	"time"
)

// Status is the three-valued outcome of a solve attempt.
type Status int

const (
	// Unknown means the budget expired before a proof either way.
	Unknown Status = iota
	Satisfiable
	Unsatisfiable
)

func (s Status) String() string {
	switch s {
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	default:
		return "unknown"
	}
}

// Result couples a solve status with its model. Solution is non-nil only
// when Status is Satisfiable.
type Result struct {
	Status   Status
	Solution Solution
}

// Solver is a decision procedure for SAT instances. A non-positive budget
// means no limit. Implementations must return Unknown rather than block past
// the budget, and must be safe for use from concurrent runs as long as each
// run owns its own Solver value.
type Solver interface {
	Solve(ctx context.Context, instance SAT, budget time.Duration) (Result, error)
}
