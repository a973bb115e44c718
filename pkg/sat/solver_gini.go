package sat

import (
	"context"
	"time"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"
)

type giniSolver struct{}

// NewGiniSolver returns the default in-process solver backend. Two solves
// over identical instances branch identically, which keeps repeated runs
// reproducible.
func NewGiniSolver() Solver {
	return &giniSolver{}
}

func (solver *giniSolver) Solve(ctx context.Context, instance SAT, budget time.Duration) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	g := gini.New()
	for _, clause := range instance.Clauses {
		for _, literal := range clause {
			g.Add(toLit(literal))
		}
		g.Add(z.LitNull)
	}

	var outcome int
	if budget > 0 {
		outcome = g.Try(budget)
	} else {
		outcome = g.Solve()
	}

	switch outcome {
	case 1:
		return Result{Status: Satisfiable, Solution: extractSolution(g, instance.Variables)}, nil
	case -1:
		return Result{Status: Unsatisfiable}, nil
	default:
		return Result{Status: Unknown}, nil
	}
}

func toLit(literal int64) z.Lit {
	if literal < 0 {
		return z.Var(-literal).Neg()
	}
	return z.Var(literal).Pos()
}

func extractSolution(g *gini.Gini, variables uint64) Solution {
	solution := make(Solution, 0, variables)
	maxVar := uint64(g.MaxVar())
	for variable := uint64(1); variable <= variables; variable++ {
		// Variables beyond the solver's horizon never occur in a clause
		// and default to false.
		if variable <= maxVar && g.Value(z.Var(variable).Pos()) {
			solution = append(solution, int64(variable))
		} else {
			solution = append(solution, -int64(variable))
		}
	}
	return solution
}
