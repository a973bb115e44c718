package model

import (
	"context"
	"time"

	"github.com/campusplan/timetabling/pkg/sat"
)

// diagnoser explains solver-proven infeasibility by relaxing constraint
// categories in relaxationOrder, re-solving after each, and minimizing the
// first solvable superset. The result only enriches the diagnostic message;
// the run's status stays infeasible.
type diagnoser struct {
	solver sat.Solver
	budget time.Duration
}

// blockingCategories returns the minimal set of categories whose removal
// makes the problem solvable, or nil when even the fully relaxed problem has
// no solution within the budget.
func (d *diagnoser) blockingCategories(ctx context.Context, problem Problem) []Category {
	relaxed := make([]Category, 0, len(relaxationOrder))

	for _, category := range relaxationOrder {
		relaxed = append(relaxed, category)
		if d.solvable(ctx, problem, relaxed) {
			return d.minimize(ctx, problem, relaxed)
		}
	}

	return nil
}

// minimize re-tests each relaxed category for necessity: if the problem
// stays solvable without relaxing it, it was not part of the cause.
func (d *diagnoser) minimize(ctx context.Context, problem Problem, relaxed []Category) []Category {
	minimal := append([]Category{}, relaxed...)

	for _, category := range relaxed {
		reduced := without(minimal, category)
		if len(reduced) == len(minimal) {
			continue
		}
		if d.solvable(ctx, problem, reduced) {
			minimal = reduced
		}
	}

	return minimal
}

func (d *diagnoser) solvable(ctx context.Context, problem Problem, relaxed []Category) bool {
	model, err := buildModel(problem, toRelaxation(relaxed))
	if err != nil {
		// A section without candidates even under relaxation keeps the
		// attempt unsolvable
		return false
	}

	result, err := d.solver.Solve(ctx, model.instance(), d.budget)
	if err != nil {
		return false
	}
	return result.Status == sat.Satisfiable
}

func toRelaxation(categories []Category) relaxation {
	relax := relaxation{}
	for _, category := range categories {
		switch category {
		case CategoryInstructorClash:
			relax.instructor = true
		case CategoryCohortClash:
			relax.cohort = true
		case CategoryCapacity:
			relax.capacity = true
		case CategoryAvailability:
			relax.availability = true
		}
	}
	return relax
}

func without(categories []Category, dropped Category) []Category {
	result := make([]Category, 0, len(categories))
	for _, category := range categories {
		if category != dropped {
			result = append(result, category)
		}
	}
	return result
}
