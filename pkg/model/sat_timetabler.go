package model

import (
	"context"
	"fmt"
	"time"

	"github.com/campusplan/timetabling/pkg/sat"
	"go.uber.org/zap"
)

type satTimetabler struct {
	solver sat.Solver
	config Config
}

func (timetabler *satTimetabler) Build(ctx context.Context, problem Problem) (Timetable, error) {
	logger := timetabler.config.Logger

	//** Validate input
	if err := problem.Validate(); err != nil {
		logger.Warn("input validation failed", zap.Error(err))
		return infeasibleWith(err), err
	}

	//** Build constraint model
	model, err := buildModel(problem, relaxation{})
	if err != nil {
		logger.Warn("constraint building failed", zap.Error(err))
		return infeasibleWith(err), err
	}

	instance := model.instance()
	stats := Stats{Variables: instance.Variables, Clauses: len(instance.Clauses)}
	logger.Info("constraint model built",
		zap.Uint64("variables", instance.Variables),
		zap.Int("clauses", len(instance.Clauses)),
	)

	//** Solve
	started := time.Now()
	result, err := timetabler.solver.Solve(ctx, instance, timetabler.config.Budget)
	stats.SolveTime = time.Since(started)
	if err != nil {
		return Timetable{}, fmt.Errorf("solver failure: %w", err)
	}
	logger.Info("solve finished",
		zap.Stringer("status", result.Status),
		zap.Duration("elapsed", stats.SolveTime),
	)

	switch result.Status {
	case sat.Satisfiable:
		//** Decode and verify
		assignments := decodeSolution(problem, model.vars, result.Solution)
		if violations := verifyTimetable(problem, assignments); len(violations) > 0 {
			err := InternalConsistencyError{Violations: violations}
			logger.Error("solver solution failed verification", zap.Error(err))
			return Timetable{}, err
		}
		return Timetable{Status: StatusFeasible, Assignments: assignments, Stats: stats}, nil

	case sat.Unsatisfiable:
		timetable := Timetable{Status: StatusInfeasible, Stats: stats}
		if timetabler.config.DisableDiagnostics {
			timetable.Diagnostics = []string{"no assignment satisfies all constraints"}
			return timetable, nil
		}

		//** Diagnose the blocking constraint categories
		d := &diagnoser{solver: timetabler.solver, budget: timetabler.config.Budget}
		blocking := d.blockingCategories(ctx, problem)
		if len(blocking) == 0 {
			timetable.Diagnostics = []string{"infeasible even with instructor-clash, cohort-clash, capacity and availability constraints relaxed"}
		} else {
			timetable.Diagnostics = categoryNames(blocking)
		}
		logger.Info("infeasibility diagnosed", zap.Strings("blocking", timetable.Diagnostics))
		return timetable, nil

	default:
		//** Budget exhausted: best-effort partial assignment
		assignments, unassigned := buildPartial(problem, model.vars)
		logger.Warn("solve budget exhausted, returning partial assignment",
			zap.Int("assigned", len(assignments)),
			zap.Int("unassigned", len(unassigned)),
		)
		return Timetable{
			Status:      StatusPartial,
			Assignments: assignments,
			Unassigned:  unassigned,
			Diagnostics: []string{fmt.Sprintf("solve budget exhausted before a verdict: %v of %v sessions placed", len(assignments), len(assignments)+len(unassigned))},
			Stats:       stats,
		}, nil
	}
}

func (timetabler *satTimetabler) Verify(problem Problem, timetable Timetable) error {
	if violations := verifyTimetable(problem, timetable.Assignments); len(violations) > 0 {
		return InternalConsistencyError{Violations: violations}
	}
	return nil
}

func infeasibleWith(err error) Timetable {
	return Timetable{Status: StatusInfeasible, Diagnostics: []string{err.Error()}}
}

// decodeSolution maps the solver's positive literals back into assignments
// in canonical order.
func decodeSolution(problem Problem, vars *varMap, solution sat.Solution) []Assignment {
	assignments := make([]Assignment, 0)
	for _, literal := range solution {
		if literal <= 0 || literal > int64(len(vars.candidates)) {
			continue
		}
		chosen := vars.at(literal)
		assignments = append(assignments, Assignment{
			Section: chosen.section,
			Session: chosen.session,
			Room:    chosen.room,
			Slot:    problem.Calendar.Slot(chosen.slot),
		})
	}

	sortAssignments(problem.Calendar, assignments)
	return assignments
}
