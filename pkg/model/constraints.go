package model

import (
	"github.com/campusplan/timetabling/pkg/sat"
	"github.com/samber/lo"
)

// Category names a constraint group. The exported categories are the ones
// diagnostic relaxation may drop; session and room-conflict groups are
// structural and always enforced.
type Category string

const (
	CategoryInstructorClash Category = "instructor-clash"
	CategoryCohortClash     Category = "cohort-clash"
	CategoryCapacity        Category = "capacity"
	CategoryAvailability    Category = "availability"

	categorySession      Category = "session"
	categoryRoomConflict Category = "room-conflict"
)

// relaxationOrder is the fixed priority in which diagnostic mode drops
// categories: most specific cause first.
var relaxationOrder = []Category{
	CategoryInstructorClash,
	CategoryCohortClash,
	CategoryCapacity,
	CategoryAvailability,
}

type clauseGroup struct {
	category Category
	clauses  [][]int64
}

// constraintModel is the opaque output of the constraint builder: the
// variable mapping plus clause groups ready to assemble into a SAT
// instance.
type constraintModel struct {
	vars   *varMap
	groups []clauseGroup
}

func (m *constraintModel) instance() sat.SAT {
	clauses := make([][]int64, 0)
	for _, group := range m.groups {
		clauses = append(clauses, group.clauses...)
	}
	return sat.SAT{
		Variables: uint64(len(m.vars.candidates)),
		Clauses:   clauses,
	}
}

// buildModel translates the domain records into the constraint model.
// Candidate pruning already encodes capacity and availability; the clause
// groups encode everything pairwise.
func buildModel(problem Problem, relax relaxation) (*constraintModel, error) {
	vars, err := buildCandidates(problem, relax)
	if err != nil {
		return nil, err
	}

	builder := &clauseBuilder{problem: problem, vars: vars}

	groups := []clauseGroup{
		{category: categorySession, clauses: builder.sessionConstraints()},
		{category: categoryRoomConflict, clauses: builder.roomConflicts()},
	}
	if !relax.cohort {
		groups = append(groups, clauseGroup{category: CategoryCohortClash, clauses: builder.cohortClashes()})
	}
	if !relax.instructor {
		groups = append(groups, clauseGroup{category: CategoryInstructorClash, clauses: builder.instructorClashes()})
	}

	return &constraintModel{vars: vars, groups: groups}, nil
}

type clauseBuilder struct {
	problem Problem
	vars    *varMap
}

// sessionConstraints makes every section-session pick exactly one candidate
// and forces the section's sessions into strictly increasing,
// non-overlapping spans. The ordering doubles as symmetry breaking:
// interchangeable sessions get exactly one canonical arrangement.
func (builder *clauseBuilder) sessionConstraints() [][]int64 {
	clauses := make([][]int64, 0)

	for _, section := range builder.problem.Sections {
		perSession := builder.vars.perSession[section.Id]

		for _, literals := range perSession {
			// At least one candidate per session
			clauses = append(clauses, append([]int64{}, literals...))

			// At most one candidate per session
			for i := 0; i < len(literals)-1; i++ {
				for j := i + 1; j < len(literals); j++ {
					clauses = append(clauses, []int64{-literals[i], -literals[j]})
				}
			}
		}

		// Consecutive sessions must start after the previous span ends
		for session := 0; session < len(perSession)-1; session++ {
			for _, first := range perSession[session] {
				firstEnd := builder.vars.at(first).slot + section.Duration - 1
				for _, second := range perSession[session+1] {
					if builder.vars.at(second).slot <= firstEnd {
						clauses = append(clauses, []int64{-first, -second})
					}
				}
			}
		}
	}

	return clauses
}

// roomConflicts forbids two sessions from covering the same (room, slot)
// cell.
func (builder *clauseBuilder) roomConflicts() [][]int64 {
	buckets := builder.bucketize(func(chosen candidate) []uint64 {
		return []uint64{chosen.room}
	}, uint64(len(builder.problem.Rooms)))

	return builder.pairwiseConflicts(buckets, func(first, second candidate) bool {
		// Same-session pairs are already mutually exclusive
		return first.section == second.section && first.session == second.session
	})
}

// cohortClashes forbids overlapping sessions of two sections that share a
// cohort.
func (builder *clauseBuilder) cohortClashes() [][]int64 {
	buckets := builder.bucketize(func(chosen candidate) []uint64 {
		return builder.problem.Sections[chosen.section].Cohorts
	}, uint64(len(builder.problem.Cohorts)))

	return builder.pairwiseConflicts(buckets, func(first, second candidate) bool {
		// Same-section overlaps are handled by the session constraints
		return first.section == second.section
	})
}

// instructorClashes forbids overlapping sessions of two sections taught by
// the same professor. Sections without a professor are exempt.
func (builder *clauseBuilder) instructorClashes() [][]int64 {
	buckets := builder.bucketize(func(chosen candidate) []uint64 {
		professor := builder.problem.Sections[chosen.section].Professor
		if professor == NoProfessor {
			return nil
		}
		return []uint64{professor}
	}, uint64(len(builder.problem.Professors)))

	return builder.pairwiseConflicts(buckets, func(first, second candidate) bool {
		return first.section == second.section
	})
}

// bucketize groups variables by (entity, covered slot). entities maps a
// candidate to the ids it occupies the slot on behalf of.
func (builder *clauseBuilder) bucketize(entities func(candidate) []uint64, entityCount uint64) [][][]int64 {
	slotCount := builder.vars.calendar.SlotCount()
	buckets := make([][][]int64, entityCount)
	for entity := range buckets {
		buckets[entity] = make([][]int64, slotCount)
	}

	for index := range builder.vars.candidates {
		variable := int64(index + 1)
		for _, entity := range entities(builder.vars.at(variable)) {
			for _, slot := range builder.vars.covered(variable) {
				buckets[entity][slot] = append(buckets[entity][slot], variable)
			}
		}
	}

	return buckets
}

// pairwiseConflicts emits one binary clause per conflicting variable pair in
// any bucket, deduplicating pairs that collide on several covered slots.
func (builder *clauseBuilder) pairwiseConflicts(buckets [][][]int64, exempt func(first, second candidate) bool) [][]int64 {
	clauses := make([][]int64, 0)
	seen := make(map[[2]int64]bool)

	for _, slots := range buckets {
		for _, variables := range slots {
			for i := 0; i < len(variables)-1; i++ {
				for j := i + 1; j < len(variables); j++ {
					pair := [2]int64{variables[i], variables[j]}
					if seen[pair] || exempt(builder.vars.at(pair[0]), builder.vars.at(pair[1])) {
						continue
					}
					seen[pair] = true
					clauses = append(clauses, []int64{-pair[0], -pair[1]})
				}
			}
		}
	}

	return clauses
}

// categoryNames renders categories for diagnostics output.
func categoryNames(categories []Category) []string {
	return lo.Map(categories, func(category Category, _ int) string { return string(category) })
}
