package sat

import (
	"fmt"
	"strings"
)

// Solution holds one literal per variable: positive if the variable is
// assigned true, negative otherwise.
type Solution []int64

// SAT is a propositional formula in conjunctive normal form. Variables are
// numbered from 1 to Variables; a negative literal negates its variable.
type SAT struct {
	Variables uint64
	Clauses   [][]int64
}

func (s SAT) ToDIMACS() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "p cnf %d %d\n", s.Variables, len(s.Clauses))
	for _, clause := range s.Clauses {
		for _, literal := range clause {
			fmt.Fprintf(&builder, "%d ", literal)
		}
		builder.WriteString("0\n")
	}
	return builder.String()
}

// AssertSolution checks that the solution is free of contradictions and
// satisfies every clause of the instance.
func AssertSolution(instance SAT, solution Solution) bool {
	literals := make(map[int64]bool)
	for _, literal := range solution {
		if literals[literal] || literals[-literal] {
			return false
		}
		literals[literal] = true
	}

	for _, clause := range instance.Clauses {
		satisfied := false
		for _, literal := range clause {
			if literals[literal] {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}

	return true
}
