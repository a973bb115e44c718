package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// MalformedInputError reports a single record that fails structural
// validation, naming the offending record and field.
type MalformedInputError struct {
	Record string
	Field  string
	Reason string
}

func (err MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %v: %v: %v", err.Record, err.Field, err.Reason)
}

// CandidateCause distinguishes why a section-session ended up without legal
// (room, slot) candidates.
type CandidateCause string

const (
	CauseCapacity     CandidateCause = "capacity"
	CauseAvailability CandidateCause = "availability"
)

// NoFeasibleCandidatesError is raised before any solver invocation when a
// section has no legal candidate triple left after pruning.
type NoFeasibleCandidatesError struct {
	Section string
	Cause   CandidateCause
}

func (err NoFeasibleCandidatesError) Error() string {
	switch err.Cause {
	case CauseCapacity:
		return fmt.Sprintf("no feasible candidates for section %q: no room is large enough", err.Section)
	default:
		return fmt.Sprintf("no feasible candidates for section %q: not enough available room slots", err.Section)
	}
}

// Violation is one broken timetable invariant found by independent
// re-verification.
type Violation struct {
	Invariant string
	Message   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%v: %v", v.Invariant, v.Message)
}

// InternalConsistencyError means the solver's claimed-feasible solution
// failed re-verification. It signals a defect and aborts the run.
type InternalConsistencyError struct {
	Violations []Violation
}

func (err InternalConsistencyError) Error() string {
	messages := lo.Map(err.Violations, func(violation Violation, _ int) string { return violation.String() })
	return fmt.Sprintf("solver solution failed verification:\n\t%v", strings.Join(messages, "\n\t"))
}
