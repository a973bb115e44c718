package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type Status string

const (
	// StatusFeasible marks a complete, verified assignment.
	StatusFeasible Status = "feasible"
	// StatusPartial marks a best-effort assignment returned after the solve
	// budget expired. Callers must not treat it as success.
	StatusPartial Status = "partial"
	StatusInfeasible Status = "infeasible"
)

// Assignment books one session of a section into a room, starting at Slot
// and covering the section's Duration consecutive periods.
type Assignment struct {
	Section uint64
	Session uint64
	Room    uint64
	Slot    Slot
}

// SessionRef identifies one session of a section that a partial result
// could not place.
type SessionRef struct {
	Section uint64
	Session uint64
}

type Stats struct {
	Variables uint64
	Clauses   int
	SolveTime time.Duration
}

// Timetable is the outcome of one solve run. Assignments are in canonical
// order: section, session, slot index, room.
type Timetable struct {
	Status      Status
	Assignments []Assignment
	Unassigned  []SessionRef
	Diagnostics []string
	Stats       Stats
}

// Diagnostic renders the diagnostics as one human-readable line.
func (t Timetable) Diagnostic() string {
	if len(t.Diagnostics) == 0 {
		return string(t.Status)
	}
	return fmt.Sprintf("%v: %v", t.Status, strings.Join(t.Diagnostics, "; "))
}

func sortAssignments(calendar Calendar, assignments []Assignment) {
	slices.SortFunc(assignments, func(a, b Assignment) int {
		if a.Section != b.Section {
			return compareUint64(a.Section, b.Section)
		}
		if a.Session != b.Session {
			return compareUint64(a.Session, b.Session)
		}
		if calendar.Index(a.Slot) != calendar.Index(b.Slot) {
			return compareUint64(calendar.Index(a.Slot), calendar.Index(b.Slot))
		}
		return compareUint64(a.Room, b.Room)
	})
}

func compareUint64(a, b uint64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}
