package model

import "fmt"

// verifyTimetable re-checks every invariant of a claimed-feasible
// assignment set, independently of how the solver produced it. A non-empty
// result on a solver solution is a defect, not an input problem.
func verifyTimetable(problem Problem, assignments []Assignment) []Violation {
	calendar := problem.Calendar
	violations := make([]Violation, 0)

	ordered := append([]Assignment{}, assignments...)
	sortAssignments(calendar, ordered)

	roomBusy := makeOccupancy(uint64(len(problem.Rooms)), calendar)
	cohortBusy := makeOccupancy(uint64(len(problem.Cohorts)), calendar)
	professorBusy := makeOccupancy(uint64(len(problem.Professors)), calendar)
	sectionBusy := makeOccupancy(uint64(len(problem.Sections)), calendar)

	sessionsPlaced := make(map[SessionRef]bool)

	for _, assignment := range ordered {
		if assignment.Section >= uint64(len(problem.Sections)) || assignment.Room >= uint64(len(problem.Rooms)) {
			violations = append(violations, Violation{
				Invariant: "reference",
				Message:   fmt.Sprintf("assignment references unknown section %v or room %v", assignment.Section, assignment.Room),
			})
			continue
		}

		section := problem.Sections[assignment.Section]
		room := problem.Rooms[assignment.Room]

		if assignment.Slot.Day >= calendar.Days || assignment.Slot.Period+section.Duration > calendar.Periods {
			violations = append(violations, Violation{
				Invariant: "calendar",
				Message:   fmt.Sprintf("section %q session %v does not fit the calendar at day %v period %v", section.Name, assignment.Session, assignment.Slot.Day, assignment.Slot.Period),
			})
			continue
		}

		ref := SessionRef{Section: assignment.Section, Session: assignment.Session}
		if sessionsPlaced[ref] {
			violations = append(violations, Violation{
				Invariant: "session-count",
				Message:   fmt.Sprintf("section %q session %v is assigned more than once", section.Name, assignment.Session),
			})
			continue
		}
		sessionsPlaced[ref] = true

		if room.Capacity < section.Size {
			violations = append(violations, Violation{
				Invariant: "capacity",
				Message:   fmt.Sprintf("room %q (capacity %v) cannot seat section %q (%v students)", room.Name, room.Capacity, section.Name, section.Size),
			})
		}

		for offset := uint64(0); offset < section.Duration; offset++ {
			slot := Slot{Day: assignment.Slot.Day, Period: assignment.Slot.Period + offset}
			index := calendar.Index(slot)

			if !room.Available(slot) {
				violations = append(violations, Violation{
					Invariant: "availability",
					Message:   fmt.Sprintf("room %q is not available for section %q at day %v period %v", room.Name, section.Name, slot.Day, slot.Period),
				})
			}

			if roomBusy[assignment.Room][index] {
				violations = append(violations, Violation{
					Invariant: "room-conflict",
					Message:   fmt.Sprintf("room %q is double-booked at day %v period %v", room.Name, slot.Day, slot.Period),
				})
			}
			roomBusy[assignment.Room][index] = true

			if sectionBusy[assignment.Section][index] {
				violations = append(violations, Violation{
					Invariant: "session-distinct",
					Message:   fmt.Sprintf("section %q has overlapping sessions at day %v period %v", section.Name, slot.Day, slot.Period),
				})
			}
			sectionBusy[assignment.Section][index] = true

			for _, cohort := range section.Cohorts {
				if cohortBusy[cohort][index] {
					violations = append(violations, Violation{
						Invariant: "cohort-clash",
						Message:   fmt.Sprintf("cohort %q has clashing sections at day %v period %v", problem.Cohorts[cohort], slot.Day, slot.Period),
					})
				}
				cohortBusy[cohort][index] = true
			}

			if section.Professor != NoProfessor {
				if professorBusy[section.Professor][index] {
					violations = append(violations, Violation{
						Invariant: "instructor-clash",
						Message:   fmt.Sprintf("professor %q has clashing sections at day %v period %v", problem.Professors[section.Professor], slot.Day, slot.Period),
					})
				}
				professorBusy[section.Professor][index] = true
			}
		}
	}

	for _, section := range problem.Sections {
		placed := uint64(0)
		for session := uint64(0); session < section.Sessions; session++ {
			if sessionsPlaced[SessionRef{Section: section.Id, Session: session}] {
				placed++
			}
		}
		if placed != section.Sessions {
			violations = append(violations, Violation{
				Invariant: "session-count",
				Message:   fmt.Sprintf("section %q has %v of %v required sessions", section.Name, placed, section.Sessions),
			})
		}
	}

	return violations
}

func makeOccupancy(entities uint64, calendar Calendar) [][]bool {
	occupancy := make([][]bool, entities)
	for entity := range occupancy {
		occupancy[entity] = make([]bool, calendar.SlotCount())
	}
	return occupancy
}
