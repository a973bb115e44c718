package model

import (
	"slices"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"
)

// buildPartial produces a best-effort assignment when the solver's budget
// expired without a verdict. It walks sessions in canonical order, places
// each on the first slot that keeps section, cohort and instructor
// occupancy consistent, then resolves room contention per span with a
// maximum bipartite matching. Sessions that cannot be placed are reported
// as unassigned, never silently dropped.
func buildPartial(problem Problem, vars *varMap) ([]Assignment, []SessionRef) {
	calendar := problem.Calendar

	cohortBusy := makeOccupancy(uint64(len(problem.Cohorts)), calendar)
	professorBusy := makeOccupancy(uint64(len(problem.Professors)), calendar)
	sectionBusy := makeOccupancy(uint64(len(problem.Sections)), calendar)
	roomBusy := makeOccupancy(uint64(len(problem.Rooms)), calendar)

	type spanKey struct {
		start    uint64
		duration uint64
	}
	groups := make(map[spanKey][]SessionRef)
	groupKeys := make([]spanKey, 0)
	unassigned := make([]SessionRef, 0)

	roomsAt := func(section Section, slot uint64) []uint64 {
		// Candidate pairs are already pruned by capacity and availability
		literals := vars.perSession[section.Id][0]
		rooms := make([]uint64, 0)
		for _, literal := range literals {
			if chosen := vars.at(literal); chosen.slot == slot {
				rooms = append(rooms, chosen.room)
			}
		}
		return rooms
	}

	spanFree := func(busy [][]bool, entity, start, duration uint64) bool {
		for offset := uint64(0); offset < duration; offset++ {
			if busy[entity][start+offset] {
				return false
			}
		}
		return true
	}

	markSpan := func(busy [][]bool, entity, start, duration uint64) {
		for offset := uint64(0); offset < duration; offset++ {
			busy[entity][start+offset] = true
		}
	}

	for _, section := range problem.Sections {
		slots := lo.Uniq(lo.Map(vars.perSession[section.Id][0], func(literal int64, _ int) uint64 {
			return vars.at(literal).slot
		}))

		for session := uint64(0); session < section.Sessions; session++ {
			placed := false
			for _, slot := range slots {
				if !spanFree(sectionBusy, section.Id, slot, section.Duration) {
					continue
				}
				if lo.SomeBy(section.Cohorts, func(cohort uint64) bool {
					return !spanFree(cohortBusy, cohort, slot, section.Duration)
				}) {
					continue
				}
				if section.Professor != NoProfessor && !spanFree(professorBusy, section.Professor, slot, section.Duration) {
					continue
				}

				key := spanKey{start: slot, duration: section.Duration}
				if len(groups[key]) >= len(roomsAt(section, slot)) {
					continue
				}

				if _, ok := groups[key]; !ok {
					groupKeys = append(groupKeys, key)
				}
				groups[key] = append(groups[key], SessionRef{Section: section.Id, Session: session})

				markSpan(sectionBusy, section.Id, slot, section.Duration)
				for _, cohort := range section.Cohorts {
					markSpan(cohortBusy, cohort, slot, section.Duration)
				}
				if section.Professor != NoProfessor {
					markSpan(professorBusy, section.Professor, slot, section.Duration)
				}

				placed = true
				break
			}

			if !placed {
				unassigned = append(unassigned, SessionRef{Section: section.Id, Session: session})
			}
		}
	}

	slices.SortFunc(groupKeys, func(a, b spanKey) int {
		if a.start != b.start {
			return compareUint64(a.start, b.start)
		}
		return compareUint64(a.duration, b.duration)
	})

	assignments := make([]Assignment, 0)
	for _, key := range groupKeys {
		sessions := groups[key]

		rooms := make([]uint64, 0)
		for _, ref := range sessions {
			for _, room := range roomsAt(problem.Sections[ref.Section], key.start) {
				if !slices.Contains(rooms, room) && spanFree(roomBusy, room, key.start, key.duration) {
					rooms = append(rooms, room)
				}
			}
		}
		slices.Sort(rooms)

		matched, leftover := assignRooms(problem, sessions, rooms, key.start, key.duration)
		for _, assignment := range matched {
			markSpan(roomBusy, assignment.Room, key.start, key.duration)
			assignments = append(assignments, assignment)
		}
		unassigned = append(unassigned, leftover...)
	}

	sortAssignments(calendar, assignments)
	slices.SortFunc(unassigned, func(a, b SessionRef) int {
		if a.Section != b.Section {
			return compareUint64(a.Section, b.Section)
		}
		return compareUint64(a.Session, b.Session)
	})

	return assignments, unassigned
}

// assignRooms distributes the rooms of one span among its competing
// sessions via a maximum bipartite matching; sessions left out of the
// matching come back as unassigned.
func assignRooms(problem Problem, sessions []SessionRef, rooms []uint64, start, duration uint64) ([]Assignment, []SessionRef) {
	if len(rooms) == 0 {
		return nil, append([]SessionRef{}, sessions...)
	}

	neighbors := func(sessionAny any, roomAny any) (bool, error) {
		ref := sessionAny.(SessionRef)
		room := roomAny.(uint64)

		section := problem.Sections[ref.Section]
		return problem.Rooms[room].Capacity >= section.Size &&
			spanAvailable(problem.Rooms[room], problem.Calendar.Slot(start), duration), nil
	}

	sessionsAny := lo.Map(sessions, func(ref SessionRef, _ int) any { return ref })
	roomsAny := lo.Map(rooms, func(room uint64, _ int) any { return room })

	graph, err := bipartitegraph.NewBipartiteGraph(sessionsAny, roomsAny, neighbors)
	if err != nil {
		return nil, append([]SessionRef{}, sessions...)
	}

	matching := graph.LargestMatching()

	assignments := make([]Assignment, 0, len(matching))
	matchedSessions := make(map[SessionRef]bool)
	for _, edge := range matching {
		sessionIndex, roomIndex := edge.Node1, edge.Node2-len(sessions)
		ref, room := sessions[sessionIndex], rooms[roomIndex]

		assignments = append(assignments, Assignment{
			Section: ref.Section,
			Session: ref.Session,
			Room:    room,
			Slot:    problem.Calendar.Slot(start),
		})
		matchedSessions[ref] = true
	}

	leftover := lo.Filter(sessions, func(ref SessionRef, _ int) bool { return !matchedSessions[ref] })
	return assignments, leftover
}
