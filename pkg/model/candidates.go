package model

// relaxation switches off constraint categories during diagnostic re-solves.
// The zero value is the full problem.
type relaxation struct {
	instructor   bool
	cohort       bool
	capacity     bool
	availability bool
}

// candidate is one legal (section-session, room, start slot) triple. Only
// triples that survive capacity, availability and duration pruning become
// decision variables, which keeps the model proportional to the feasible
// space instead of the full cross-product.
type candidate struct {
	section uint64
	session uint64
	room    uint64
	slot    uint64 // start slot index
}

// varMap numbers candidates 1..n in canonical order: section, session, slot
// index, room. The solver's branching follows variable order, so this
// ordering is what makes repeated runs reproducible.
type varMap struct {
	calendar   Calendar
	durations  []uint64  // per section
	candidates []candidate
	perSession [][][]int64 // [section][session] -> positive literals
}

func (vars *varMap) at(variable int64) candidate {
	return vars.candidates[variable-1]
}

// covered returns the slot indices a candidate occupies: its section's
// Duration consecutive periods of one day.
func (vars *varMap) covered(variable int64) []uint64 {
	chosen := vars.at(variable)
	duration := vars.durations[chosen.section]
	slots := make([]uint64, 0, duration)
	for offset := uint64(0); offset < duration; offset++ {
		slots = append(slots, chosen.slot+offset)
	}
	return slots
}

func buildCandidates(problem Problem, relax relaxation) (*varMap, error) {
	calendar := problem.Calendar
	vars := &varMap{
		calendar:   calendar,
		durations:  make([]uint64, len(problem.Sections)),
		candidates: make([]candidate, 0),
		perSession: make([][][]int64, len(problem.Sections)),
	}

	for _, section := range problem.Sections {
		vars.durations[section.Id] = section.Duration

		pairs, fittingRooms := candidatePairs(problem, section, relax)
		if len(pairs) == 0 {
			cause := CauseAvailability
			if fittingRooms == 0 {
				cause = CauseCapacity
			}
			return nil, NoFeasibleCandidatesError{Section: section.Name, Cause: cause}
		}
		if maxDisjointSpans(calendar, pairs, section.Duration) < section.Sessions {
			return nil, NoFeasibleCandidatesError{Section: section.Name, Cause: CauseAvailability}
		}

		vars.perSession[section.Id] = make([][]int64, section.Sessions)
		for session := uint64(0); session < section.Sessions; session++ {
			literals := make([]int64, 0, len(pairs))
			for _, pair := range pairs {
				vars.candidates = append(vars.candidates, candidate{
					section: section.Id,
					session: session,
					room:    pair.room,
					slot:    pair.slot,
				})
				literals = append(literals, int64(len(vars.candidates)))
			}
			vars.perSession[section.Id][session] = literals
		}
	}

	return vars, nil
}

type roomSlot struct {
	slot uint64
	room uint64
}

// candidatePairs enumerates the legal (room, start slot) pairs of a section
// in (slot, room) order, along with the count of rooms that pass the
// capacity check, which disambiguates the failure cause when nothing is
// left.
func candidatePairs(problem Problem, section Section, relax relaxation) ([]roomSlot, int) {
	calendar := problem.Calendar
	fittingRooms := 0
	fits := make([]bool, len(problem.Rooms))
	for _, room := range problem.Rooms {
		fits[room.Id] = relax.capacity || room.Capacity >= section.Size
		if fits[room.Id] {
			fittingRooms++
		}
	}

	pairs := make([]roomSlot, 0)
	for index := uint64(0); index < calendar.SlotCount(); index++ {
		start := calendar.Slot(index)
		if start.Period+section.Duration > calendar.Periods {
			continue
		}
		for _, room := range problem.Rooms {
			if !fits[room.Id] {
				continue
			}
			if !relax.availability && !spanAvailable(room, start, section.Duration) {
				continue
			}
			pairs = append(pairs, roomSlot{slot: index, room: room.Id})
		}
	}

	return pairs, fittingRooms
}

func spanAvailable(room Room, start Slot, duration uint64) bool {
	for offset := uint64(0); offset < duration; offset++ {
		if !room.Available(Slot{Day: start.Day, Period: start.Period + offset}) {
			return false
		}
	}
	return true
}

// maxDisjointSpans computes, over the distinct candidate start slots, how
// many pairwise non-overlapping sessions could be placed at best. Fewer than
// the required session count means the section is unschedulable regardless
// of what the rest of the problem looks like.
func maxDisjointSpans(calendar Calendar, pairs []roomSlot, duration uint64) uint64 {
	count := uint64(0)
	placed := false
	var lastEnd uint64

	// Pairs are already in ascending slot order; spans share one duration,
	// so greedy earliest-end selection is optimal.
	for _, pair := range pairs {
		if placed && pair.slot <= lastEnd {
			continue
		}
		count++
		lastEnd = pair.slot + duration - 1
		placed = true
	}

	return count
}
