package model

import (
	"fmt"
	"math"
)

// NoProfessor marks a section without an assigned instructor; no
// instructor-clash constraint applies to it.
const NoProfessor = math.MaxUint64

// Slot is one (day, period) cell of the calendar grid.
type Slot struct {
	Day    uint64
	Period uint64
}

// Calendar is the fixed weekly grid shared by all rooms. Slots are totally
// ordered by their index: day-major, then period, which makes tie-breaking
// chronological and deterministic.
type Calendar struct {
	Days    uint64
	Periods uint64
}

func (c Calendar) SlotCount() uint64 {
	return c.Days * c.Periods
}

func (c Calendar) Index(slot Slot) uint64 {
	return slot.Day*c.Periods + slot.Period
}

func (c Calendar) Slot(index uint64) Slot {
	return Slot{Day: index / c.Periods, Period: index % c.Periods}
}

type Room struct {
	Id       uint64
	Name     string
	Capacity uint64
	// Availability[period][day] is true when the room can be booked there.
	// Pre-occupied slots from usage history are folded in as unavailable.
	Availability [][]bool
}

type Section struct {
	Id     uint64
	Name   string
	Course string
	// Size is the enrolled-student count.
	Size uint64
	// Sessions is the required weekly session count.
	Sessions uint64
	// Duration is the number of consecutive periods one session occupies.
	Duration  uint64
	Cohorts   []uint64
	Professor uint64 // NoProfessor when absent
}

// Problem is one full input snapshot: read-only to the engine, owned by the
// caller. Rooms and Sections are indexed by their Id.
type Problem struct {
	Calendar   Calendar
	Rooms      []Room
	Sections   []Section
	Cohorts    []string
	Professors []string
}

// Validate checks structural well-formedness of every record. Cross-record
// feasibility is the constraint builder's job.
func (p Problem) Validate() error {
	if p.Calendar.Days == 0 || p.Calendar.Periods == 0 {
		return MalformedInputError{Record: "calendar", Field: "days/periods", Reason: "must be positive"}
	}

	for _, room := range p.Rooms {
		record := fmt.Sprintf("room %q", room.Name)
		if room.Id >= uint64(len(p.Rooms)) || p.Rooms[room.Id].Name != room.Name {
			return MalformedInputError{Record: record, Field: "id", Reason: "must equal the record's position"}
		}
		if room.Capacity == 0 {
			return MalformedInputError{Record: record, Field: "capacity", Reason: "must be positive"}
		}
		if err := p.validateAvailability(record, room.Availability); err != nil {
			return err
		}
	}

	for _, section := range p.Sections {
		record := fmt.Sprintf("section %q", section.Name)
		if section.Id >= uint64(len(p.Sections)) || p.Sections[section.Id].Name != section.Name {
			return MalformedInputError{Record: record, Field: "id", Reason: "must equal the record's position"}
		}
		if section.Size == 0 {
			return MalformedInputError{Record: record, Field: "size", Reason: "must be positive"}
		}
		if section.Sessions == 0 {
			return MalformedInputError{Record: record, Field: "sessions", Reason: "must be positive"}
		}
		if section.Duration == 0 || section.Duration > p.Calendar.Periods {
			return MalformedInputError{Record: record, Field: "duration", Reason: fmt.Sprintf("must be between 1 and %v periods", p.Calendar.Periods)}
		}
		for _, cohort := range section.Cohorts {
			if cohort >= uint64(len(p.Cohorts)) {
				return MalformedInputError{Record: record, Field: "cohorts", Reason: fmt.Sprintf("unknown cohort id %v", cohort)}
			}
		}
		if section.Professor != NoProfessor && section.Professor >= uint64(len(p.Professors)) {
			return MalformedInputError{Record: record, Field: "professor", Reason: fmt.Sprintf("unknown professor id %v", section.Professor)}
		}
	}

	return nil
}

func (p Problem) validateAvailability(record string, availability [][]bool) error {
	if uint64(len(availability)) != p.Calendar.Periods {
		return MalformedInputError{Record: record, Field: "availability", Reason: fmt.Sprintf("must have %v period rows", p.Calendar.Periods)}
	}

	available := false
	for _, row := range availability {
		if uint64(len(row)) != p.Calendar.Days {
			return MalformedInputError{Record: record, Field: "availability", Reason: fmt.Sprintf("each period row must have %v day columns", p.Calendar.Days)}
		}
		for _, free := range row {
			available = available || free
		}
	}

	if !available {
		return MalformedInputError{Record: record, Field: "availability", Reason: "must contain at least one available slot"}
	}

	return nil
}

// Available reports whether the room is available at the slot.
func (r Room) Available(slot Slot) bool {
	return r.Availability[slot.Period][slot.Day]
}
