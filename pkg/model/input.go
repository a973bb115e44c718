package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// RawRoom and RawSection mirror the loosely-shaped rows external
// collaborators produce (spreadsheet exports, upload forms). They reference
// everything by name; ProcessRawInput turns them into the id-indexed domain
// records the engine consumes.
type RawRoom struct {
	Name     string
	Capacity uint64
	// Availability[period][day]; omitted means always available.
	Availability [][]bool
}

type RawSection struct {
	Name     string
	Course   string
	Size     uint64
	Sessions uint64
	// Duration in consecutive periods; omitted means 1.
	Duration uint64
	Cohorts  []string
	// Professor is optional; empty means no instructor-clash constraint.
	Professor string
}

// RawCourse is a course-level enrollment row. ProcessRawInput splits it
// into SectionSize-student sections that all share the course's sessions,
// duration, cohorts and professor.
type RawCourse struct {
	Name        string
	Students    uint64
	SectionSize uint64
	Sessions    uint64
	Duration    uint64
	Cohorts     []string
	Professor   string
}

type RawInput struct {
	Days     uint64
	Periods  uint64
	Rooms    []RawRoom
	Sections []RawSection
	Courses  []RawCourse
}

// InputFromJson reads a problem from a JSON file, folding the given usage
// history into room availability. A nil usage means a fresh week.
func InputFromJson(file string, usage Usage) (Problem, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return Problem{}, err
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return Problem{}, err
	}

	var raw RawInput
	if err := mapstructure.Decode(inputJson, &raw); err != nil {
		return Problem{}, fmt.Errorf("cannot decode input: %w", err)
	}

	return ProcessRawInput(raw, usage)
}

// ProcessRawInput resolves names to ids, applies defaults, folds usage
// history into availability, and validates the result.
func ProcessRawInput(raw RawInput, usage Usage) (Problem, error) {
	calendar := Calendar{Days: raw.Days, Periods: raw.Periods}
	problem := Problem{
		Calendar:   calendar,
		Rooms:      make([]Room, 0, len(raw.Rooms)),
		Sections:   make([]Section, 0, len(raw.Sections)),
		Cohorts:    make([]string, 0),
		Professors: make([]string, 0),
	}

	roomIds := make(map[string]uint64)
	for _, rawRoom := range raw.Rooms {
		if _, ok := roomIds[rawRoom.Name]; ok {
			return Problem{}, MalformedInputError{Record: fmt.Sprintf("room %q", rawRoom.Name), Field: "name", Reason: "duplicate room name"}
		}

		availability := rawRoom.Availability
		if availability == nil {
			availability = fullAvailability(calendar)
		}
		availability = applyUsage(availability, usage[rawRoom.Name])

		room := Room{
			Id:           uint64(len(problem.Rooms)),
			Name:         rawRoom.Name,
			Capacity:     rawRoom.Capacity,
			Availability: availability,
		}
		roomIds[rawRoom.Name] = room.Id
		problem.Rooms = append(problem.Rooms, room)
	}

	rawSections := append([]RawSection{}, raw.Sections...)
	for _, course := range raw.Courses {
		for _, section := range SplitEnrollment(course.Name, course.Students, course.SectionSize) {
			section.Sessions = course.Sessions
			section.Duration = course.Duration
			section.Cohorts = course.Cohorts
			section.Professor = course.Professor
			rawSections = append(rawSections, section)
		}
	}

	cohortIds := make(map[string]uint64)
	professorIds := make(map[string]uint64)
	sectionNames := make(map[string]bool)
	for _, rawSection := range rawSections {
		if sectionNames[rawSection.Name] {
			return Problem{}, MalformedInputError{Record: fmt.Sprintf("section %q", rawSection.Name), Field: "name", Reason: "duplicate section name"}
		}
		sectionNames[rawSection.Name] = true

		duration := rawSection.Duration
		if duration == 0 {
			duration = 1
		}

		cohorts := lo.Map(rawSection.Cohorts, func(name string, _ int) uint64 {
			if _, ok := cohortIds[name]; !ok {
				cohortIds[name] = uint64(len(problem.Cohorts))
				problem.Cohorts = append(problem.Cohorts, name)
			}
			return cohortIds[name]
		})

		professor := uint64(NoProfessor)
		if rawSection.Professor != "" {
			if _, ok := professorIds[rawSection.Professor]; !ok {
				professorIds[rawSection.Professor] = uint64(len(problem.Professors))
				problem.Professors = append(problem.Professors, rawSection.Professor)
			}
			professor = professorIds[rawSection.Professor]
		}

		problem.Sections = append(problem.Sections, Section{
			Id:        uint64(len(problem.Sections)),
			Name:      rawSection.Name,
			Course:    rawSection.Course,
			Size:      rawSection.Size,
			Sessions:  rawSection.Sessions,
			Duration:  duration,
			Cohorts:   cohorts,
			Professor: professor,
		})
	}

	if err := problem.Validate(); err != nil {
		return Problem{}, err
	}

	return problem, nil
}

func fullAvailability(calendar Calendar) [][]bool {
	availability := make([][]bool, calendar.Periods)
	for period := range availability {
		availability[period] = make([]bool, calendar.Days)
		for day := range availability[period] {
			availability[period][day] = true
		}
	}
	return availability
}

// applyUsage masks out pre-occupied slots without mutating the original
// availability rows.
func applyUsage(availability [][]bool, occupied [][]bool) [][]bool {
	if occupied == nil {
		return availability
	}

	masked := make([][]bool, len(availability))
	for period, row := range availability {
		masked[period] = append([]bool{}, row...)
		if period >= len(occupied) {
			continue
		}
		for day := range masked[period] {
			if day < len(occupied[period]) && occupied[period][day] {
				masked[period][day] = false
			}
		}
	}
	return masked
}
