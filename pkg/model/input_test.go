package model

import (
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessRawInput(t *testing.T) {
	t.Run("resolves names in appearance order and applies defaults", func(t *testing.T) {
		// Arrange
		raw := RawInput{
			Days:    2,
			Periods: 2,
			Rooms: []RawRoom{
				{Name: "R1", Capacity: 50},
				{Name: "R2", Capacity: 30},
			},
			Sections: []RawSection{
				{Name: "CS101-1", Course: "CS101", Size: 20, Sessions: 1, Cohorts: []string{"Y1", "Y2"}, Professor: "Turing"},
				{Name: "MA101-1", Course: "MA101", Size: 20, Sessions: 1, Cohorts: []string{"Y2"}},
			},
		}

		// Act
		problem, err := ProcessRawInput(raw, nil)

		// Assert
		require.Nil(t, err)
		assert.Equal(t, []string{"Y1", "Y2"}, problem.Cohorts)
		assert.Equal(t, []string{"Turing"}, problem.Professors)
		assert.Equal(t, uint64(0), problem.Rooms[0].Id)
		assert.Equal(t, uint64(1), problem.Rooms[1].Id)

		// Omitted duration defaults to one period
		assert.Equal(t, uint64(1), problem.Sections[0].Duration)
		// Omitted professor means no instructor constraint
		assert.Equal(t, uint64(NoProfessor), problem.Sections[1].Professor)
		// Omitted availability means always available
		for period := range problem.Rooms[0].Availability {
			for day := range problem.Rooms[0].Availability[period] {
				assert.True(t, problem.Rooms[0].Availability[period][day])
			}
		}
	})

	t.Run("rejects duplicate room names", func(t *testing.T) {
		// Arrange
		raw := RawInput{
			Days:    1,
			Periods: 1,
			Rooms: []RawRoom{
				{Name: "R1", Capacity: 50},
				{Name: "R1", Capacity: 30},
			},
		}

		// Act
		_, err := ProcessRawInput(raw, nil)

		// Assert
		require.NotNil(t, err)
		malformed, ok := err.(MalformedInputError)
		require.True(t, ok)
		assert.Equal(t, "name", malformed.Field)
	})

	t.Run("rejects duplicate section names", func(t *testing.T) {
		// Arrange
		raw := RawInput{
			Days:    1,
			Periods: 1,
			Rooms:   []RawRoom{{Name: "R1", Capacity: 50}},
			Sections: []RawSection{
				{Name: "CS101-1", Course: "CS101", Size: 20, Sessions: 1},
				{Name: "CS101-1", Course: "CS101", Size: 20, Sessions: 1},
			},
		}

		// Act
		_, err := ProcessRawInput(raw, nil)

		// Assert
		require.NotNil(t, err)
		malformed, ok := err.(MalformedInputError)
		require.True(t, ok)
		assert.Equal(t, "name", malformed.Field)
	})

	t.Run("folds usage history into availability", func(t *testing.T) {
		// Arrange: a previous run occupies R1 at day 0, period 0
		raw := RawInput{
			Days:    1,
			Periods: 2,
			Rooms:   []RawRoom{{Name: "R1", Capacity: 50}},
		}
		usage := Usage{"R1": [][]bool{{true}, {false}}}

		// Act
		problem, err := ProcessRawInput(raw, usage)

		// Assert
		require.Nil(t, err)
		assert.False(t, problem.Rooms[0].Available(Slot{Day: 0, Period: 0}))
		assert.True(t, problem.Rooms[0].Available(Slot{Day: 0, Period: 1}))
	})

	t.Run("splits course-level enrollment into sections", func(t *testing.T) {
		// Arrange
		raw := RawInput{
			Days:    3,
			Periods: 2,
			Rooms:   []RawRoom{{Name: "R1", Capacity: 50}},
			Courses: []RawCourse{
				{Name: "CS101", Students: 120, SectionSize: 50, Sessions: 1, Duration: 2, Cohorts: []string{"Y1"}, Professor: "Turing"},
			},
		}

		// Act
		problem, err := ProcessRawInput(raw, nil)

		// Assert
		require.Nil(t, err)
		require.Len(t, problem.Sections, 3)
		assert.Equal(t, "CS101-1", problem.Sections[0].Name)
		assert.Equal(t, "CS101-3", problem.Sections[2].Name)
		assert.Equal(t, uint64(20), problem.Sections[2].Size)
		for _, section := range problem.Sections {
			assert.Equal(t, uint64(1), section.Sessions)
			assert.Equal(t, uint64(2), section.Duration)
			assert.Equal(t, []uint64{0}, section.Cohorts)
			assert.Equal(t, uint64(0), section.Professor)
		}
	})

	t.Run("course sections follow explicit section rows", func(t *testing.T) {
		// Arrange
		raw := RawInput{
			Days:    1,
			Periods: 2,
			Rooms:   []RawRoom{{Name: "R1", Capacity: 50}},
			Sections: []RawSection{
				{Name: "MA101-1", Course: "MA101", Size: 20, Sessions: 1},
			},
			Courses: []RawCourse{
				{Name: "CS101", Students: 30, SectionSize: 50, Sessions: 1},
			},
		}

		// Act
		problem, err := ProcessRawInput(raw, nil)

		// Assert
		require.Nil(t, err)
		require.Len(t, problem.Sections, 2)
		assert.Equal(t, "MA101-1", problem.Sections[0].Name)
		assert.Equal(t, "CS101-1", problem.Sections[1].Name)
	})

	t.Run("surfaces validation failures", func(t *testing.T) {
		// Arrange
		raw := RawInput{
			Days:     1,
			Periods:  1,
			Rooms:    []RawRoom{{Name: "R1", Capacity: 50}},
			Sections: []RawSection{{Name: "CS101-1", Course: "CS101", Size: 20}},
		}

		// Act: sessions omitted
		_, err := ProcessRawInput(raw, nil)

		// Assert
		require.NotNil(t, err)
		malformed, ok := err.(MalformedInputError)
		require.True(t, ok)
		assert.Equal(t, "sessions", malformed.Field)
	})
}

func TestInputFromJson(t *testing.T) {
	t.Run("decodes a problem file", func(t *testing.T) {
		// Arrange
		file := path.Join(t.TempDir(), "input.json")
		content := `{
			"days": 1,
			"periods": 2,
			"rooms": [{"name": "R1", "capacity": 50}],
			"sections": [{"name": "CS101-1", "course": "CS101", "size": 20, "sessions": 1}]
		}`
		require.Nil(t, os.WriteFile(file, []byte(content), 0666))

		// Act
		problem, err := InputFromJson(file, nil)

		// Assert
		require.Nil(t, err)
		assert.Len(t, problem.Rooms, 1)
		assert.Len(t, problem.Sections, 1)
		assert.Equal(t, uint64(50), problem.Rooms[0].Capacity)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		// Act
		_, err := InputFromJson(path.Join(t.TempDir(), "absent.json"), nil)

		// Assert
		assert.NotNil(t, err)
	})
}
