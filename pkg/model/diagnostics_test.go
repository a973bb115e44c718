package model

import (
	"context"
	"testing"
	"time"

	"github.com/campusplan/timetabling/pkg/sat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockingCategories(t *testing.T) {
	t.Run("capacity contention minimizes to capacity alone", func(t *testing.T) {
		// Arrange: two sections that both only fit the big room's one slot
		problem := mustProblem(t, RawInput{
			Days:    1,
			Periods: 1,
			Rooms: []RawRoom{
				{Name: "Big", Capacity: 100},
				{Name: "Small", Capacity: 50},
			},
			Sections: []RawSection{
				{Name: "CS101-1", Course: "CS101", Size: 60, Sessions: 1},
				{Name: "MA101-1", Course: "MA101", Size: 60, Sessions: 1},
			},
		}, nil)
		d := &diagnoser{solver: sat.NewGiniSolver(), budget: time.Second}

		// Act
		blocking := d.blockingCategories(context.Background(), problem)

		// Assert
		assert.Equal(t, []Category{CategoryCapacity}, blocking)
	})

	t.Run("structurally impossible problem yields no categories", func(t *testing.T) {
		// Arrange: three sections, one room, one slot; even full relaxation
		// leaves the room double-booked
		problem := mustProblem(t, RawInput{
			Days:    1,
			Periods: 1,
			Rooms:   []RawRoom{{Name: "R1", Capacity: 50}},
			Sections: []RawSection{
				{Name: "CS101-1", Course: "CS101", Size: 20, Sessions: 1},
				{Name: "MA101-1", Course: "MA101", Size: 20, Sessions: 1},
			},
		}, nil)
		d := &diagnoser{solver: sat.NewGiniSolver(), budget: time.Second}

		// Act
		blocking := d.blockingCategories(context.Background(), problem)

		// Assert
		assert.Empty(t, blocking)
	})

	t.Run("relaxation is monotone", func(t *testing.T) {
		// Arrange
		problem := mustProblem(t, RawInput{
			Days:    1,
			Periods: 1,
			Rooms: []RawRoom{
				{Name: "Big", Capacity: 100},
				{Name: "Small", Capacity: 50},
			},
			Sections: []RawSection{
				{Name: "CS101-1", Course: "CS101", Size: 60, Sessions: 1},
				{Name: "MA101-1", Course: "MA101", Size: 60, Sessions: 1},
			},
		}, nil)
		d := &diagnoser{solver: sat.NewGiniSolver(), budget: time.Second}

		// Act
		base := []Category{CategoryCapacity}
		solvable := d.solvable(context.Background(), problem, base)

		// Assert: a solvable relaxation stays solvable under every superset
		require.True(t, solvable)
		others := []Category{CategoryInstructorClash, CategoryCohortClash, CategoryAvailability}
		for mask := 1; mask < 1<<len(others); mask++ {
			superset := append([]Category{}, base...)
			for bit, category := range others {
				if mask&(1<<bit) != 0 {
					superset = append(superset, category)
				}
			}
			assert.True(t, d.solvable(context.Background(), problem, superset), "superset %v", superset)
		}
	})
}

func TestToRelaxation(t *testing.T) {
	// Act
	relax := toRelaxation([]Category{CategoryCohortClash, CategoryAvailability})

	// Assert
	assert.Equal(t, relaxation{cohort: true, availability: true}, relax)
}
