package model

import (
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageRoundTrip(t *testing.T) {
	// Arrange
	file := path.Join(t.TempDir(), "usage.json")
	usage := Usage{"R1": [][]bool{{true, false}, {false, true}}}

	// Act
	require.Nil(t, SaveUsage(file, usage))
	loaded, err := LoadUsage(file)

	// Assert
	require.Nil(t, err)
	assert.Equal(t, usage, loaded)
}

func TestLoadUsageMissingFile(t *testing.T) {
	// Act
	usage, err := LoadUsage(path.Join(t.TempDir(), "absent.json"))

	// Assert
	require.Nil(t, err)
	assert.Empty(t, usage)
}

func TestMergeAssignments(t *testing.T) {
	// Arrange
	problem := mustProblem(t, RawInput{
		Days:    2,
		Periods: 2,
		Rooms: []RawRoom{
			{Name: "R1", Capacity: 50},
			{Name: "R2", Capacity: 50},
		},
		Sections: []RawSection{
			{Name: "NS125L-1", Course: "NS125L", Size: 20, Sessions: 1, Duration: 2},
		},
	}, nil)
	previous := Usage{"R2": [][]bool{{true, false}, {false, false}}}
	assignments := []Assignment{
		{Section: 0, Session: 0, Room: 0, Slot: Slot{Day: 1, Period: 0}},
	}

	// Act
	merged := MergeAssignments(problem, previous, assignments)

	// Assert: the full span of the new assignment is occupied
	assert.True(t, merged["R1"][0][1])
	assert.True(t, merged["R1"][1][1])
	assert.False(t, merged["R1"][0][0])
	// Previous occupancy is preserved
	assert.True(t, merged["R2"][0][0])
	assert.False(t, merged["R2"][1][1])
}

func TestMergeAssignmentsKeepsUnrelatedRooms(t *testing.T) {
	// Arrange: the history knows a room the current problem does not
	problem := mustProblem(t, RawInput{
		Days:    1,
		Periods: 1,
		Rooms:   []RawRoom{{Name: "R1", Capacity: 50}},
		Sections: []RawSection{
			{Name: "CS101-1", Course: "CS101", Size: 20, Sessions: 1},
		},
	}, nil)
	previous := Usage{"Annex": [][]bool{{true}}}
	assignments := []Assignment{
		{Section: 0, Session: 0, Room: 0, Slot: Slot{Day: 0, Period: 0}},
	}

	// Act
	merged := MergeAssignments(problem, previous, assignments)

	// Assert: the unrelated room's history survives the merge
	require.Contains(t, merged, "Annex")
	assert.Equal(t, [][]bool{{true}}, merged["Annex"])
	assert.True(t, merged["R1"][0][0])

	// The merge never aliases the caller's rows
	merged["Annex"][0][0] = false
	assert.True(t, previous["Annex"][0][0])
}
