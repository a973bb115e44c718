package model

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Usage records which slots of each room are already occupied by earlier
// runs: room name -> [period][day]. It is caller-owned state passed into the
// engine through ProcessRawInput, never a process-wide singleton.
type Usage map[string][][]bool

// LoadUsage reads usage history from a JSON file. A missing file yields an
// empty history.
func LoadUsage(file string) (Usage, error) {
	bytes, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return Usage{}, nil
	} else if err != nil {
		return nil, err
	}

	var usage Usage
	if err := json.Unmarshal(bytes, &usage); err != nil {
		return nil, err
	}
	return usage, nil
}

func SaveUsage(file string, usage Usage) error {
	bytes, err := json.MarshalIndent(usage, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(file, bytes, 0666)
}

// MergeAssignments folds a run's assignments into the usage history,
// returning a new Usage that marks every covered slot occupied. History for
// rooms outside the current problem is carried over untouched; the caller's
// map is never mutated.
func MergeAssignments(problem Problem, usage Usage, assignments []Assignment) Usage {
	merged := make(Usage, len(usage)+len(problem.Rooms))
	for name, previous := range usage {
		occupied := make([][]bool, len(previous))
		for period, row := range previous {
			occupied[period] = append([]bool{}, row...)
		}
		merged[name] = occupied
	}

	for _, room := range problem.Rooms {
		occupied := make([][]bool, problem.Calendar.Periods)
		for period := range occupied {
			occupied[period] = make([]bool, problem.Calendar.Days)
		}
		if previous, ok := usage[room.Name]; ok {
			for period := range occupied {
				if period >= len(previous) {
					break
				}
				for day := range occupied[period] {
					if day < len(previous[period]) {
						occupied[period][day] = previous[period][day]
					}
				}
			}
		}
		merged[room.Name] = occupied
	}

	for _, assignment := range assignments {
		room := problem.Rooms[assignment.Room].Name
		duration := problem.Sections[assignment.Section].Duration
		for offset := uint64(0); offset < duration; offset++ {
			merged[room][assignment.Slot.Period+offset][assignment.Slot.Day] = true
		}
	}

	return merged
}
