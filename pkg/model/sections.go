package model

import "fmt"

// SplitEnrollment breaks a course's enrollment into ceil(students/size)
// sections named "<course>-1" onward. Every section gets the nominal size
// except the last, which takes the remainder.
func SplitEnrollment(course string, students, sectionSize uint64) []RawSection {
	if students == 0 || sectionSize == 0 {
		return nil
	}

	count := (students + sectionSize - 1) / sectionSize
	sections := make([]RawSection, 0, count)
	remaining := students

	for i := uint64(1); i <= count; i++ {
		size := min(sectionSize, remaining)
		sections = append(sections, RawSection{
			Name:   fmt.Sprintf("%v-%v", course, i),
			Course: course,
			Size:   size,
		})
		remaining -= size
	}

	return sections
}
