package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitEnrollment(t *testing.T) {
	t.Run("splits with a remainder section", func(t *testing.T) {
		// Act
		sections := SplitEnrollment("CS101", 120, 50)

		// Assert
		require.Len(t, sections, 3)
		assert.Equal(t, "CS101-1", sections[0].Name)
		assert.Equal(t, "CS101-3", sections[2].Name)
		assert.Equal(t, uint64(50), sections[0].Size)
		assert.Equal(t, uint64(50), sections[1].Size)
		assert.Equal(t, uint64(20), sections[2].Size)
	})

	t.Run("exact multiple has no remainder section", func(t *testing.T) {
		// Act
		sections := SplitEnrollment("MA101", 100, 50)

		// Assert
		require.Len(t, sections, 2)
		assert.Equal(t, uint64(50), sections[1].Size)
	})

	t.Run("small enrollment yields one section", func(t *testing.T) {
		// Act
		sections := SplitEnrollment("PH101", 10, 50)

		// Assert
		require.Len(t, sections, 1)
		assert.Equal(t, uint64(10), sections[0].Size)
	})

	t.Run("zero inputs yield nothing", func(t *testing.T) {
		assert.Nil(t, SplitEnrollment("CS101", 0, 50))
		assert.Nil(t, SplitEnrollment("CS101", 50, 0))
	})
}
