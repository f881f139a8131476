package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSelectionDedupes(t *testing.T) {
	s := NewSelection("page_fans", "", "reach", "page_fans")

	assert.Equal(t, []string{"page_fans", "reach"}, s.IDs())
	assert.Equal(t, 2, s.Len())
}

func TestToggledAddsWhenAbsent(t *testing.T) {
	s := NewSelection("page_fans")
	next := s.Toggled("reach")

	assert.Equal(t, []string{"page_fans", "reach"}, next.IDs())
	assert.Equal(t, []string{"page_fans"}, s.IDs())
}

func TestToggledRemovesWhenPresent(t *testing.T) {
	s := NewSelection("page_fans", "reach", "impressions")
	next := s.Toggled("reach")

	assert.Equal(t, []string{"page_fans", "impressions"}, next.IDs())
	assert.True(t, s.Has("reach"))
}

func TestToggledTwiceRoundTrips(t *testing.T) {
	s := NewSelection("page_fans")
	back := s.Toggled("reach").Toggled("reach")

	assert.Equal(t, s.IDs(), back.IDs())
}

func TestToggledIgnoresEmptyID(t *testing.T) {
	s := NewSelection("page_fans")

	assert.Equal(t, s.IDs(), s.Toggled("").IDs())
}

func TestIDsReturnsCopy(t *testing.T) {
	s := NewSelection("page_fans", "reach")
	ids := s.IDs()
	ids[0] = "mutated"

	assert.Equal(t, []string{"page_fans", "reach"}, s.IDs())
}
