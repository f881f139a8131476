package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllReturnsCopy(t *testing.T) {
	defs := All()
	require.NotEmpty(t, defs)

	defs[0].ID = "mutated"
	assert.NotEqual(t, "mutated", All()[0].ID)
}

func TestByPlatform(t *testing.T) {
	fb := ByPlatform(PlatformFacebook)
	ig := ByPlatform(PlatformInstagram)

	require.NotEmpty(t, fb)
	require.NotEmpty(t, ig)
	assert.Len(t, All(), len(fb)+len(ig))

	for _, d := range fb {
		assert.Equal(t, PlatformFacebook, d.Platform)
	}
	for _, d := range ig {
		assert.Equal(t, PlatformInstagram, d.Platform)
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("page_impressions")
	require.True(t, ok)
	assert.Equal(t, PlatformFacebook, d.Platform)
	assert.Equal(t, HintCount, d.Hint)

	_, ok = Lookup("no_such_metric")
	assert.False(t, ok)
}

func TestHintForUnknownDefaultsToCount(t *testing.T) {
	assert.Equal(t, HintCount, HintFor("no_such_metric"))
}

func TestPartitionPreservesSelectionOrder(t *testing.T) {
	ids := []string{"reach", "page_fans", "no_such_metric", "page_impressions", "impressions"}

	assert.Equal(t, []string{"page_fans", "page_impressions"}, Partition(ids, PlatformFacebook))
	assert.Equal(t, []string{"reach", "impressions"}, Partition(ids, PlatformInstagram))
}

func TestPartitionEmptySelection(t *testing.T) {
	assert.Empty(t, Partition(nil, PlatformFacebook))
}
