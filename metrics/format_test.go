package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValueSmallCount(t *testing.T) {
	// No grouping below four digits, so the rendering is locale independent.
	assert.Equal(t, "120", FormatValue("page_impressions", 120))
	assert.Equal(t, "0", FormatValue("page_impressions", 0))
}

func TestFormatValueUnknownMetricRendersAsCount(t *testing.T) {
	assert.Equal(t, "42", FormatValue("no_such_metric", 42))
}

func TestFormatWithHintPercentage(t *testing.T) {
	assert.Equal(t, "12.35%", formatWithHint(HintPercentage, 12.345))
	assert.Equal(t, "0.00%", formatWithHint(HintPercentage, 0))
}

func TestFormatValueGroupsThousands(t *testing.T) {
	out := FormatValue("page_fans", 1234567)

	// The locale decides the separator; digits and order must survive.
	digits := make([]rune, 0, len(out))
	for _, r := range out {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	assert.Equal(t, "1234567", string(digits))
	assert.NotEqual(t, "1234567", out)
}
