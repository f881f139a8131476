package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeTextStripsMarkup(t *testing.T) {
	assert.Equal(t, "Monthly Report", SanitizeText("<b>Monthly Report</b>"))
	assert.Equal(t, "hello", SanitizeText("  <script>alert(1)</script>hello  "))
}

func TestSanitizeTextEmpty(t *testing.T) {
	assert.Equal(t, "", SanitizeText("   "))
}
