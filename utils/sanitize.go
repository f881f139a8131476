package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictSanitizer = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from user-supplied text fields such as
// report titles and descriptions.
func SanitizeText(input string) string {
	return strings.TrimSpace(strictSanitizer.Sanitize(input))
}
