package metrics

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.French)

// FormatValue renders a metric value for display according to the metric's
// catalog hint: percentages with two decimals, everything else as a
// locale-grouped number.
func FormatValue(metricName string, value float64) string {
	return formatWithHint(HintFor(metricName), value)
}

func formatWithHint(hint DisplayHint, value float64) string {
	if hint == HintPercentage {
		return fmt.Sprintf("%.2f%%", value)
	}
	if value == math.Trunc(value) {
		return printer.Sprintf("%d", int64(value))
	}
	return printer.Sprintf("%.2f", value)
}
