package exporter

import (
	"fmt"
	"strconv"
)

// formatCount formats a counter value for CSV output without an exponent and
// without trailing zeros, so integral counts round-trip as integers.
func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatMetric formats a derived metric with two decimal places; undefined
// metrics become empty cells.
func formatMetric(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}

// formatGrowth formats a growth ratio with four decimal places, since weekly
// growth is typically a small fraction; undefined growth becomes an empty
// cell.
func formatGrowth(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *v)
}
