package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"hspanel/pkg/contracts/domain"
)

// formatFloat formats a float64 value for CSV output with a fixed number of
// decimal places. This ensures values like 13.4 appear as 13.400 in CSV.
func formatFloat(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatNullFloat formats an optional value for CSV output. Missing values
// render as an empty cell, never as zero.
func formatNullFloat(f domain.NullFloat, precision int) string {
	return f.CSV(precision)
}

// formatYears joins a sorted year list into a single semicolon-separated
// cell so the column survives round-trips through spreadsheet tools.
func formatYears(years []int) string {
	parts := make([]string, len(years))
	for i, year := range years {
		parts[i] = strconv.Itoa(year)
	}
	return strings.Join(parts, ";")
}
