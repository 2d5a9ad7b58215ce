package splitter

import (
	"slices"
	"strconv"
)

// Median returns the middle value of values, or the mean of the two central
// values for even lengths. ok is false for an empty slice. values is not modified.
func Median(values []int) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	middle := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[middle-1]+sorted[middle]) / 2, true
	}
	return float64(sorted[middle]), true
}

// FormatMedian renders a median in its shortest form, e.g. "2" or "1.5"
func FormatMedian(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
