package splitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   float64
		wantOK bool
	}{
		{"empty", nil, 0, false},
		{"single", []int{3}, 3, true},
		{"even", []int{1, 3}, 2, true},
		{"odd", []int{1, 2, 4}, 2, true},
		{"unsorted", []int{9, 1, 5}, 5, true},
		{"fractional", []int{1, 2}, 1.5, true},
		{"duplicates", []int{2, 2, 0, 7}, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Median(tt.values)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMedianDoesNotModifyInput(t *testing.T) {
	values := []int{4, 1, 3}
	Median(values)
	assert.Equal(t, []int{4, 1, 3}, values)
}

func TestFormatMedian(t *testing.T) {
	assert.Equal(t, "2", FormatMedian(2))
	assert.Equal(t, "1.5", FormatMedian(1.5))
	assert.Equal(t, "0", FormatMedian(0))
}

func TestStatisticsMedians(t *testing.T) {
	stats := &Statistics{}
	_, _, ok := stats.Medians()
	assert.False(t, ok)

	stats.Add(2, 1)
	stats.Add(4, 0)
	positive, negative, ok := stats.Medians()
	assert.True(t, ok)
	assert.Equal(t, 3.0, positive)
	assert.Equal(t, 0.5, negative)
	assert.Equal(t, 2, stats.Len())
}
