package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderNumberDatePart(t *testing.T) {
	day := time.Date(2024, 5, 23, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "20240523", OrderNumberDatePart(day))
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name string
		last string
		date string
		want int
	}{
		{"first order of the day", "", "20240523", 1},
		{"increments within the day", "ORD202405230007", "20240523", 8},
		{"resets on a new day", "ORD202405230042", "20240524", 1},
		{"ignores malformed numbers", "ORD20240523abcd", "20240523", 1},
		{"handles four digit rollover", "ORD202405239999", "20240523", 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequence(tt.last, tt.date))
		})
	}
}
