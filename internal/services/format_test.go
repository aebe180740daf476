package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0s"},
		{59.9, "59s"},
		{60, "1m 0s"},
		{330, "5m 30s"},
		{3600, "1h 0m"},
		{7530, "2h 5m"},
		{-5, "0s"},
		{math.NaN(), "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSeconds(tt.seconds))
		})
	}
}
