package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/statlive/matchview-ui/internal/models"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{9, "9"},
		{0, "0"},
		{385, "385"},
		{5.24, "5.24"},
		{1.12, "1.12"},
		{2.5, "2.50"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatValue(tt.value), "FormatValue(%v)", tt.value)
	}
}

func TestRatioWidthPossession(t *testing.T) {
	// Possession is already a percentage and ignores the away value
	assert.Equal(t, 65.0, RatioWidth(models.StatPossession, 65, 35))
	assert.Equal(t, 65.0, RatioWidth(models.StatPossession, 65, 0))

	// Out-of-range inputs clamp instead of breaking the layout
	assert.Equal(t, 100.0, RatioWidth(models.StatPossession, 140, 0))
	assert.Equal(t, 0.0, RatioWidth(models.StatPossession, -3, 35))
}

func TestRatioWidthShare(t *testing.T) {
	assert.InDelta(t, 81.82, RatioWidth(models.StatCorners, 9, 2), 0.01)
	assert.InDelta(t, 66.04, RatioWidth(models.StatPasses, 385, 198), 0.01)
	assert.Equal(t, 50.0, RatioWidth(models.StatShots, 7, 7))
	assert.Equal(t, 100.0, RatioWidth(models.StatShots, 3, 0))
	assert.Equal(t, 0.0, RatioWidth(models.StatShots, 0, 3))
}

func TestRatioWidthZeroDenominator(t *testing.T) {
	// A goalless stat splits the bar evenly rather than producing NaN
	assert.Equal(t, 50.0, RatioWidth(models.StatCorners, 0, 0))
}
