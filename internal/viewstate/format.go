package viewstate

import (
	"math"
	"strconv"

	"github.com/statlive/matchview-ui/internal/models"
)

// FormatValue renders a statistic value the way the stat rows display it:
// integral values as plain integers, fractional values with exactly two
// decimal places (5.24 -> "5.24", 9 -> "9").
func FormatValue(value float64) string {
	if value == math.Trunc(value) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// RatioWidth computes the home-side width of a stat row's ratio bar, in
// percent. Possession is already a percentage and is used directly, clamped
// to [0,100]. Every other statistic uses home/(home+away); a zero denominator
// clamps to an even 50 split instead of propagating NaN into the layout.
func RatioWidth(key models.StatKey, home, away float64) float64 {
	if key == models.StatPossession {
		return math.Min(100, math.Max(0, home))
	}
	sum := home + away
	if sum == 0 {
		return 50
	}
	return home / sum * 100
}
