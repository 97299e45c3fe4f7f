package models

// StatKey identifies one of the tracked match statistics
type StatKey string

const (
	StatPossession StatKey = "possession"
	StatShots      StatKey = "shots"
	StatPasses     StatKey = "passes"
	StatXG         StatKey = "xG"
	StatCorners    StatKey = "corners"
	StatFouls      StatKey = "fouls"
)

// StatOrder returns the fixed display order of the statistics panel
func StatOrder() []StatKey {
	return []StatKey{StatPossession, StatShots, StatPasses, StatXG, StatCorners, StatFouls}
}

// Trend indicates the short-term direction of a statistic
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Side is one of the three outcomes of a three-way market
type Side string

const (
	SideHome Side = "home"
	SideDraw Side = "draw"
	SideAway Side = "away"
)

// Odds holds the three decimal prices of a three-way market
type Odds struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// StatEntry is one statistic with its home/away values, a short explanation
// of how it is collected, and an optional priced market
type StatEntry struct {
	Home      float64 `json:"home"`
	Away      float64 `json:"away"`
	Algorithm string  `json:"algorithm"`
	Odds      *Odds   `json:"odds,omitempty"`
	Suspended bool    `json:"suspended,omitempty"`
	Trend     Trend   `json:"trend,omitempty"`
}

// Score is the current scoreline
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// RedCards counts red cards per team with the sent-off players' names
type RedCards struct {
	Home        int      `json:"home"`
	Away        int      `json:"away"`
	HomePlayers []string `json:"homePlayers,omitempty"`
	AwayPlayers []string `json:"awayPlayers,omitempty"`
}

// MatchData is the immutable record describing one match. It is supplied
// once when the stats screen is opened and never mutated afterwards.
type MatchData struct {
	ID       string                `json:"id"`
	HomeTeam string                `json:"homeTeam"`
	AwayTeam string                `json:"awayTeam"`
	Score    Score                 `json:"score"`
	Time     string                `json:"time"`
	League   string                `json:"league"`
	RedCards RedCards              `json:"redCards"`
	Stats    map[StatKey]StatEntry `json:"stats"`
}

// Selection is one user-chosen (statistic, side) pair with its price.
// Uniqueness key is (Stat, Side); the price is captured at selection time.
type Selection struct {
	Stat StatKey `json:"stat"`
	Side Side    `json:"type"`
	Odds float64 `json:"odds"`
}

var statLabels = map[StatKey]string{
	StatPossession: "Possession",
	StatShots:      "Tirs",
	StatPasses:     "Passes",
	StatXG:         "xG (buts attendus)",
	StatCorners:    "Corners",
	StatFouls:      "Fautes",
}

// StatLabel returns the display label for a statistic. Unknown keys fall
// back to the raw key string rather than failing.
func StatLabel(key StatKey) string {
	if label, ok := statLabels[key]; ok {
		return label
	}
	return string(key)
}

// SideLabel returns the display label for a market side
func SideLabel(side Side) string {
	switch side {
	case SideHome:
		return "Domicile"
	case SideDraw:
		return "Nul"
	case SideAway:
		return "Extérieur"
	default:
		return string(side)
	}
}

// TrendLabel returns the display label for a trend indicator, or the empty
// string when no trend is set
func TrendLabel(trend Trend) string {
	switch trend {
	case TrendUp:
		return "En hausse"
	case TrendDown:
		return "En baisse"
	case TrendStable:
		return "Stable"
	default:
		return ""
	}
}
