package viewstate

import (
	"errors"
	"fmt"

	"github.com/statlive/matchview-ui/internal/models"
)

// ErrOddsSuspended is returned by ToggleSelection when the market exists
// but betting on it is paused. Callers can distinguish it from plain
// validation errors (HTTP 409 vs 400).
var ErrOddsSuspended = errors.New("odds suspended")

// Tab selects which of the two main panels is displayed
type Tab string

const (
	TabStats Tab = "stats"
	TabOdds  Tab = "odds"
)

// Modal identifies one of the standalone explainer overlays
type Modal string

const (
	ModalMethodology Modal = "methodology"
	ModalRedCard     Modal = "redcard"
	ModalGoal        Modal = "goal"
)

// Section identifies a collapsible sub-section of the methodology explainer
type Section string

const (
	SectionSensor Section = "sensor"
	SectionCamera Section = "camera"
)

// ViewState holds every interactive flag of the match stats screen. One
// instance exists per screen session; it is created when the screen is
// opened and discarded when the session ends. All fields derive from user
// events (clicks, timers, scroll visibility) and never feed back into the
// match data.
//
// ExpandedStat is a single nullable field rather than per-statistic
// booleans, so at most one statistic explainer can ever be open.
type ViewState struct {
	Tab          Tab                `json:"tab"`
	ExpandedStat *models.StatKey    `json:"expandedStat"`
	Selections   []models.Selection `json:"selections"`
	BetSlipOpen  bool               `json:"betSlipOpen"`

	MethodologyOpen   bool `json:"methodologyOpen"`
	SensorSectionOpen bool `json:"sensorSectionOpen"`
	CameraSectionOpen bool `json:"cameraSectionOpen"`
	RedCardOpen       bool `json:"redCardOpen"`
	GoalOpen          bool `json:"goalOpen"`

	// Reference is the id of the open citation popover, nil when closed.
	// Closing it returns to whichever explainer opened it.
	Reference *int `json:"reference"`

	BannerVisible   bool `json:"bannerVisible"`
	FloatingVisible bool `json:"floatingVisible"`
}

// New returns the initial state of a freshly opened stats screen
func New() *ViewState {
	return &ViewState{
		Tab:        TabStats,
		Selections: []models.Selection{},
	}
}

// SelectTab switches between the stats and odds panels
func (v *ViewState) SelectTab(tab Tab) error {
	if tab != TabStats && tab != TabOdds {
		return fmt.Errorf("unknown tab %q", tab)
	}
	v.Tab = tab
	return nil
}

// ExpandStat opens the detail explainer for one statistic. Expanding a
// second statistic replaces the first; the overlay stays open and only its
// content changes.
func (v *ViewState) ExpandStat(key models.StatKey) {
	k := key
	v.ExpandedStat = &k
}

// CollapseStat closes the statistic explainer
func (v *ViewState) CollapseStat() {
	v.ExpandedStat = nil
}

// ToggleSelection adds or removes the (stat, side) pair from the selection
// list. A pair already present is removed; order of the remaining entries is
// preserved. The bet slip is always flagged open afterwards, even when the
// toggle just removed the last entry: dismissal is an explicit action and
// BetSlipVisible hides the empty slip on its own.
//
// Returns whether the pair is selected after the toggle. Statistics without
// a priced market or with suspended odds never change the list.
func (v *ViewState) ToggleSelection(match *models.MatchData, stat models.StatKey, side models.Side) (bool, error) {
	entry, ok := match.Stats[stat]
	if !ok {
		return false, fmt.Errorf("unknown statistic %q", stat)
	}
	if entry.Odds == nil {
		return false, fmt.Errorf("statistic %q has no odds", stat)
	}
	if entry.Suspended {
		return false, fmt.Errorf("statistic %q: %w", stat, ErrOddsSuspended)
	}

	var price float64
	switch side {
	case models.SideHome:
		price = entry.Odds.Home
	case models.SideDraw:
		price = entry.Odds.Draw
	case models.SideAway:
		price = entry.Odds.Away
	default:
		return false, fmt.Errorf("unknown side %q", side)
	}

	for i, sel := range v.Selections {
		if sel.Stat == stat && sel.Side == side {
			v.Selections = append(v.Selections[:i], v.Selections[i+1:]...)
			v.BetSlipOpen = true
			return false, nil
		}
	}

	v.Selections = append(v.Selections, models.Selection{Stat: stat, Side: side, Odds: price})
	v.BetSlipOpen = true
	return true, nil
}

// IsSelected reports whether the (stat, side) pair is in the selection list
func (v *ViewState) IsSelected(stat models.StatKey, side models.Side) bool {
	for _, sel := range v.Selections {
		if sel.Stat == stat && sel.Side == side {
			return true
		}
	}
	return false
}

// CloseBetSlip hides the slip without clearing the selections, so a later
// odds click reopens it with the prior entries intact
func (v *ViewState) CloseBetSlip() {
	v.BetSlipOpen = false
}

// BetSlipVisible reports whether the slip renders: it must be open and hold
// at least one selection
func (v *ViewState) BetSlipVisible() bool {
	return v.BetSlipOpen && len(v.Selections) > 0
}

// OpenModal opens one of the standalone explainers. The overlays are
// independent: opening one never closes another.
func (v *ViewState) OpenModal(m Modal) error {
	switch m {
	case ModalMethodology:
		v.MethodologyOpen = true
	case ModalRedCard:
		v.RedCardOpen = true
	case ModalGoal:
		v.GoalOpen = true
	default:
		return fmt.Errorf("unknown modal %q", m)
	}
	return nil
}

// CloseModal closes one of the standalone explainers
func (v *ViewState) CloseModal(m Modal) error {
	switch m {
	case ModalMethodology:
		v.MethodologyOpen = false
	case ModalRedCard:
		v.RedCardOpen = false
	case ModalGoal:
		v.GoalOpen = false
	default:
		return fmt.Errorf("unknown modal %q", m)
	}
	return nil
}

// ToggleSection expands or collapses one methodology sub-section. The two
// sections toggle independently; both may be open at once.
func (v *ViewState) ToggleSection(s Section) error {
	switch s {
	case SectionSensor:
		v.SensorSectionOpen = !v.SensorSectionOpen
	case SectionCamera:
		v.CameraSectionOpen = !v.CameraSectionOpen
	default:
		return fmt.Errorf("unknown section %q", s)
	}
	return nil
}

// OpenReference opens the citation popover for the given reference id
func (v *ViewState) OpenReference(id int) {
	ref := id
	v.Reference = &ref
}

// CloseReference closes the citation popover, returning to the explainer
// underneath without closing it
func (v *ViewState) CloseReference() {
	v.Reference = nil
}

// SetAnchorVisible records whether the in-flow call-to-action button is
// inside the viewport. The floating duplicate shows exactly when the anchor
// is out of view.
func (v *ViewState) SetAnchorVisible(visible bool) {
	v.FloatingVisible = !visible
}

// ShowBanner marks the transient notification banner visible
func (v *ViewState) ShowBanner() {
	v.BannerVisible = true
}

// HideBanner marks the transient notification banner hidden
func (v *ViewState) HideBanner() {
	v.BannerVisible = false
}
