package viewstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statlive/matchview-ui/internal/models"
)

func sampleMatch() *models.MatchData {
	return &models.MatchData{
		ID:       "test-match",
		HomeTeam: "OM",
		AwayTeam: "OL",
		Stats: map[models.StatKey]models.StatEntry{
			models.StatPossession: {
				Home: 65, Away: 35,
				Odds: &models.Odds{Home: 1.85, Draw: 3.40, Away: 4.20},
			},
			models.StatShots: {
				Home: 18, Away: 4,
				Odds:      &models.Odds{Home: 1.95, Draw: 3.50, Away: 3.80},
				Suspended: true,
			},
			models.StatPasses: {
				Home: 385, Away: 198,
				Odds: &models.Odds{Home: 1.75, Draw: 3.60, Away: 4.50},
			},
			models.StatFouls: {
				Home: 8, Away: 15,
			},
		},
	}
}

func TestNewInitialState(t *testing.T) {
	v := New()

	assert.Equal(t, TabStats, v.Tab)
	assert.Nil(t, v.ExpandedStat)
	assert.Empty(t, v.Selections)
	assert.False(t, v.BetSlipOpen)
	assert.False(t, v.BetSlipVisible())
	assert.False(t, v.MethodologyOpen)
	assert.False(t, v.RedCardOpen)
	assert.False(t, v.GoalOpen)
	assert.Nil(t, v.Reference)
	assert.False(t, v.BannerVisible)
	assert.False(t, v.FloatingVisible)
}

func TestSelectTab(t *testing.T) {
	v := New()

	require.NoError(t, v.SelectTab(TabOdds))
	assert.Equal(t, TabOdds, v.Tab)

	require.NoError(t, v.SelectTab(TabStats))
	assert.Equal(t, TabStats, v.Tab)

	err := v.SelectTab(Tab("scores"))
	assert.Error(t, err)
	assert.Equal(t, TabStats, v.Tab, "failed switch must not change the tab")
}

func TestExpandStatMutuallyExclusive(t *testing.T) {
	v := New()

	v.ExpandStat(models.StatPossession)
	require.NotNil(t, v.ExpandedStat)
	assert.Equal(t, models.StatPossession, *v.ExpandedStat)

	// Expanding a second stat replaces the first, never two at once
	v.ExpandStat(models.StatFouls)
	require.NotNil(t, v.ExpandedStat)
	assert.Equal(t, models.StatFouls, *v.ExpandedStat)

	v.CollapseStat()
	assert.Nil(t, v.ExpandedStat)
}

func TestToggleSelectionAddAndRemove(t *testing.T) {
	v := New()
	match := sampleMatch()

	selected, err := v.ToggleSelection(match, models.StatPossession, models.SideHome)
	require.NoError(t, err)
	assert.True(t, selected)
	require.Len(t, v.Selections, 1)
	assert.Equal(t, models.Selection{Stat: models.StatPossession, Side: models.SideHome, Odds: 1.85}, v.Selections[0])
	assert.True(t, v.BetSlipOpen)
	assert.True(t, v.BetSlipVisible())

	// Toggling the same pair again removes it
	selected, err = v.ToggleSelection(match, models.StatPossession, models.SideHome)
	require.NoError(t, err)
	assert.False(t, selected)
	assert.Empty(t, v.Selections)

	// The open flag survives the removal; visibility is derived
	assert.True(t, v.BetSlipOpen)
	assert.False(t, v.BetSlipVisible())
}

func TestToggleSelectionPreservesOrder(t *testing.T) {
	v := New()
	match := sampleMatch()

	_, err := v.ToggleSelection(match, models.StatPossession, models.SideHome)
	require.NoError(t, err)
	_, err = v.ToggleSelection(match, models.StatPasses, models.SideDraw)
	require.NoError(t, err)
	_, err = v.ToggleSelection(match, models.StatPossession, models.SideAway)
	require.NoError(t, err)

	// Removing the middle entry keeps the rest in insertion order
	_, err = v.ToggleSelection(match, models.StatPasses, models.SideDraw)
	require.NoError(t, err)

	require.Len(t, v.Selections, 2)
	assert.Equal(t, models.StatPossession, v.Selections[0].Stat)
	assert.Equal(t, models.SideHome, v.Selections[0].Side)
	assert.Equal(t, models.SideAway, v.Selections[1].Side)
}

func TestToggleSelectionDistinctSides(t *testing.T) {
	v := New()
	match := sampleMatch()

	// Same stat, different sides: both coexist
	_, err := v.ToggleSelection(match, models.StatPossession, models.SideHome)
	require.NoError(t, err)
	_, err = v.ToggleSelection(match, models.StatPossession, models.SideDraw)
	require.NoError(t, err)

	assert.Len(t, v.Selections, 2)
	assert.True(t, v.IsSelected(models.StatPossession, models.SideHome))
	assert.True(t, v.IsSelected(models.StatPossession, models.SideDraw))
	assert.False(t, v.IsSelected(models.StatPossession, models.SideAway))
}

func TestToggleSelectionSuspended(t *testing.T) {
	v := New()
	match := sampleMatch()

	_, err := v.ToggleSelection(match, models.StatShots, models.SideHome)
	require.ErrorIs(t, err, ErrOddsSuspended)
	assert.Empty(t, v.Selections)
	assert.False(t, v.BetSlipOpen, "rejected toggle must not open the slip")
}

func TestToggleSelectionValidation(t *testing.T) {
	v := New()
	match := sampleMatch()

	_, err := v.ToggleSelection(match, models.StatKey("throwins"), models.SideHome)
	assert.Error(t, err)

	// Fouls has no priced market in the sample
	_, err = v.ToggleSelection(match, models.StatFouls, models.SideHome)
	assert.Error(t, err)

	_, err = v.ToggleSelection(match, models.StatPossession, models.Side("over"))
	assert.Error(t, err)

	assert.Empty(t, v.Selections)
}

func TestCloseBetSlipKeepsSelections(t *testing.T) {
	v := New()
	match := sampleMatch()

	_, err := v.ToggleSelection(match, models.StatPossession, models.SideHome)
	require.NoError(t, err)

	v.CloseBetSlip()
	assert.False(t, v.BetSlipVisible())
	assert.Len(t, v.Selections, 1, "dismissing the slip keeps the selections")

	// The next toggle reopens the slip with prior entries intact
	_, err = v.ToggleSelection(match, models.StatPasses, models.SideAway)
	require.NoError(t, err)
	assert.True(t, v.BetSlipVisible())
	assert.Len(t, v.Selections, 2)
}

func TestSlipScenario(t *testing.T) {
	v := New()
	match := sampleMatch()

	// A live market: shots not suspended in this fixture
	shots := match.Stats[models.StatShots]
	shots.Suspended = false
	match.Stats[models.StatShots] = shots

	_, err := v.ToggleSelection(match, models.StatShots, models.SideHome)
	require.NoError(t, err)
	_, err = v.ToggleSelection(match, models.StatPasses, models.SideDraw)
	require.NoError(t, err)

	require.Len(t, v.Selections, 2)
	assert.Equal(t, models.Selection{Stat: models.StatShots, Side: models.SideHome, Odds: 1.95}, v.Selections[0])
	assert.Equal(t, models.Selection{Stat: models.StatPasses, Side: models.SideDraw, Odds: 3.60}, v.Selections[1])

	_, err = v.ToggleSelection(match, models.StatShots, models.SideHome)
	require.NoError(t, err)
	require.Len(t, v.Selections, 1)
	assert.Equal(t, models.StatPasses, v.Selections[0].Stat)
	assert.Equal(t, models.SideDraw, v.Selections[0].Side)
}

func TestModalsIndependent(t *testing.T) {
	v := New()

	require.NoError(t, v.OpenModal(ModalMethodology))
	require.NoError(t, v.OpenModal(ModalRedCard))
	assert.True(t, v.MethodologyOpen)
	assert.True(t, v.RedCardOpen)
	assert.False(t, v.GoalOpen)

	require.NoError(t, v.CloseModal(ModalMethodology))
	assert.False(t, v.MethodologyOpen)
	assert.True(t, v.RedCardOpen, "closing one modal must not close another")

	assert.Error(t, v.OpenModal(Modal("settings")))
	assert.Error(t, v.CloseModal(Modal("settings")))
}

func TestToggleSection(t *testing.T) {
	v := New()

	require.NoError(t, v.ToggleSection(SectionSensor))
	assert.True(t, v.SensorSectionOpen)
	assert.False(t, v.CameraSectionOpen)

	require.NoError(t, v.ToggleSection(SectionCamera))
	assert.True(t, v.SensorSectionOpen)
	assert.True(t, v.CameraSectionOpen)

	require.NoError(t, v.ToggleSection(SectionSensor))
	assert.False(t, v.SensorSectionOpen)

	assert.Error(t, v.ToggleSection(Section("drone")))
}

func TestReferencePopover(t *testing.T) {
	v := New()
	require.NoError(t, v.OpenModal(ModalMethodology))

	v.OpenReference(2)
	require.NotNil(t, v.Reference)
	assert.Equal(t, 2, *v.Reference)

	// Closing the popover returns to the explainer underneath
	v.CloseReference()
	assert.Nil(t, v.Reference)
	assert.True(t, v.MethodologyOpen)
}

func TestAnchorVisibility(t *testing.T) {
	v := New()

	v.SetAnchorVisible(false)
	assert.True(t, v.FloatingVisible)

	v.SetAnchorVisible(true)
	assert.False(t, v.FloatingVisible)
}

func TestBannerFlags(t *testing.T) {
	v := New()

	v.ShowBanner()
	assert.True(t, v.BannerVisible)
	v.HideBanner()
	assert.False(t, v.BannerVisible)
}
