package escalation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drishti-cli/pkg/models"
)

func high(ts float64, msg string) models.Alert {
	return models.Alert{Severity: models.SeverityHigh, Type: models.AlertSoldierEmergency, Timestamp: ts, Message: msg}
}

func medium(ts float64) models.Alert {
	return models.Alert{Severity: models.SeverityMedium, Type: models.AlertSoldierWarning, Timestamp: ts}
}

func low(ts float64) models.Alert {
	return models.Alert{Severity: models.SeverityLow, Type: models.AlertOther, Timestamp: ts}
}

func TestTracker_NoHighStaysQuiet(t *testing.T) {
	snapshots := [][]models.Alert{
		nil,
		{},
		{medium(10)},
		{low(20), medium(30)},
		{{Severity: "CRITICAL", Timestamp: 99}},
	}

	tr := NewTracker(&State{})
	for _, snap := range snapshots {
		res := tr.Observe(snap)
		assert.Equal(t, None, res.Transition)
		assert.Nil(t, res.Event)
		assert.False(t, tr.State().BannerActive)
		assert.Zero(t, tr.State().Watermark)
	}
}

func TestTracker_ScenarioEscalateHoldClear(t *testing.T) {
	state := &State{}
	tr := NewTracker(state)

	// t=0: first HIGH alert
	res := tr.Observe([]models.Alert{high(1000, "a")})
	require.Equal(t, Escalated, res.Transition)
	require.NotNil(t, res.Event)
	assert.Equal(t, 1000.0, res.Event.Watermark)
	assert.Zero(t, res.Event.Previous)
	assert.NotEmpty(t, res.Event.ID)
	assert.True(t, state.BannerActive)
	assert.Equal(t, 1000.0, state.Watermark)

	// same alert again: no new event, banner stays
	res = tr.Observe([]models.Alert{high(1000, "a")})
	assert.Equal(t, None, res.Transition)
	assert.Nil(t, res.Event)
	assert.True(t, state.BannerActive)

	// window empties: banner clears, watermark kept
	res = tr.Observe([]models.Alert{})
	assert.Equal(t, Cleared, res.Transition)
	assert.Nil(t, res.Event)
	assert.False(t, state.BannerActive)
	assert.Equal(t, 1000.0, state.Watermark)
}

func TestTracker_Idempotent(t *testing.T) {
	tr := NewTracker(nil)
	snap := []models.Alert{medium(5), high(50, "x"), low(1)}

	events := 0
	for i := 0; i < 5; i++ {
		if res := tr.Observe(snap); res.Event != nil {
			events++
		}
	}
	assert.Equal(t, 1, events)
}

func TestTracker_WatermarkIsMaxHigh(t *testing.T) {
	tr := NewTracker(nil)

	// feed order is not trusted: newest HIGH sits in the middle
	res := tr.Observe([]models.Alert{high(100, "old"), medium(500), high(300, "newest"), high(200, "mid")})
	require.NotNil(t, res.Event)
	assert.Equal(t, "newest", res.Event.Alert.Message)
	assert.Equal(t, 300.0, tr.State().Watermark)
}

func TestTracker_TieBreakFirstEncountered(t *testing.T) {
	tr := NewTracker(nil)

	res := tr.Observe([]models.Alert{high(300, "first"), high(300, "second")})
	require.NotNil(t, res.Event)
	assert.Equal(t, "first", res.Event.Alert.Message)
}

func TestTracker_Retrigger(t *testing.T) {
	tr := NewTracker(nil)

	res := tr.Observe([]models.Alert{high(1000, "a")})
	require.Equal(t, Escalated, res.Transition)

	res = tr.Observe([]models.Alert{high(1005, "b"), high(1000, "a")})
	require.Equal(t, Retriggered, res.Transition)
	require.NotNil(t, res.Event)
	assert.True(t, res.Event.Retrigger)
	assert.Equal(t, 1000.0, res.Event.Previous)
	assert.Equal(t, 1005.0, tr.State().Watermark)

	// repeated poll of the retriggering snapshot is silent
	res = tr.Observe([]models.Alert{high(1005, "b"), high(1000, "a")})
	assert.Equal(t, None, res.Transition)
	assert.Nil(t, res.Event)
}

func TestTracker_StaleHighAfterClearStaysQuiet(t *testing.T) {
	tr := NewTracker(nil)
	tr.Observe([]models.Alert{high(1000, "a")})
	tr.Observe(nil)

	res := tr.Observe([]models.Alert{high(1000, "a")})
	assert.Equal(t, None, res.Transition)
	assert.False(t, tr.State().BannerActive)

	res = tr.Observe([]models.Alert{high(1001, "b")})
	assert.Equal(t, Escalated, res.Transition)
	assert.True(t, tr.State().BannerActive)
}

func TestTracker_MediumNeverEscalates(t *testing.T) {
	tr := NewTracker(nil)
	res := tr.Observe([]models.Alert{medium(1e9), low(2e9)})
	assert.Equal(t, None, res.Transition)
	assert.Zero(t, tr.State().Watermark)
}

func TestTracker_Reset(t *testing.T) {
	state := &State{}
	tr := NewTracker(state)
	tr.Observe([]models.Alert{high(10, "a")})

	tr.Reset()
	assert.Equal(t, State{}, *state)

	res := tr.Observe([]models.Alert{high(10, "a")})
	assert.Equal(t, Escalated, res.Transition)
}

func TestTransition_String(t *testing.T) {
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "escalated", Escalated.String())
	assert.Equal(t, "retriggered", Retriggered.String())
	assert.Equal(t, "cleared", Cleared.String())
}
