// Package escalation turns the alert feed into at-most-once escalation events.
//
// The tracker has two states. QUIET means no banner is shown; ALARMED means
// the operator has been notified about the newest HIGH alert. The watermark
// is the timestamp of the newest HIGH alert acknowledged so far and only
// ever moves forward.
package escalation

import (
	"time"

	"github.com/google/uuid"

	"drishti-cli/pkg/models"
)

// State is the process-wide escalation cell. The zero value is QUIET with
// a watermark of 0. Only a Tracker writes to it.
type State struct {
	Watermark    float64 `json:"last_acknowledged_high_timestamp" yaml:"last_acknowledged_high_timestamp"`
	BannerActive bool    `json:"banner_active" yaml:"banner_active"`
}

// Transition describes what a single observation did to the state.
type Transition int

const (
	None        Transition = iota
	Escalated              // QUIET -> ALARMED
	Retriggered            // ALARMED -> ALARMED with a newer HIGH alert
	Cleared                // ALARMED -> QUIET
)

func (t Transition) String() string {
	switch t {
	case Escalated:
		return "escalated"
	case Retriggered:
		return "retriggered"
	case Cleared:
		return "cleared"
	default:
		return "none"
	}
}

// Event is emitted once per newly seen HIGH alert instant.
type Event struct {
	ID        string       `json:"id"`
	Alert     models.Alert `json:"alert"`
	Watermark float64      `json:"watermark"`
	Previous  float64      `json:"previous_watermark"`
	Retrigger bool         `json:"retrigger"`
	At        time.Time    `json:"at"`
}

// Result is what Observe reports back to the caller.
type Result struct {
	Transition Transition
	Event      *Event
}

// Tracker applies alert snapshots to a State.
type Tracker struct {
	state *State
	now   func() time.Time
}

// NewTracker returns a tracker that owns state. A nil state starts a fresh cell.
func NewTracker(state *State) *Tracker {
	if state == nil {
		state = &State{}
	}
	return &Tracker{state: state, now: time.Now}
}

// State returns a copy of the current state.
func (t *Tracker) State() State {
	return *t.state
}

// Reset puts the cell back to (0, false).
func (t *Tracker) Reset() {
	*t.state = State{}
}

// Observe applies one alert snapshot.
//
// The representative HIGH alert is the one with the largest timestamp; when
// several share it, the first in feed order wins. The feed's newest-first
// order is not trusted, so the whole snapshot is scanned.
func (t *Tracker) Observe(alerts []models.Alert) Result {
	newest, ok := newestHigh(alerts)

	if !ok {
		if t.state.BannerActive {
			t.state.BannerActive = false
			return Result{Transition: Cleared}
		}
		return Result{Transition: None}
	}

	if newest.Timestamp <= t.state.Watermark {
		return Result{Transition: None}
	}

	tr := Escalated
	if t.state.BannerActive {
		tr = Retriggered
	}

	ev := &Event{
		ID:        uuid.New().String(),
		Alert:     newest,
		Watermark: newest.Timestamp,
		Previous:  t.state.Watermark,
		Retrigger: tr == Retriggered,
		At:        t.now(),
	}

	t.state.Watermark = newest.Timestamp
	t.state.BannerActive = true

	return Result{Transition: tr, Event: ev}
}

func newestHigh(alerts []models.Alert) (models.Alert, bool) {
	var (
		best  models.Alert
		found bool
	)
	for _, a := range alerts {
		if a.Severity != models.SeverityHigh {
			continue
		}
		// strict > keeps the first of equal timestamps
		if !found || a.Timestamp > best.Timestamp {
			best = a
			found = true
		}
	}
	return best, found
}
