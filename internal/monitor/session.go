// Package monitor owns the feed snapshots and is the only writer to them.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"drishti-cli/internal/client"
	"drishti-cli/internal/escalation"
	"drishti-cli/internal/notify"
	"drishti-cli/internal/poller"
	"drishti-cli/internal/view"
	"drishti-cli/pkg/models"
)

// Observer is told about every fetch outcome and every escalation transition.
type Observer interface {
	FetchObserved(feed client.Feed, err error, took time.Duration)
	Transitioned(res escalation.Result)
}

// Listener is called with a fresh view after every applied update.
type Listener func(v view.View)

type Config struct {
	Sink     notify.Sink
	Banner   *notify.Banner
	Observer Observer
	Filter   view.Filter
	// State is the escalation cell; nil starts a fresh one.
	State *escalation.State
}

// Snapshot is a consistent copy of everything the session holds.
type Snapshot struct {
	Detections []models.Detection
	Soldiers   []models.PersonnelRecord
	Alerts     []models.Alert
	Escalation escalation.State
	Banner     notify.BannerState
}

type Session struct {
	mu         sync.RWMutex
	detections []models.Detection
	soldiers   []models.PersonnelRecord
	alerts     []models.Alert
	filter     view.Filter
	tracker    *escalation.Tracker

	sink      notify.Sink
	banner    *notify.Banner
	observer  Observer
	listeners []Listener
	logger    zerolog.Logger
	now       func() time.Time
}

func New(cfg Config, logger zerolog.Logger) *Session {
	filter := cfg.Filter
	if filter == "" {
		filter = view.FilterAll
	}
	return &Session{
		filter:   filter,
		tracker:  escalation.NewTracker(cfg.State),
		sink:     cfg.Sink,
		banner:   cfg.Banner,
		observer: cfg.Observer,
		logger:   logger.With().Str("component", "monitor").Logger(),
		now:      time.Now,
	}
}

// OnChange registers l. Listeners run on the goroutine that applies updates.
func (s *Session) OnChange(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *Session) SetFilter(f view.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Run applies updates until the channel is closed. Updates that arrive
// after ctx is done are drained and discarded.
func (s *Session) Run(ctx context.Context, updates <-chan poller.Update) {
	for u := range updates {
		if ctx.Err() != nil {
			continue
		}
		s.Apply(ctx, u)
	}
}

// Apply folds one fetch outcome into the session.
//
// A transient failure keeps the previous snapshot. A malformed body empties
// it. A new alerts snapshot is run through the escalation tracker and any
// transition is handed to the sink.
func (s *Session) Apply(ctx context.Context, u poller.Update) {
	if ctx.Err() != nil {
		return
	}

	if s.observer != nil {
		s.observer.FetchObserved(u.Feed, u.Err, u.Took)
	}

	log := s.logger.With().Str("feed", string(u.Feed)).Uint64("cycle", u.Cycle).Logger()

	if u.Err != nil {
		if !errors.Is(u.Err, client.ErrMalformedPayload) {
			log.Warn().Err(u.Err).Msg("fetch failed, keeping last snapshot")
			return
		}
		log.Warn().Err(u.Err).Msg("malformed payload, clearing snapshot")
		u.Detections, u.Soldiers, u.Alerts = nil, nil, nil
	}

	var res escalation.Result

	s.mu.Lock()
	switch u.Feed {
	case client.FeedDetections:
		s.detections = u.Detections
	case client.FeedSoldiers:
		s.soldiers = u.Soldiers
	case client.FeedAlerts:
		s.alerts = u.Alerts
		res = s.tracker.Observe(u.Alerts)
	default:
		s.mu.Unlock()
		log.Warn().Msg("update for unknown feed ignored")
		return
	}
	s.mu.Unlock()

	if res.Transition != escalation.None {
		s.transition(ctx, res)
	}

	s.publish()
}

func (s *Session) transition(ctx context.Context, res escalation.Result) {
	if s.observer != nil {
		s.observer.Transitioned(res)
	}

	s.logger.Debug().Stringer("transition", res.Transition).Msg("escalation state changed")

	if s.sink == nil {
		return
	}
	switch res.Transition {
	case escalation.Escalated, escalation.Retriggered:
		s.sink.Escalated(ctx, *res.Event)
	case escalation.Cleared:
		s.sink.Cleared(ctx)
	}
}

func (s *Session) publish() {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()

	if len(listeners) == 0 {
		return
	}
	v := s.View(s.now())
	for _, l := range listeners {
		l(v)
	}
}

// Snapshot returns a copy of the current snapshots and escalation state.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Detections: append([]models.Detection(nil), s.detections...),
		Soldiers:   append([]models.PersonnelRecord(nil), s.soldiers...),
		Alerts:     append([]models.Alert(nil), s.alerts...),
		Escalation: s.tracker.State(),
	}
	if s.banner != nil {
		snap.Banner = s.banner.State()
	} else {
		snap.Banner = notify.BannerState{Active: snap.Escalation.BannerActive}
	}
	return snap
}

// View builds the current frame.
func (s *Session) View(now time.Time) view.View {
	snap := s.Snapshot()

	s.mu.RLock()
	filter := s.filter
	s.mu.RUnlock()

	return view.Build(view.Input{
		Detections: snap.Detections,
		Soldiers:   snap.Soldiers,
		Alerts:     snap.Alerts,
		Filter:     filter,
		Banner:     snap.Banner,
		Escalation: snap.Escalation,
	}, now)
}
