// Package notify turns escalation transitions into operator-visible effects.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"drishti-cli/internal/escalation"
)

// Sink receives the escalation transitions of the tracker.
type Sink interface {
	Escalated(ctx context.Context, ev escalation.Event)
	Cleared(ctx context.Context)
}

// Forwarder relays transitions to systems outside this process.
type Forwarder interface {
	Name() string
	Forward(ctx context.Context, ev escalation.Event) error
	ForwardClear(ctx context.Context, at time.Time) error
}

// Notifier is the default Sink: banner first, then audio and forwarders in
// the background. Failures are logged and never reach the caller.
type Notifier struct {
	Banner *Banner

	cue        Cue
	forwarders []Forwarder
	logger     zerolog.Logger
	wg         sync.WaitGroup
}

func NewNotifier(logger zerolog.Logger, cue Cue, forwarders ...Forwarder) *Notifier {
	if cue == nil {
		cue = NopCue{}
	}
	return &Notifier{
		Banner:     &Banner{},
		cue:        cue,
		forwarders: forwarders,
		logger:     logger.With().Str("component", "notifier").Logger(),
	}
}

// Escalated activates the banner and fires the cue.
func (n *Notifier) Escalated(ctx context.Context, ev escalation.Event) {
	n.Banner.activate(ev.Alert.Message, ev.At)

	n.logger.Warn().
		Str("event_id", ev.ID).
		Str("type", string(ev.Alert.Type)).
		Float64("watermark", ev.Watermark).
		Bool("retrigger", ev.Retrigger).
		Msg(ev.Alert.Message)

	// detached so a slow player or broker cannot hold up the caller
	ctx = context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.cue.Play(ctx); err != nil {
			n.logger.Info().Err(err).Msg("could not play alert cue")
		}
	}()

	for _, f := range n.forwarders {
		n.wg.Add(1)
		go func(f Forwarder) {
			defer n.wg.Done()
			if err := f.Forward(ctx, ev); err != nil {
				n.logger.Warn().Err(err).Str("forwarder", f.Name()).Msg("escalation forward failed")
			}
		}(f)
	}
}

// Cleared deactivates the banner.
func (n *Notifier) Cleared(ctx context.Context) {
	n.Banner.deactivate()
	n.logger.Info().Msg("high alert cleared")

	ctx = context.WithoutCancel(ctx)
	at := time.Now()
	for _, f := range n.forwarders {
		n.wg.Add(1)
		go func(f Forwarder) {
			defer n.wg.Done()
			if err := f.ForwardClear(ctx, at); err != nil {
				n.logger.Warn().Err(err).Str("forwarder", f.Name()).Msg("clear forward failed")
			}
		}(f)
	}
}

// Wait blocks until every background cue and forward has returned.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
