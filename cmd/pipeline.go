package cmd

import (
	"context"
	"io"
	"time"

	"github.com/rs/zerolog"

	"drishti-cli/internal/config"
	"drishti-cli/internal/monitor"
	"drishti-cli/internal/notify"
	"drishti-cli/internal/poller"
	"drishti-cli/internal/view"
)

// pipeline is the poller, session and notifier wired together.
type pipeline struct {
	Session  *monitor.Session
	Notifier *notify.Notifier
	poller   *poller.Poller
	closers  []func() error
	logger   zerolog.Logger
}

// newPipeline builds the long-running monitor. cueOut receives the terminal
// bell when the bell cue is configured.
func newPipeline(s *config.Settings, logger zerolog.Logger, cueOut io.Writer, observer monitor.Observer) (*pipeline, error) {
	filter, err := view.ParseFilter(s.Filter)
	if err != nil {
		return nil, err
	}

	cue, err := notify.NewCue(s.Cue.Mode, s.Cue.Player, s.Cue.Asset, cueOut)
	if err != nil {
		return nil, err
	}

	p := &pipeline{logger: logger}

	var forwarders []notify.Forwarder
	if s.Notify.NATSURL != "" {
		nf, err := notify.DialNATS(s.Notify.NATSURL, s.Notify.NATSSubject)
		if err != nil {
			return nil, err
		}
		forwarders = append(forwarders, nf)
		p.closers = append(p.closers, nf.Close)
	}
	if s.Notify.WebhookURL != "" {
		forwarders = append(forwarders, notify.NewWebhookForwarder(s.Notify.WebhookURL, s.RequestTimeout))
	}

	p.Notifier = notify.NewNotifier(logger, cue, forwarders...)
	p.Session = monitor.New(monitor.Config{
		Sink:     p.Notifier,
		Banner:   p.Notifier.Banner,
		Observer: observer,
		Filter:   filter,
	}, logger)
	p.poller = poller.New(newClient(s), s.PollInterval, logger)

	return p, nil
}

// Run polls until ctx is done, then waits for in-flight work and closes
// the forwarders.
func (p *pipeline) Run(ctx context.Context) {
	p.logger.Info().Msg("monitor started")
	p.Session.Run(ctx, p.poller.Run(ctx))

	done := make(chan struct{})
	go func() {
		p.Notifier.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		p.logger.Warn().Msg("gave up waiting for notifications to finish")
	}

	for _, c := range p.closers {
		if err := c(); err != nil {
			p.logger.Warn().Err(err).Msg("close failed")
		}
	}
	p.logger.Info().Msg("monitor stopped")
}
