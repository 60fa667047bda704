// Package poller runs the fixed-cadence fetch cycle over the three feeds.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"drishti-cli/internal/client"
	"drishti-cli/pkg/models"
)

// DefaultInterval is the dashboard refresh cadence.
const DefaultInterval = time.Second

// Source fetches the current snapshot of each feed.
type Source interface {
	Detections(ctx context.Context) ([]models.Detection, error)
	Soldiers(ctx context.Context) ([]models.PersonnelRecord, error)
	Alerts(ctx context.Context) ([]models.Alert, error)
}

// Update is the outcome of one fetch of one feed. Only the slice matching
// Feed is set, and only when Err is nil.
type Update struct {
	Feed  client.Feed
	Cycle uint64

	Detections []models.Detection
	Soldiers   []models.PersonnelRecord
	Alerts     []models.Alert

	Err  error
	Took time.Duration
}

type Poller struct {
	source   Source
	interval time.Duration
	logger   zerolog.Logger
}

func New(source Source, interval time.Duration, logger zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		source:   source,
		interval: interval,
		logger:   logger.With().Str("component", "poller").Logger(),
	}
}

// Run starts a cycle immediately and then once per interval until ctx is
// done. A cycle never waits for the previous one, so a slow feed does not
// delay the others. The returned channel is closed once ctx is done and
// every in-flight fetch has returned; results that finish after
// cancellation are dropped.
func (p *Poller) Run(ctx context.Context) <-chan Update {
	out := make(chan Update)

	go func() {
		var wg sync.WaitGroup
		defer func() {
			wg.Wait()
			close(out)
		}()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		var cycle uint64
		for {
			cycle++
			p.logger.Trace().Uint64("cycle", cycle).Msg("poll cycle")
			for _, feed := range client.Feeds {
				wg.Add(1)
				go func(feed client.Feed, cycle uint64) {
					defer wg.Done()
					p.fetch(ctx, out, feed, cycle)
				}(feed, cycle)
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

func (p *Poller) fetch(ctx context.Context, out chan<- Update, feed client.Feed, cycle uint64) {
	start := time.Now()
	u := Update{Feed: feed, Cycle: cycle}

	switch feed {
	case client.FeedDetections:
		u.Detections, u.Err = p.source.Detections(ctx)
	case client.FeedSoldiers:
		u.Soldiers, u.Err = p.source.Soldiers(ctx)
	case client.FeedAlerts:
		u.Alerts, u.Err = p.source.Alerts(ctx)
	}
	u.Took = time.Since(start)

	if ctx.Err() != nil {
		return
	}

	select {
	case out <- u:
	case <-ctx.Done():
	}
}

// Once fetches every feed a single time and returns the updates in feed order.
func Once(ctx context.Context, source Source) []Update {
	p := &Poller{source: source, logger: zerolog.Nop()}
	out := make(chan Update, len(client.Feeds))

	var wg sync.WaitGroup
	for _, feed := range client.Feeds {
		wg.Add(1)
		go func(feed client.Feed) {
			defer wg.Done()
			p.fetch(ctx, out, feed, 1)
		}(feed)
	}
	wg.Wait()
	close(out)

	byFeed := make(map[client.Feed]Update, len(client.Feeds))
	for u := range out {
		byFeed[u.Feed] = u
	}
	updates := make([]Update, 0, len(byFeed))
	for _, feed := range client.Feeds {
		if u, ok := byFeed[feed]; ok {
			updates = append(updates, u)
		}
	}
	return updates
}
