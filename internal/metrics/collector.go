// Package metrics exposes the monitor session to Prometheus.
package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"drishti-cli/internal/client"
	"drishti-cli/internal/escalation"
	"drishti-cli/internal/monitor"
	"drishti-cli/pkg/models"
)

var (
	upDesc = prometheus.NewDesc(
		"drishti_up", "Whether the last fetch of every feed succeeded.", nil, nil,
	)
	feedUpDesc = prometheus.NewDesc(
		"drishti_feed_up", "Whether the last fetch of the feed succeeded.", []string{"feed"}, nil,
	)
	fetchDurationDesc = prometheus.NewDesc(
		"drishti_fetch_duration_seconds", "Duration of the last fetch of the feed.", []string{"feed"}, nil,
	)
	fetchTotalDesc = prometheus.NewDesc(
		"drishti_fetches_total", "Fetches grouped by feed and result.", []string{"feed", "result"}, nil,
	)
	alertsDesc = prometheus.NewDesc(
		"drishti_alerts", "Alerts in the current window grouped by severity.", []string{"severity"}, nil,
	)
	soldiersDesc = prometheus.NewDesc(
		"drishti_soldiers", "Tracked soldiers grouped by status.", []string{"status"}, nil,
	)
	heartRateDesc = prometheus.NewDesc(
		"drishti_soldier_heart_rate_bpm", "Last reported heart rate.", []string{"id", "name"}, nil,
	)
	detectionsDesc = prometheus.NewDesc(
		"drishti_detections", "Objects in the latest detection frame.", nil, nil,
	)
	bannerDesc = prometheus.NewDesc(
		"drishti_high_alert_active", "Whether the HIGH alert banner is up.", nil, nil,
	)
	watermarkDesc = prometheus.NewDesc(
		"drishti_escalation_watermark_seconds", "Timestamp of the newest acknowledged HIGH alert.", nil, nil,
	)
	transitionsDesc = prometheus.NewDesc(
		"drishti_escalation_transitions_total", "Escalation transitions grouped by kind.", []string{"transition"}, nil,
	)
)

// Snapshotter is satisfied by *monitor.Session.
type Snapshotter interface {
	Snapshot() monitor.Snapshot
}

type fetchStats struct {
	ok, failed, malformed float64
	lastErr               error
	took                  time.Duration
}

// Collector reports the session state on scrape and counts fetches and
// transitions as a monitor.Observer.
type Collector struct {
	Session Snapshotter

	mu          sync.Mutex
	fetches     map[client.Feed]*fetchStats
	transitions map[escalation.Transition]float64
}

func NewCollector(session Snapshotter) *Collector {
	return &Collector{
		Session:     session,
		fetches:     make(map[client.Feed]*fetchStats),
		transitions: make(map[escalation.Transition]float64),
	}
}

func (c *Collector) FetchObserved(feed client.Feed, err error, took time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, ok := c.fetches[feed]
	if !ok {
		st = &fetchStats{}
		c.fetches[feed] = st
	}
	st.lastErr = err
	st.took = took
	switch {
	case err == nil:
		st.ok++
	case errors.Is(err, client.ErrMalformedPayload):
		st.malformed++
	default:
		st.failed++
	}
}

func (c *Collector) Transitioned(res escalation.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitions[res.Transition]++
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- upDesc
	ch <- feedUpDesc
	ch <- fetchDurationDesc
	ch <- fetchTotalDesc
	ch <- alertsDesc
	ch <- soldiersDesc
	ch <- heartRateDesc
	ch <- detectionsDesc
	ch <- bannerDesc
	ch <- watermarkDesc
	ch <- transitionsDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.collectFetches(ch)

	snap := c.Session.Snapshot()

	// 1. Alerts
	sevCounts := map[string]float64{
		string(models.SeverityHigh):   0,
		string(models.SeverityMedium): 0,
		string(models.SeverityLow):    0,
	}
	for _, a := range snap.Alerts {
		sev := string(a.Severity)
		if sev == "" {
			sev = "UNKNOWN"
		}
		sevCounts[sev]++
	}
	for sev, cnt := range sevCounts {
		ch <- prometheus.MustNewConstMetric(alertsDesc, prometheus.GaugeValue, cnt, sev)
	}

	// 2. Soldiers
	statusCounts := map[string]float64{
		string(models.StatusOK):       0,
		string(models.StatusAtRisk):   0,
		string(models.StatusCritical): 0,
	}
	for _, s := range snap.Soldiers {
		st := string(s.Status)
		if st == "" {
			st = "UNKNOWN"
		}
		statusCounts[st]++
		ch <- prometheus.MustNewConstMetric(heartRateDesc, prometheus.GaugeValue, float64(s.HeartRate), s.ID, s.Name)
	}
	for st, cnt := range statusCounts {
		ch <- prometheus.MustNewConstMetric(soldiersDesc, prometheus.GaugeValue, cnt, st)
	}

	// 3. Detections
	ch <- prometheus.MustNewConstMetric(detectionsDesc, prometheus.GaugeValue, float64(len(snap.Detections)))

	// 4. Escalation
	banner := 0.0
	if snap.Escalation.BannerActive {
		banner = 1.0
	}
	ch <- prometheus.MustNewConstMetric(bannerDesc, prometheus.GaugeValue, banner)
	ch <- prometheus.MustNewConstMetric(watermarkDesc, prometheus.GaugeValue, snap.Escalation.Watermark)
}

func (c *Collector) collectFetches(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	up := 1.0
	for _, feed := range client.Feeds {
		st, ok := c.fetches[feed]
		if !ok {
			up = 0
			continue
		}

		feedUp := 1.0
		if st.lastErr != nil {
			feedUp = 0
			up = 0
		}
		name := string(feed)
		ch <- prometheus.MustNewConstMetric(feedUpDesc, prometheus.GaugeValue, feedUp, name)
		ch <- prometheus.MustNewConstMetric(fetchDurationDesc, prometheus.GaugeValue, st.took.Seconds(), name)
		ch <- prometheus.MustNewConstMetric(fetchTotalDesc, prometheus.CounterValue, st.ok, name, "ok")
		ch <- prometheus.MustNewConstMetric(fetchTotalDesc, prometheus.CounterValue, st.failed, name, "error")
		ch <- prometheus.MustNewConstMetric(fetchTotalDesc, prometheus.CounterValue, st.malformed, name, "malformed")
	}
	ch <- prometheus.MustNewConstMetric(upDesc, prometheus.GaugeValue, up)

	for _, tr := range []escalation.Transition{escalation.Escalated, escalation.Retriggered, escalation.Cleared} {
		ch <- prometheus.MustNewConstMetric(transitionsDesc, prometheus.CounterValue, c.transitions[tr], tr.String())
	}
}
