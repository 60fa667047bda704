// Package view folds the feed snapshots and escalation state into what the
// renderers draw. It does no I/O.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"drishti-cli/internal/classify"
	"drishti-cli/internal/escalation"
	"drishti-cli/internal/notify"
	"drishti-cli/pkg/models"
)

// Filter selects which alert severities are listed.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterHigh   Filter = "high"
	FilterMedium Filter = "medium"
	FilterLow    Filter = "low"
)

// Filters lists the accepted filter values.
var Filters = []Filter{FilterAll, FilterHigh, FilterMedium, FilterLow}

// ParseFilter accepts all, high, medium or low in any case. Empty means all.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FilterAll, nil
	}
	if !lo.Contains(Filters, f) {
		return FilterAll, fmt.Errorf("invalid filter %q: must be one of all, high, medium, low", s)
	}
	return f, nil
}

// Match reports whether an alert of severity sev passes the filter.
// Anything other than a known filter passes everything.
func (f Filter) Match(sev models.Severity) bool {
	switch f {
	case FilterHigh:
		return sev == models.SeverityHigh
	case FilterMedium:
		return sev == models.SeverityMedium
	case FilterLow:
		return sev == models.SeverityLow
	default:
		return true
	}
}

type Input struct {
	Detections []models.Detection
	Soldiers   []models.PersonnelRecord
	Alerts     []models.Alert
	Filter     Filter
	Banner     notify.BannerState
	Escalation escalation.State
}

type Overlay struct {
	Rect       classify.Rect `json:"rect" yaml:"rect"`
	Label      string        `json:"label" yaml:"label"`
	Confidence int           `json:"confidence_pct" yaml:"confidence_pct"`
	Caption    string        `json:"caption" yaml:"caption"`
}

type AlertRow struct {
	Alert    models.Alert   `json:"alert" yaml:"alert"`
	Style    classify.Style `json:"style" yaml:"style"`
	TypeIcon string         `json:"type_icon" yaml:"type_icon"`
	Age      string         `json:"age" yaml:"age"`
}

type SoldierRow struct {
	Soldier          models.PersonnelRecord `json:"soldier" yaml:"soldier"`
	Style            classify.Style         `json:"style" yaml:"style"`
	HeartRate        classify.Bucket        `json:"heart_rate_bucket" yaml:"heart_rate_bucket"`
	HeartRateAnomaly bool                   `json:"heart_rate_anomalous" yaml:"heart_rate_anomalous"`
	Position         string                 `json:"position" yaml:"position"`
	Marker           classify.Point         `json:"map_marker" yaml:"map_marker"`
	LastSeen         string                 `json:"last_seen" yaml:"last_seen"`
}

// View is one consistent frame of the dashboard.
type View struct {
	Filter       Filter                  `json:"filter" yaml:"filter"`
	Alerts       []AlertRow              `json:"alerts" yaml:"alerts"`
	AlertCounts  map[models.Severity]int `json:"alert_counts" yaml:"alert_counts"`
	Overlays     []Overlay               `json:"overlays" yaml:"overlays"`
	Soldiers     []SoldierRow            `json:"soldiers" yaml:"soldiers"`
	StatusCounts map[models.Status]int   `json:"status_counts" yaml:"status_counts"`
	Banner       notify.BannerState      `json:"banner" yaml:"banner"`
	Escalation   escalation.State        `json:"escalation" yaml:"escalation"`
	GeneratedAt  time.Time               `json:"generated_at" yaml:"generated_at"`
}

// Build derives a View. Counts are taken over the unfiltered alert list;
// only the listed rows honour the filter.
func Build(in Input, now time.Time) View {
	filter := in.Filter
	if !lo.Contains(Filters, filter) {
		filter = FilterAll
	}

	alerts := lo.Filter(in.Alerts, func(a models.Alert, _ int) bool {
		return filter.Match(a.Severity)
	})

	return View{
		Filter: filter,
		Alerts: lo.Map(alerts, func(a models.Alert, _ int) AlertRow {
			return AlertRow{
				Alert:    a,
				Style:    classify.Severity(a.Severity),
				TypeIcon: classify.TypeIcon(a.Type),
				Age:      classify.RelativeTime(a.Timestamp, now),
			}
		}),
		AlertCounts: severityCounts(in.Alerts),
		Overlays:    lo.Map(in.Detections, func(d models.Detection, _ int) Overlay { return overlay(d) }),
		Soldiers: lo.Map(in.Soldiers, func(s models.PersonnelRecord, i int) SoldierRow {
			return SoldierRow{
				Soldier:          s,
				Style:            classify.Status(s.Status),
				HeartRate:        classify.HeartRate(s.HeartRate),
				HeartRateAnomaly: classify.HeartRateAnomalous(s.HeartRate),
				Position:         classify.FormatGPS(s.GPS),
				Marker:           classify.MapMarker(i),
				LastSeen:         classify.RelativeTime(s.LastUpdate, now),
			}
		}),
		StatusCounts: statusCounts(in.Soldiers),
		Banner:       in.Banner,
		Escalation:   in.Escalation,
		GeneratedAt:  now,
	}
}

// severityCounts always carries the three known severities, even at zero.
func severityCounts(alerts []models.Alert) map[models.Severity]int {
	counts := lo.CountValuesBy(alerts, func(a models.Alert) models.Severity { return a.Severity })
	for _, sev := range []models.Severity{models.SeverityHigh, models.SeverityMedium, models.SeverityLow} {
		if _, ok := counts[sev]; !ok {
			counts[sev] = 0
		}
	}
	return counts
}

func statusCounts(soldiers []models.PersonnelRecord) map[models.Status]int {
	counts := lo.CountValuesBy(soldiers, func(s models.PersonnelRecord) models.Status { return s.Status })
	for _, st := range []models.Status{models.StatusOK, models.StatusAtRisk, models.StatusCritical} {
		if _, ok := counts[st]; !ok {
			counts[st] = 0
		}
	}
	return counts
}

func overlay(d models.Detection) Overlay {
	pct := classify.ConfidencePercent(d.Confidence)
	return Overlay{
		Rect:       classify.Project(d.BBox),
		Label:      d.Label,
		Confidence: pct,
		Caption:    fmt.Sprintf("%s (%d%%)", d.Label, pct),
	}
}
