// Package classify maps raw feed values to presentation categories.
// Every function is total: unrecognised input falls back to a fixed default.
package classify

import (
	"fmt"
	"math"
	"time"

	"drishti-cli/pkg/models"
)

// Bucket is a colour class understood by every renderer.
type Bucket string

const (
	BucketNone    Bucket = ""
	BucketSuccess Bucket = "success"
	BucketInfo    Bucket = "info"
	BucketWarning Bucket = "warning"
	BucketDanger  Bucket = "danger"
)

// Style pairs a colour bucket with an icon.
type Style struct {
	Bucket Bucket `json:"bucket" yaml:"bucket"`
	Icon   string `json:"icon" yaml:"icon"`
}

// Heart-rate band considered normal, in BPM (inclusive).
const (
	HeartRateMin = 70
	HeartRateMax = 90
)

// Severity returns the style for an alert severity. Unknown values render as LOW.
func Severity(sev models.Severity) Style {
	switch sev {
	case models.SeverityHigh:
		return Style{Bucket: BucketDanger, Icon: "🚨"}
	case models.SeverityMedium:
		return Style{Bucket: BucketWarning, Icon: "⚠️"}
	default:
		return Style{Bucket: BucketInfo, Icon: "ℹ️"}
	}
}

// Status returns the style for a soldier status.
func Status(st models.Status) Style {
	switch st {
	case models.StatusOK:
		return Style{Bucket: BucketSuccess, Icon: "✅"}
	case models.StatusAtRisk:
		return Style{Bucket: BucketWarning, Icon: "⚠️"}
	case models.StatusCritical:
		return Style{Bucket: BucketDanger, Icon: "🚨"}
	default:
		return Style{Bucket: BucketNone, Icon: "❓"}
	}
}

// TypeIcon returns the icon for an alert type.
func TypeIcon(t models.AlertType) string {
	switch t {
	case models.AlertThreatDetection:
		return "🎯"
	case models.AlertSoldierEmergency, models.AlertSoldierWarning:
		return "👤"
	default:
		return "📢"
	}
}

// HeartRateAnomalous reports whether bpm lies outside the normal band.
func HeartRateAnomalous(bpm int) bool {
	return bpm < HeartRateMin || bpm > HeartRateMax
}

// HeartRate returns the colour bucket for a heart-rate reading.
func HeartRate(bpm int) Bucket {
	if HeartRateAnomalous(bpm) {
		return BucketDanger
	}
	return BucketSuccess
}

// Rect is a display rectangle in pixel space.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Project turns an [x1,y1,x2,y2] box into a rectangle.
// Inverted boxes get zero width/height; missing coordinates read as zero.
func Project(bbox []float64) Rect {
	var c [4]float64
	copy(c[:], bbox)

	return Rect{
		Left:   c[0],
		Top:    c[1],
		Width:  math.Max(0, c[2]-c[0]),
		Height: math.Max(0, c[3]-c[1]),
	}
}

// Point is a position on the tactical map in percent of its width and height.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// MapColumns is the number of marker columns on the tactical map.
const MapColumns = 3

// MapMarker places the index-th soldier on the tactical map grid. Markers
// fill MapColumns columns left to right, 30% apart, starting at 15%.
func MapMarker(index int) Point {
	if index < 0 {
		index = 0
	}
	return Point{
		X: float64(index%MapColumns)*30 + 15,
		Y: float64(index/MapColumns)*30 + 15,
	}
}

// ConfidencePercent rounds a 0..1 confidence to a whole percentage.
func ConfidencePercent(c float64) int {
	return int(math.Round(c * 100))
}

// FormatGPS renders a position with four decimals.
func FormatGPS(g models.GPS) string {
	return fmt.Sprintf("%.4f, %.4f", g.Lat, g.Lon)
}

// RelativeTime formats a past unix-seconds timestamp relative to now.
// Timestamps in the future read as "0s ago".
func RelativeTime(ts float64, now time.Time) string {
	diffMs := now.UnixMilli() - int64(math.Floor(ts*1000))
	if diffMs < 0 {
		diffMs = 0
	}

	mins := diffMs / 60000
	secs := (diffMs % 60000) / 1000

	if mins > 0 {
		return fmt.Sprintf("%dm %ds ago", mins, secs)
	}
	return fmt.Sprintf("%ds ago", secs)
}
