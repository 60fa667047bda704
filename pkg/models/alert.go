package models

import (
	json "github.com/goccy/go-json"
)

// Severity is the backend-assigned alert level.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// AlertType selects the shape of Alert.Meta.
type AlertType string

const (
	AlertThreatDetection  AlertType = "threat_detection"
	AlertSoldierEmergency AlertType = "soldier_emergency"
	AlertSoldierWarning   AlertType = "soldier_warning"
	AlertOther            AlertType = "other"
)

// AlertListResponse wraps GET /api/alerts.
// Alerts is a pointer so a missing key can be told apart from an empty list.
type AlertListResponse struct {
	Alerts    *[]Alert `json:"alerts" yaml:"alerts"`
	Timestamp float64  `json:"timestamp" yaml:"timestamp"`
}

// Alert is a single entry of the backend's alert window (newest first).
type Alert struct {
	Severity  Severity  `json:"severity" yaml:"severity"`
	Type      AlertType `json:"type" yaml:"type"`
	Message   string    `json:"message" yaml:"message"`
	Timestamp float64   `json:"timestamp" yaml:"timestamp"` // unix seconds, may be fractional
	Meta      Meta      `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// Meta is the type-dependent payload attached to an alert.
// Concrete values are ThreatMeta, SoldierMeta or OtherMeta.
type Meta interface {
	isMeta()
}

// ThreatMeta accompanies threat_detection alerts.
type ThreatMeta struct {
	Label      string    `json:"label" yaml:"label"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
	BBox       []float64 `json:"bbox,omitempty" yaml:"bbox,omitempty"`
}

func (ThreatMeta) isMeta() {}

// SoldierMeta accompanies soldier_emergency and soldier_warning alerts.
type SoldierMeta struct {
	SoldierID   string `json:"soldier_id" yaml:"soldier_id"`
	SoldierName string `json:"soldier_name" yaml:"soldier_name"`
	HeartRate   int    `json:"heart_rate" yaml:"heart_rate"`
	GPS         *GPS   `json:"gps,omitempty" yaml:"gps,omitempty"`
}

func (SoldierMeta) isMeta() {}

// OtherMeta keeps the payload of alert types this client does not know about.
type OtherMeta struct {
	Raw json.RawMessage
}

func (OtherMeta) isMeta() {}

// MarshalJSON writes the payload back unchanged.
func (m OtherMeta) MarshalJSON() ([]byte, error) {
	if len(m.Raw) == 0 {
		return []byte("null"), nil
	}
	return m.Raw, nil
}

// MarshalYAML renders the payload as plain YAML values.
func (m OtherMeta) MarshalYAML() (any, error) {
	if len(m.Raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(m.Raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalJSON decodes the meta field according to the alert type.
func (a *Alert) UnmarshalJSON(data []byte) error {
	var raw struct {
		Severity  Severity        `json:"severity"`
		Type      AlertType       `json:"type"`
		Message   string          `json:"message"`
		Timestamp float64         `json:"timestamp"`
		Meta      json.RawMessage `json:"meta"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Alert{
		Severity:  raw.Severity,
		Type:      raw.Type,
		Message:   raw.Message,
		Timestamp: raw.Timestamp,
	}

	if len(raw.Meta) == 0 || string(raw.Meta) == "null" {
		return nil
	}

	a.Meta = decodeMeta(a.Type, raw.Meta)
	return nil
}

// decodeMeta picks the meta variant for t. A payload that does not fit the
// variant is kept as OtherMeta so one odd alert cannot spoil the window.
func decodeMeta(t AlertType, raw json.RawMessage) Meta {
	switch t {
	case AlertThreatDetection:
		var m ThreatMeta
		if err := json.Unmarshal(raw, &m); err == nil {
			return m
		}
	case AlertSoldierEmergency, AlertSoldierWarning:
		var m SoldierMeta
		if err := json.Unmarshal(raw, &m); err == nil {
			return m
		}
	}
	return OtherMeta{Raw: append(json.RawMessage(nil), raw...)}
}

// Threat returns the threat payload, if any.
func (a Alert) Threat() (ThreatMeta, bool) {
	m, ok := a.Meta.(ThreatMeta)
	return m, ok
}

// Soldier returns the soldier payload, if any.
func (a Alert) Soldier() (SoldierMeta, bool) {
	m, ok := a.Meta.(SoldierMeta)
	return m, ok
}
