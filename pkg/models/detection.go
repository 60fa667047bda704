package models

// DetectionListResponse represents the outer wrapper of GET /api/detections
type DetectionListResponse struct {
	Detections *[]Detection `json:"detections" yaml:"detections"`
	Timestamp  float64      `json:"timestamp" yaml:"timestamp"`
}

// Detection is one object found in the current video frame.
// Detections carry no identity across polls.
type Detection struct {
	BBox       []float64 `json:"bbox" yaml:"bbox"` // [x1, y1, x2, y2] in pixels
	Label      string    `json:"label" yaml:"label"`
	Confidence float64   `json:"confidence" yaml:"confidence"` // 0..1
	Timestamp  float64   `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}
