package models

// Status is the backend-reported condition of a soldier.
type Status string

const (
	StatusOK       Status = "OK"
	StatusAtRisk   Status = "AT_RISK"
	StatusCritical Status = "CRITICAL"
)

// SoldierListResponse wraps GET /api/soldiers
type SoldierListResponse struct {
	Soldiers  *[]PersonnelRecord `json:"soldiers" yaml:"soldiers"`
	Timestamp float64            `json:"timestamp" yaml:"timestamp"`
}

// PersonnelRecord is the latest vitals and position for one soldier.
type PersonnelRecord struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Status     Status  `json:"status" yaml:"status"`
	HeartRate  int     `json:"heart_rate" yaml:"heart_rate"` // BPM
	GPS        GPS     `json:"gps" yaml:"gps"`
	LastUpdate float64 `json:"last_update" yaml:"last_update"` // unix seconds
}

// GPS is a WGS84 position.
type GPS struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lon float64 `json:"lon" yaml:"lon"`
}

// SimulatePayload is the body for POST /api/soldiers/simulate
type SimulatePayload struct {
	ID string `json:"id" yaml:"id"`
}

// SimulateResponse is returned by a successful simulation request.
type SimulateResponse struct {
	Message string `json:"message" yaml:"message"`
	Success bool   `json:"success" yaml:"success"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string            `json:"status" yaml:"status"`
	Timestamp float64           `json:"timestamp" yaml:"timestamp"`
	Services  map[string]string `json:"services" yaml:"services"`
}
