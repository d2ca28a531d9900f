package http

import "time"

// ErrorResponse is the standardized error payload for all endpoints.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusResponse is the /status payload.
type StatusResponse struct {
	OK   bool      `json:"ok"`
	Time time.Time `json:"time"`
}

// ReloadResponse is the admin reload payload.
type ReloadResponse struct {
	Status    string    `json:"status"` // "ok" or "rejected"
	RuleCount int       `json:"rule_count,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	RuleCount int               `json:"rule_count"`
	UptimeSec float64           `json:"uptime_sec"`
}

// DecisionResponse acknowledges a logged decision.
type DecisionResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// DecisionRequest is the /log-decision request body.
type DecisionRequest struct {
	Crop    string   `json:"crop"`
	Region  string   `json:"region"`
	FSRI    float64  `json:"fsri"`
	Drivers []string `json:"drivers"`
	Action  string   `json:"action"`
	Notes   string   `json:"notes"`
}

// ExportResponse is the /export payload.
type ExportResponse struct {
	CSVData     string    `json:"csv_data"`
	Rows        int       `json:"rows"`
	GeneratedAt time.Time `json:"generated_at"`
}
