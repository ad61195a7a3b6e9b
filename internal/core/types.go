package core

import "time"

// RequestStats holds aggregated request statistics for monitoring.
type RequestStats struct {
	TotalRequests      int64           `json:"total_requests"`
	SuccessfulRequests int64           `json:"successful_requests"`
	FailedRequests     int64           `json:"failed_requests"`
	TotalResponseTime  int64           `json:"total_response_time"`
	LastRequestTime    time.Time       `json:"last_request_time"`
	RequestHistory     []RequestRecord `json:"request_history"`
}

// RequestRecord represents a single request's metadata for history tracking.
type RequestRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	ResponseTime int64     `json:"response_time"`
	Model        string    `json:"model"`
}

// ValidationResult is the outcome of an upstream credential probe.
type ValidationResult struct {
	Valid  bool
	Reason string
}

// Validation reason strings. "invalid credential" and "upstream unreachable"
// are distinct failure classes and must never be conflated.
const (
	ReasonMissingCredential   = "missing credential"
	ReasonInvalidCredential   = "invalid credential"
	ReasonUpstreamUnreachable = "upstream unreachable"
)
