package domain

import "time"

// Health status values.
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusDegraded = "degraded"
	HealthStatusUnknown  = "unknown"
)

// HealthReport describes the last probe of the consultation API.
// swagger:model HealthReport
type HealthReport struct {
	Status      string    `json:"status"`
	Upstream    string    `json:"upstream"`
	LastChecked time.Time `json:"last_checked"`
	LastError   string    `json:"last_error,omitempty"`
	Uptime      string    `json:"uptime"`
}

// HealthService probes the consultation API in the background.
type HealthService interface {
	Start() error
	Stop()
	Report() HealthReport
}
