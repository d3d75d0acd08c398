package api

import (
	"lifeos-proxy/internal/domain"
	"lifeos-proxy/internal/services"
)

// Payload text of the informational response.
const (
	PingMessage = "🌿 LifeOS Proxy Active"
	PingUsage   = "Visit /tasks for today’s tasks or /update?action=... to update"
)

// TasksResponse is the body of a successful /tasks call.
type TasksResponse struct {
	Status string              `json:"status"`
	Tasks  []domain.TaskRecord `json:"tasks"`
	Debug  *services.DebugInfo `json:"debug,omitempty"`
}

// StatsResponse is the body of a successful /stats call.
type StatsResponse struct {
	Status string               `json:"status"`
	Stats  []domain.StatsRecord `json:"stats"`
}

// StatusErrorResponse reports a failure as {status:"error", message}.
type StatusErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ErrorResponse reports a failure as {error}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// PingResponse is returned for any unrouted request.
type PingResponse struct {
	Message string `json:"message"`
	Usage   string `json:"usage"`
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
