package services

import (
	"context"
	"time"

	"lifeos-proxy/internal/domain"
	"lifeos-proxy/internal/gateway"
)

// TableReader reads the rows of a named sheet
type TableReader interface {
	FetchTable(ctx context.Context, sheet string) (*gateway.Snapshot, error)
}

// UpdateForwarder relays a status update to the write-back endpoint
type UpdateForwarder interface {
	Forward(ctx context.Context, update gateway.UpdateRequest) (*gateway.RelayedResponse, error)
}

// TaskQuery selects which day's tasks are listed
type TaskQuery struct {
	Tomorrow bool
}

// DebugInfo describes how a task listing was produced
type DebugInfo struct {
	TargetDay   string    `json:"targetDay"`
	Timezone    string    `json:"timezone"`
	Sheet       string    `json:"sheet"`
	TotalRows   int       `json:"totalRows"`
	ParsedRows  int       `json:"parsedRows"`
	MatchedRows int       `json:"matchedRows"`
	Cached      bool      `json:"cached"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

// TaskListing is the ordered set of tasks for one day
type TaskListing struct {
	Tasks []domain.TaskRecord
	Debug DebugInfo
}

// TaskService runs the read pipelines and forwards status updates
type TaskService interface {
	ListTasks(ctx context.Context, query TaskQuery) (*TaskListing, error)
	ListStats(ctx context.Context) ([]domain.StatsRecord, error)
	UpdateStatus(ctx context.Context, taskKey, status string) (*gateway.RelayedResponse, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TaskService TaskService
}
