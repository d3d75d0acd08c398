// Package gateway performs the outbound calls to the sheet query source and
// the remote write-back endpoint.
package gateway

import (
	"context"
	"time"

	"lifeos-proxy/internal/domain"
)

// TableSource reads the rows of a named sheet.
type TableSource interface {
	FetchTable(ctx context.Context, sheet string) (*Snapshot, error)
}

// Snapshot is a table read from a source together with where it came from.
type Snapshot struct {
	Sheet     string
	Table     *domain.Table
	FetchedAt time.Time
	Cached    bool
}

// TableSourceFunc adapts a function to the TableSource interface.
type TableSourceFunc func(ctx context.Context, sheet string) (*Snapshot, error)

// FetchTable calls f(ctx, sheet).
func (f TableSourceFunc) FetchTable(ctx context.Context, sheet string) (*Snapshot, error) {
	return f(ctx, sheet)
}
