package cli

import (
	"context"

	"lifeos-proxy/internal/domain"
	"lifeos-proxy/internal/gateway"
	"lifeos-proxy/internal/services"

	"github.com/stretchr/testify/mock"
)

// mockTaskService implements services.TaskService for testing
type mockTaskService struct {
	mock.Mock
}

func (m *mockTaskService) ListTasks(ctx context.Context, query services.TaskQuery) (*services.TaskListing, error) {
	args := m.Called(ctx, query)
	if l := args.Get(0); l != nil {
		return l.(*services.TaskListing), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) ListStats(ctx context.Context) ([]domain.StatsRecord, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.([]domain.StatsRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTaskService) UpdateStatus(ctx context.Context, taskKey, status string) (*gateway.RelayedResponse, error) {
	args := m.Called(ctx, taskKey, status)
	if r := args.Get(0); r != nil {
		return r.(*gateway.RelayedResponse), args.Error(1)
	}
	return nil, args.Error(1)
}
