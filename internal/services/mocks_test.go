package services

import (
	"context"

	"lifeos-proxy/internal/gateway"

	"github.com/stretchr/testify/mock"
)

type mockTableReader struct {
	mock.Mock
}

func (m *mockTableReader) FetchTable(ctx context.Context, sheet string) (*gateway.Snapshot, error) {
	args := m.Called(ctx, sheet)
	if snap := args.Get(0); snap != nil {
		return snap.(*gateway.Snapshot), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockForwarder struct {
	mock.Mock
}

func (m *mockForwarder) Forward(ctx context.Context, update gateway.UpdateRequest) (*gateway.RelayedResponse, error) {
	args := m.Called(ctx, update)
	if resp := args.Get(0); resp != nil {
		return resp.(*gateway.RelayedResponse), args.Error(1)
	}
	return nil, args.Error(1)
}
