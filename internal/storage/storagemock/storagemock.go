// Package storagemock contains testify mocks for the storage package
// interfaces.
package storagemock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage"
)

// MockRepository is a mock implementation of storage.Repository.
type MockRepository struct {
	mock.Mock
}

var _ storage.Repository = (*MockRepository)(nil)

// CreateRun mocks storage.Repository.CreateRun.
func (m *MockRepository) CreateRun(ctx context.Context, run model.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

// GetRun mocks storage.Repository.GetRun.
func (m *MockRepository) GetRun(ctx context.Context, id string) (*model.Run, error) {
	args := m.Called(ctx, id)
	run, _ := args.Get(0).(*model.Run)
	return run, args.Error(1)
}

// ListRuns mocks storage.Repository.ListRuns.
func (m *MockRepository) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	args := m.Called(ctx, limit)
	runs, _ := args.Get(0).([]model.Run)
	return runs, args.Error(1)
}

// DeleteRun mocks storage.Repository.DeleteRun.
func (m *MockRepository) DeleteRun(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
