// Package blendermock contains testify mocks for the blender package
// interfaces.
package blendermock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/blendrun/blendrun/internal/blender"
	"github.com/blendrun/blendrun/internal/model"
)

// MockEngine is a mock implementation of blender.Engine.
type MockEngine struct {
	mock.Mock
}

var _ blender.Engine = (*MockEngine)(nil)

// Execute mocks blender.Engine.Execute.
func (m *MockEngine) Execute(ctx context.Context, cfg model.ExecutorConfig, req model.ExecutionRequest) (*model.ExecutionOutcome, error) {
	args := m.Called(ctx, cfg, req)
	outcome, _ := args.Get(0).(*model.ExecutionOutcome)
	return outcome, args.Error(1)
}

// Locate mocks blender.Engine.Locate.
func (m *MockEngine) Locate(ctx context.Context, cfg model.ExecutorConfig) (*model.Executable, error) {
	args := m.Called(ctx, cfg)
	exe, _ := args.Get(0).(*model.Executable)
	return exe, args.Error(1)
}

// Check mocks blender.Engine.Check.
func (m *MockEngine) Check(ctx context.Context, cfg model.ExecutorConfig) []model.CheckResult {
	args := m.Called(ctx, cfg)
	results, _ := args.Get(0).([]model.CheckResult)
	return results
}
