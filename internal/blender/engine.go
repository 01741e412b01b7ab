// Package blender runs generated Python scripts inside a Blender child
// process. It handles executable discovery and validation, session caching,
// per-run temp staging, wall-clock timeouts with process-group termination,
// and classification of the marker protocol scripts print on stdout.
package blender

import (
	"context"

	"github.com/blendrun/blendrun/internal/model"
)

// Engine is the interface for script execution inside Blender.
type Engine interface {
	// Execute runs one script and classifies its result. Script failures,
	// timeouts and unparseable output are outcomes; only engine-level
	// failures (no usable executable, staging, spawn, cancellation) are
	// returned as errors.
	Execute(ctx context.Context, cfg model.ExecutorConfig, req model.ExecutionRequest) (*model.ExecutionOutcome, error)
	// Locate resolves and validates the Blender executable without running
	// any script.
	Locate(ctx context.Context, cfg model.ExecutorConfig) (*model.Executable, error)
	// Check runs preflight checks for the given executor configuration.
	Check(ctx context.Context, cfg model.ExecutorConfig) []model.CheckResult
}
