package storage

import (
	"context"

	"github.com/blendrun/blendrun/internal/model"
)

// Repository is the interface for run journal persistence.
type Repository interface {
	CreateRun(ctx context.Context, run model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	// ListRuns returns runs newest first. A non-positive limit returns all.
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	DeleteRun(ctx context.Context, id string) error
}
