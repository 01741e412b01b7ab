package historylist

import (
	"context"
	"fmt"

	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage"
)

// ServiceConfig is the configuration for the history list service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists journaled runs.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new history list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history list request parameters.
type Request struct {
	// Limit caps the number of runs returned, newest first. Non-positive
	// returns all of them.
	Limit int
}

// Run lists journaled runs, newest first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.Run, error) {
	s.logger.Debugf("listing runs (limit %d)", req.Limit)

	runs, err := s.repo.ListRuns(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("could not list runs: %w", err)
	}

	s.logger.Debugf("found %d runs", len(runs))
	return runs, nil
}
