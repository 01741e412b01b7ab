package historyshow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage"
)

// ServiceConfig is the configuration for the history show service.
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

// Service retrieves one journaled run.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new history show service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history show request parameters.
type Request struct {
	// ID is the run ID to retrieve.
	ID string
}

// Run retrieves a single run by ID.
func (s *Service) Run(ctx context.Context, req Request) (*model.Run, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, fmt.Errorf("run ID is required: %w", model.ErrNotValid)
	}

	s.logger.Debugf("getting run: %s", req.ID)

	run, err := s.repo.GetRun(ctx, req.ID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, fmt.Errorf("run not found: %s: %w", req.ID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not get run: %w", err)
	}

	return run, nil
}
