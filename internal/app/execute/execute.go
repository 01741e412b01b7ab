package execute

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/blendrun/blendrun/internal/blender"
	"github.com/blendrun/blendrun/internal/conventions"
	"github.com/blendrun/blendrun/internal/log"
	"github.com/blendrun/blendrun/internal/model"
	"github.com/blendrun/blendrun/internal/storage"
)

// ServiceConfig is the configuration for the execute service.
type ServiceConfig struct {
	Engine     blender.Engine
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Engine == nil {
		return fmt.Errorf("engine is required")
	}

	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Execute"})

	return nil
}

// Service executes scripts through the Blender engine and journals every
// outcome.
type Service struct {
	engine blender.Engine
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new execute service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		engine: cfg.Engine,
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the execute request parameters.
type Request struct {
	// Config selects the binary, invocation mode, default timeout and temp
	// root for the run.
	Config model.ExecutorConfig
	// Script is the Python source to run.
	Script string
	// Name is the logical script name used for staging and the journal.
	Name string
	// Timeout overrides the configured default when positive.
	Timeout time.Duration
	// BlendFile is an optional scene file opened before the script runs.
	BlendFile string
	// Env contains extra environment variables for this run only.
	Env map[string]string
}

// Response is the result of an execution: the classified outcome plus the
// journal entry recorded for it.
type Response struct {
	Outcome model.ExecutionOutcome
	Run     model.Run
}

// Run executes the script inside Blender and records the outcome in the run
// journal. Script failures, timeouts and unparseable output come back as
// outcomes inside the response; only engine-level failures are errors. A
// journal write failure is logged and never fails the execution.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = conventions.DefaultScriptName
	}

	s.logger.Debugf("executing script %q", name)

	// 1. Run the script through the engine.
	outcome, err := s.engine.Execute(ctx, req.Config, model.ExecutionRequest{
		Script:    req.Script,
		Name:      name,
		Timeout:   req.Timeout,
		BlendFile: req.BlendFile,
		Env:       req.Env,
	})
	if err != nil {
		return nil, fmt.Errorf("could not execute script: %w", err)
	}

	// 2. Record the outcome. The run already happened, losing the journal
	// entry is not a reason to report it as failed.
	run := newRun(name, *outcome)
	if err := s.repo.CreateRun(ctx, run); err != nil {
		s.logger.Warningf("Could not journal run %s: %v", run.ID, err)
	}

	return &Response{Outcome: *outcome, Run: run}, nil
}

// newRun builds the journal entry for a finished execution.
func newRun(name string, outcome model.ExecutionOutcome) model.Run {
	payload := ""
	if outcome.Payload != nil {
		if data, err := json.Marshal(outcome.Payload); err == nil {
			payload = string(data)
		}
	}

	return model.Run{
		ID:        ulid.MustNew(ulid.Timestamp(time.Now().UTC()), rand.Reader).String(),
		Name:      name,
		Binary:    outcome.Binary,
		Mode:      outcome.Mode,
		Status:    outcome.Status,
		Message:   outcome.Message,
		ExitCode:  outcome.Raw.ExitCode,
		TimedOut:  outcome.Raw.TimedOut,
		Duration:  outcome.Raw.Elapsed,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}
