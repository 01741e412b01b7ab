package lib

import (
	"context"
	"fmt"

	"github.com/blendrun/blendrun/internal/app/execute"
	"github.com/blendrun/blendrun/internal/utils/env"
)

// Run executes a Python script inside Blender and returns the classified
// outcome.
//
// The script must be non-empty. Use opts to set a name, a per-run timeout,
// a .blend scene file, or extra environment variables. Pass nil opts for
// defaults.
//
// Script failures, timeouts and unparseable output are outcomes, not errors:
// inspect [Outcome.Status]. An error means the run itself could not happen
// (no usable executable, staging or spawn failure, context cancellation).
// Every finished run is recorded in the journal, see [Client.History].
//
// Returns [ErrNotFound] if no Blender executable can be discovered, or
// [ErrNotValid] if the script is empty or the configuration is invalid.
func (c *Client) Run(ctx context.Context, script string, opts *RunOpts) (*Outcome, error) {
	if opts == nil {
		opts = &RunOpts{}
	}

	svc, err := execute.NewService(execute.ServiceConfig{
		Engine:     c.engine,
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	res, err := svc.Run(ctx, execute.Request{
		Config:    c.executor,
		Script:    script,
		Name:      opts.Name,
		Timeout:   opts.Timeout,
		BlendFile: opts.BlendFile,
		Env:       env.MergeMaps(c.env, opts.Env),
	})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalOutcome(res.Outcome, res.Run.ID)
	return &result, nil
}
