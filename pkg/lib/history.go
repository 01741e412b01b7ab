package lib

import (
	"context"
	"fmt"

	"github.com/blendrun/blendrun/internal/app/historylist"
	"github.com/blendrun/blendrun/internal/app/historyremove"
	"github.com/blendrun/blendrun/internal/app/historyshow"
)

// History lists journaled runs, newest first.
//
// Pass nil opts to list all runs.
func (c *Client) History(ctx context.Context, opts *HistoryOpts) ([]Run, error) {
	svc, err := historylist.NewService(historylist.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	limit := 0
	if opts != nil {
		limit = opts.Limit
	}

	runs, err := svc.Run(ctx, historylist.Request{Limit: limit})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalRunList(runs), nil
}

// GetRun retrieves a journaled run by ID.
//
// Returns [ErrNotFound] if the run does not exist, or [ErrNotValid] if the
// ID is empty.
func (c *Client) GetRun(ctx context.Context, id string) (*Run, error) {
	svc, err := historyshow.NewService(historyshow.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	run, err := svc.Run(ctx, historyshow.Request{ID: id})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalRun(*run)
	return &result, nil
}

// RemoveRun deletes a journaled run by ID and returns the deleted record.
//
// Returns [ErrNotFound] if the run does not exist, or [ErrNotValid] if the
// ID is empty.
func (c *Client) RemoveRun(ctx context.Context, id string) (*Run, error) {
	svc, err := historyremove.NewService(historyremove.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	run, err := svc.Run(ctx, historyremove.Request{ID: id})
	if err != nil {
		return nil, mapError(err)
	}

	result := fromInternalRun(*run)
	return &result, nil
}
